package views

import "github.com/charmbracelet/lipgloss"

// Theme holds the ANSI colors used across the views.
type Theme struct {
	Primary string
	User    string
	Notice  string
	Error   string
}

var (
	UserMessageStyle      lipgloss.Style
	AssistantMessageStyle lipgloss.Style
	NoticeStyle           lipgloss.Style
	InputStyle            lipgloss.Style

	StatusDefaultStyle   lipgloss.Style
	StatusThinkingStyle  lipgloss.Style
	StatusExecutingStyle lipgloss.Style
	StatusDoneStyle      lipgloss.Style
	StatusErrorStyle     lipgloss.Style
	ModelNameStyle       lipgloss.Style
)

func init() {
	ApplyTheme(Theme{Primary: "63", User: "86", Notice: "241", Error: "196"})
}

// ApplyTheme rebuilds the package styles. Empty colors keep the terminal
// default.
func ApplyTheme(t Theme) {
	UserMessageStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.User)).
		Bold(true)
	AssistantMessageStyle = lipgloss.NewStyle().
		PaddingLeft(1)
	NoticeStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Notice)).
		Italic(true)
	InputStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Primary)).
		Padding(0, 1)

	StatusDefaultStyle = lipgloss.NewStyle()
	StatusThinkingStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Primary))
	StatusExecutingStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Primary)).
		Bold(true)
	StatusDoneStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.User))
	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Error))
	ModelNameStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Notice))
}
