package views

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/mcpchat/internal/ui/models"
	"github.com/charmbracelet/lipgloss"
)

// RenderStatus renders the status bar
func RenderStatus(s models.State) string {
	var icon string
	var style lipgloss.Style

	switch s.StatusPhase {
	case "executing":
		icon = s.Spinner.View()
		style = StatusExecutingStyle
	case "done":
		icon = "✔"
		style = StatusDoneStyle
	case "error":
		icon = "✘"
		style = StatusErrorStyle
	case "thinking":
		icon = s.Spinner.View()
		style = StatusThinkingStyle
		dots := strings.Repeat(".", s.DotCount)
		return withModel(style.Render(fmt.Sprintf("%s Generating%s", icon, dots)), s.CurrentModel)
	default:
		style = StatusDefaultStyle
	}

	status := "Ready"
	if s.StatusMessage != "" {
		status = fmt.Sprintf("%s %s", icon, s.StatusMessage)
	} else if s.StatusPhase != "ready" && s.StatusPhase != "" {
		status = icon
	}

	return withModel(style.Render(status), s.CurrentModel)
}

func withModel(left, model string) string {
	if model == "" {
		return left
	}
	return fmt.Sprintf("%s  %s", left, ModelNameStyle.Render(model))
}
