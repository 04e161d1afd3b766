package ui

import (
	"context"
	"time"

	"github.com/Cyclone1070/mcpchat/internal/config"
	"github.com/Cyclone1070/mcpchat/internal/ui/models"
	"github.com/Cyclone1070/mcpchat/internal/ui/services"
	"github.com/Cyclone1070/mcpchat/internal/ui/views"
	tea "github.com/charmbracelet/bubbletea"
)

// UI implements the UserInterface using Bubble Tea
type UI struct {
	program *tea.Program

	// Session -> UI channels
	inputReq    chan inputRequest
	inputResp   chan string
	statusChan  chan statusMsg
	messageChan chan chatLine

	// Ready signal
	readyChan chan struct{}
}

// Internal message types
type inputRequest struct {
	Prompt string
}

// chatLine is one transcript entry. Replies and notices share a channel so
// they appear in the order they were written.
type chatLine struct {
	role    string
	content string
}

type statusMsg struct {
	phase   string
	message string
}

// UIChannels holds the channels for UI communication plus the display
// settings the model needs at construction time
type UIChannels struct {
	InputReq    chan inputRequest
	InputResp   chan string
	StatusChan  chan statusMsg
	MessageChan chan chatLine
	ReadyChan   chan struct{} // Signals when UI is ready to accept requests

	TickInterval time.Duration
	Theme        views.Theme
	CurrentModel string
}

// NewUIChannels creates a new UIChannels struct with default buffers
func NewUIChannels(cfg *config.Config) *UIChannels {
	tick := time.Duration(cfg.UI.TickIntervalMs) * time.Millisecond
	if tick <= 0 {
		tick = 300 * time.Millisecond
	}
	return &UIChannels{
		InputReq:     make(chan inputRequest),
		InputResp:    make(chan string),
		StatusChan:   make(chan statusMsg, 10),
		MessageChan:  make(chan chatLine, 10),
		ReadyChan:    make(chan struct{}),
		TickInterval: tick,
		Theme: views.Theme{
			Primary: cfg.UI.ColorPrimary,
			User:    cfg.UI.ColorUser,
			Notice:  cfg.UI.ColorNotice,
			Error:   cfg.UI.ColorError,
		},
		CurrentModel: cfg.Provider.Model,
	}
}

// NewUI creates a new Bubble Tea UI
func NewUI(
	channels *UIChannels,
	renderer services.MarkdownRenderer,
	spinnerFactory SpinnerFactory,
) *UI {
	views.ApplyTheme(channels.Theme)

	ui := &UI{
		inputReq:    channels.InputReq,
		inputResp:   channels.InputResp,
		statusChan:  channels.StatusChan,
		messageChan: channels.MessageChan,
		readyChan:   channels.ReadyChan,
	}

	model := newBubbleTeaModel(channels, renderer, spinnerFactory)

	ui.program = tea.NewProgram(model, tea.WithAltScreen())

	return ui
}

// Start starts the UI program
func (u *UI) Start() error {
	_, err := u.program.Run()
	return err
}

// Stop quits the running program
func (u *UI) Stop() {
	u.program.Quit()
}

// ReadInput prompts the user for input
func (u *UI) ReadInput(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case u.inputReq <- inputRequest{Prompt: prompt}:
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case response := <-u.inputResp:
			return response, nil
		}
	}
}

// WriteStatus updates the status bar
func (u *UI) WriteStatus(phase string, message string) {
	select {
	case u.statusChan <- statusMsg{phase: phase, message: message}:
	default:
		// Drop if channel is full
	}
}

// WriteMessage sends an assistant message to the UI
func (u *UI) WriteMessage(content string) {
	select {
	case u.messageChan <- chatLine{role: models.RoleAssistant, content: content}:
	default:
		// Drop if channel is full
	}
}

// WriteNotice sends an informational line to the UI
func (u *UI) WriteNotice(content string) {
	select {
	case u.messageChan <- chatLine{role: models.RoleNotice, content: content}:
	default:
	}
}

// Ready returns a channel that is closed when the UI is ready to accept requests
func (u *UI) Ready() <-chan struct{} {
	return u.readyChan
}
