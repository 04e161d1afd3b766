package models

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
)

// Message roles shown in the chat pane.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleNotice    = "notice"
)

// Message is one entry in the chat pane.
type Message struct {
	Role    string
	Content string
}

// State holds everything the views need to render a frame.
type State struct {
	Width  int
	Height int

	Input    textinput.Model
	Viewport viewport.Model
	Spinner  spinner.Model

	Messages []Message

	StatusPhase   string
	StatusMessage string
	DotCount      int

	// CanSubmit is true while a ReadInput call is waiting
	CanSubmit bool

	CurrentModel string
}
