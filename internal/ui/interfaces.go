package ui

import "context"

// UserInterface defines the contract for all user interactions.
// It follows a Read/Write pattern for clarity.
//
// Context Usage:
// ReadInput accepts context.Context for cancellation support.
// If the user quits, the context will be cancelled,
// and implementations should return immediately with context.Canceled error.
type UserInterface interface {
	// ReadInput prompts the user for general text input
	ReadInput(ctx context.Context, prompt string) (string, error)

	// WriteStatus displays ephemeral status updates (e.g., "Thinking...")
	WriteStatus(phase string, message string)

	// WriteMessage displays the assistant's replies
	WriteMessage(content string)

	// WriteNotice displays informational text that is not part of the
	// conversation (command output, tool usage, errors)
	WriteNotice(content string)

	// Ready is closed once the UI can accept requests
	Ready() <-chan struct{}

	// Start runs the UI until the user quits
	Start() error

	// Stop asks a running UI to exit; Start then returns
	Stop()
}
