// Package session drives one interactive conversation: it reads user input,
// dispatches commands, and records each exchange in a bounded history.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Cyclone1070/mcpchat/internal/history"
	"github.com/Cyclone1070/mcpchat/internal/mcp"
	"github.com/Cyclone1070/mcpchat/internal/orchestrator"
	"github.com/Cyclone1070/mcpchat/internal/provider"
	"github.com/Cyclone1070/mcpchat/internal/ui"
)

const (
	// Prompt is passed to ReadInput for every question.
	Prompt = "You: "

	emptyInputNotice = "Please type a question about hotels, restaurants or attractions."
	clearedNotice    = "Conversation history cleared."
	goodbyeNotice    = "Goodbye! Closing the connection..."
	timeLayout       = "15:04:05"
)

// chatter answers one user message. *orchestrator.Orchestrator satisfies it.
type chatter interface {
	Chat(ctx context.Context, userMessage string, history []provider.Message) orchestrator.Result
}

// Session is the read-dispatch loop for one user.
type Session struct {
	ui     ui.UserInterface
	chat   chatter
	store  *history.Store
	tools  *mcp.Registry
	logger *slog.Logger
}

// New creates a Session. A nil logger discards.
func New(userInterface ui.UserInterface, chat chatter, store *history.Store, tools *mcp.Registry, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if store == nil {
		store = history.New(history.DefaultMaxMessages)
	}
	return &Session{
		ui:     userInterface,
		chat:   chat,
		store:  store,
		tools:  tools,
		logger: logger,
	}
}

// Run loops until the user exits, the context is cancelled or the UI stops
// delivering input. Leaving through /exit or cancellation returns nil.
func (s *Session) Run(ctx context.Context) error {
	s.ui.WriteNotice(welcomeText(s.tools))
	for {
		input, err := s.ui.ReadInput(ctx, Prompt)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		if !s.Handle(ctx, input) {
			return nil
		}
	}
}

// Handle processes one line of input. It returns false when the session
// should end.
func (s *Session) Handle(ctx context.Context, input string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		s.ui.WriteNotice(emptyInputNotice)
		return true
	}

	switch strings.ToLower(trimmed) {
	case "/exit", "/quit", "salir":
		s.ui.WriteNotice(goodbyeNotice)
		return false
	case "/history", "historial":
		s.ui.WriteNotice(renderHistory(s.store.Entries()))
		return true
	case "/clear", "limpiar":
		s.store.Clear()
		s.ui.WriteNotice(clearedNotice)
		return true
	case "/tools":
		s.ui.WriteNotice(renderTools(s.tools))
		return true
	case "/help":
		s.ui.WriteNotice(helpText)
		return true
	}

	s.ask(ctx, input)
	return true
}

func (s *Session) ask(ctx context.Context, input string) {
	result := s.chat.Chat(ctx, input, s.store.Messages())
	if result.Err != nil {
		s.logger.Warn("chat finished with error", "error", result.Err, "truncated", result.Truncated)
		if !errors.Is(result.Err, orchestrator.ErrToolChainTooDeep) {
			s.ui.WriteStatus("error", "Request failed")
		}
	}

	s.store.Append(history.Entry{Role: provider.RoleUser, Content: input})
	s.store.Append(history.Entry{
		Role:      provider.RoleAssistant,
		Content:   result.Message,
		ToolsUsed: result.ToolsUsed,
	})

	s.ui.WriteMessage(result.Message)
	if len(result.ToolsUsed) > 0 {
		s.ui.WriteNotice("Tools used: " + strings.Join(result.ToolsUsed, ", "))
	}
}

const helpText = `Commands:
  /history  show the conversation history (alias: historial)
  /clear    clear the conversation history (alias: limpiar)
  /tools    list the tools offered by the tool server
  /help     show this help
  /exit     end the conversation (alias: salir)`

func welcomeText(tools *mcp.Registry) string {
	n := 0
	if tools != nil {
		n = tools.Len()
	}
	return fmt.Sprintf("Connected to the tool server (%d tools). Ask about hotels, restaurants or attractions. Type /help for commands.", n)
}

func renderHistory(entries []history.Entry) string {
	if len(entries) == 0 {
		return "No previous conversation."
	}

	var sb strings.Builder
	sb.WriteString("=== Conversation history ===")
	for _, e := range entries {
		who := "Assistant"
		if e.Role == provider.RoleUser {
			who = "You"
		}
		fmt.Fprintf(&sb, "\n\n[%s] %s:\n%s", e.Timestamp.Format(timeLayout), who, e.Content)
		if len(e.ToolsUsed) > 0 {
			fmt.Fprintf(&sb, "\nTools used: %s", strings.Join(e.ToolsUsed, ", "))
		}
	}
	sb.WriteString("\n\n=== End of history ===")
	return sb.String()
}

func renderTools(tools *mcp.Registry) string {
	if tools == nil || tools.Len() == 0 {
		return "The tool server offers no tools."
	}

	var sb strings.Builder
	sb.WriteString("Available tools:")
	for _, d := range tools.Descriptors() {
		if d.Description == "" {
			fmt.Fprintf(&sb, "\n- %s", d.Name)
			continue
		}
		fmt.Fprintf(&sb, "\n- %s: %s", d.Name, d.Description)
	}
	return sb.String()
}
