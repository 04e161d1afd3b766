package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Cyclone1070/mcpchat/internal/config"
	"github.com/Cyclone1070/mcpchat/internal/mcp"
	"github.com/Cyclone1070/mcpchat/internal/provider"
)

const (
	// FallbackMessage is returned when the model produced no text.
	FallbackMessage = "Sorry, I couldn't generate a response right now."

	apologyPrefix = "Sorry, there was an error processing your request: "
)

// toolInvoker executes a named tool. *mcp.Invoker satisfies it.
type toolInvoker interface {
	Invoke(ctx context.Context, name string, args map[string]any) (mcp.ToolResult, error)
}

// Result is the outcome of one Chat call.
type Result struct {
	Message   string
	ToolsUsed []string
	Truncated bool

	// Err is set when the turn failed upstream or was truncated. Message
	// still holds displayable text.
	Err error
}

// Orchestrator turns one user message plus recent history into a final
// assistant reply, resolving tool calls along the way.
type Orchestrator struct {
	provider provider.Provider
	registry *mcp.Registry
	invoker  toolInvoker

	model         string
	maxTokens     int
	systemPrompt  string
	historyWindow int
	maxToolDepth  int
	timeout       time.Duration

	logger *slog.Logger
	status StatusFunc
}

// New creates an Orchestrator. It refuses to start without a discovered
// tool registry.
func New(cfg *config.Config, p provider.Provider, reg *mcp.Registry, inv toolInvoker, opts ...Option) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.New("orchestrator: config is required")
	}
	if p == nil {
		return nil, errors.New("orchestrator: provider is required")
	}
	if reg == nil {
		return nil, fmt.Errorf("orchestrator: %w: no tool registry", mcp.ErrDiscoveryFailed)
	}
	if inv == nil {
		return nil, errors.New("orchestrator: tool invoker is required")
	}

	o := &Orchestrator{
		provider:      p,
		registry:      reg,
		invoker:       inv,
		model:         cfg.Provider.Model,
		maxTokens:     cfg.Provider.MaxOutputTokens,
		systemPrompt:  cfg.Orchestrator.SystemPrompt,
		historyWindow: cfg.Orchestrator.HistoryWindow,
		maxToolDepth:  cfg.Orchestrator.MaxToolDepth,
		timeout:       time.Duration(cfg.Orchestrator.ChatTimeoutSeconds) * time.Second,
		logger:        slog.New(slog.DiscardHandler),
		status:        func(string, string) {},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Chat answers userMessage in the context of history. history is read, not
// modified; the caller records the exchange afterwards.
func (o *Orchestrator) Chat(ctx context.Context, userMessage string, history []provider.Message) Result {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	window := recentMessages(history, o.historyWindow)
	messages := make([]provider.Message, 0, len(window)+1)
	messages = append(messages, window...)
	messages = append(messages, provider.NewTextMessage(provider.RoleUser, userMessage))

	o.logger.Info("chat started", "history", len(window), "tools", o.registry.Len())

	resp, err := o.generate(ctx, messages)
	if err != nil {
		return o.failure(err)
	}

	res, err := o.resolve(ctx, messages, resp)
	if err != nil && !errors.Is(err, ErrToolChainTooDeep) {
		return o.failure(err)
	}

	text := res.Text
	if text == "" {
		text = FallbackMessage
	}

	o.logger.Info("chat completed", "tools_used", res.ToolsUsed, "truncated", res.Truncated)
	return Result{
		Message:   text,
		ToolsUsed: res.ToolsUsed,
		Truncated: res.Truncated,
		Err:       err,
	}
}

// generate sends one request upstream. Every error comes back wrapped in
// ErrUpstreamRequestFailed.
func (o *Orchestrator) generate(ctx context.Context, messages []provider.Message) (*provider.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamRequestFailed, err)
	}

	o.status("thinking", "Generating response...")
	resp, err := o.provider.Generate(ctx, &provider.Request{
		Model:     o.model,
		MaxTokens: o.maxTokens,
		System:    o.systemPrompt,
		Messages:  messages,
		Tools:     o.registry.DescribeForModel(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamRequestFailed, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", ErrUpstreamRequestFailed)
	}

	o.logger.Debug("model responded",
		"stop_reason", resp.StopReason,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"tool_calls", len(resp.Message().ToolCalls()),
	)
	return resp, nil
}

func (o *Orchestrator) failure(err error) Result {
	o.logger.Error("chat failed", "error", err, "retryable", provider.IsRetryable(err))
	return Result{
		Message:   apologyPrefix + strings.TrimPrefix(err.Error(), ErrUpstreamRequestFailed.Error()+": "),
		ToolsUsed: []string{},
		Err:       err,
	}
}

// recentMessages returns a copy of the last k messages.
func recentMessages(history []provider.Message, k int) []provider.Message {
	if k <= 0 || len(history) == 0 {
		return nil
	}
	start := max(len(history)-k, 0)
	out := make([]provider.Message, len(history)-start)
	copy(out, history[start:])
	return out
}
