package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolResult is the outcome of one tool call as reported to the model.
type ToolResult struct {
	Content string
	IsError bool
}

// Invoker executes tool calls against the connected tool-server.
type Invoker struct {
	caller   ToolCaller
	registry *Registry
	logger   *slog.Logger
}

// NewInvoker creates an Invoker that only forwards calls for tools known to
// registry.
func NewInvoker(caller ToolCaller, registry *Registry, logger *slog.Logger) *Invoker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Invoker{
		caller:   caller,
		registry: registry,
		logger:   logger,
	}
}

// Invoke runs the named tool with args.
//
// An unknown name returns ErrUnknownTool without contacting the server.
// Transport failures and server-flagged errors come back as an error-tagged
// ToolResult with a nil error so the conversation can continue.
func (i *Invoker) Invoke(ctx context.Context, name string, args map[string]any) (ToolResult, error) {
	if _, ok := i.registry.Lookup(name); !ok {
		return ToolResult{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if args == nil {
		args = map[string]any{}
	}

	start := time.Now()
	res, err := i.caller.CallTool(ctx, &mcpsdk.CallToolParams{Name: name, Arguments: args})
	elapsed := time.Since(start)

	if err != nil {
		failure := fmt.Errorf("%w: %s: %w", ErrToolExecutionFailed, name, err)
		i.logger.Warn("tool call failed", "tool", name, "duration", elapsed, "error", failure)
		return ToolResult{Content: failure.Error(), IsError: true}, nil
	}

	content, err := renderResult(res)
	if err != nil {
		failure := fmt.Errorf("%w: %s: %w", ErrToolExecutionFailed, name, err)
		i.logger.Warn("tool result unreadable", "tool", name, "duration", elapsed, "error", failure)
		return ToolResult{Content: failure.Error(), IsError: true}, nil
	}

	if res.IsError {
		i.logger.Warn("tool reported error", "tool", name, "duration", elapsed, "content", content)
		return ToolResult{Content: content, IsError: true}, nil
	}

	i.logger.Info("tool call completed", "tool", name, "duration", elapsed, "bytes", len(content))
	return ToolResult{Content: content}, nil
}

// renderResult flattens a tool result into the text handed to the model.
// Structured content wins, then plain text blocks, then the raw content
// array as JSON.
func renderResult(res *mcpsdk.CallToolResult) (string, error) {
	if res == nil {
		return "", nil
	}

	if res.StructuredContent != nil {
		data, err := json.Marshal(res.StructuredContent)
		if err != nil {
			return "", fmt.Errorf("encode structured content: %w", err)
		}
		return string(data), nil
	}

	texts := make([]string, 0, len(res.Content))
	for _, c := range res.Content {
		tc, ok := c.(*mcpsdk.TextContent)
		if !ok {
			texts = nil
			break
		}
		texts = append(texts, tc.Text)
	}
	if texts != nil {
		return strings.Join(texts, "\n"), nil
	}

	data, err := json.Marshal(res.Content)
	if err != nil {
		return "", fmt.Errorf("encode content: %w", err)
	}
	return string(data), nil
}
