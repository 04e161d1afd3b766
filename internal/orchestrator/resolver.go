package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Cyclone1070/mcpchat/internal/mcp"
	"github.com/Cyclone1070/mcpchat/internal/provider"
)

// Resolution is the accumulated outcome of a tool-resolution loop.
type Resolution struct {
	Text      string
	ToolsUsed []string
	Truncated bool
}

// resolve drives the model until it answers without tool calls.
//
// Each round appends the assistant message exactly as received and one user
// message holding a result per tool call, in call order. At most
// maxToolDepth follow-up rounds are sent; tool calls still pending after
// that are not executed and the text gets a truncation notice.
func (o *Orchestrator) resolve(ctx context.Context, messages []provider.Message, resp *provider.Response) (Resolution, error) {
	var text strings.Builder
	toolsUsed := []string{}
	conversation := append([]provider.Message(nil), messages...)

	for depth := 0; ; depth++ {
		assistant := resp.Message()
		for _, seg := range assistant.Content {
			if t, ok := seg.(provider.TextSegment); ok {
				text.WriteString(t.Text)
			}
		}

		calls := assistant.ToolCalls()
		if len(calls) == 0 {
			return Resolution{Text: text.String(), ToolsUsed: toolsUsed}, nil
		}

		if depth >= o.maxToolDepth {
			o.logger.Warn("tool chain too deep, stopping",
				"max_tool_depth", o.maxToolDepth,
				"pending_calls", len(calls),
			)
			return Resolution{
				Text:      appendNotice(text.String(), truncationNotice(o.maxToolDepth)),
				ToolsUsed: toolsUsed,
				Truncated: true,
			}, ErrToolChainTooDeep
		}

		results := make([]provider.Segment, 0, len(calls))
		for _, call := range calls {
			if err := ctx.Err(); err != nil {
				return Resolution{}, fmt.Errorf("%w: %w", ErrUpstreamRequestFailed, err)
			}
			result, used := o.execute(ctx, call)
			if used {
				toolsUsed = append(toolsUsed, call.Name)
			}
			results = append(results, result)
		}

		conversation = append(conversation, assistant, provider.Message{
			Role:    provider.RoleUser,
			Content: results,
		})

		next, err := o.generate(ctx, conversation)
		if err != nil {
			return Resolution{}, err
		}
		resp = next
	}
}

// execute runs one tool call and builds its result segment. The boolean is
// false when the tool is unknown and nothing was executed.
func (o *Orchestrator) execute(ctx context.Context, call provider.ToolCallSegment) (provider.ToolResultSegment, bool) {
	o.status("executing", fmt.Sprintf("Running %s...", call.Name))
	o.logger.Info("executing tool", "tool", call.Name, "call_id", call.ID)

	res, err := o.invoker.Invoke(ctx, call.Name, call.Arguments)
	if err != nil {
		content := fmt.Sprintf("Error: %v", err)
		if errors.Is(err, mcp.ErrUnknownTool) {
			content = fmt.Sprintf("Error: unknown tool %q. Available tools: %s",
				call.Name, strings.Join(o.registry.Names(), ", "))
			o.logger.Warn("model requested unknown tool", "tool", call.Name)
			return provider.ToolResultSegment{ToolCallID: call.ID, Content: content, IsError: true}, false
		}
		o.logger.Warn("tool invocation failed", "tool", call.Name, "error", err)
		return provider.ToolResultSegment{ToolCallID: call.ID, Content: content, IsError: true}, true
	}

	return provider.ToolResultSegment{
		ToolCallID: call.ID,
		Content:    res.Content,
		IsError:    res.IsError,
	}, true
}

func truncationNotice(depth int) string {
	return fmt.Sprintf("[Stopped after %d rounds of tool calls; this answer may be incomplete.]", depth)
}

func appendNotice(text, notice string) string {
	if text == "" {
		return notice
	}
	return text + "\n\n" + notice
}
