package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Cyclone1070/mcpchat/internal/provider"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/mitchellh/mapstructure"
)

// toMessageParams converts an internal request into Messages API params.
func toMessageParams(model string, maxTokens int, req *provider.Request) (anthropic.MessageNewParams, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages:  make([]anthropic.MessageParam, 0, len(req.Messages)),
	}

	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	for i, msg := range req.Messages {
		mp, err := toMessageParam(msg)
		if err != nil {
			return anthropic.MessageNewParams{}, fmt.Errorf("message %d: %w", i, err)
		}
		params.Messages = append(params.Messages, mp)
	}

	if len(req.Tools) > 0 {
		tools, err := toTools(req.Tools)
		if err != nil {
			return anthropic.MessageNewParams{}, err
		}
		params.Tools = tools
	}

	return params, nil
}

// toMessageParam converts a single message, keeping segment order.
func toMessageParam(msg provider.Message) (anthropic.MessageParam, error) {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Content))

	for _, seg := range msg.Content {
		switch s := seg.(type) {
		case provider.TextSegment:
			// The API rejects empty text blocks
			if s.Text == "" {
				continue
			}
			blocks = append(blocks, anthropic.NewTextBlock(s.Text))
		case provider.ToolCallSegment:
			args := s.Arguments
			if args == nil {
				args = map[string]any{}
			}
			blocks = append(blocks, anthropic.NewToolUseBlock(s.ID, args, s.Name))
		case provider.ToolResultSegment:
			blocks = append(blocks, anthropic.NewToolResultBlock(s.ToolCallID, s.Content, s.IsError))
		default:
			return anthropic.MessageParam{}, fmt.Errorf("unsupported segment type %T", seg)
		}
	}

	switch msg.Role {
	case provider.RoleAssistant:
		return anthropic.NewAssistantMessage(blocks...), nil
	case provider.RoleUser:
		return anthropic.NewUserMessage(blocks...), nil
	default:
		return anthropic.MessageParam{}, fmt.Errorf("unsupported role %q", msg.Role)
	}
}

// inputSchema is the top level of a tool's JSON Schema.
type inputSchema struct {
	Type       string         `mapstructure:"type"`
	Properties any            `mapstructure:"properties"`
	Required   []string       `mapstructure:"required"`
	Extra      map[string]any `mapstructure:",remain"`
}

// toTools converts tool specs to the API's tool params.
func toTools(specs []provider.ToolSpec) ([]anthropic.ToolUnionParam, error) {
	tools := make([]anthropic.ToolUnionParam, 0, len(specs))

	for _, spec := range specs {
		var schema inputSchema
		if err := mapstructure.Decode(spec.InputSchema, &schema); err != nil {
			return nil, fmt.Errorf("tool %q: invalid input schema: %w", spec.Name, err)
		}

		properties := schema.Properties
		if properties == nil {
			properties = map[string]any{}
		}

		tp := anthropic.ToolUnionParamOfTool(
			anthropic.ToolInputSchemaParam{
				Properties:  properties,
				Required:    schema.Required,
				ExtraFields: schema.Extra,
			},
			spec.Name,
		)
		if spec.Description != "" {
			tp.OfTool.Description = param.NewOpt(spec.Description)
		}
		tools = append(tools, tp)
	}

	return tools, nil
}

// fromMessage converts a Messages API reply into the internal response.
func fromMessage(msg *anthropic.Message) (*provider.Response, error) {
	if msg == nil {
		return nil, &provider.ProviderError{
			Code:    provider.ErrorCodeInvalidRequest,
			Message: "empty response",
		}
	}

	content := make([]provider.Segment, 0, len(msg.Content))
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			content = append(content, provider.TextSegment{Text: block.Text})
		case "tool_use":
			args := map[string]any{}
			if len(block.Input) > 0 {
				if err := json.Unmarshal(block.Input, &args); err != nil {
					return nil, &provider.ProviderError{
						Code:       provider.ErrorCodeInvalidRequest,
						Message:    fmt.Sprintf("invalid tool input for %q", block.Name),
						Underlying: err,
					}
				}
			}
			content = append(content, provider.ToolCallSegment{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: args,
			})
		}
		// Thinking and other block types carry nothing the loop consumes
	}

	return &provider.Response{
		Content:    content,
		StopReason: string(msg.StopReason),
		Usage: provider.Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
	}, nil
}

// mapAnthropicError maps Messages API errors to provider errors.
func mapAnthropicError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &provider.ProviderError{
			Code:       provider.ErrorCodeNetwork,
			Message:    "request cancelled or timed out",
			Underlying: err,
			Retryable:  false,
		}
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401, 403:
			return &provider.ProviderError{
				Code:       provider.ErrorCodeAuth,
				Message:    "authentication failed",
				Underlying: err,
				Retryable:  false,
			}
		case 429:
			return &provider.ProviderError{
				Code:       provider.ErrorCodeRateLimit,
				Message:    "rate limit exceeded",
				Underlying: err,
				Retryable:  true,
			}
		case 400, 404, 413, 422:
			if isPromptTooLong(apiErr) {
				return &provider.ProviderError{
					Code:       provider.ErrorCodeContextLength,
					Message:    "prompt exceeds the model context window",
					Underlying: err,
					Retryable:  false,
				}
			}
			return &provider.ProviderError{
				Code:       provider.ErrorCodeInvalidRequest,
				Message:    "invalid request",
				Underlying: err,
				Retryable:  false,
			}
		case 500, 502, 503, 504, 529:
			return &provider.ProviderError{
				Code:       provider.ErrorCodeUnavailable,
				Message:    "service unavailable",
				Underlying: err,
				Retryable:  true,
			}
		}
	}

	// Generic network error
	return &provider.ProviderError{
		Code:       provider.ErrorCodeNetwork,
		Message:    "network error",
		Underlying: err,
		Retryable:  true,
	}
}

// isPromptTooLong reports whether a 4xx body is Anthropic's
// "prompt is too long" invalid_request_error.
func isPromptTooLong(apiErr *anthropic.Error) bool {
	return strings.Contains(strings.ToLower(apiErr.Error()), "prompt is too long")
}
