package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Cyclone1070/mcpchat/internal/provider"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_TextResponse(t *testing.T) {
	var got anthropic.MessageNewParams
	client := &MockMessagesClient{
		NewFunc: func(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
			got = params
			return &anthropic.Message{
				Content: []anthropic.ContentBlockUnion{
					{Type: "text", Text: "Madrid is lovely."},
				},
				StopReason: anthropic.StopReasonEndTurn,
				Usage:      anthropic.Usage{InputTokens: 12, OutputTokens: 4},
			}, nil
		},
	}

	p := New(client, "claude-test", 1000)
	resp, err := p.Generate(context.Background(), &provider.Request{
		System:   "You are a travel assistant.",
		Messages: []provider.Message{provider.NewTextMessage(provider.RoleUser, "Madrid?")},
	})
	require.NoError(t, err)

	assert.Equal(t, "Madrid is lovely.", resp.Message().Text())
	assert.Empty(t, resp.Message().ToolCalls())
	assert.Equal(t, "end_turn", resp.StopReason)
	assert.Equal(t, provider.Usage{InputTokens: 12, OutputTokens: 4}, resp.Usage)

	assert.Equal(t, anthropic.Model("claude-test"), got.Model)
	assert.Equal(t, int64(1000), got.MaxTokens)
	require.Len(t, got.System, 1)
	assert.Equal(t, "You are a travel assistant.", got.System[0].Text)
	require.Len(t, got.Messages, 1)
	assert.Empty(t, got.Tools)
}

func TestGenerate_RequestOverrides(t *testing.T) {
	var got anthropic.MessageNewParams
	client := &MockMessagesClient{
		NewFunc: func(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
			got = params
			return &anthropic.Message{Content: []anthropic.ContentBlockUnion{{Type: "text", Text: "ok"}}}, nil
		},
	}

	p := New(client, "claude-default", 0)
	assert.Equal(t, "claude-default", p.Model())

	_, err := p.Generate(context.Background(), &provider.Request{
		Model:     "claude-other",
		MaxTokens: 64,
		Messages:  []provider.Message{provider.NewTextMessage(provider.RoleUser, "hi")},
	})
	require.NoError(t, err)
	assert.Equal(t, anthropic.Model("claude-other"), got.Model)
	assert.Equal(t, int64(64), got.MaxTokens)
	assert.Empty(t, got.System)
}

func TestGenerate_ToolUseBlocks(t *testing.T) {
	client := &MockMessagesClient{
		NewFunc: func(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
			return &anthropic.Message{
				Content: []anthropic.ContentBlockUnion{
					{Type: "text", Text: "Searching."},
					{Type: "tool_use", ID: "toolu_1", Name: "search_locations", Input: json.RawMessage(`{"searchQuery":"Madrid"}`)},
					{Type: "tool_use", ID: "toolu_2", Name: "get_location_details", Input: json.RawMessage(`{}`)},
					{Type: "tool_use", ID: "toolu_3", Name: "search_nearby"},
				},
				StopReason: anthropic.StopReasonToolUse,
			}, nil
		},
	}

	p := New(client, "claude-test", 0)
	resp, err := p.Generate(context.Background(), &provider.Request{
		Messages: []provider.Message{provider.NewTextMessage(provider.RoleUser, "Madrid")},
	})
	require.NoError(t, err)

	calls := resp.Message().ToolCalls()
	require.Len(t, calls, 3)
	assert.Equal(t, "toolu_1", calls[0].ID)
	assert.Equal(t, "search_locations", calls[0].Name)
	assert.Equal(t, map[string]any{"searchQuery": "Madrid"}, calls[0].Arguments)
	assert.Equal(t, "toolu_2", calls[1].ID)
	assert.Equal(t, map[string]any{}, calls[2].Arguments)
	assert.Equal(t, "tool_use", resp.StopReason)
}

func TestGenerate_InvalidToolInput(t *testing.T) {
	client := &MockMessagesClient{
		NewFunc: func(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
			return &anthropic.Message{
				Content: []anthropic.ContentBlockUnion{
					{Type: "tool_use", ID: "toolu_1", Name: "x", Input: json.RawMessage(`[1,2]`)},
				},
			}, nil
		},
	}

	p := New(client, "claude-test", 0)
	_, err := p.Generate(context.Background(), &provider.Request{})
	assert.ErrorIs(t, err, provider.ErrInvalidRequest)
}

func TestGenerate_ErrorMapping(t *testing.T) {
	apiError := func(status int) error {
		return &anthropic.Error{
			StatusCode: status,
			Request:    httptest.NewRequest(http.MethodPost, "https://api.anthropic.com/v1/messages", nil),
			Response:   &http.Response{StatusCode: status},
		}
	}

	tests := []struct {
		name      string
		err       error
		sentinel  error
		retryable bool
	}{
		{"unauthorized", apiError(401), provider.ErrAuthentication, false},
		{"rate limited", apiError(429), provider.ErrRateLimit, true},
		{"bad request", apiError(400), provider.ErrInvalidRequest, false},
		{"overloaded", apiError(529), provider.ErrServiceUnavailable, true},
		{"deadline", context.DeadlineExceeded, provider.ErrNetwork, false},
		{"connection", errors.New("dial tcp: connection refused"), provider.ErrNetwork, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &MockMessagesClient{
				NewFunc: func(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
					return nil, tt.err
				},
			}

			p := New(client, "claude-test", 0)
			_, err := p.Generate(context.Background(), &provider.Request{
				Messages: []provider.Message{provider.NewTextMessage(provider.RoleUser, "x")},
			})
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.retryable, provider.IsRetryable(err))
		})
	}
}

func TestGenerate_PromptTooLong(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"prompt is too long: 212000 tokens > 200000 maximum"}}`))
	}))
	defer srv.Close()

	client := NewRealMessagesClient("sk-test", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	p := New(client, "claude-test", 0)

	_, err := p.Generate(context.Background(), &provider.Request{
		Messages: []provider.Message{provider.NewTextMessage(provider.RoleUser, "x")},
	})

	assert.ErrorIs(t, err, provider.ErrContextLengthExceeded)
	assert.False(t, provider.IsRetryable(err))
}

