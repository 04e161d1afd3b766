package anthropic

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// MessagesClient defines the interface for interacting with the Messages API.
// This abstraction allows for easier testing.
type MessagesClient interface {
	// New sends one Messages API request and returns the reply.
	New(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error)
}

// RealMessagesClient wraps the official SDK client to satisfy MessagesClient.
type RealMessagesClient struct {
	client anthropic.Client
}

// NewRealMessagesClient creates a RealMessagesClient authenticated with apiKey.
func NewRealMessagesClient(apiKey string, opts ...option.RequestOption) *RealMessagesClient {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &RealMessagesClient{client: anthropic.NewClient(opts...)}
}

// New calls the SDK's Messages.New method.
func (c *RealMessagesClient) New(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	return c.client.Messages.New(ctx, params)
}
