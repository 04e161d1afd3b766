package anthropic

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
)

// MockMessagesClient is a mock implementation of MessagesClient for testing.
type MockMessagesClient struct {
	NewFunc func(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error)
}

// New calls the mock function if set, otherwise returns an error.
func (m *MockMessagesClient) New(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	if m.NewFunc != nil {
		return m.NewFunc(ctx, params)
	}
	return nil, errors.New("NewFunc not set")
}
