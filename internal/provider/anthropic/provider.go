package anthropic

import (
	"context"

	"github.com/Cyclone1070/mcpchat/internal/provider"
)

// defaultMaxTokens applies when neither the request nor the provider sets one.
const defaultMaxTokens = 4096

// Provider implements provider.Provider for the Anthropic Messages API.
type Provider struct {
	client    MessagesClient
	model     string
	maxTokens int
}

// New creates a Provider with the given client, default model and output cap.
func New(client MessagesClient, model string, maxTokens int) *Provider {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Provider{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}
}

// Model returns the default model name.
func (p *Provider) Model() string {
	return p.model
}

// Generate sends a request to the Messages API and returns the response.
func (p *Provider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	model := p.model
	if req.Model != "" {
		model = req.Model
	}
	maxTokens := p.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	params, err := toMessageParams(model, maxTokens, req)
	if err != nil {
		return nil, &provider.ProviderError{
			Code:       provider.ErrorCodeInvalidRequest,
			Message:    "failed to build request",
			Underlying: err,
		}
	}

	msg, err := p.client.New(ctx, params)
	if err != nil {
		return nil, mapAnthropicError(err)
	}

	return fromMessage(msg)
}
