package gemini

import (
	"context"

	"github.com/Cyclone1070/mcpchat/internal/provider"
)

// GeminiProvider implements provider.Provider for Google Gemini.
type GeminiProvider struct {
	client          GeminiClient
	modelName       string
	maxOutputTokens int
}

// New creates a new GeminiProvider with the specified client and model.
func New(client GeminiClient, modelName string, maxOutputTokens int) *GeminiProvider {
	return &GeminiProvider{
		client:          client,
		modelName:       modelName,
		maxOutputTokens: maxOutputTokens,
	}
}

// Model returns the default model name.
func (p *GeminiProvider) Model() string {
	return p.modelName
}

// Generate sends a request to the Gemini API and returns the response.
func (p *GeminiProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	model := p.modelName
	if req.Model != "" {
		model = req.Model
	}
	maxTokens := p.maxOutputTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	contents, err := toGeminiContents(req.Messages)
	if err != nil {
		return nil, &provider.ProviderError{
			Code:       provider.ErrorCodeInvalidRequest,
			Message:    "failed to build request",
			Underlying: err,
		}
	}

	config := toGeminiConfig(req.System, maxTokens)
	if len(req.Tools) > 0 {
		tools, err := toGeminiTools(req.Tools)
		if err != nil {
			return nil, &provider.ProviderError{
				Code:       provider.ErrorCodeInvalidRequest,
				Message:    "failed to convert tools",
				Underlying: err,
			}
		}
		config.Tools = tools
	}

	resp, err := p.client.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	return fromGeminiResponse(resp)
}
