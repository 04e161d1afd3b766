package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/Cyclone1070/mcpchat/internal/provider"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"google.golang.org/genai"
)

// toGeminiContents converts the conversation to Gemini Content format.
// Tool results are sent as function responses; Gemini needs the function
// name, so it is recovered from the matching earlier call.
func toGeminiContents(messages []provider.Message) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(messages))
	callNames := make(map[string]string)

	for i, msg := range messages {
		content, err := messageToGeminiContent(msg, callNames)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		if content != nil {
			contents = append(contents, content)
		}
	}

	return contents, nil
}

// messageToGeminiContent converts a single message, keeping segment order.
func messageToGeminiContent(msg provider.Message, callNames map[string]string) (*genai.Content, error) {
	role := genai.RoleUser
	if msg.Role == provider.RoleAssistant {
		role = genai.RoleModel
	}

	parts := make([]*genai.Part, 0, len(msg.Content))

	for _, seg := range msg.Content {
		switch s := seg.(type) {
		case provider.TextSegment:
			if s.Text != "" {
				parts = append(parts, genai.NewPartFromText(s.Text))
			}
		case provider.ToolCallSegment:
			callNames[s.ID] = s.Name
			parts = append(parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{
					ID:   s.ID,
					Name: s.Name,
					Args: s.Arguments,
				},
			})
		case provider.ToolResultSegment:
			name, ok := callNames[s.ToolCallID]
			if !ok {
				return nil, fmt.Errorf("tool result %q has no matching tool call", s.ToolCallID)
			}
			response := map[string]any{"output": s.Content}
			if s.IsError {
				response = map[string]any{"error": s.Content}
			}
			parts = append(parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					ID:       s.ToolCallID,
					Name:     name,
					Response: response,
				},
			})
		default:
			return nil, fmt.Errorf("unsupported segment type %T", seg)
		}
	}

	// Skip empty messages
	if len(parts) == 0 {
		return nil, nil
	}

	return &genai.Content{
		Role:  string(role),
		Parts: parts,
	}, nil
}

// toGeminiConfig builds the generation config.
func toGeminiConfig(system string, maxOutputTokens int) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		SafetySettings: defaultSafetySettings(),
	}

	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if maxOutputTokens > 0 {
		config.MaxOutputTokens = int32(maxOutputTokens)
	}

	return config
}

// defaultSafetySettings returns safety settings with BLOCK_NONE for all categories.
func defaultSafetySettings() []*genai.SafetySetting {
	return []*genai.SafetySetting{
		{
			Category:  genai.HarmCategoryHateSpeech,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategoryDangerousContent,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategoryHarassment,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategorySexuallyExplicit,
			Threshold: genai.HarmBlockThresholdOff,
		},
	}
}

// toGeminiTools converts tool specs to Gemini function declarations.
func toGeminiTools(specs []provider.ToolSpec) ([]*genai.Tool, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	declarations := make([]*genai.FunctionDeclaration, 0, len(specs))

	for _, spec := range specs {
		fd := &genai.FunctionDeclaration{
			Name:        spec.Name,
			Description: spec.Description,
		}

		if spec.InputSchema != nil {
			schema, err := toGeminiSchema(spec.InputSchema)
			if err != nil {
				return nil, fmt.Errorf("tool %q: %w", spec.Name, err)
			}
			fd.Parameters = schema
		}

		declarations = append(declarations, fd)
	}

	return []*genai.Tool{
		{FunctionDeclarations: declarations},
	}, nil
}

// jsonSchema is the subset of JSON Schema that Gemini understands.
type jsonSchema struct {
	Type        any            `mapstructure:"type"`
	Description string         `mapstructure:"description"`
	Format      string         `mapstructure:"format"`
	Enum        []any          `mapstructure:"enum"`
	Properties  map[string]any `mapstructure:"properties"`
	Items       any            `mapstructure:"items"`
	Required    []string       `mapstructure:"required"`
}

// toGeminiSchema converts a JSON Schema document into a Gemini Schema.
func toGeminiSchema(raw map[string]any) (*genai.Schema, error) {
	var js jsonSchema
	if err := mapstructure.Decode(raw, &js); err != nil {
		return nil, fmt.Errorf("invalid input schema: %w", err)
	}

	schema := &genai.Schema{
		Description: js.Description,
		Format:      js.Format,
		Required:    js.Required,
	}
	schema.Type, schema.Nullable = schemaType(js.Type)

	for _, v := range js.Enum {
		schema.Enum = append(schema.Enum, fmt.Sprint(v))
	}

	if len(js.Properties) > 0 {
		schema.Properties = make(map[string]*genai.Schema, len(js.Properties))
		for name, prop := range js.Properties {
			propMap, ok := prop.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("property %q: expected object, got %T", name, prop)
			}
			child, err := toGeminiSchema(propMap)
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", name, err)
			}
			schema.Properties[name] = child
		}
	}

	if itemsMap, ok := js.Items.(map[string]any); ok {
		items, err := toGeminiSchema(itemsMap)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		schema.Items = items
	}

	return schema, nil
}

// schemaType resolves "type", which may be a string or a list such as
// ["string", "null"].
func schemaType(v any) (genai.Type, *bool) {
	switch t := v.(type) {
	case string:
		return toGeminiType(t), nil
	case []any:
		var nullable bool
		result := genai.TypeUnspecified
		for _, item := range t {
			s, _ := item.(string)
			if s == "null" {
				nullable = true
				continue
			}
			if result == genai.TypeUnspecified {
				result = toGeminiType(s)
			}
		}
		if nullable {
			return result, &nullable
		}
		return result, nil
	default:
		return genai.TypeObject, nil
	}
}

// toGeminiType converts string type to Gemini Type.
func toGeminiType(typeStr string) genai.Type {
	switch typeStr {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

// fromGeminiResponse converts Gemini response to internal format.
func fromGeminiResponse(resp *genai.GenerateContentResponse) (*provider.Response, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, &provider.ProviderError{
			Code:    provider.ErrorCodeInvalidRequest,
			Message: "no candidates in response",
		}
	}

	candidate := resp.Candidates[0]

	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, &provider.ProviderError{
			Code:      provider.ErrorCodeContentBlocked,
			Message:   "content blocked by safety filters",
			Retryable: false,
		}
	}

	var content []provider.Segment
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			switch {
			case part.FunctionCall != nil:
				id := part.FunctionCall.ID
				if id == "" {
					// Older models omit call IDs
					id = "call_" + uuid.NewString()
				}
				args := part.FunctionCall.Args
				if args == nil {
					args = map[string]any{}
				}
				content = append(content, provider.ToolCallSegment{
					ID:        id,
					Name:      part.FunctionCall.Name,
					Arguments: args,
				})
			case part.Text != "" && !part.Thought:
				content = append(content, provider.TextSegment{Text: part.Text})
			}
		}
	}

	response := &provider.Response{
		Content:    content,
		StopReason: string(candidate.FinishReason),
	}
	if resp.UsageMetadata != nil {
		response.Usage = provider.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}

	return response, nil
}

// mapGeminiError maps Gemini API errors to provider errors.
func mapGeminiError(err error) error {
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

	code, message, ok := apiErrorCode(err)
	if !ok {
		// Generic network error
		return &provider.ProviderError{
			Code:       provider.ErrorCodeNetwork,
			Message:    "network error",
			Underlying: err,
			Retryable:  true,
		}
	}

	switch code {
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
	case 400:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeInvalidRequest,
			Message:    fmt.Sprintf("invalid request: %s", message),
			Underlying: err,
			Retryable:  false,
		}
	case 500, 502, 503, 504:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeUnavailable,
			Message:    "service unavailable",
			Underlying: err,
			Retryable:  true,
		}
	default:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeNetwork,
			Message:    fmt.Sprintf("API error: %s", message),
			Underlying: err,
			Retryable:  true,
		}
	}
}

// apiErrorCode extracts the HTTP code from a genai.APIError, which the SDK
// may return by value or by pointer.
func apiErrorCode(err error) (int, string, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.Message, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, apiErrPtr.Message, true
	}
	return 0, "", false
}
