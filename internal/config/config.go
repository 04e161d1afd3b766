package config

import "strings"

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Provider     ProviderConfig     `json:"provider"`
	Orchestrator OrchestratorConfig `json:"orchestrator"`
	History      HistoryConfig      `json:"history"`
	ToolServer   ToolServerConfig   `json:"tool_server"`
	Logging      LoggingConfig      `json:"logging"`
	UI           UIConfig           `json:"ui"`
}

type ProviderConfig struct {
	Name            string `json:"name"`              // Default: "anthropic" ("anthropic" | "gemini")
	Model           string `json:"model"`             // Default: DefaultModel(Name)
	MaxOutputTokens int    `json:"max_output_tokens"` // Default: 4000
}

type OrchestratorConfig struct {
	MaxToolDepth       int    `json:"max_tool_depth"`       // Default: 25 follow-up rounds per chat
	HistoryWindow      int    `json:"history_window"`       // Default: 10 most recent messages sent upstream
	ChatTimeoutSeconds int    `json:"chat_timeout_seconds"` // Default: 0 (no timeout)
	SystemPrompt       string `json:"system_prompt"`
}

type HistoryConfig struct {
	MaxMessages int `json:"max_messages"` // Default: 20
}

type ToolServerConfig struct {
	// Transport is a stdio command ("docker run --rm -i image"), or an
	// sse:// / http+sse:// / http+stream:// endpoint.
	Transport string `json:"transport"`

	// Env lists environment variable names forwarded to a stdio child process.
	Env []string `json:"env"`
}

type LoggingConfig struct {
	Level string `json:"level"` // Default: "info"
	File  string `json:"file"`  // Default: "" (discard)
}

type UIConfig struct {
	TickIntervalMs int    `json:"tick_interval_ms"` // Default: 300
	ColorPrimary   string `json:"color_primary"`    // Default: "63"
	ColorUser      string `json:"color_user"`       // Default: "86"
	ColorNotice    string `json:"color_notice"`     // Default: "241"
	ColorError     string `json:"color_error"`      // Default: "196"
}

// DefaultSystemPrompt is sent as system instructions on every request.
const DefaultSystemPrompt = `You are an expert travel assistant that helps users find information about hotels, restaurants and tourist attractions.

You have access to tools from an MCP server that let you look up real, up-to-date information.

IMPORTANT INSTRUCTIONS:
1. When you use the tools, process the results and present the information clearly and in an organized way
2. Include relevant details such as prices, locations, ratings and descriptions
3. If a tool fails, explain the problem in a friendly way
4. Keep a conversational, helpful tone
5. Use the context of previous messages to give more personalized answers
6. Organize information in lists or sections when appropriate
7. Include recommendations based on the information you obtained`

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Name:            ProviderAnthropic,
			Model:           DefaultAnthropicModel,
			MaxOutputTokens: 4000,
		},
		Orchestrator: OrchestratorConfig{
			MaxToolDepth:       25,
			HistoryWindow:      10,
			ChatTimeoutSeconds: 0,
			SystemPrompt:       DefaultSystemPrompt,
		},
		History: HistoryConfig{
			MaxMessages: 20,
		},
		ToolServer: ToolServerConfig{
			Transport: "docker run --rm -i -e TRIPADVISOR_API_KEY tripadvisor-mcp-server",
			Env:       []string{"TRIPADVISOR_API_KEY"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		UI: UIConfig{
			TickIntervalMs: 300,
			ColorPrimary:   "63",
			ColorUser:      "86",
			ColorNotice:    "241",
			ColorError:     "196",
		},
	}
}

// Supported provider names.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Default model per provider.
const (
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
	DefaultGeminiModel    = "gemini-2.5-flash"
)

// DefaultModel returns the model used when the config names a provider but
// no model of its own.
func DefaultModel(providerName string) string {
	if providerName == ProviderGemini {
		return DefaultGeminiModel
	}
	return DefaultAnthropicModel
}

// applyProviderDefaults swaps in the provider's own default model when the
// model is blank or still another provider's default.
func (c *Config) applyProviderDefaults() {
	model := strings.TrimSpace(c.Provider.Model)
	if model == "" || (model != DefaultModel(c.Provider.Name) && isDefaultModel(model)) {
		c.Provider.Model = DefaultModel(c.Provider.Name)
	}
}

func isDefaultModel(model string) bool {
	return model == DefaultAnthropicModel || model == DefaultGeminiModel
}

// modelFamilyMismatch reports whether model clearly belongs to a different
// provider than providerName.
func modelFamilyMismatch(providerName, model string) bool {
	model = strings.ToLower(strings.TrimSpace(model))
	switch providerName {
	case ProviderGemini:
		return strings.HasPrefix(model, "claude")
	case ProviderAnthropic:
		return strings.HasPrefix(model, "gemini")
	}
	return false
}
