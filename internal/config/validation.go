package config

import (
	"fmt"
	"strings"
)

// Validate checks config values for correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	// Provider validation
	switch c.Provider.Name {
	case ProviderAnthropic, ProviderGemini:
	default:
		errs = append(errs, fmt.Sprintf("provider.name must be %q or %q, got %q", ProviderAnthropic, ProviderGemini, c.Provider.Name))
	}
	if strings.TrimSpace(c.Provider.Model) == "" {
		errs = append(errs, "provider.model must not be empty")
	} else if modelFamilyMismatch(c.Provider.Name, c.Provider.Model) {
		errs = append(errs, fmt.Sprintf("provider.model %q does not match provider %q", c.Provider.Model, c.Provider.Name))
	}
	if c.Provider.MaxOutputTokens < 1 {
		errs = append(errs, "provider.max_output_tokens must be >= 1")
	}

	// Orchestrator validation
	if c.Orchestrator.MaxToolDepth < 1 {
		errs = append(errs, "orchestrator.max_tool_depth must be >= 1")
	}
	if c.Orchestrator.HistoryWindow < 0 {
		errs = append(errs, "orchestrator.history_window must be >= 0")
	}
	if c.Orchestrator.ChatTimeoutSeconds < 0 {
		errs = append(errs, "orchestrator.chat_timeout_seconds must be >= 0")
	}

	// History validation
	if c.History.MaxMessages < 1 {
		errs = append(errs, "history.max_messages must be >= 1")
	}

	// Semantic validation: window <= cap
	if c.Orchestrator.HistoryWindow > c.History.MaxMessages {
		errs = append(errs, "orchestrator.history_window must be <= history.max_messages")
	}

	// Tool server validation
	if strings.TrimSpace(c.ToolServer.Transport) == "" {
		errs = append(errs, "tool_server.transport must not be empty")
	}

	// Logging validation
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level))
	}

	// UI validation
	if c.UI.TickIntervalMs < 1 {
		errs = append(errs, "ui.tick_interval_ms must be >= 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
