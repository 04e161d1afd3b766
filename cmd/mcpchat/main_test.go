package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Cyclone1070/mcpchat/internal/config"
	"github.com/Cyclone1070/mcpchat/internal/mcp"
	"github.com/Cyclone1070/mcpchat/internal/provider"
	"github.com/Cyclone1070/mcpchat/internal/testing/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoInvoker struct{}

func (echoInvoker) Invoke(ctx context.Context, name string, args map[string]any) (mcp.ToolResult, error) {
	return mcp.ToolResult{Content: `[{"name":"Hotel Sol"}]`}, nil
}

func envMap(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func testRegistry() *mcp.Registry {
	return mcp.NewRegistry([]mcp.ToolDescriptor{
		{Name: "search_hotels", InputSchema: map[string]any{"type": "object"}},
	})
}

func TestNewProvider_Anthropic(t *testing.T) {
	cfg := config.DefaultConfig()

	p, err := newProvider(context.Background(), cfg, envMap(map[string]string{anthropicKeyEnv: "sk-test"}))

	require.NoError(t, err)
	assert.Equal(t, cfg.Provider.Model, p.Model())
}

func TestNewProvider_MissingKey(t *testing.T) {
	for _, name := range []string{config.ProviderAnthropic, config.ProviderGemini} {
		t.Run(name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Provider.Name = name

			_, err := newProvider(context.Background(), cfg, envMap(nil))

			require.Error(t, err)
			assert.Contains(t, err.Error(), "environment variable is required")
		})
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Provider.Name = "openai"

	_, err := newProvider(context.Background(), cfg, envMap(nil))

	assert.ErrorContains(t, err, `unknown provider "openai"`)
}

func TestNewLogger(t *testing.T) {
	logger, closer, err := newLogger(config.LoggingConfig{Level: "info"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NoError(t, closer.Close())

	path := filepath.Join(t.TempDir(), "mcpchat.log")
	logger, closer, err = newLogger(config.LoggingConfig{Level: "debug", File: path})
	require.NoError(t, err)
	logger.Debug("tools discovered", "count", 2)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tools discovered")

	_, _, err = newLogger(config.LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestRunInteractive_SessionEndStopsUI(t *testing.T) {
	mockUI := mock.NewMockUI("hotels in Madrid", "/exit")
	mockUI.StartBlocker = make(chan struct{})

	p := mock.NewMockProvider().
		WithToolCallResponse(provider.ToolCallSegment{Name: "search_hotels", Arguments: map[string]any{"city": "Madrid"}}).
		WithTextResponse("Hotel Sol is central.")

	deps := Dependencies{
		Config:   config.DefaultConfig(),
		UI:       mockUI,
		Provider: p,
		Registry: testRegistry(),
		Invoker:  echoInvoker{},
	}

	done := make(chan error, 1)
	go func() { done <- runInteractive(context.Background(), deps) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runInteractive did not stop after the session ended")
	}

	assert.True(t, mockUI.Stopped())
	assert.Equal(t, []string{"Hotel Sol is central."}, mockUI.GetMessages())
	assert.Contains(t, mockUI.GetNotices(), "Tools used: search_hotels")
	assert.Contains(t, mockUI.GetStatuses(), "executing: Running search_hotels...")
}

func TestRunInteractive_ContextCancellation(t *testing.T) {
	mockUI := mock.NewMockUI()
	mockUI.StartBlocker = make(chan struct{})
	mockUI.InputFunc = func(ctx context.Context, prompt string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}

	deps := Dependencies{
		Config:   config.DefaultConfig(),
		UI:       mockUI,
		Provider: mock.NewMockProvider(),
		Registry: testRegistry(),
		Invoker:  echoInvoker{},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runInteractive(ctx, deps) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runInteractive did not stop after context cancellation")
	}
}

func TestRunInteractive_RequiresRegistry(t *testing.T) {
	deps := Dependencies{
		Config:   config.DefaultConfig(),
		UI:       mock.NewMockUI(),
		Provider: mock.NewMockProvider(),
		Invoker:  echoInvoker{},
	}

	err := runInteractive(context.Background(), deps)

	assert.ErrorIs(t, err, mcp.ErrDiscoveryFailed)
}
