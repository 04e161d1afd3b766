// Package main provides the interactive travel assistant: a terminal chat
// backed by an LLM that answers with tools from an MCP tool-server.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Cyclone1070/mcpchat/internal/config"
	"github.com/Cyclone1070/mcpchat/internal/history"
	"github.com/Cyclone1070/mcpchat/internal/mcp"
	"github.com/Cyclone1070/mcpchat/internal/orchestrator"
	"github.com/Cyclone1070/mcpchat/internal/provider"
	"github.com/Cyclone1070/mcpchat/internal/provider/anthropic"
	"github.com/Cyclone1070/mcpchat/internal/provider/gemini"
	"github.com/Cyclone1070/mcpchat/internal/session"
	"github.com/Cyclone1070/mcpchat/internal/ui"
	uiservices "github.com/Cyclone1070/mcpchat/internal/ui/services"
	"github.com/charmbracelet/bubbles/spinner"
)

const (
	anthropicKeyEnv = "ANTHROPIC_API_KEY"
	geminiKeyEnv    = "GEMINI_API_KEY"
)

// toolInvoker executes a named tool on the tool-server.
type toolInvoker interface {
	Invoke(ctx context.Context, name string, args map[string]any) (mcp.ToolResult, error)
}

// Dependencies holds the components required to run the application.
type Dependencies struct {
	Config   *config.Config
	UI       ui.UserInterface
	Provider provider.Provider
	Registry *mcp.Registry
	Invoker  toolInvoker
	Logger   *slog.Logger
}

func createRealUI(cfg *config.Config) ui.UserInterface {
	channels := ui.NewUIChannels(cfg)
	renderer := uiservices.NewGlamourRenderer()
	spinnerFactory := func() spinner.Model {
		return spinner.New(spinner.WithSpinner(spinner.Dot))
	}
	return ui.NewUI(channels, renderer, spinnerFactory)
}

// newProvider builds the configured LLM backend. getenv supplies API keys.
func newProvider(ctx context.Context, cfg *config.Config, getenv func(string) string) (provider.Provider, error) {
	switch cfg.Provider.Name {
	case config.ProviderAnthropic:
		apiKey := getenv(anthropicKeyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("%s environment variable is required", anthropicKeyEnv)
		}
		client := anthropic.NewRealMessagesClient(apiKey)
		return anthropic.New(client, cfg.Provider.Model, cfg.Provider.MaxOutputTokens), nil

	case config.ProviderGemini:
		apiKey := getenv(geminiKeyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("%s environment variable is required", geminiKeyEnv)
		}
		client, err := gemini.NewRealGeminiClientFromKey(ctx, apiKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return gemini.New(client, cfg.Provider.Model, cfg.Provider.MaxOutputTokens), nil

	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider.Name)
	}
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	// Keys from ./.env must be in the environment before the provider and
	// the tool-server child read them
	loadedEnv, err := loadDotEnv(dotEnvFile)
	if err != nil {
		return err
	}

	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	// Load configuration (from defaults + ~/.config/mcpchat/config.json)
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer closer.Close()
	if len(loadedEnv) > 0 {
		logger.Info("loaded environment from file", "file", dotEnvFile, "names", loadedEnv)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := newProvider(ctx, cfg, os.Getenv)
	if err != nil {
		return err
	}

	// The tool-server must be reachable and list its tools before the chat
	// starts; there is no degraded mode without tools.
	toolSession, err := mcp.Dial(ctx, cfg.ToolServer.Transport, cfg.ToolServer.Env)
	if err != nil {
		return fmt.Errorf("connect to tool server: %w", err)
	}
	defer toolSession.Close()

	reg, err := mcp.Discover(ctx, toolSession, logger)
	if err != nil {
		return err
	}
	logger.Info("tools discovered", "count", reg.Len(), "names", reg.Names())

	deps := Dependencies{
		Config:   cfg,
		Provider: p,
		Registry: reg,
		Invoker:  mcp.NewInvoker(toolSession, reg, logger),
		Logger:   logger,
	}

	if len(opts.queries) > 0 {
		return runQueries(ctx, deps, opts.queries, stdout)
	}

	deps.UI = createRealUI(cfg)
	return runInteractive(ctx, deps)
}

// runInteractive runs the session loop beside the UI and returns once the
// UI has exited and the loop has stopped.
func runInteractive(ctx context.Context, deps Dependencies) error {
	userInterface := deps.UI
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	orch, err := newOrchestrator(deps, logger, orchestrator.WithStatus(userInterface.WriteStatus))
	if err != nil {
		return err
	}

	sessCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := history.New(deps.Config.History.MaxMessages)
	sess := session.New(userInterface, orch, store, deps.Registry, logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		select {
		case <-userInterface.Ready():
		case <-sessCtx.Done():
			return
		}

		if err := sess.Run(sessCtx); err != nil {
			logger.Error("session ended", "error", err)
		}
		// Session over: take the UI down with it
		if sessCtx.Err() == nil {
			userInterface.Stop()
		}
	}()

	// Stop the UI on SIGINT/SIGTERM too
	uiDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			userInterface.Stop()
		case <-uiDone:
		}
	}()

	// Run UI in main thread (blocks until exit)
	startErr := userInterface.Start()
	close(uiDone)

	// UI exited, trigger shutdown
	cancel()
	wg.Wait()

	if startErr != nil {
		return fmt.Errorf("run UI: %w", startErr)
	}
	return nil
}

func newOrchestrator(deps Dependencies, logger *slog.Logger, opts ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	opts = append([]orchestrator.Option{orchestrator.WithLogger(logger)}, opts...)
	return orchestrator.New(deps.Config, deps.Provider, deps.Registry, deps.Invoker, opts...)
}
