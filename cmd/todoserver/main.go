// Package main runs the sample todo tool-server over stdio.
// Point tool_server.transport at the built binary to chat against it locally.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Cyclone1070/mcpchat/internal/toolserver/todo"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// stdout carries the protocol, so logs go to stderr
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	server := todo.NewServer(todo.NewInMemoryTodoStore(), logger)
	logger.Info("todo server starting", "name", todo.ServerName, "version", todo.ServerVersion)

	if err := server.Run(ctx, &mcpsdk.StdioTransport{}); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "todoserver: %v\n", err)
		os.Exit(1)
	}
}
