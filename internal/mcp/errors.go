package mcp

import "errors"

var (
	// ErrDiscoveryFailed is returned when the tool list cannot be fetched
	// from the tool-server. Startup must not continue without tools.
	ErrDiscoveryFailed = errors.New("tool discovery failed")

	// ErrUnknownTool is returned when the model names a tool the registry
	// does not know. Nothing is sent to the tool-server.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrToolExecutionFailed marks a tool call that failed on the server or
	// in transport. It is reported back to the model, never raised.
	ErrToolExecutionFailed = errors.New("tool execution failed")
)
