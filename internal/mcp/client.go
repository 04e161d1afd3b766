package mcp

import (
	"context"
	"fmt"
	"iter"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ClientName and ClientVersion identify this program to tool-servers.
const (
	ClientName    = "mcpchat"
	ClientVersion = "0.1.0"
)

// ToolLister lists the tools advertised by a connected tool-server.
// *mcpsdk.ClientSession satisfies it.
type ToolLister interface {
	Tools(ctx context.Context, params *mcpsdk.ListToolsParams) iter.Seq2[*mcpsdk.Tool, error]
}

// ToolCaller executes one tool call on a connected tool-server.
// *mcpsdk.ClientSession satisfies it.
type ToolCaller interface {
	CallTool(ctx context.Context, params *mcpsdk.CallToolParams) (*mcpsdk.CallToolResult, error)
}

// Connect opens a session over transport.
func Connect(ctx context.Context, transport mcpsdk.Transport) (*mcpsdk.ClientSession, error) {
	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: ClientName, Version: ClientVersion}, nil)
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to tool server: %w", err)
	}
	return session, nil
}

// Dial builds the transport described by spec and connects to it.
func Dial(ctx context.Context, spec string, forwardEnv []string) (*mcpsdk.ClientSession, error) {
	transport, err := BuildTransport(ctx, spec, forwardEnv)
	if err != nil {
		return nil, fmt.Errorf("build transport: %w", err)
	}
	return Connect(ctx, transport)
}
