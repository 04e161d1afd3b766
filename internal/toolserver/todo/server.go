// Package todo is a small MCP tool-server exposing a shared todo list.
package todo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mitchellh/mapstructure"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	ServerName    = "todoserver"
	ServerVersion = "0.1.0"

	ReadTodosToolName  = "read_todos"
	WriteTodosToolName = "write_todos"
)

// todoStore defines the interface for todo storage.
type todoStore interface {
	Read() []Todo
	Write(todos []Todo)
}

// NewServer builds an MCP server exposing read_todos and write_todos over
// store.
func NewServer(store todoStore, logger *slog.Logger) *mcpsdk.Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &handlers{store: store, logger: logger}

	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: ServerName, Version: ServerVersion}, nil)
	server.AddTool(&mcpsdk.Tool{
		Name:        ReadTodosToolName,
		Description: "Read the current todo list.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}, h.readTodos)

	server.AddTool(&mcpsdk.Tool{
		Name:        WriteTodosToolName,
		Description: "Replace the todo list. Send the full list; an empty list clears it.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"todos": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"description": map[string]any{"type": "string"},
							"status": map[string]any{
								"type": "string",
								"enum": []any{
									string(TodoStatusPending),
									string(TodoStatusInProgress),
									string(TodoStatusCompleted),
									string(TodoStatusCancelled),
								},
							},
						},
						"required": []any{"description", "status"},
					},
				},
			},
			"required": []any{"todos"},
		},
	}, h.writeTodos)

	return server
}

type handlers struct {
	store  todoStore
	logger *slog.Logger
}

func (h *handlers) readTodos(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	todos := h.store.Read()
	h.logger.Debug("read todos", "count", len(todos))
	return jsonResult(ReadTodosResponse{Todos: todos})
}

func (h *handlers) writeTodos(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	args, err := decodeWriteArgs(req.Params.Arguments)
	if err != nil {
		return errorResult(err), nil
	}
	if err := args.Validate(); err != nil {
		return errorResult(err), nil
	}

	h.store.Write(args.Todos)
	h.logger.Info("wrote todos", "count", len(args.Todos))
	return jsonResult(WriteTodosResponse{Count: len(args.Todos)})
}

// decodeWriteArgs decodes raw JSON arguments strictly: unknown keys and
// wrong types are rejected.
func decodeWriteArgs(raw json.RawMessage) (WriteTodosArgs, error) {
	var generic map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &generic); err != nil {
			return WriteTodosArgs{}, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
		}
	}
	if _, ok := generic["todos"]; !ok {
		return WriteTodosArgs{}, fmt.Errorf("%w: missing \"todos\"", ErrInvalidArguments)
	}

	var args WriteTodosArgs
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &args,
	})
	if err != nil {
		return WriteTodosArgs{}, err
	}
	if err := decoder.Decode(generic); err != nil {
		return WriteTodosArgs{}, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}
	if args.Todos == nil {
		args.Todos = []Todo{}
	}
	return args, nil
}

func jsonResult(v any) (*mcpsdk.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, nil
}

func errorResult(err error) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		IsError: true,
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
	}
}
