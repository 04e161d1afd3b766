package todo

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, store *InMemoryTodoStore) *mcpsdk.ClientSession {
	t.Helper()
	ctx := context.Background()

	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	serverSession, err := NewServer(store, nil).Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
		_ = serverSession.Wait()
	})
	return session
}

func callText(t *testing.T, session *mcpsdk.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	res, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestServer_ListsTools(t *testing.T) {
	session := connect(t, NewInMemoryTodoStore())

	var names []string
	for tool, err := range session.Tools(context.Background(), nil) {
		require.NoError(t, err)
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{ReadTodosToolName, WriteTodosToolName}, names)
}

func TestServer_WriteThenRead(t *testing.T) {
	store := NewInMemoryTodoStore()
	session := connect(t, store)

	text, isErr := callText(t, session, WriteTodosToolName, map[string]any{
		"todos": []any{
			map[string]any{"description": "Book hotel in Madrid", "status": "pending"},
			map[string]any{"description": "Buy museum tickets", "status": "in_progress"},
		},
	})
	require.False(t, isErr, text)
	assert.JSONEq(t, `{"count":2}`, text)

	text, isErr = callText(t, session, ReadTodosToolName, nil)
	require.False(t, isErr)

	var resp ReadTodosResponse
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	require.Len(t, resp.Todos, 2)
	assert.Equal(t, "Book hotel in Madrid", resp.Todos[0].Description)
	assert.Equal(t, TodoStatusInProgress, resp.Todos[1].Status)

	assert.Len(t, store.Read(), 2)
}

func TestServer_EmptyWriteClears(t *testing.T) {
	store := NewInMemoryTodoStore()
	store.Write([]Todo{{Description: "Task", Status: TodoStatusPending}})
	session := connect(t, store)

	text, isErr := callText(t, session, WriteTodosToolName, map[string]any{"todos": []any{}})
	require.False(t, isErr, text)
	assert.Empty(t, store.Read())
}

func TestServer_WriteValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		wantMsg string
	}{
		{
			name:    "missing todos",
			args:    map[string]any{},
			wantMsg: `missing "todos"`,
		},
		{
			name:    "bad status",
			args:    map[string]any{"todos": []any{map[string]any{"description": "x", "status": "done"}}},
			wantMsg: `invalid status "done"`,
		},
		{
			name:    "empty description",
			args:    map[string]any{"todos": []any{map[string]any{"description": "", "status": "pending"}}},
			wantMsg: "description cannot be empty",
		},
		{
			name:    "unknown field",
			args:    map[string]any{"todos": []any{}, "priority": "high"},
			wantMsg: "invalid arguments",
		},
		{
			name:    "wrong type",
			args:    map[string]any{"todos": "all of them"},
			wantMsg: "invalid arguments",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewInMemoryTodoStore()
			session := connect(t, store)

			text, isErr := callText(t, session, WriteTodosToolName, tt.args)
			assert.True(t, isErr)
			assert.Contains(t, text, tt.wantMsg)
			assert.Empty(t, store.Read(), "failed writes leave the store untouched")
		})
	}
}

func TestWriteTodosArgs_ValidateErrors(t *testing.T) {
	err := WriteTodosArgs{Todos: []Todo{{Description: "a", Status: "nope"}}}.Validate()
	var statusErr *InvalidStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, 0, statusErr.Index)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	err = WriteTodosArgs{Todos: []Todo{
		{Description: "a", Status: TodoStatusCompleted},
		{Status: TodoStatusCancelled},
	}}.Validate()
	var descErr *EmptyDescriptionError
	require.True(t, errors.As(err, &descErr))
	assert.Equal(t, 1, descErr.Index)
	assert.ErrorIs(t, err, ErrEmptyDescription)
}

func TestInMemoryTodoStore_Isolation(t *testing.T) {
	store := NewInMemoryTodoStore()
	input := []Todo{{Description: "Original", Status: TodoStatusPending}}
	store.Write(input)

	input[0].Description = "Changed input"
	read := store.Read()
	read[0].Description = "Changed output"

	assert.Equal(t, "Original", store.Read()[0].Description)
}
