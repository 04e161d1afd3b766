// Package mock provides shared test doubles for integration-style tests.
package mock

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/Cyclone1070/mcpchat/internal/provider"
)

// MockProvider is a scripted provider.Provider. Responses are returned in
// the order they were queued.
type MockProvider struct {
	mu        sync.Mutex
	responses []scripted
	index     int
	requests  []provider.Request
	modelName string

	// OnGenerateCalled is a callback for observing Generate calls
	OnGenerateCalled func(*provider.Request)
}

type scripted struct {
	resp *provider.Response
	err  error
}

// NewMockProvider creates a new mock provider with default settings
func NewMockProvider() *MockProvider {
	return &MockProvider{modelName: "mock-model"}
}

// WithTextResponse queues a plain text reply.
func (m *MockProvider) WithTextResponse(text string) *MockProvider {
	return m.WithResponse(&provider.Response{
		Content:    []provider.Segment{provider.TextSegment{Text: text}},
		StopReason: "end_turn",
	})
}

// WithToolCallResponse queues a reply requesting the given tool calls.
// Calls without an ID get a sequential one.
func (m *MockProvider) WithToolCallResponse(calls ...provider.ToolCallSegment) *MockProvider {
	content := make([]provider.Segment, 0, len(calls))
	for _, c := range calls {
		if c.ID == "" {
			c.ID = fmt.Sprintf("call_%d_%s", len(m.responses), c.Name)
		}
		content = append(content, c)
	}
	return m.WithResponse(&provider.Response{Content: content, StopReason: "tool_use"})
}

// WithResponse queues an arbitrary reply.
func (m *MockProvider) WithResponse(resp *provider.Response) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, scripted{resp: resp})
	return m
}

// WithError queues a failure.
func (m *MockProvider) WithError(err error) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, scripted{err: err})
	return m
}

// Generate implements provider.Provider.
func (m *MockProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	if m.OnGenerateCalled != nil {
		m.OnGenerateCalled(req)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	recorded := *req
	recorded.Messages = slices.Clone(req.Messages)
	recorded.Tools = slices.Clone(req.Tools)
	m.requests = append(m.requests, recorded)

	if m.index >= len(m.responses) {
		// Return a default text response if we run out
		return &provider.Response{
			Content: []provider.Segment{provider.TextSegment{Text: "Done"}},
		}, nil
	}

	next := m.responses[m.index]
	m.index++
	return next.resp, next.err
}

// Model implements provider.Provider.
func (m *MockProvider) Model() string {
	return m.modelName
}

// Requests returns every request seen so far.
func (m *MockProvider) Requests() []provider.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.requests)
}

// CallCount returns the number of Generate calls.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
