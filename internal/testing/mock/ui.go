package mock

import (
	"context"
	"errors"
	"sync"
)

// ErrNoMoreInput is returned by MockUI.ReadInput once scripted inputs run out.
var ErrNoMoreInput = errors.New("no more input")

// MockUI implements the session's user interface for testing
type MockUI struct {
	mu       sync.Mutex
	Inputs   []string
	Messages []string
	Notices  []string
	Statuses []string

	// InputFunc overrides Inputs when set
	InputFunc func(ctx context.Context, prompt string) (string, error)

	ReadyChan chan struct{}
	// StartBlocker controls when Start() returns (for tests)
	StartBlocker chan struct{}

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewMockUI creates a MockUI that replays inputs in order.
func NewMockUI(inputs ...string) *MockUI {
	return &MockUI{Inputs: inputs}
}

func (m *MockUI) ReadInput(ctx context.Context, prompt string) (string, error) {
	if m.InputFunc != nil {
		return m.InputFunc(ctx, prompt)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Inputs) == 0 {
		return "", ErrNoMoreInput
	}
	next := m.Inputs[0]
	m.Inputs = m.Inputs[1:]
	return next, nil
}

func (m *MockUI) WriteMessage(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, message)
}

func (m *MockUI) WriteNotice(notice string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notices = append(m.Notices, notice)
}

func (m *MockUI) WriteStatus(phase, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Statuses = append(m.Statuses, phase+": "+message)
}

// GetMessages returns a copy of the written messages.
func (m *MockUI) GetMessages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := make([]string, len(m.Messages))
	copy(msgs, m.Messages)
	return msgs
}

// GetNotices returns a copy of the written notices.
func (m *MockUI) GetNotices() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	notices := make([]string, len(m.Notices))
	copy(notices, m.Notices)
	return notices
}

// GetStatuses returns a copy of the written statuses.
func (m *MockUI) GetStatuses() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	statuses := make([]string, len(m.Statuses))
	copy(statuses, m.Statuses)
	return statuses
}

func (m *MockUI) Ready() <-chan struct{} {
	if m.ReadyChan != nil {
		return m.ReadyChan
	}
	// Return closed channel (always ready)
	ch := make(chan struct{})
	close(ch)
	return ch
}

// Start blocks until StartBlocker is closed or Stop is called. With no
// StartBlocker it returns immediately.
func (m *MockUI) Start() error {
	if m.StartBlocker != nil {
		select {
		case <-m.StartBlocker:
		case <-m.stopChan():
		}
	}
	return nil
}

func (m *MockUI) Stop() {
	ch := m.stopChan()
	m.stopOnce.Do(func() { close(ch) })
}

// Stopped reports whether Stop was called.
func (m *MockUI) Stopped() bool {
	select {
	case <-m.stopChan():
		return true
	default:
		return false
	}
}

func (m *MockUI) stopChan() chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped == nil {
		m.stopped = make(chan struct{})
	}
	return m.stopped
}
