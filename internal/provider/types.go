package provider

import (
	"context"
	"strings"
)

// Provider is an LLM backend able to answer one request/response turn.
type Provider interface {
	// Generate sends the request and returns the model's reply segments.
	Generate(ctx context.Context, req *Request) (*Response, error)

	// Model returns the default model identifier of this backend.
	Model() string
}

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Segment is one typed piece of message content.
// The set of implementations is closed: TextSegment, ToolCallSegment and
// ToolResultSegment.
type Segment interface {
	isSegment()
}

// TextSegment is plain narration.
type TextSegment struct {
	Text string
}

func (TextSegment) isSegment() {}

// ToolCallSegment is a model's proposal to invoke a named tool.
type ToolCallSegment struct {
	ID        string // callId, correlates the eventual result
	Name      string
	Arguments map[string]any
}

func (ToolCallSegment) isSegment() {}

// ToolResultSegment reports the outcome of a tool call back to the model.
type ToolResultSegment struct {
	ToolCallID string // Matches ToolCallSegment.ID
	Content    string
	IsError    bool
}

func (ToolResultSegment) isSegment() {}

// Message represents a single turn of conversation.
type Message struct {
	Role    Role
	Content []Segment
}

// NewTextMessage builds a message holding a single text segment.
func NewTextMessage(role Role, text string) Message {
	return Message{
		Role:    role,
		Content: []Segment{TextSegment{Text: text}},
	}
}

// Text concatenates the text segments of the message in order.
func (m Message) Text() string {
	var sb strings.Builder
	for _, seg := range m.Content {
		if t, ok := seg.(TextSegment); ok {
			sb.WriteString(t.Text)
		}
	}
	return sb.String()
}

// ToolCalls returns the tool-call segments of the message in order.
func (m Message) ToolCalls() []ToolCallSegment {
	var calls []ToolCallSegment
	for _, seg := range m.Content {
		if tc, ok := seg.(ToolCallSegment); ok {
			calls = append(calls, tc)
		}
	}
	return calls
}

// ToolSpec describes one tool to the model.
type ToolSpec struct {
	Name        string
	Description string
	InputSchema map[string]any // JSON Schema object, passed through as-is
}

// Request encapsulates all parameters for a generation request.
type Request struct {
	// Model overrides the backend default when set.
	Model string

	// MaxTokens caps the output length. Zero uses the backend default.
	MaxTokens int

	// System holds the system instructions.
	System string

	// Messages is the ordered conversation sent upstream.
	Messages []Message

	// Tools is the tool list offered to the model.
	Tools []ToolSpec
}

// Response contains the model's reply.
type Response struct {
	Content    []Segment
	StopReason string
	Usage      Usage
}

// Message wraps the response content as an assistant message.
func (r *Response) Message() Message {
	return Message{Role: RoleAssistant, Content: r.Content}
}

// Usage contains token accounting for one turn.
type Usage struct {
	InputTokens  int
	OutputTokens int
}
