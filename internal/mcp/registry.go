package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Cyclone1070/mcpchat/internal/provider"
)

// ToolDescriptor is one tool advertised by the tool-server.
type ToolDescriptor struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// Registry is the immutable set of tools discovered at startup, keyed by
// name and kept in discovery order.
type Registry struct {
	tools []ToolDescriptor
	index map[string]int
}

// NewRegistry builds a registry from descriptors. Duplicate names keep the
// first occurrence.
func NewRegistry(tools []ToolDescriptor) *Registry {
	r := &Registry{
		tools: make([]ToolDescriptor, 0, len(tools)),
		index: make(map[string]int, len(tools)),
	}
	for _, t := range tools {
		if _, exists := r.index[t.Name]; exists {
			continue
		}
		r.index[t.Name] = len(r.tools)
		r.tools = append(r.tools, t)
	}
	return r
}

// Discover lists every tool from the connected server and builds a Registry.
// A server with zero tools yields an empty registry; a listing error yields
// ErrDiscoveryFailed.
func Discover(ctx context.Context, lister ToolLister, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if lister == nil {
		return nil, fmt.Errorf("%w: no tool server session", ErrDiscoveryFailed)
	}

	var tools []ToolDescriptor
	seen := make(map[string]bool)
	for tool, err := range lister.Tools(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDiscoveryFailed, err)
		}
		if tool == nil {
			continue
		}
		if seen[tool.Name] {
			logger.Warn("duplicate tool name from server, skipping", "tool", tool.Name)
			continue
		}
		seen[tool.Name] = true

		schema, err := normalizeSchema(tool.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("%w: tool %q: %w", ErrDiscoveryFailed, tool.Name, err)
		}
		tools = append(tools, ToolDescriptor{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: schema,
		})
	}

	logger.Info("discovered tools", "count", len(tools))
	return NewRegistry(tools), nil
}

// normalizeSchema converts an arbitrary wire schema into a JSON object map
// with "type" defaulted to "object".
func normalizeSchema(raw any) (map[string]any, error) {
	var schema map[string]any
	switch s := raw.(type) {
	case nil:
		schema = map[string]any{}
	case map[string]any:
		schema = make(map[string]any, len(s)+1)
		for k, v := range s {
			schema[k] = v
		}
	default:
		data, err := json.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("encode input schema: %w", err)
		}
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("input schema is not an object: %w", err)
		}
		if schema == nil {
			schema = map[string]any{}
		}
	}
	if _, ok := schema["type"]; !ok {
		schema["type"] = "object"
	}
	return schema, nil
}

// Descriptors returns the tools in discovery order.
func (r *Registry) Descriptors() []ToolDescriptor {
	out := make([]ToolDescriptor, len(r.tools))
	copy(out, r.tools)
	return out
}

// DescribeForModel projects the registry into the tool list sent with every
// model request, in discovery order.
func (r *Registry) DescribeForModel() []provider.ToolSpec {
	specs := make([]provider.ToolSpec, 0, len(r.tools))
	for _, t := range r.tools {
		specs = append(specs, provider.ToolSpec{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		})
	}
	return specs
}

// Lookup finds a tool by exact name.
func (r *Registry) Lookup(name string) (ToolDescriptor, bool) {
	i, ok := r.index[name]
	if !ok {
		return ToolDescriptor{}, false
	}
	return r.tools[i], true
}

// Names returns the tool names in discovery order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for _, t := range r.tools {
		names = append(names, t.Name)
	}
	return names
}

// Len returns the number of tools.
func (r *Registry) Len() int {
	return len(r.tools)
}
