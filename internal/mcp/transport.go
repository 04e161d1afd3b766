package mcp

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	stdioSchemePrefix = "stdio://"
	sseSchemePrefix   = "sse://"
	httpHintType      = "http"
	sseHintType       = "sse"
)

// baseEnv is always passed to a stdio child so it can locate binaries.
var baseEnv = []string{"PATH", "HOME"}

// BuildTransport turns a transport spec string into an MCP transport.
//
// Accepted forms:
//
//	stdio://cmd args      child process over stdio
//	cmd args              same as stdio://
//	sse://host/path       legacy SSE endpoint (https assumed)
//	http(s)+sse://...     SSE endpoint
//	http(s)+stream://...  streamable HTTP endpoint
//	http(s)://...         SSE endpoint
//
// forwardEnv names environment variables copied into a stdio child's
// environment. Each must be set.
func BuildTransport(ctx context.Context, spec string, forwardEnv []string) (mcpsdk.Transport, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("transport spec is empty")
	}

	lowered := strings.ToLower(spec)
	switch {
	case strings.HasPrefix(lowered, stdioSchemePrefix):
		return buildStdioTransport(ctx, spec[len(stdioSchemePrefix):], forwardEnv)
	case strings.HasPrefix(lowered, sseSchemePrefix):
		endpoint, err := normalizeHTTPURL(spec[len(sseSchemePrefix):], true)
		if err != nil {
			return nil, fmt.Errorf("invalid SSE endpoint: %w", err)
		}
		return &mcpsdk.SSEClientTransport{Endpoint: endpoint}, nil
	}

	kind, endpoint, matched, err := parseHTTPFamilySpec(spec)
	if err != nil {
		return nil, err
	}
	if matched {
		if kind == httpHintType {
			return &mcpsdk.StreamableClientTransport{Endpoint: endpoint}, nil
		}
		return &mcpsdk.SSEClientTransport{Endpoint: endpoint}, nil
	}

	if strings.HasPrefix(lowered, "http://") || strings.HasPrefix(lowered, "https://") {
		endpoint, err := normalizeHTTPURL(spec, false)
		if err != nil {
			return nil, fmt.Errorf("invalid SSE endpoint: %w", err)
		}
		return &mcpsdk.SSEClientTransport{Endpoint: endpoint}, nil
	}

	return buildStdioTransport(ctx, spec, forwardEnv)
}

func buildStdioTransport(ctx context.Context, cmdSpec string, forwardEnv []string) (mcpsdk.Transport, error) {
	parts := strings.Fields(cmdSpec)
	if len(parts) == 0 {
		return nil, fmt.Errorf("stdio command is empty")
	}

	// #nosec G204 -- the command comes from the user's own config file
	command := exec.CommandContext(ctx, parts[0], parts[1:]...)
	if len(forwardEnv) > 0 {
		env, err := childEnv(forwardEnv)
		if err != nil {
			return nil, err
		}
		command.Env = env
	}
	return &mcpsdk.CommandTransport{Command: command}, nil
}

// childEnv builds the environment for a stdio child from baseEnv plus the
// forwarded names.
func childEnv(forward []string) ([]string, error) {
	env := make([]string, 0, len(baseEnv)+len(forward))
	for _, name := range baseEnv {
		if v, ok := os.LookupEnv(name); ok {
			env = append(env, name+"="+v)
		}
	}
	for _, name := range forward {
		v, ok := os.LookupEnv(name)
		if !ok || v == "" {
			return nil, fmt.Errorf("environment variable %s is not set", name)
		}
		env = append(env, name+"="+v)
	}
	return env, nil
}

func parseHTTPFamilySpec(spec string) (kind string, endpoint string, matched bool, err error) {
	u, parseErr := url.Parse(spec)
	if parseErr != nil || u.Scheme == "" {
		return "", "", false, nil
	}
	base, hint, hasHint := strings.Cut(strings.ToLower(u.Scheme), "+")
	if !hasHint || (base != "http" && base != "https") {
		return "", "", false, nil
	}

	switch hint {
	case "sse":
		kind = sseHintType
	case "stream", "streamable", "http":
		kind = httpHintType
	default:
		return "", "", true, fmt.Errorf("unsupported HTTP transport hint %q", hint)
	}

	normalized := *u
	normalized.Scheme = base
	endpoint, err = normalizeHTTPURL(normalized.String(), false)
	if err != nil {
		return "", "", true, fmt.Errorf("invalid %s endpoint: %w", kind, err)
	}
	return kind, endpoint, true, nil
}

func normalizeHTTPURL(raw string, allowSchemeGuess bool) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("endpoint is empty")
	}
	if allowSchemeGuess && !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("missing host")
	}
	parsed.Scheme = scheme
	return parsed.String(), nil
}
