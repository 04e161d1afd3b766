package mcp

import (
	"context"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTransport(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		check    func(t *testing.T, tr mcpsdk.Transport)
		errorMsg string
	}{
		{
			name: "stdio scheme",
			spec: "stdio://todoserver --verbose",
			check: func(t *testing.T, tr mcpsdk.Transport) {
				ct, ok := tr.(*mcpsdk.CommandTransport)
				require.True(t, ok)
				assert.Equal(t, []string{"todoserver", "--verbose"}, ct.Command.Args)
			},
		},
		{
			name: "bare command",
			spec: "docker run --rm -i tripadvisor-mcp-server",
			check: func(t *testing.T, tr mcpsdk.Transport) {
				ct, ok := tr.(*mcpsdk.CommandTransport)
				require.True(t, ok)
				assert.Equal(t, "docker", ct.Command.Args[0])
				assert.Len(t, ct.Command.Args, 5)
			},
		},
		{
			name: "sse scheme guesses https",
			spec: "sse://tools.example.com/sse",
			check: func(t *testing.T, tr mcpsdk.Transport) {
				st, ok := tr.(*mcpsdk.SSEClientTransport)
				require.True(t, ok)
				assert.Equal(t, "https://tools.example.com/sse", st.Endpoint)
			},
		},
		{
			name: "http plus sse",
			spec: "http+sse://localhost:8080/sse",
			check: func(t *testing.T, tr mcpsdk.Transport) {
				st, ok := tr.(*mcpsdk.SSEClientTransport)
				require.True(t, ok)
				assert.Equal(t, "http://localhost:8080/sse", st.Endpoint)
			},
		},
		{
			name: "https plus stream",
			spec: "https+stream://tools.example.com/mcp",
			check: func(t *testing.T, tr mcpsdk.Transport) {
				st, ok := tr.(*mcpsdk.StreamableClientTransport)
				require.True(t, ok)
				assert.Equal(t, "https://tools.example.com/mcp", st.Endpoint)
			},
		},
		{
			name: "plain https defaults to sse",
			spec: "https://tools.example.com/sse",
			check: func(t *testing.T, tr mcpsdk.Transport) {
				_, ok := tr.(*mcpsdk.SSEClientTransport)
				assert.True(t, ok)
			},
		},
		{name: "empty", spec: "   ", errorMsg: "transport spec is empty"},
		{name: "empty stdio", spec: "stdio://", errorMsg: "stdio command is empty"},
		{name: "bad hint", spec: "http+carrier://x", errorMsg: "unsupported HTTP transport hint"},
		{name: "missing host", spec: "sse://", errorMsg: "invalid SSE endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := BuildTransport(context.Background(), tt.spec, nil)
			if tt.errorMsg != "" {
				assert.ErrorContains(t, err, tt.errorMsg)
				return
			}
			require.NoError(t, err)
			tt.check(t, tr)
		})
	}
}

func TestBuildTransport_ForwardsEnv(t *testing.T) {
	t.Setenv("TRIPADVISOR_API_KEY", "secret")
	t.Setenv("UNRELATED_VAR", "leak")

	tr, err := BuildTransport(context.Background(), "server", []string{"TRIPADVISOR_API_KEY"})
	require.NoError(t, err)

	ct := tr.(*mcpsdk.CommandTransport)
	assert.Contains(t, ct.Command.Env, "TRIPADVISOR_API_KEY=secret")
	assert.NotContains(t, ct.Command.Env, "UNRELATED_VAR=leak")
}

func TestBuildTransport_MissingForwardedEnv(t *testing.T) {
	t.Setenv("TRIPADVISOR_API_KEY", "")

	_, err := BuildTransport(context.Background(), "server", []string{"TRIPADVISOR_API_KEY"})
	assert.ErrorContains(t, err, "TRIPADVISOR_API_KEY is not set")
}
