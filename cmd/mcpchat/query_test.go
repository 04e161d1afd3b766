package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/Cyclone1070/mcpchat/internal/config"
	"github.com/Cyclone1070/mcpchat/internal/orchestrator"
	"github.com/Cyclone1070/mcpchat/internal/provider"
	"github.com/Cyclone1070/mcpchat/internal/testing/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	t.Run("No Flags Is Interactive", func(t *testing.T) {
		opts, err := parseFlags(nil)
		require.NoError(t, err)
		assert.Empty(t, opts.queries)
	})

	t.Run("Repeated Queries Keep Order", func(t *testing.T) {
		opts, err := parseFlags([]string{"-q", "hotels in Madrid", "-q", "flights to Lisbon"})
		require.NoError(t, err)
		assert.Equal(t, []string{"hotels in Madrid", "flights to Lisbon"}, opts.queries)
	})

	t.Run("Blank Query Rejected", func(t *testing.T) {
		_, err := parseFlags([]string{"-q", "  "})
		assert.ErrorContains(t, err, "query must not be empty")
	})

	t.Run("Stray Arguments Rejected", func(t *testing.T) {
		_, err := parseFlags([]string{"hotels"})
		assert.ErrorContains(t, err, "unexpected arguments: hotels")
	})
}

func TestRunQueries_PrintsEachAnswer(t *testing.T) {
	p := mock.NewMockProvider().
		WithToolCallResponse(provider.ToolCallSegment{Name: "search_hotels", Arguments: map[string]any{"city": "Madrid"}}).
		WithTextResponse("Hotel Sol is central.").
		WithTextResponse("No flights found.")

	deps := Dependencies{
		Config:   config.DefaultConfig(),
		Provider: p,
		Registry: testRegistry(),
		Invoker:  echoInvoker{},
	}
	var out bytes.Buffer

	err := runQueries(context.Background(), deps, []string{"hotels in Madrid", "flights to Lisbon"}, &out)

	require.NoError(t, err)
	assert.Equal(t,
		"=== Question ===\nhotels in Madrid\n\n=== Answer ===\nHotel Sol is central.\n\nTools used: search_hotels\n"+
			"\n=== Question ===\nflights to Lisbon\n\n=== Answer ===\nNo flights found.\n",
		out.String())

	// The second question starts without the first one's history
	reqs := p.Requests()
	require.Len(t, reqs, 3)
	assert.Len(t, reqs[2].Messages, 1)
}

func TestRunQueries_UpstreamFailure(t *testing.T) {
	p := mock.NewMockProvider().
		WithError(errors.New("connection refused")).
		WithTextResponse("Hotel Sol is central.")

	deps := Dependencies{
		Config:   config.DefaultConfig(),
		Provider: p,
		Registry: testRegistry(),
		Invoker:  echoInvoker{},
	}
	var out bytes.Buffer

	err := runQueries(context.Background(), deps, []string{"flights", "hotels"}, &out)

	assert.ErrorIs(t, err, orchestrator.ErrUpstreamRequestFailed)
	assert.ErrorContains(t, err, "query 1")
	assert.Contains(t, out.String(), "connection refused")
	assert.Contains(t, out.String(), "Hotel Sol is central.")
}

func TestRunQueries_RequiresRegistry(t *testing.T) {
	deps := Dependencies{
		Config:   config.DefaultConfig(),
		Provider: mock.NewMockProvider(),
		Invoker:  echoInvoker{},
	}

	err := runQueries(context.Background(), deps, []string{"hotels"}, &bytes.Buffer{})

	assert.Error(t, err)
}
