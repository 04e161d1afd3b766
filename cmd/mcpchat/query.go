package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Cyclone1070/mcpchat/internal/orchestrator"
)

// queryList collects repeated -q flags in order.
type queryList []string

func (q *queryList) String() string { return strings.Join(*q, "; ") }

func (q *queryList) Set(v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.New("query must not be empty")
	}
	*q = append(*q, v)
	return nil
}

type options struct {
	queries []string
}

func parseFlags(args []string) (options, error) {
	var queries queryList
	fs := flag.NewFlagSet("mcpchat", flag.ContinueOnError)
	fs.Var(&queries, "q", "Ask a single question, print the answer and exit (repeatable)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return options{queries: queries}, nil
}

// runQueries answers each query on its own, without shared history, and
// prints the answers to out. Every answer is printed; the returned error
// joins the turns that failed upstream.
func runQueries(ctx context.Context, deps Dependencies, queries []string, out io.Writer) error {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	orch, err := newOrchestrator(deps, logger)
	if err != nil {
		return err
	}

	var errs []error
	for i, q := range queries {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "=== Question ===\n%s\n\n", q)

		res := orch.Chat(ctx, q, nil)
		fmt.Fprintf(out, "=== Answer ===\n%s\n", res.Message)
		if len(res.ToolsUsed) > 0 {
			fmt.Fprintf(out, "\nTools used: %s\n", strings.Join(res.ToolsUsed, ", "))
		}

		if res.Err != nil && !errors.Is(res.Err, orchestrator.ErrToolChainTooDeep) {
			errs = append(errs, fmt.Errorf("query %d: %w", i+1, res.Err))
		}
	}
	return errors.Join(errs...)
}
