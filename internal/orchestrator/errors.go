package orchestrator

import "errors"

var (
	// ErrUpstreamRequestFailed wraps any failure talking to the model.
	ErrUpstreamRequestFailed = errors.New("upstream request failed")

	// ErrToolChainTooDeep is recorded when the model keeps requesting tools
	// after the depth budget is spent.
	ErrToolChainTooDeep = errors.New("tool chain too deep")
)
