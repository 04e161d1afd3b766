package orchestrator

import "log/slog"

// StatusFunc receives progress updates while a turn is being resolved.
// Phases are "thinking" and "executing".
type StatusFunc func(phase, message string)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the structured logger. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStatus registers a progress callback.
func WithStatus(fn StatusFunc) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.status = fn
		}
	}
}
