package runner

import (
	"log/slog"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/ports"
)

// DefaultConcurrency is the number of jobs executed at once when unset.
const DefaultConcurrency = 4

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithStore persists every finished run.
func WithStore(store ports.RunStore) Option {
	return func(r *Runner) {
		r.store = store
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithConcurrency bounds the number of jobs running at once.
// Values below one fall back to DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		r.concurrency = n
	}
}

// WithHandler streams each result, in job order, to h.
func WithHandler(h ResultHandler) Option {
	return func(r *Runner) {
		r.handler = h
	}
}

// WithEngineOptions passes options to every engine the runner builds.
func WithEngineOptions(opts ...turing.Option) Option {
	return func(r *Runner) {
		r.engineOpts = append(r.engineOpts, opts...)
	}
}
