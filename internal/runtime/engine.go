package runtime

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/table"
	"github.com/aretw0/turing/pkg/tape"
)

// Engine is the immutable part of a machine: its table, start state, final
// states and policies. One Engine can start any number of Machines, each owning
// its own tape, and those Machines may run concurrently.
type Engine struct {
	name      string
	table     *table.Table
	start     domain.State
	finals    map[domain.State]struct{}
	blank     domain.Symbol
	stepLimit int
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithName labels events and log records with the machine name.
func WithName(name string) EngineOption {
	return func(e *Engine) {
		e.name = name
	}
}

// WithBlank sets the symbol read from never-written cells.
func WithBlank(blank domain.Symbol) EngineOption {
	return func(e *Engine) {
		if blank != "" {
			e.blank = blank
		}
	}
}

// WithStepLimit bounds the number of steps a machine may take before failing
// with a NonTerminatingError. Zero or less means unbounded.
func WithStepLimit(limit int) EngineOption {
	return func(e *Engine) {
		e.stepLimit = max(limit, 0)
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine over an already built table.
func NewEngine(tbl *table.Table, start domain.State, finals []domain.State, opts ...EngineOption) *Engine {
	e := &Engine{
		table:  tbl,
		start:  start,
		finals: make(map[domain.State]struct{}, len(finals)),
		blank:  domain.DefaultBlank,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, f := range finals {
		e.finals[f] = struct{}{}
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.name != "" {
		e.logger = e.logger.With("machine", e.name)
	}
	return e
}

// Name returns the machine name, if any.
func (e *Engine) Name() string {
	return e.name
}

// Table returns the transition table.
func (e *Engine) Table() *table.Table {
	return e.table
}

// StepLimit returns the configured step budget (0 = unbounded).
func (e *Engine) StepLimit() int {
	return e.stepLimit
}

// IsFinal reports whether s is an accepting state.
func (e *Engine) IsFinal(s domain.State) bool {
	_, ok := e.finals[s]
	return ok
}

// Start creates a machine at position 0 in the start state over a fresh tape
// holding cells. If the start state is final the machine is already halted.
func (e *Engine) Start(cells []domain.Cell) *Machine {
	m := &Machine{
		engine: e,
		state:  e.start,
		tape:   tape.New(e.blank, cells...),
		status: domain.StatusRunning,
	}
	if e.IsFinal(m.state) {
		m.status = domain.StatusHalted
	}
	return m
}

// Run executes a fresh machine over cells until it halts or fails.
func (e *Engine) Run(ctx context.Context, cells []domain.Cell) (domain.Result, error) {
	return e.Start(cells).Run(ctx)
}
