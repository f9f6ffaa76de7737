package turing

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/table"
)

// Version is the library version reported by the CLI and the servers.
var Version = "v0.4.0"

// Engine is the high-level entry point of the library.
// It wraps the internal runtime and owns the compiled transition table.
type Engine struct {
	runtime   *runtime.Engine
	def       *domain.Definition
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	stepLimit int
	Name      string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks. Repeated options are
// merged and invoked in registration order.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStepLimit fails runs that take more than limit steps with a
// NonTerminatingError. Zero disables the limit.
func WithStepLimit(limit int) Option {
	return func(e *Engine) {
		e.stepLimit = limit
	}
}

// New validates the definition and compiles its transition table.
func New(def *domain.Definition, opts ...Option) (*Engine, error) {
	if def == nil {
		return nil, fmt.Errorf("%w: definition is nil", domain.ErrInvalidDefinition)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	tbl, err := table.Build(def.Transitions)
	if err != nil {
		return nil, fmt.Errorf("machine %q: %w", def.Name, err)
	}

	eng := &Engine{def: def, Name: def.Name}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	eng.runtime = runtime.NewEngine(tbl, def.Start, def.Finals,
		runtime.WithName(eng.Name),
		runtime.WithBlank(def.BlankSymbol()),
		runtime.WithStepLimit(eng.stepLimit),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	)
	return eng, nil
}

// Load fetches a definition by name from loader and builds an Engine for it.
func Load(ctx context.Context, loader ports.MachineLoader, name string, opts ...Option) (*Engine, error) {
	def, err := loader.GetMachine(ctx, name)
	if err != nil {
		return nil, err
	}
	return New(def, opts...)
}

// Run executes the machine over cells until it halts or fails. A nil cells
// slice runs over the definition's default tape.
func (e *Engine) Run(ctx context.Context, cells []domain.Cell) (domain.Result, error) {
	return e.runtime.Run(ctx, e.tape(cells))
}

// Start creates a machine positioned at the start state for step-wise
// execution. A nil cells slice uses the definition's default tape.
func (e *Engine) Start(cells []domain.Cell) *runtime.Machine {
	return e.runtime.Start(e.tape(cells))
}

// Resume continues a persisted, still running execution.
func (e *Engine) Resume(run *domain.Run) (*runtime.Machine, error) {
	return e.runtime.Resume(run)
}

// Definition returns the machine definition the engine was built from.
func (e *Engine) Definition() *domain.Definition {
	return e.def
}

// Table returns the compiled transition table.
func (e *Engine) Table() *table.Table {
	return e.runtime.Table()
}

func (e *Engine) tape(cells []domain.Cell) []domain.Cell {
	if cells == nil {
		return e.def.Tape
	}
	return cells
}
