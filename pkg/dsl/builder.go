package dsl

import (
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/table"
)

// Builder accumulates a machine definition.
type Builder struct {
	def    domain.Definition
	states map[domain.State]*StateBuilder
	used   map[domain.State]struct{}
	fresh  map[string]int
}

// New creates a builder for a machine called name.
func New(name string) *Builder {
	return &Builder{
		def:    domain.Definition{Name: name},
		states: make(map[domain.State]*StateBuilder),
		used:   make(map[domain.State]struct{}),
		fresh:  make(map[string]int),
	}
}

// Describe sets a human readable description.
func (b *Builder) Describe(text string) *Builder {
	b.def.Description = text
	return b
}

// Blank sets the blank symbol (default domain.DefaultBlank).
func (b *Builder) Blank(sym domain.Symbol) *Builder {
	b.def.Blank = sym
	return b
}

// Start sets the start state.
func (b *Builder) Start(s domain.State) *Builder {
	b.def.Start = s
	b.use(s)
	return b
}

// Final adds accepting states.
func (b *Builder) Final(states ...domain.State) *Builder {
	for _, s := range states {
		b.def.Finals = append(b.def.Finals, s)
		b.use(s)
	}
	return b
}

// Tape sets the default initial tape, one symbol per rune from position 0.
func (b *Builder) Tape(s string) *Builder {
	b.def.Tape = domain.CellsFromString(s, 0)
	return b
}

// Cells sets the default initial tape from explicit cells.
func (b *Builder) Cells(cells ...domain.Cell) *Builder {
	b.def.Tape = append([]domain.Cell(nil), cells...)
	return b
}

// State returns the rule builder of state s, creating it on first use.
func (b *Builder) State(s domain.State) *StateBuilder {
	if sb, ok := b.states[s]; ok {
		return sb
	}
	sb := &StateBuilder{builder: b, state: s}
	b.states[s] = sb
	b.use(s)
	return sb
}

// Fresh returns a state name that has not been used in this builder yet,
// formed by prefix followed by a counter.
func (b *Builder) Fresh(prefix string) domain.State {
	for {
		n := b.fresh[prefix]
		b.fresh[prefix] = n + 1
		s := domain.State(fmt.Sprintf("%s%d", prefix, n))
		if _, taken := b.used[s]; !taken {
			b.use(s)
			return s
		}
	}
}

// Rule adds a raw transition.
func (b *Builder) Rule(t domain.Transition) *Builder {
	b.def.Transitions = append(b.def.Transitions, t)
	b.use(t.From.State)
	b.use(t.To.State)
	return b
}

// Build validates the definition and checks that the rules form a
// deterministic table.
func (b *Builder) Build() (*domain.Definition, error) {
	def := b.def
	def.Finals = append([]domain.State(nil), b.def.Finals...)
	def.Transitions = append([]domain.Transition(nil), b.def.Transitions...)
	def.Tape = append([]domain.Cell(nil), b.def.Tape...)

	if err := def.Validate(); err != nil {
		return nil, err
	}
	if _, err := table.Build(def.Transitions); err != nil {
		return nil, fmt.Errorf("machine %q: %w", def.Name, err)
	}
	return &def, nil
}

// MustBuild is like Build but panics on error. Intended for package-level
// machine literals.
func (b *Builder) MustBuild() *domain.Definition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

func (b *Builder) use(s domain.State) {
	if s != "" {
		b.used[s] = struct{}{}
	}
}
