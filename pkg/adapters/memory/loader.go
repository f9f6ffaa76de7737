package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/pkg/domain"
)

// Loader implements ports.MachineLoader using an in-memory map.
// Safe for concurrent use.
type Loader struct {
	mu       sync.RWMutex
	machines map[string]*domain.Definition
}

// NewLoader creates a Loader holding the given definitions, keyed by name.
func NewLoader(defs ...*domain.Definition) (*Loader, error) {
	l := &Loader{machines: make(map[string]*domain.Definition, len(defs))}
	for _, d := range defs {
		if err := l.Register(d); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// NewFromSources parses raw YAML/JSON documents keyed by machine name.
// A document without a name takes its key.
func NewFromSources(data map[string]string) (*Loader, error) {
	parser := compiler.NewParser()
	l := &Loader{machines: make(map[string]*domain.Definition, len(data))}
	for name, src := range data {
		def, err := parser.Parse([]byte(src))
		if err != nil {
			return nil, fmt.Errorf("machine %s: %w", name, err)
		}
		def.Name = name
		if err := l.Register(def); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Register adds or replaces a definition.
func (l *Loader) Register(def *domain.Definition) error {
	if def == nil || def.Name == "" {
		return fmt.Errorf("%w: machine missing name", domain.ErrInvalidDefinition)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.machines[def.Name] = def
	return nil
}

// GetMachine returns a copy of the named definition.
func (l *Loader) GetMachine(ctx context.Context, name string) (*domain.Definition, error) {
	l.mu.RLock()
	def, ok := l.machines[name]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMachineNotFound, name)
	}
	c := *def
	c.Finals = append([]domain.State(nil), def.Finals...)
	c.Transitions = append([]domain.Transition(nil), def.Transitions...)
	c.Tape = append([]domain.Cell(nil), def.Tape...)
	return &c, nil
}

// ListMachines returns all machine names.
func (l *Loader) ListMachines(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.machines))
	for k := range l.machines {
		names = append(names, k)
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}
