// Package table implements the immutable transition table of a deterministic
// Turing machine.
//
// A Table is built once from a list of rules and never mutated afterwards, so
// a single Table may be shared by reference across any number of concurrent
// runs without locking.
package table

import (
	"cmp"
	"slices"

	"github.com/aretw0/turing/pkg/domain"
)

// Table maps (state, symbol) pairs to the transition to apply.
type Table struct {
	rules map[domain.TransitionKey]domain.TransitionValue
	order []domain.TransitionKey
}

// Build indexes the given rules.
// A key registered twice with different values fails with a
// *domain.DuplicateTransitionError; an identical repeat is ignored.
func Build(entries []domain.Transition) (*Table, error) {
	t := &Table{
		rules: make(map[domain.TransitionKey]domain.TransitionValue, len(entries)),
		order: make([]domain.TransitionKey, 0, len(entries)),
	}
	for _, e := range entries {
		if existing, ok := t.rules[e.From]; ok {
			if existing == e.To {
				continue
			}
			return nil, &domain.DuplicateTransitionError{
				Key:         e.From,
				Existing:    existing,
				Conflicting: e.To,
			}
		}
		t.rules[e.From] = e.To
		t.order = append(t.order, e.From)
	}
	return t, nil
}

// MustBuild is like Build but panics on error. Intended for static tables.
func MustBuild(entries []domain.Transition) *Table {
	t, err := Build(entries)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the transition for (state, symbol); ok is false when the pair has no entry.
func (t *Table) Lookup(state domain.State, symbol domain.Symbol) (domain.TransitionValue, bool) {
	v, ok := t.rules[domain.TransitionKey{State: state, Symbol: symbol}]
	return v, ok
}

// Len returns the number of distinct rules.
func (t *Table) Len() int {
	return len(t.rules)
}

// Entries returns the rules in registration order.
func (t *Table) Entries() []domain.Transition {
	out := make([]domain.Transition, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, domain.Transition{From: k, To: t.rules[k]})
	}
	return out
}

// States returns every state mentioned by the table, sorted.
func (t *Table) States() []domain.State {
	seen := make(map[domain.State]struct{})
	for k, v := range t.rules {
		seen[k.State] = struct{}{}
		seen[v.State] = struct{}{}
	}
	return sortedKeys(seen)
}

// Symbols returns every symbol read or written by the table, sorted.
func (t *Table) Symbols() []domain.Symbol {
	seen := make(map[domain.Symbol]struct{})
	for k, v := range t.rules {
		seen[k.Symbol] = struct{}{}
		seen[v.Write] = struct{}{}
	}
	return sortedKeys(seen)
}

// From returns the rules whose key state is s, in registration order.
func (t *Table) From(s domain.State) []domain.Transition {
	var out []domain.Transition
	for _, k := range t.order {
		if k.State == s {
			out = append(out, domain.Transition{From: k, To: t.rules[k]})
		}
	}
	return out
}

func sortedKeys[K cmp.Ordered](m map[K]struct{}) []K {
	out := make([]K, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
