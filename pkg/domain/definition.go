package domain

import (
	"errors"
	"fmt"
)

// Definition describes a complete machine: its alphabet blank, start and final
// states, transition rules and an optional default initial tape.
type Definition struct {
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Blank       Symbol       `json:"blank" yaml:"blank"`
	Start       State        `json:"start" yaml:"start"`
	Finals      []State      `json:"finals" yaml:"finals"`
	Transitions []Transition `json:"transitions" yaml:"transitions"`

	// Tape is the initial tape used when a run does not supply one.
	Tape []Cell `json:"tape,omitempty" yaml:"tape,omitempty"`
}

// BlankSymbol returns the declared blank, falling back to DefaultBlank.
func (d *Definition) BlankSymbol() Symbol {
	if d.Blank == "" {
		return DefaultBlank
	}
	return d.Blank
}

// IsFinal reports whether s is one of the accepting states.
func (d *Definition) IsFinal(s State) bool {
	for _, f := range d.Finals {
		if f == s {
			return true
		}
	}
	return false
}

// Validate checks the structural requirements of a definition.
// Duplicate transitions are detected when the table is built, not here.
func (d *Definition) Validate() error {
	var errs []error
	if d.Start == "" {
		errs = append(errs, errors.New("start state is required"))
	}
	if len(d.Finals) == 0 {
		errs = append(errs, errors.New("at least one final state is required"))
	}
	for i, f := range d.Finals {
		if f == "" {
			errs = append(errs, fmt.Errorf("finals[%d] is empty", i))
		}
	}
	for i, t := range d.Transitions {
		if t.From.State == "" || t.To.State == "" {
			errs = append(errs, fmt.Errorf("transitions[%d]: state is empty", i))
		}
		if t.From.Symbol == "" || t.To.Write == "" {
			errs = append(errs, fmt.Errorf("transitions[%d]: symbol is empty", i))
		}
		if !t.To.Move.Valid() {
			errs = append(errs, fmt.Errorf("transitions[%d]: invalid move %d", i, int8(t.To.Move)))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidDefinition, errors.Join(errs...))
}
