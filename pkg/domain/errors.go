package domain

import (
	"errors"
	"fmt"
)

// ErrDuplicateTransition is matched by DuplicateTransitionError.
var ErrDuplicateTransition = errors.New("duplicate transition")

// ErrMissingTransition is matched by MissingTransitionError.
var ErrMissingTransition = errors.New("missing transition")

// ErrNonTerminating is matched by NonTerminatingError.
var ErrNonTerminating = errors.New("step limit exceeded")

// ErrInvalidDefinition is returned when a machine definition is structurally broken.
var ErrInvalidDefinition = errors.New("invalid machine definition")

// ErrMachineNotFound is returned when a loader has no machine under the requested name.
var ErrMachineNotFound = errors.New("machine not found")

// ErrRunNotFound is returned when a run ID cannot be found in the store.
var ErrRunNotFound = errors.New("run not found")

// ErrInvalidRunID is returned by stores for IDs they cannot hold: empty ones
// and ones that would escape a directory.
var ErrInvalidRunID = errors.New("invalid run ID")

// DuplicateTransitionError is raised at table construction time when the same
// key is registered with two different values.
type DuplicateTransitionError struct {
	Key         TransitionKey
	Existing    TransitionValue
	Conflicting TransitionValue
}

func (e *DuplicateTransitionError) Error() string {
	return fmt.Sprintf("duplicate transition for %s: %s conflicts with %s", e.Key, e.Conflicting, e.Existing)
}

func (e *DuplicateTransitionError) Is(target error) bool {
	return target == ErrDuplicateTransition
}

// MissingTransitionError is raised during a run when the current
// (state, symbol) pair has no entry. The simulated machine is underspecified
// for this input; it is not an engine fault.
type MissingTransitionError struct {
	State    State
	Symbol   Symbol
	Position int64
	Step     int
}

func (e *MissingTransitionError) Error() string {
	return fmt.Sprintf("missing transition for state %s reading %q at position %d (step %d)",
		e.State, string(e.Symbol), e.Position, e.Step)
}

func (e *MissingTransitionError) Is(target error) bool {
	return target == ErrMissingTransition
}

// Key returns the offending (state, symbol) pair.
func (e *MissingTransitionError) Key() TransitionKey {
	return TransitionKey{State: e.State, Symbol: e.Symbol}
}

// NonTerminatingError is raised when a run exceeds its opt-in step budget.
type NonTerminatingError struct {
	Limit    int
	State    State
	Position int64
}

func (e *NonTerminatingError) Error() string {
	return fmt.Sprintf("machine did not halt within %d steps (state %s, position %d)", e.Limit, e.State, e.Position)
}

func (e *NonTerminatingError) Is(target error) bool {
	return target == ErrNonTerminating
}
