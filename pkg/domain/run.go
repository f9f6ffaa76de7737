package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status is the state of the execution engine itself, as opposed to the
// simulated machine's State.
type Status string

const (
	StatusRunning Status = "running" // More steps may be taken
	StatusHalted  Status = "halted"  // A final state was reached
	StatusFailed  Status = "failed"  // A step could not be taken
)

// Terminal reports whether no further steps can be applied.
func (s Status) Terminal() bool {
	return s == StatusHalted || s == StatusFailed
}

// Result is the outcome of a run that reached a final state.
type Result struct {
	State    State  `json:"state"`
	Position int64  `json:"position"`
	Steps    int    `json:"steps"`
	Tape     []Cell `json:"tape"`
}

// Run is the persisted record of an execution, finished or paused.
// It is what RunStore adapters save and what debug sessions resume from.
type Run struct {
	ID        string    `json:"id"`
	Machine   string    `json:"machine"`
	Status    Status    `json:"status"`
	State     State     `json:"state"`
	Position  int64     `json:"position"`
	Steps     int       `json:"steps"`
	Tape      []Cell    `json:"tape"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Sealed holds the encrypted record when the run was saved through an
	// encrypting store. The configuration fields are empty in that case.
	Sealed []byte `json:"sealed,omitempty"`
}

// ValidateRunID rejects IDs no store can hold: empty IDs, path separators and
// the relative path names "." and "..".
func ValidateRunID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidRunID)
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidRunID, id)
	}
	return nil
}

// Result converts a halted run into its Result. ok is false for any other status.
func (r *Run) Result() (Result, bool) {
	if r.Status != StatusHalted {
		return Result{}, false
	}
	return Result{
		State:    r.State,
		Position: r.Position,
		Steps:    r.Steps,
		Tape:     r.Tape,
	}, true
}

// Clone returns a deep copy so callers cannot mutate a stored record.
func (r *Run) Clone() *Run {
	c := *r
	c.Tape = append([]Cell(nil), r.Tape...)
	c.Sealed = append([]byte(nil), r.Sealed...)
	return &c
}
