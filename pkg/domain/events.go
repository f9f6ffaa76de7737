package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart EventType = "run_start"
	EventStep     EventType = "step"
	EventRunHalt  EventType = "run_halt"
	EventRunFail  EventType = "run_fail"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Machine   string    `json:"machine"`
}

// StepEvent describes one applied transition. Position is the head position
// before the move.
type StepEvent struct {
	EventBase
	Step     int             `json:"step"`
	Position int64           `json:"position"`
	From     TransitionKey   `json:"from"`
	To       TransitionValue `json:"to"`
}

// RunEvent marks the start or the end of a run.
type RunEvent struct {
	EventBase
	State    State  `json:"state"`
	Position int64  `json:"position"`
	Steps    int    `json:"steps"`
	Err      error  `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously on the stepping goroutine; keep them cheap.
type LifecycleHooks struct {
	OnRunStart func(context.Context, *RunEvent)
	OnStep     func(context.Context, *StepEvent)
	OnRunHalt  func(context.Context, *RunEvent)
	OnRunFail  func(context.Context, *RunEvent)
}

// Merge combines hooks so that both sets are invoked, h first.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart: chain(h.OnRunStart, other.OnRunStart),
		OnStep:     chain(h.OnStep, other.OnStep),
		OnRunHalt:  chain(h.OnRunHalt, other.OnRunHalt),
		OnRunFail:  chain(h.OnRunFail, other.OnRunFail),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
