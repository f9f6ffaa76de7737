package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
)

// ErrNotHalted is returned by Result when the machine is still running.
var ErrNotHalted = errors.New("machine has not halted")

// Machine is the mutable execution context of one run: current state, head
// position and the exclusively owned tape. It is not safe for concurrent use.
type Machine struct {
	engine   *Engine
	state    domain.State
	position int64
	tape     *tape.Tape
	status   domain.Status
	err      error
	steps    int
	started  bool
	reported bool
}

// Resume rebuilds a running machine from a persisted record.
func (e *Engine) Resume(run *domain.Run) (*Machine, error) {
	if run == nil {
		return nil, errors.New("cannot resume nil run")
	}
	if run.Status != domain.StatusRunning {
		return nil, fmt.Errorf("cannot resume run %s: status is %s", run.ID, run.Status)
	}
	m := &Machine{
		engine:   e,
		state:    run.State,
		position: run.Position,
		tape:     tape.New(e.blank, run.Tape...),
		status:   domain.StatusRunning,
		steps:    run.Steps,
		started:  run.Steps > 0,
	}
	if e.IsFinal(m.state) {
		m.status = domain.StatusHalted
	}
	return m, nil
}

func (m *Machine) State() domain.State   { return m.state }
func (m *Machine) Position() int64       { return m.position }
func (m *Machine) Status() domain.Status { return m.status }
func (m *Machine) Steps() int            { return m.steps }

// Err returns the failure cause once the machine is Failed.
func (m *Machine) Err() error { return m.err }

// Snapshot returns the touched cells of the tape, including after a failure.
func (m *Machine) Snapshot() []domain.Cell {
	return m.tape.Snapshot()
}

// Read returns the symbol under the head.
func (m *Machine) Read() domain.Symbol {
	return m.tape.Read(m.position)
}

// Step applies a single transition. It is a no-op once the machine is halted
// or failed.
func (m *Machine) Step(ctx context.Context) domain.Status {
	if m.status.Terminal() {
		return m.status
	}
	m.begin(ctx)
	e := m.engine

	if e.stepLimit > 0 && m.steps >= e.stepLimit {
		m.fail(ctx, &domain.NonTerminatingError{Limit: e.stepLimit, State: m.state, Position: m.position})
		return m.status
	}

	symbol := m.tape.Read(m.position)
	next, ok := e.table.Lookup(m.state, symbol)
	if !ok {
		m.fail(ctx, &domain.MissingTransitionError{
			State:    m.state,
			Symbol:   symbol,
			Position: m.position,
			Step:     m.steps + 1,
		})
		return m.status
	}

	from := domain.TransitionKey{State: m.state, Symbol: symbol}
	at := m.position

	m.tape.Write(m.position, next.Write)
	m.position += next.Move.Delta()
	m.state = next.State
	m.steps++

	if e.hooks.OnStep != nil {
		e.hooks.OnStep(ctx, &domain.StepEvent{
			EventBase: m.event(domain.EventStep),
			Step:      m.steps,
			Position:  at,
			From:      from,
			To:        next,
		})
	}
	if e.logger.Enabled(ctx, slog.LevelDebug) {
		e.logger.DebugContext(ctx, "step",
			"step", m.steps,
			"from", from.String(),
			"to", next.String(),
			"position", m.position,
		)
	}

	if e.IsFinal(m.state) {
		m.status = domain.StatusHalted
		m.finish(ctx)
	}
	return m.status
}

// Run steps until the machine halts or fails. The context is checked once per
// step boundary; on cancellation the machine stays Running and can be resumed.
func (m *Machine) Run(ctx context.Context) (domain.Result, error) {
	m.begin(ctx)
	for !m.status.Terminal() {
		if err := ctx.Err(); err != nil {
			return domain.Result{}, err
		}
		m.Step(ctx)
	}
	m.finish(ctx)
	return m.Result()
}

// Advance applies at most n steps (n <= 0 means until terminal) and returns the
// resulting status. The returned error is the failure cause or a context error.
func (m *Machine) Advance(ctx context.Context, n int) (domain.Status, error) {
	m.begin(ctx)
	for i := 0; (n <= 0 || i < n) && !m.status.Terminal(); i++ {
		if err := ctx.Err(); err != nil {
			return m.status, err
		}
		m.Step(ctx)
	}
	m.finish(ctx)
	return m.status, m.err
}

// Result returns the halted machine's result, the failure cause, or ErrNotHalted.
func (m *Machine) Result() (domain.Result, error) {
	switch m.status {
	case domain.StatusHalted:
		return domain.Result{
			State:    m.state,
			Position: m.position,
			Steps:    m.steps,
			Tape:     m.tape.Snapshot(),
		}, nil
	case domain.StatusFailed:
		return domain.Result{}, m.err
	default:
		return domain.Result{}, ErrNotHalted
	}
}

// Record captures the machine as a persistable run record.
func (m *Machine) Record(id string) *domain.Run {
	run := &domain.Run{
		ID:       id,
		Machine:  m.engine.name,
		Status:   m.status,
		State:    m.state,
		Position: m.position,
		Steps:    m.steps,
		Tape:     m.tape.Snapshot(),
	}
	if m.err != nil {
		run.Error = m.err.Error()
	}
	return run
}

func (m *Machine) begin(ctx context.Context) {
	if m.started {
		return
	}
	m.started = true
	e := m.engine
	e.logger.InfoContext(ctx, "run started", "state", m.state, "cells", m.tape.Len())
	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(ctx, m.runEvent(domain.EventRunStart))
	}
}

func (m *Machine) fail(ctx context.Context, err error) {
	m.status = domain.StatusFailed
	m.err = err
	m.finish(ctx)
}

// finish reports the terminal outcome exactly once.
func (m *Machine) finish(ctx context.Context) {
	if m.reported || !m.status.Terminal() {
		return
	}
	m.reported = true
	e := m.engine

	if m.status == domain.StatusHalted {
		e.logger.InfoContext(ctx, "run halted", "state", m.state, "position", m.position, "steps", m.steps)
		if e.hooks.OnRunHalt != nil {
			e.hooks.OnRunHalt(ctx, m.runEvent(domain.EventRunHalt))
		}
		return
	}

	e.logger.WarnContext(ctx, "run failed", "state", m.state, "position", m.position, "steps", m.steps, "err", m.err)
	if e.hooks.OnRunFail != nil {
		ev := m.runEvent(domain.EventRunFail)
		ev.Err = m.err
		e.hooks.OnRunFail(ctx, ev)
	}
}

func (m *Machine) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, Machine: m.engine.name}
}

func (m *Machine) runEvent(t domain.EventType) *domain.RunEvent {
	return &domain.RunEvent{
		EventBase: m.event(t),
		State:     m.state,
		Position:  m.position,
		Steps:     m.steps,
	}
}
