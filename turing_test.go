package turing_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/machines"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cells(pairs ...any) []domain.Cell {
	out := make([]domain.Cell, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, domain.Cell{Position: int64(pairs[i].(int)), Symbol: domain.Symbol(pairs[i+1].(string))})
	}
	return out
}

func TestEngine_CopySubroutine(t *testing.T) {
	eng, err := turing.New(machines.Copy())
	require.NoError(t, err)

	res, err := eng.Run(context.Background(), domain.CellsFromString("1111", 0))
	require.NoError(t, err)

	assert.Equal(t, domain.State("h"), res.State)
	assert.Equal(t, int64(4), res.Position)
	assert.Equal(t, 45, res.Steps)
	assert.Equal(t, cells(0, "1", 1, "1", 2, "1", 3, "1", 4, "B", 5, "1", 6, "1", 7, "1", 8, "1"), res.Tape)
}

func TestEngine_DefaultTape(t *testing.T) {
	eng, err := turing.New(machines.Copy())
	require.NoError(t, err)

	// nil uses the definition's tape, which is the same "1111".
	res, err := eng.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 45, res.Steps)

	// An explicit empty tape is a single blank cell.
	res, err = eng.Run(context.Background(), []domain.Cell{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Steps)
	assert.Equal(t, cells(0, "B"), res.Tape)
}

func TestEngine_BusyBeaver(t *testing.T) {
	eng, err := turing.New(machines.BusyBeaver3())
	require.NoError(t, err)

	res, err := eng.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, domain.State("H"), res.State)
	assert.Equal(t, int64(0), res.Position)
	assert.Equal(t, 13, res.Steps)
	assert.Equal(t, cells(-3, "1", -2, "1", -1, "1", 0, "1", 1, "1", 2, "1"), res.Tape)
}

func TestNew_DuplicateTransition(t *testing.T) {
	def := &domain.Definition{
		Name:   "dup",
		Start:  "S",
		Finals: []domain.State{"H"},
		Transitions: []domain.Transition{
			domain.NewTransition("S", "0", "H", "1", domain.Right),
			domain.NewTransition("S", "0", "H", "0", domain.Left),
		},
	}

	eng, err := turing.New(def)
	assert.Nil(t, eng)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateTransition)

	var dup *domain.DuplicateTransitionError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, domain.TransitionKey{State: "S", Symbol: "0"}, dup.Key)
}

func TestNew_InvalidDefinition(t *testing.T) {
	_, err := turing.New(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidDefinition)

	_, err = turing.New(&domain.Definition{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidDefinition)
}

func TestEngine_ImmediateHalt(t *testing.T) {
	def := &domain.Definition{
		Name:        "idle",
		Start:       "F",
		Finals:      []domain.State{"F"},
		Transitions: []domain.Transition{domain.NewTransition("F", "x", "F", "y", domain.Right)},
	}
	eng, err := turing.New(def)
	require.NoError(t, err)

	res, err := eng.Run(context.Background(), cells(0, "x", 3, "z"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Steps)
	assert.Equal(t, int64(0), res.Position)
	assert.Equal(t, domain.State("F"), res.State)
	assert.Equal(t, cells(0, "x", 3, "z"), res.Tape)
}

func TestEngine_MissingTransition(t *testing.T) {
	b := dsl.New("partial").Start("a").Final("h")
	b.State("a").On("1").Right().Go("a")
	def := b.MustBuild()

	eng, err := turing.New(def)
	require.NoError(t, err)

	_, err = eng.Run(context.Background(), domain.CellsFromString("11x", 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingTransition)

	var missing *domain.MissingTransitionError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, domain.State("a"), missing.State)
	assert.Equal(t, domain.Symbol("x"), missing.Symbol)
	assert.Equal(t, int64(2), missing.Position)
	assert.Equal(t, 3, missing.Step)
}

func TestEngine_StepLimit(t *testing.T) {
	b := dsl.New("forever").Start("a").Final("h")
	b.State("a").On("B").Right().Go("a")
	def := b.MustBuild()

	eng, err := turing.New(def, turing.WithStepLimit(100))
	require.NoError(t, err)

	_, err = eng.Run(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNonTerminating)

	var nt *domain.NonTerminatingError
	require.True(t, errors.As(err, &nt))
	assert.Equal(t, 100, nt.Limit)
	assert.Equal(t, int64(100), nt.Position)
}

func TestEngine_Determinism(t *testing.T) {
	eng, err := turing.New(machines.Copy())
	require.NoError(t, err)

	first, err := eng.Run(context.Background(), nil)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := eng.Run(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEngine_ConcurrentRunsShareTable(t *testing.T) {
	eng, err := turing.New(machines.Copy())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]domain.Result, 16)
	errs := make([]error, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Each goroutine copies a block of a different length.
			results[i], errs[i] = eng.Run(context.Background(), domain.CellsFromString(strings.Repeat("1", i%4+1), 0))
		}(i)
	}
	wg.Wait()

	for i, res := range results {
		require.NoError(t, errs[i])
		n := i%4 + 1
		assert.Len(t, res.Tape, 2*n+1, "run %d", i)
		assert.Equal(t, domain.State("h"), res.State)
	}
}

func TestEngine_ContextCancelled(t *testing.T) {
	b := dsl.New("forever").Start("a").Final("h")
	b.State("a").On("B").Right().Go("a")
	eng, err := turing.New(b.MustBuild())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = eng.Run(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Hooks(t *testing.T) {
	var (
		starts, steps, halts int
	)
	hooks := domain.LifecycleHooks{
		OnRunStart: func(context.Context, *domain.RunEvent) { starts++ },
		OnStep:     func(context.Context, *domain.StepEvent) { steps++ },
		OnRunHalt:  func(context.Context, *domain.RunEvent) { halts++ },
	}

	eng, err := turing.New(machines.BusyBeaver3(), turing.WithLifecycleHooks(hooks))
	require.NoError(t, err)
	_, err = eng.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, starts)
	assert.Equal(t, 13, steps)
	assert.Equal(t, 1, halts)
}
