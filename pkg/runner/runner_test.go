package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machines"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoader(t *testing.T) *memory.Loader {
	t.Helper()
	loader, err := memory.NewLoader(machines.Copy(), machines.BusyBeaver3())
	require.NoError(t, err)
	return loader
}

func TestRunner_ResultsInJobOrder(t *testing.T) {
	store := memory.NewStore()
	r := runner.New(newLoader(t), runner.WithConcurrency(3), runner.WithStore(store))

	var jobs []runner.Job
	for _, s := range []string{"1111", "1", "", "111", "11"} {
		jobs = append(jobs, runner.Job{ID: "copy-" + s, Machine: "copy", Tape: domain.CellsFromString(s, 0)})
	}
	jobs = append(jobs, runner.Job{Machine: "bb3"})

	results, err := r.Run(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, results, len(jobs))

	wantSteps := []int{45, 6, 1, 28, 15, 13}
	for i, res := range results {
		require.NoError(t, res.Err)
		assert.Equal(t, domain.StatusHalted, res.Run.Status)
		assert.Equal(t, wantSteps[i], res.Run.Steps, "job %d", i)
		assert.Equal(t, jobs[i].Machine, res.Run.Machine)
	}
	assert.Equal(t, "copy-1111", results[0].Run.ID)
	assert.Len(t, results[5].Run.ID, 36, "empty IDs are generated")

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, ids, len(jobs))
}

func TestRunner_MachineFailureIsPerJob(t *testing.T) {
	r := runner.New(newLoader(t), runner.WithEngineOptions(turing.WithStepLimit(5)))

	results, err := r.Run(context.Background(), []runner.Job{
		{ID: "loops", Machine: "bb3"},
		{ID: "ok", Machine: "copy", Tape: domain.CellsFromString("", 0)},
	})
	require.NoError(t, err)

	assert.True(t, errors.Is(results[0].Err, domain.ErrNonTerminating))
	assert.Equal(t, domain.StatusFailed, results[0].Run.Status)
	assert.NotEmpty(t, results[0].Run.Error)

	assert.NoError(t, results[1].Err)
	assert.Equal(t, domain.StatusHalted, results[1].Run.Status)
}

func TestRunner_UnknownMachine(t *testing.T) {
	r := runner.New(newLoader(t))

	_, err := r.Run(context.Background(), []runner.Job{{Machine: "nope"}})
	assert.True(t, errors.Is(err, domain.ErrMachineNotFound))
}

func TestRunner_Cancelled(t *testing.T) {
	r := runner.New(newLoader(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, []runner.Job{{Machine: "copy"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_Handlers(t *testing.T) {
	var text, js bytes.Buffer
	jobs := []runner.Job{
		{ID: "a", Machine: "copy", Tape: domain.CellsFromString("1", 0)},
		{ID: "b", Machine: "copy", Tape: domain.CellsFromString("11", 0)},
	}

	_, err := runner.New(newLoader(t), runner.WithHandler(runner.NewTextHandler(&text))).Run(context.Background(), jobs)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(text.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "a "))
	assert.Contains(t, lines[0], "halted")
	assert.Contains(t, lines[0], "3 cells")

	_, err = runner.New(newLoader(t), runner.WithHandler(runner.NewJSONHandler(&js))).Run(context.Background(), jobs)
	require.NoError(t, err)
	dec := json.NewDecoder(&js)
	var run domain.Run
	require.NoError(t, dec.Decode(&run))
	assert.Equal(t, "a", run.ID)
	require.NoError(t, dec.Decode(&run))
	assert.Equal(t, "b", run.ID)
	assert.Equal(t, 15, run.Steps)
}
