package tests

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract runs a suite of tests to verify that a RunStore
// implementation adheres to the interface contract.
func RunStoreContract(t *testing.T, store ports.RunStore) {
	ctx := context.Background()
	runID := "contract-test-run-" + time.Now().Format("20060102150405")

	newRun := func(id string) *domain.Run {
		return &domain.Run{
			ID:       id,
			Machine:  "copy",
			Status:   domain.StatusRunning,
			State:    "s3",
			Position: -2,
			Steps:    7,
			Tape: []domain.Cell{
				{Position: -2, Symbol: "B"},
				{Position: 0, Symbol: "1"},
			},
			CreatedAt: time.Now().UTC().Truncate(time.Second),
			UpdatedAt: time.Now().UTC().Truncate(time.Second),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		run := newRun(runID)

		err := store.Save(ctx, run)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, run.Machine, loaded.Machine)
		assert.Equal(t, run.Status, loaded.Status)
		assert.Equal(t, run.State, loaded.State)
		assert.Equal(t, run.Position, loaded.Position)
		assert.Equal(t, run.Steps, loaded.Steps)
		assert.Equal(t, run.Tape, loaded.Tape)
		assert.True(t, run.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		run := newRun(runID)
		run.Status = domain.StatusFailed
		run.Error = "missing transition"
		require.NoError(t, store.Save(ctx, run))

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusFailed, loaded.Status)
		assert.Equal(t, "missing transition", loaded.Error)
	})

	t.Run("Loaded Copy Is Detached", func(t *testing.T) {
		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		loaded.Tape[0].Symbol = "X"

		again, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, domain.Symbol("B"), again.Tape[0].Symbol)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, newRun(runID)))

		err := store.Delete(ctx, runID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")

		assert.NoError(t, store.Delete(ctx, runID), "Deleting twice is not an error")
	})

	t.Run("Invalid IDs Rejected", func(t *testing.T) {
		for _, id := range []string{"", "a/b", `a\b`, ".."} {
			err := store.Save(ctx, newRun(id))
			assert.ErrorIs(t, err, domain.ErrInvalidRunID, "id %q", id)
		}
	})

	t.Run("Any Valid ID Is Listed", func(t *testing.T) {
		ids := []string{"tmp-" + runID, ".hidden-" + runID, runID + ".json"}
		for _, id := range ids {
			require.NoError(t, store.Save(ctx, newRun(id)))
		}
		defer func() {
			for _, id := range ids {
				_ = store.Delete(ctx, id)
			}
		}()

		listed, err := store.List(ctx)
		require.NoError(t, err)
		for _, id := range ids {
			assert.Contains(t, listed, id)
			_, err := store.Load(ctx, id)
			assert.NoError(t, err, "id %q", id)
		}
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		require.NoError(t, store.Save(ctx, newRun(id1)))
		require.NoError(t, store.Save(ctx, newRun(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
