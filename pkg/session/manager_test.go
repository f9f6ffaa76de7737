package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machines"
	"github.com/aretw0/turing/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, opts ...session.Option) *session.Manager {
	t.Helper()
	loader, err := memory.NewLoader(machines.Copy(), machines.BusyBeaver3())
	require.NoError(t, err)
	return session.NewManager(memory.NewStore(), loader, opts...)
}

func TestManager_StepToCompletion(t *testing.T) {
	mgr := newManager(t)
	ctx := context.Background()

	run, err := mgr.Start(ctx, "dbg", "copy", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRunning, run.Status)
	assert.Equal(t, domain.State("s1"), run.State)
	assert.Equal(t, 0, run.Steps)
	assert.False(t, run.CreatedAt.IsZero())

	run, err = mgr.Step(ctx, "dbg", 10)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRunning, run.Status)
	assert.Equal(t, 10, run.Steps)

	run, err = mgr.Step(ctx, "dbg", 0)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusHalted, run.Status)
	assert.Equal(t, domain.State("h"), run.State)
	assert.Equal(t, int64(4), run.Position)
	assert.Equal(t, 45, run.Steps)

	res, ok := run.Result()
	require.True(t, ok)
	assert.Equal(t, "1111B1111", machines.Row(res.Tape))

	// Stepping a finished session is a no-op.
	again, err := mgr.Step(ctx, "dbg", 5)
	require.NoError(t, err)
	assert.Equal(t, 45, again.Steps)
}

func TestManager_StepRecordsFailure(t *testing.T) {
	mgr := newManager(t)
	ctx := context.Background()

	_, err := mgr.Start(ctx, "bad", "bb3", domain.CellsFromString("2", 0))
	require.NoError(t, err)

	run, err := mgr.Step(ctx, "bad", 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, run.Status)
	assert.Contains(t, run.Error, "missing transition")

	loaded, err := mgr.Load(ctx, "bad")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, loaded.Status)
}

func TestManager_StartErrors(t *testing.T) {
	mgr := newManager(t)
	ctx := context.Background()

	_, err := mgr.Start(ctx, "dup", "copy", nil)
	require.NoError(t, err)

	_, err = mgr.Start(ctx, "dup", "copy", nil)
	assert.True(t, errors.Is(err, session.ErrSessionExists))

	_, err = mgr.Start(ctx, "", "nope", nil)
	assert.True(t, errors.Is(err, domain.ErrMachineNotFound))

	_, err = mgr.Step(ctx, "ghost", 1)
	assert.True(t, errors.Is(err, domain.ErrRunNotFound))
}

func TestManager_GeneratedID(t *testing.T) {
	mgr := newManager(t)
	ctx := context.Background()

	run, err := mgr.Start(ctx, "", "copy", nil)
	require.NoError(t, err)
	assert.Len(t, run.ID, 36)

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{run.ID}, ids)

	require.NoError(t, mgr.Delete(ctx, run.ID))
	_, err = mgr.Load(ctx, run.ID)
	assert.True(t, errors.Is(err, domain.ErrRunNotFound))
}

func TestManager_ConcurrentSteps(t *testing.T) {
	mgr := newManager(t)
	ctx := context.Background()

	_, err := mgr.Start(ctx, "race", "copy", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := mgr.Step(ctx, "race", 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Read-modify-write cycles must not lose updates.
	run, err := mgr.Load(ctx, "race")
	require.NoError(t, err)
	assert.Equal(t, 20, run.Steps)
}

func TestManager_DistributedLock(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	mgr := newManager(t, session.WithLocker(redis.NewLocker(client, "test:")))
	ctx := context.Background()

	_, err = mgr.Start(ctx, "shared", "copy", nil)
	require.NoError(t, err)

	err = mgr.WithLock(ctx, "shared", func(ctx context.Context) error {
		assert.True(t, mr.Exists("test:lock:shared"))
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("test:lock:shared"), "lock should be released")

	run, err := mgr.Step(ctx, "shared", 0)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusHalted, run.Status)
}

func TestManager_LockLifecycle(t *testing.T) {
	mgr := newManager(t)
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		id := fmt.Sprintf("session-%d", i)
		_, _ = mgr.Load(ctx, id)
		_ = mgr.Delete(ctx, id)
	}

	assert.Zero(t, session.LockCount(mgr), "locks should be released after use")
}
