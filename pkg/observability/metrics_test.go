package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machines"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_HaltedRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	eng, err := turing.New(machines.Copy(), turing.WithLifecycleHooks(metrics.Hooks()))
	require.NoError(t, err)

	_, err = eng.Run(context.Background(), domain.CellsFromString("111", 0))
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Runs.WithLabelValues("copy", "halted")))
	assert.Equal(t, 28.0, testutil.ToFloat64(metrics.Steps.WithLabelValues("copy")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ActiveRuns.WithLabelValues("copy")))
	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.Transitions.WithLabelValues("copy", "s1")))

	count, err := testutil.GatherAndCount(reg, "turing_run_steps")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_FailedRun(t *testing.T) {
	metrics := observability.NewMetrics(nil)

	eng, err := turing.New(machines.BusyBeaver3(),
		turing.WithLifecycleHooks(metrics.Hooks()),
		turing.WithStepLimit(5),
	)
	require.NoError(t, err)

	_, err = eng.Run(context.Background(), nil)
	require.True(t, errors.Is(err, domain.ErrNonTerminating))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Runs.WithLabelValues("bb3", "failed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Runs.WithLabelValues("bb3", "halted")))
	assert.Equal(t, 5.0, testutil.ToFloat64(metrics.Steps.WithLabelValues("bb3")))
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	eng, err := turing.New(machines.Copy(), turing.WithLifecycleHooks(observability.LoggingHooks(logger)))
	require.NoError(t, err)

	_, err = eng.Run(context.Background(), domain.CellsFromString("1", 0))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "msg=transition")
	assert.Contains(t, out, "msg=run_halt")
	assert.Contains(t, out, "steps=6")
}
