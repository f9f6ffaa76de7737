package observability

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by engine lifecycle hooks.
type Metrics struct {
	Runs        *prometheus.CounterVec
	Steps       *prometheus.CounterVec
	RunSteps    *prometheus.HistogramVec
	ActiveRuns  *prometheus.GaugeVec
	Transitions *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which is handy in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_runs_total",
				Help: "Total number of finished runs by outcome",
			},
			[]string{"machine", "status"},
		),
		Steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_steps_total",
				Help: "Total number of applied transitions",
			},
			[]string{"machine"},
		),
		RunSteps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "turing_run_steps",
				Help:    "Steps taken by finished runs",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
			[]string{"machine"},
		),
		ActiveRuns: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "turing_active_runs",
				Help: "Runs started but not yet finished",
			},
			[]string{"machine"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_state_visits_total",
				Help: "Transitions taken out of each state",
			},
			[]string{"machine", "state"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Runs, m.Steps, m.RunSteps, m.ActiveRuns, m.Transitions)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) {
			m.ActiveRuns.WithLabelValues(e.Machine).Inc()
		},
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			m.Steps.WithLabelValues(e.Machine).Inc()
			m.Transitions.WithLabelValues(e.Machine, string(e.From.State)).Inc()
		},
		OnRunHalt: func(_ context.Context, e *domain.RunEvent) {
			m.finish(e, domain.StatusHalted)
		},
		OnRunFail: func(_ context.Context, e *domain.RunEvent) {
			m.finish(e, domain.StatusFailed)
		},
	}
}

func (m *Metrics) finish(e *domain.RunEvent, status domain.Status) {
	m.ActiveRuns.WithLabelValues(e.Machine).Dec()
	m.Runs.WithLabelValues(e.Machine, string(status)).Inc()
	m.RunSteps.WithLabelValues(e.Machine).Observe(float64(e.Steps))
}
