package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Job is a single run request.
type Job struct {
	// ID names the resulting run. Empty IDs are generated.
	ID      string        `json:"id,omitempty"`
	Machine string        `json:"machine"`
	Tape    []domain.Cell `json:"tape,omitempty"`
}

// JobResult pairs a job with the run it produced. Err holds the machine's
// failure (missing transition, step limit), not infrastructure errors.
type JobResult struct {
	Job Job
	Run *domain.Run
	Err error
}

// Runner executes jobs concurrently against machines resolved by a loader.
type Runner struct {
	loader      ports.MachineLoader
	store       ports.RunStore
	handler     ResultHandler
	concurrency int
	engineOpts  []turing.Option
	logger      *slog.Logger
}

// New creates a Runner resolving machine names through loader.
func New(loader ports.MachineLoader, opts ...Option) *Runner {
	r := &Runner{
		loader:      loader,
		concurrency: DefaultConcurrency,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.concurrency < 1 {
		r.concurrency = DefaultConcurrency
	}
	return r
}

// Run executes jobs and returns their results in job order. The returned
// error reports unknown machines, store failures or cancellation; machine
// failures are reported per job in JobResult.Err.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]JobResult, error) {
	engines, err := r.engines(ctx, jobs)
	if err != nil {
		return nil, err
	}

	results := make([]JobResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, job := range jobs {
		if job.ID == "" {
			job.ID = uuid.NewString()
		}
		g.Go(func() error {
			res, err := r.execute(gctx, engines[job.Machine], job)
			if err != nil {
				return fmt.Errorf("job %s: %w", job.ID, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if r.handler != nil {
		for _, res := range results {
			if err := r.handler.Handle(ctx, res); err != nil {
				return results, fmt.Errorf("output error: %w", err)
			}
		}
	}
	return results, nil
}

func (r *Runner) execute(ctx context.Context, eng *turing.Engine, job Job) (JobResult, error) {
	started := time.Now()
	m := eng.Start(job.Tape)
	_, runErr := m.Run(ctx)
	if err := ctx.Err(); err != nil {
		return JobResult{}, err
	}

	run := m.Record(job.ID)
	run.CreatedAt = started
	run.UpdatedAt = time.Now()

	if r.store != nil {
		if err := r.store.Save(ctx, run); err != nil {
			return JobResult{}, fmt.Errorf("failed to save run: %w", err)
		}
	}

	r.logger.Debug("job finished",
		"job_id", job.ID,
		"machine", job.Machine,
		"status", run.Status,
		"steps", run.Steps,
		"duration", run.UpdatedAt.Sub(started),
	)
	return JobResult{Job: job, Run: run, Err: runErr}, nil
}

// engines builds one engine per distinct machine named by jobs.
func (r *Runner) engines(ctx context.Context, jobs []Job) (map[string]*turing.Engine, error) {
	engines := make(map[string]*turing.Engine)
	for _, job := range jobs {
		if _, ok := engines[job.Machine]; ok {
			continue
		}
		eng, err := turing.Load(ctx, r.loader, job.Machine, r.engineOpts...)
		if err != nil {
			return nil, err
		}
		engines[job.Machine] = eng
	}
	return engines, nil
}
