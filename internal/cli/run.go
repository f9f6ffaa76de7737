package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machines"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/google/uuid"
)

// RunOptions configures a single traced or headless run.
type RunOptions struct {
	Machine string
	Tape    []domain.Cell // Nil uses the machine's default tape
	Trace   bool          // Print every configuration
	Step    bool          // Pause before each step (implies Trace)
	Input   io.Reader
	Output  io.Writer
	Store   ports.RunStore // Optional; the finished run is saved here
}

// Run loads the machine and runs it, printing either a full trace or just
// the outcome. The finished run is returned and persisted when a store is set.
func Run(ctx context.Context, loader ports.MachineLoader, ro RunOptions, engineOpts ...turing.Option) (*domain.Run, error) {
	eng, err := turing.Load(ctx, loader, ro.Machine, engineOpts...)
	if err != nil {
		return nil, err
	}

	r := turing.NewRunner()
	r.Output = ro.Output
	r.Headless = !ro.Trace && !ro.Step
	r.Renderer = TapeRenderer(ro.Output, eng.Definition().BlankSymbol())
	if ro.Step {
		r.Input = ro.Input
	}

	started := time.Now()
	m := eng.Start(ro.Tape)
	_, runErr := r.Trace(ctx, eng, m)
	if errors.Is(runErr, turing.ErrStopped) || ctx.Err() != nil {
		return nil, runErr
	}

	run := m.Record(uuid.NewString())
	run.CreatedAt = started
	run.UpdatedAt = time.Now()

	if ro.Store != nil {
		if err := ro.Store.Save(ctx, run); err != nil {
			return run, fmt.Errorf("failed to save run: %w", err)
		}
	}
	return run, runErr
}

// Evolve prints n generations of the Rule 110 machine starting from row.
func Evolve(ctx context.Context, out io.Writer, row string, n int, engineOpts ...turing.Option) error {
	eng, err := turing.New(machines.Rule110(), engineOpts...)
	if err != nil {
		return err
	}
	gens, err := machines.Evolve(ctx, eng, machines.Rule110Tape(row), n)
	for _, g := range gens {
		fmt.Fprintf(out, "|%s|\n", machines.Row(g))
	}
	return err
}
