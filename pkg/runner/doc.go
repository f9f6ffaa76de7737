/*
Package runner executes batches of independent machine runs concurrently.

Each job names a machine and a tape. Engines are built once per machine and
shared across jobs, since a compiled transition table is read-only; every job
gets its own tape. Results come back in job order regardless of completion
order, and can be persisted to a ports.RunStore and streamed to a
ResultHandler.

# Usage

	r := runner.New(loader,
		runner.WithConcurrency(8),
		runner.WithStore(store),
		runner.WithHandler(runner.NewTextHandler(os.Stdout)),
	)

	results, err := r.Run(ctx, jobs)
*/
package runner
