package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch <machine> [tape...]",
	Short: "Run a machine over many tapes concurrently",
	Long: `Runs the machine once per tape. Tapes come from the arguments or, when none
are given, from standard input, one per line. Results are printed in input
order as a table or, with --json, as one run record per line.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		asJSON, _ := cmd.Flags().GetBool("json")
		save, _ := cmd.Flags().GetBool("save")

		opts := options(cmd)
		engineOpts, err := opts.EngineOptions()
		if err != nil {
			exitf("Error: %v", err)
		}
		logger, _ := opts.Logger()

		tapes := args[1:]
		if len(tapes) == 0 {
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				tapes = append(tapes, scanner.Text())
			}
			if err := scanner.Err(); err != nil {
				exitf("Error reading tapes: %v", err)
			}
		}

		jobs := make([]runner.Job, len(tapes))
		for i, t := range tapes {
			jobs[i] = runner.Job{Machine: args[0], Tape: domain.CellsFromString(t, 0)}
		}

		var handler runner.ResultHandler = runner.NewTextHandler(os.Stdout)
		if asJSON {
			handler = runner.NewJSONHandler(os.Stdout)
		}

		runnerOpts := []runner.Option{
			runner.WithConcurrency(concurrency),
			runner.WithHandler(handler),
			runner.WithLogger(logger),
			runner.WithEngineOptions(engineOpts...),
		}
		var store ports.RunStore
		if save {
			store = mustStore(cmd)
			runnerOpts = append(runnerOpts, runner.WithStore(store))
		}

		signals := runner.NewSignalManager(cmd.Context())
		defer signals.Stop()

		results, err := runner.New(mustLoader(cmd), runnerOpts...).Run(signals.Context(), jobs)
		if err != nil {
			exitf("Error: %v", err)
		}

		failed := 0
		for _, res := range results {
			if res.Err != nil {
				failed++
			}
		}
		if failed > 0 {
			fmt.Fprintf(os.Stderr, "%d of %d runs failed\n", failed, len(results))
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().IntP("concurrency", "c", runner.DefaultConcurrency, "Maximum runs in flight")
	batchCmd.Flags().Bool("json", false, "Print one JSON run record per line")
	batchCmd.Flags().Bool("save", false, "Persist every run to the run store")
}
