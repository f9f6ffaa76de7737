package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <machine>",
	Short: "Run a machine to completion",
	Long: `Runs a machine over the given tape (or its default tape) and prints the
final state, head position and step count. Use --trace to print every
configuration or --step to advance one step per Enter.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := options(cmd)
		trace, _ := cmd.Flags().GetBool("trace")
		step, _ := cmd.Flags().GetBool("step")
		save, _ := cmd.Flags().GetBool("save")

		engineOpts, err := opts.EngineOptions()
		if err != nil {
			exitf("Error: %v", err)
		}

		var store ports.RunStore
		if save {
			store = mustStore(cmd)
		}

		if (trace || step) && cli.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout)
		}

		signals := runner.NewSignalManager(cmd.Context())
		defer signals.Stop()

		run, err := cli.Run(signals.Context(), mustLoader(cmd), cli.RunOptions{
			Machine: args[0],
			Tape:    tapeFlag(cmd),
			Trace:   trace,
			Step:    step,
			Input:   os.Stdin,
			Output:  os.Stdout,
			Store:   store,
		}, engineOpts...)
		if errors.Is(err, turing.ErrStopped) {
			return
		}
		if err != nil {
			exitf("Error: %v", err)
		}
		if save {
			fmt.Printf("Saved run %s\n", run.ID)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("tape", "", "Initial tape, one symbol per character starting at position 0")
	runCmd.Flags().Bool("trace", false, "Print every configuration")
	runCmd.Flags().Bool("step", false, "Pause before each step (Enter steps, c continues, q quits)")
	runCmd.Flags().Bool("save", false, "Persist the finished run to the run store")
}
