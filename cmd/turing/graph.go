package main

import (
	"context"
	"fmt"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <machine>",
	Short: "Export the state graph visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the machine's states and transitions.
With --run the machine is executed first and the states it visited are highlighted.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withRun, _ := cmd.Flags().GetBool("run")

		def, err := mustLoader(cmd).GetMachine(cmd.Context(), args[0])
		if err != nil {
			exitf("Error: %v", err)
		}

		var overlay *graph.GraphOverlay
		if withRun {
			overlay = &graph.GraphOverlay{}
			hooks := domain.LifecycleHooks{
				OnStep: func(_ context.Context, e *domain.StepEvent) {
					overlay.VisitedStates = append(overlay.VisitedStates, e.From.State)
					overlay.CurrentState = e.To.State
				},
			}
			opts, err := options(cmd).EngineOptions()
			if err != nil {
				exitf("Error: %v", err)
			}
			eng, err := turing.New(def, append(opts, turing.WithLifecycleHooks(hooks))...)
			if err != nil {
				exitf("Error: %v", err)
			}
			// A failed run still leaves a useful overlay.
			_, _ = eng.Run(cmd.Context(), tapeFlag(cmd))
		}

		fmt.Print(graph.GenerateMermaid(def, overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("run", false, "Run the machine and highlight visited states")
	graphCmd.Flags().String("tape", "", "Initial tape for --run")
}
