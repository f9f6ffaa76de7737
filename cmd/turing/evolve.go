package main

import (
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

var evolveCmd = &cobra.Command{
	Use:   "evolve",
	Short: "Print generations of the Rule 110 automaton",
	Long: `Runs the built-in rule110 machine once per generation, feeding each output row
back as the next input. Rows use '#' for live cells and ' ' for dead ones.`,
	Run: func(cmd *cobra.Command, args []string) {
		row, _ := cmd.Flags().GetString("row")
		generations, _ := cmd.Flags().GetInt("generations")

		opts, err := options(cmd).EngineOptions()
		if err != nil {
			exitf("Error: %v", err)
		}
		if err := cli.Evolve(cmd.Context(), os.Stdout, row, generations, opts...); err != nil {
			exitf("Error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(evolveCmd)
	evolveCmd.Flags().String("row", "         #", "Initial row of '#' (live) and ' ' (dead) cells")
	evolveCmd.Flags().IntP("generations", "n", 10, "Number of generations to compute after the initial row")
}
