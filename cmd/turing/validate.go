package main

import (
	"fmt"
	"os"

	"github.com/aretw0/turing/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [machine...]",
	Short: "Validate machine definitions",
	Long: `Checks each machine for structural errors (missing start state, bad moves,
duplicate transitions) and walks its reachable states looking for dead ends
and rules that can never fire. With no arguments every machine is checked.`,
	Run: func(cmd *cobra.Command, args []string) {
		loader := mustLoader(cmd)

		names := args
		if len(names) == 0 {
			var err error
			names, err = loader.ListMachines(cmd.Context())
			if err != nil {
				exitf("Error listing machines: %v", err)
			}
		}

		failed := 0
		for _, name := range names {
			def, err := loader.GetMachine(cmd.Context(), name)
			if err == nil {
				err = validator.Validate(def)
			}
			if err != nil {
				fmt.Printf("✗ %s: %v\n", name, err)
				failed++
				continue
			}
			fmt.Printf("✓ %s\n", name)
		}

		if failed > 0 {
			fmt.Printf("\n%d of %d machines failed validation\n", failed, len(names))
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
