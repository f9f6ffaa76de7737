package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available machines",
	Run: func(cmd *cobra.Command, args []string) {
		loader := mustLoader(cmd)
		names, err := loader.ListMachines(cmd.Context())
		if err != nil {
			exitf("Error listing machines: %v", err)
		}

		for _, name := range names {
			def, err := loader.GetMachine(cmd.Context(), name)
			if err != nil {
				fmt.Printf("%-12s (error: %v)\n", name, err)
				continue
			}
			fmt.Printf("%-12s %s\n", name, def.Description)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
