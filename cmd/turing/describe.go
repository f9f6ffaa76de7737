package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/internal/presentation/markdown"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe <machine>",
	Short: "Show a machine's definition",
	Long:  `Prints the machine's metadata and transition table as Markdown, or its full definition as YAML or JSON.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")

		def, err := mustLoader(cmd).GetMachine(cmd.Context(), args[0])
		if err != nil {
			exitf("Error: %v", err)
		}

		switch format {
		case "markdown", "md":
			fmt.Print(cli.Markdown(os.Stdout, markdown.Describe(def)))
		case "yaml":
			data, err := compiler.Encode(def)
			if err != nil {
				exitf("Error encoding machine: %v", err)
			}
			fmt.Print(string(data))
		case "json":
			data, err := json.MarshalIndent(def, "", "  ")
			if err != nil {
				exitf("Error encoding machine: %v", err)
			}
			fmt.Println(string(data))
		default:
			exitf("Unknown format: %s. Supported: markdown, yaml, json", format)
		}
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringP("format", "f", "markdown", "Output format: markdown, yaml or json")
}
