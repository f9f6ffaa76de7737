package main

import (
	"fmt"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "turing",
	Short: "Turing is a deterministic Turing machine engine",
	Long: `Turing runs single-tape deterministic Turing machines described in YAML, JSON
or Markdown files, and ships with a busy beaver, a copy subroutine and a
Rule 110 cellular automaton.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("dir", "", "Directory containing machine definitions (built-in machines are always available)")
	flags.String("log-level", "warn", "Log level: debug, info, warn or error")
	flags.String("log-format", "text", "Log format: text or json")
	flags.String("log-file", "", "Also write JSON logs to this file")
	flags.String("store", cli.StoreFile, "Run store: memory, file or redis")
	flags.String("store-path", "", "Directory of the file store (default .turing/runs)")
	flags.String("redis-addr", "", "Redis address for the redis store")
	flags.String("store-key", os.Getenv("TURING_STORE_KEY"), "Base64 AES-256 key to encrypt stored runs (default $TURING_STORE_KEY)")
	flags.Int("max-steps", 0, "Fail runs exceeding this many steps (0 disables the limit)")
}

// options reads the persistent flags.
func options(cmd *cobra.Command) cli.Options {
	flags := cmd.Flags()
	var o cli.Options
	o.Dir, _ = flags.GetString("dir")
	o.LogLevel, _ = flags.GetString("log-level")
	o.LogFormat, _ = flags.GetString("log-format")
	o.LogFile, _ = flags.GetString("log-file")
	o.Store, _ = flags.GetString("store")
	o.StorePath, _ = flags.GetString("store-path")
	o.RedisAddr, _ = flags.GetString("redis-addr")
	o.StoreKey, _ = flags.GetString("store-key")
	o.MaxSteps, _ = flags.GetInt("max-steps")
	return o
}

// exitf prints a message and terminates the process.
func exitf(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
	os.Exit(1)
}

func mustLoader(cmd *cobra.Command) ports.MachineLoader {
	loader, err := cli.NewLoader(options(cmd).Dir)
	if err != nil {
		exitf("Error loading machines: %v", err)
	}
	return loader
}

func mustBackend(cmd *cobra.Command) *cli.Backend {
	b, err := cli.NewBackend(options(cmd))
	if err != nil {
		exitf("Error opening run store: %v", err)
	}
	return b
}

func mustStore(cmd *cobra.Command) ports.RunStore {
	return mustBackend(cmd).Store
}

// tapeFlag returns the --tape value as cells, or nil when the flag was not
// given so the machine's default tape is used.
func tapeFlag(cmd *cobra.Command) []domain.Cell {
	if !cmd.Flags().Changed("tape") {
		return nil
	}
	s, _ := cmd.Flags().GetString("tape")
	return domain.CellsFromString(s, 0)
}
