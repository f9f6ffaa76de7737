package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/session"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persistent debug sessions",
	Long: `Start a machine, advance it a few steps at a time across invocations, and
inspect or remove the paused runs kept in the run store.`,
}

var sessionStartCmd = &cobra.Command{
	Use:   "start <machine>",
	Short: "Start a new session without stepping",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, _ := cmd.Flags().GetString("id")

		run, err := newManager(cmd).Start(cmd.Context(), id, args[0], tapeFlag(cmd))
		if err != nil {
			exitf("Error starting session: %v", err)
		}
		fmt.Printf("Started session '%s' (%s)\n", run.ID, run.Machine)
		printRun(cmd, run)
	},
}

var sessionStepCmd = &cobra.Command{
	Use:   "step <session-id>",
	Short: "Advance a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		n, _ := cmd.Flags().GetInt("steps")

		run, err := newManager(cmd).Step(cmd.Context(), args[0], n)
		if err != nil {
			exitf("Error stepping session '%s': %v", args[0], err)
		}
		printRun(cmd, run)
		if run.Status == domain.StatusFailed {
			os.Exit(1)
		}
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show the state of a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		asJSON, _ := cmd.Flags().GetBool("json")

		run, err := newManager(cmd).Load(cmd.Context(), args[0])
		if err != nil {
			exitf("Error loading session '%s': %v", args[0], err)
		}

		if asJSON {
			data, err := json.MarshalIndent(run, "", "  ")
			if err != nil {
				exitf("Error marshaling run: %v", err)
			}
			fmt.Println(string(data))
			return
		}
		printRun(cmd, run)
	},
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all sessions and stored runs",
	Run: func(cmd *cobra.Command, args []string) {
		mgr := newManager(cmd)
		ids, err := mgr.List(cmd.Context())
		if err != nil {
			exitf("Error listing sessions: %v", err)
		}

		if len(ids) == 0 {
			fmt.Println("No sessions found.")
			return
		}

		for _, id := range ids {
			run, err := mgr.Load(cmd.Context(), id)
			if err != nil {
				fmt.Printf("%-36s (error: %v)\n", id, err)
				continue
			}
			fmt.Printf("%-36s %-10s %-8s %6d steps\n", id, run.Machine, run.Status, run.Steps)
		}
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		mgr := newManager(cmd)
		hasError := false

		for _, id := range args {
			if err := mgr.Delete(cmd.Context(), id); err != nil {
				fmt.Printf("Error removing '%s': %v\n", id, err)
				hasError = true
			} else {
				fmt.Printf("Removed session '%s'\n", id)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionStepCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionRmCmd)

	sessionStartCmd.Flags().String("id", "", "Session ID (generated when empty)")
	sessionStartCmd.Flags().String("tape", "", "Initial tape, one symbol per character starting at position 0")
	sessionStepCmd.Flags().IntP("steps", "n", 1, "Steps to apply (0 runs until the machine halts or fails)")
	sessionShowCmd.Flags().Bool("json", false, "Print the raw run record")
}

func newManager(cmd *cobra.Command) *session.Manager {
	opts := options(cmd)
	engineOpts, err := opts.EngineOptions()
	if err != nil {
		exitf("Error: %v", err)
	}
	logger, _ := opts.Logger()

	b := mustBackend(cmd)
	return session.NewManager(b.Store, mustLoader(cmd),
		session.WithLocker(b.Locker),
		session.WithLogger(logger),
		session.WithEngineOptions(engineOpts...),
	)
}

// printRun shows a run's configuration with the head marked.
func printRun(cmd *cobra.Command, run *domain.Run) {
	blank := domain.DefaultBlank
	if def, err := mustLoader(cmd).GetMachine(cmd.Context(), run.Machine); err == nil {
		blank = def.BlankSymbol()
	}
	fmt.Printf("%s\n", cli.TapeRenderer(os.Stdout, blank)(run.Tape, run.Position))
	fmt.Printf("state %s at %d after %d steps (%s)\n", run.State, run.Position, run.Steps, run.Status)
	if run.Error != "" {
		fmt.Printf("error: %s\n", run.Error)
	}
}
