package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lodestar-dev/lodestar/internal/orchestrator"
	"github.com/lodestar-dev/lodestar/internal/reviewer"
)

var (
	runSessionID   string
	runAutoApprove bool
	runRules       string
)

var runCmd = &cobra.Command{
	Use:   "run <message...>",
	Short: "Process one message through the orchestration pipeline",
	Long: `Run one orchestrated turn: the message is classified, then either answered
in the design conversation or planned, programmed, and reviewed.

Examples:
  # Start a design conversation
  lodestar run "I want users to be able to log in"

  # Continue a session and let scoped commands run unattended
  lodestar run --session 2f1c... --yes "go ahead and build it"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runSessionID, "session", "", "session id (defaults to a new id)")
	runCmd.Flags().BoolVar(&runAutoApprove, "yes", false, "run commands without confirmation prompts")
	runCmd.Flags().StringVar(&runRules, "rules", "", "extra repository rules for the reviewer")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	message := strings.Join(args, " ")

	d, err := wire(ctx, runAutoApprove)
	if err != nil {
		return err
	}
	defer d.Close()

	sessionID := runSessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	rev := reviewer.New(d.client, d.mux, d.notes, d.log, d.cfg.Review.MaxActions)
	machine := orchestrator.NewMachine(d.client, d.mux, d.channel, rev, d.log, orchestrator.Options{
		WorkdirRoot:        d.cfg.Workspace.Root,
		Rules:              runRules,
		MaxDesignQuestions: d.cfg.Design.MaxQuestions,
		MaxResponseChars:   d.cfg.Design.MaxResponseChars,
	})

	state := orchestrator.NewSessionState(sessionID, message)
	result := machine.Run(ctx, state, message)

	fmt.Fprintln(cmd.OutOrStdout(), result.Message)
	if result.Verdict != nil {
		verdict := "changes requested"
		if result.Verdict.Approved {
			verdict = "approved"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nreview: %s\n", verdict)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "session: %s\n", sessionID)
	return nil
}
