package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lodestar-dev/lodestar/internal/safety"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <command> [args...]",
	Short: "Check whether a shell command would run without confirmation",
	Long: `Classify a tokenized shell command against the safety rules the agent
applies before running tools autonomously.

Examples:
  lodestar classify git status
  lodestar classify -- rm -rf build/`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if safety.IsPreApproved(args) {
			fmt.Fprintln(cmd.OutOrStdout(), "pre-approved")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "requires confirmation")
		return nil
	},
}
