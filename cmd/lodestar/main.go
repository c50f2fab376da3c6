// Package main implements the lodestar CLI: a staged coding agent that
// designs, plans, programs, and reviews software changes against a local
// workspace, persisting its task plan into an issue body.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// configPath points at an optional yaml config file.
	configPath string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lodestar",
	Short: "Autonomous software-change agent",
	Long: `lodestar coordinates an autonomous software-change agent: it tracks a
feature graph through a design conversation, derives a revisable task plan,
executes the plan against a workspace, and reviews the result.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (yaml)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(planCmd)
}
