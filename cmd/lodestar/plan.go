package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lodestar-dev/lodestar/internal/issue"
	"github.com/lodestar-dev/lodestar/internal/plan"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Inspect the task plan stored in the configured issue",
	RunE:  runPlanShow,
}

var planReviseCmd = &cobra.Command{
	Use:   "revise <step>...",
	Short: "Replace the active task's plan with a new human-authored revision",
	Long: `Append a new revision to the active task, one plan item per argument.
The previous revisions are kept; editing never rewrites history.

Example:
  lodestar plan revise "Add the login handler" "Cover it with an integration test"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlanRevise,
}

func init() {
	planCmd.AddCommand(planReviseCmd)
}

func runPlanShow(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	d, err := wire(ctx, false)
	if err != nil {
		return err
	}
	defer d.Close()

	p, err := issue.LoadPlan(ctx, d.log, d.channel)
	if err != nil {
		return err
	}
	if p == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "no task plan found")
		return nil
	}

	if done := plan.RenderCompletedTaskSummaries(p); done != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Completed tasks:\n%s\n\n", done)
	}

	task, err := p.ActiveTask()
	if err != nil {
		return err
	}
	items, err := plan.RenderActiveItems(p)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Active task %d: %s\n%s\n", task.TaskIndex, task.Title, items)
	return nil
}

func runPlanRevise(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	d, err := wire(ctx, false)
	if err != nil {
		return err
	}
	defer d.Close()

	p, err := issue.LoadPlan(ctx, d.log, d.channel)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("no task plan found to revise")
	}

	task, err := p.ActiveTask()
	if err != nil {
		return err
	}

	items := make([]plan.PlanItem, len(args))
	for i, step := range args {
		items[i] = plan.PlanItem{Index: i, Plan: step}
	}
	rev := task.AppendRevision(items, plan.ActorHuman)

	if err := issue.SavePlan(ctx, d.channel, p); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "appended revision %d to task %d (%s)\n", rev.RevisionIndex, task.TaskIndex, task.Title)
	return nil
}
