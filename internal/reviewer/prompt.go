package reviewer

import (
	"fmt"
	"strings"
)

const reviewSystemPrompt = `You are a careful code reviewer auditing work just completed by a programming agent.
Inspect the workspace with the provided tools, verify the work matches the request, and gather the evidence you need.
When you have seen enough, stop calling tools and summarize your findings.`

const finalReviewPrompt = `Give your terminal verdict on the completed work.
Start your reply with exactly one of:
VERDICT: approved
VERDICT: changes-requested
Then explain your reasoning and list any required follow-up work.`

// reviewPrompt renders the initial user message from the session context.
// Empty sections are omitted so the prompt does not grow headers with
// nothing under them.
func reviewPrompt(rc Context) string {
	var b strings.Builder
	b.WriteString("Review the work completed for the following request.\n")

	section(&b, "Original request", rc.OriginalRequest)
	section(&b, "Working directory", rc.WorkingDir)
	section(&b, "Workspace tree", rc.WorkspaceTree)
	section(&b, "Plan items for the active task", rc.ActivePlanItems)
	section(&b, "Previously completed tasks", rc.CompletedSummary)
	if len(rc.ChangedFiles) > 0 {
		section(&b, "Changed files", "- "+strings.Join(rc.ChangedFiles, "\n- "))
	}
	section(&b, "Repository rules", rc.CustomRules)

	return strings.TrimRight(b.String(), "\n")
}

func section(b *strings.Builder, title, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	fmt.Fprintf(b, "\n## %s\n%s\n", title, body)
}
