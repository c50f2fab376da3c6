package plan

import (
	"fmt"
	"strings"
)

// RenderActiveItems renders the active revision's plan items as a numbered
// prompt fragment for downstream consumption. Completed items are marked so
// the model can see remaining work at a glance.
func RenderActiveItems(p *TaskPlan) (string, error) {
	items, err := p.ActivePlanItems()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i, item := range items {
		marker := " "
		if item.Completed {
			marker = "x"
		}
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, marker, item.Plan)
	}
	return b.String(), nil
}

// RenderCompletedTaskSummaries renders one line per completed task with its
// finished step count, used as review context.
func RenderCompletedTaskSummaries(p *TaskPlan) string {
	var b strings.Builder
	for _, t := range p.Tasks {
		if !t.Completed {
			continue
		}
		done := 0
		rev, err := t.ActiveRevision()
		if err == nil {
			for _, item := range rev.Plans {
				if item.Completed {
					done++
				}
			}
		}
		fmt.Fprintf(&b, "- %s (%d steps completed)\n", t.Title, done)
	}
	return b.String()
}
