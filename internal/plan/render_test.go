package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderActiveItems(t *testing.T) {
	task := NewTask(0, "req", "Title")
	task.AppendRevision([]PlanItem{
		{Index: 0, Plan: "write failing test", Completed: true},
		{Index: 1, Plan: "implement handler"},
	}, ActorAgent)
	p := &TaskPlan{Tasks: []Task{task}}

	out, err := RenderActiveItems(p)
	require.NoError(t, err)
	assert.Equal(t, "1. [x] write failing test\n2. [ ] implement handler\n", out)
}

func TestRenderActiveItemsEmptyPlan(t *testing.T) {
	p := &TaskPlan{}
	_, err := RenderActiveItems(p)
	assert.Error(t, err)
}

func TestRenderCompletedTaskSummaries(t *testing.T) {
	done := NewTask(0, "req", "Finished work")
	done.AppendRevision([]PlanItem{
		{Index: 0, Plan: "step one", Completed: true},
		{Index: 1, Plan: "step two", Completed: true},
	}, ActorAgent)
	done.Completed = true

	pending := NewTask(1, "req", "Open work")
	pending.AppendRevision([]PlanItem{{Index: 0, Plan: "step"}}, ActorAgent)

	p := &TaskPlan{Tasks: []Task{done, pending}}
	out := RenderCompletedTaskSummaries(p)
	assert.Equal(t, "- Finished work (2 steps completed)\n", out)
}
