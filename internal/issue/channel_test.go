package issue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodestar-dev/lodestar/internal/logging"
	"github.com/lodestar-dev/lodestar/internal/plan"
)

func TestLoadPlanMissingPlanIsNilNotError(t *testing.T) {
	log := logging.NewTestLogger()
	ch := NewMemoryChannel("an issue written by a human, no plan yet")

	p, err := LoadPlan(context.Background(), log.Logger, ch)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	log := logging.NewTestLogger()
	ctx := context.Background()
	ch := NewMemoryChannel("## Request\n\nPlease add rate limiting.\n")

	task := plan.NewTask(0, "add rate limiting", "Rate limiting")
	task.AppendRevision([]plan.PlanItem{{Index: 0, Plan: "add middleware"}}, plan.ActorAgent)
	p := &plan.TaskPlan{Tasks: []plan.Task{task}}

	require.NoError(t, SavePlan(ctx, ch, p))

	// Human content outside the tags is untouched.
	body, err := ch.Read(ctx)
	require.NoError(t, err)
	assert.Contains(t, body, "Please add rate limiting.")

	got, err := LoadPlan(ctx, log.Logger, ch)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.Tasks[0].ID, got.Tasks[0].ID)
}

func TestSavePlanOverwritesOnlyTheBlock(t *testing.T) {
	ctx := context.Background()
	ch := NewMemoryChannel("header\n")

	first := &plan.TaskPlan{Tasks: []plan.Task{plan.NewTask(0, "a", "A")}}
	require.NoError(t, SavePlan(ctx, ch, first))

	body, _ := ch.Read(ctx)
	ch2 := NewMemoryChannel(body + "\ntrailer added by a human\n")

	second := &plan.TaskPlan{Tasks: []plan.Task{plan.NewTask(0, "b", "B")}}
	require.NoError(t, SavePlan(ctx, ch2, second))

	final, _ := ch2.Read(ctx)
	assert.Contains(t, final, "header")
	assert.Contains(t, final, "trailer added by a human")

	log := logging.NewTestLogger()
	got, err := LoadPlan(ctx, log.Logger, ch2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "B", got.Tasks[0].Title)
}
