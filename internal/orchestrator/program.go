package orchestrator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lodestar-dev/lodestar/internal/llm"
	"github.com/lodestar-dev/lodestar/internal/tools"
)

// maxProgramRounds bounds tool iterations per plan item.
const maxProgramRounds = 8

const programSystemPrompt = `You are the programming collaborator for a software-change agent.
Carry out exactly the plan item you are given, using the tools to inspect and modify the workspace.
When the item is done, stop calling tools and state briefly what you changed.`

// programActiveTask executes every pending item of the active task, marking
// items complete as they finish and advancing the plan cursor when the
// revision is exhausted. The cursor never moves backwards.
func (m *Machine) programActiveTask(ctx context.Context, state *SessionState) error {
	if state.Plan == nil {
		return fmt.Errorf("no task plan to program")
	}

	task, err := state.Plan.ActiveTask()
	if err != nil {
		return err
	}
	items, err := state.Plan.ActivePlanItems()
	if err != nil {
		return err
	}

	for _, item := range items {
		if item.Completed {
			continue
		}
		if err := m.programItem(ctx, state, item.Plan); err != nil {
			return fmt.Errorf("plan item %d: %w", item.Index, err)
		}
		if err := task.CompleteItem(item.Index); err != nil {
			return err
		}
		m.log.Info(ctx, "plan item completed",
			zap.Int("task", task.TaskIndex),
			zap.Int("item", item.Index))
	}

	if state.Plan.Advance() {
		m.log.Info(ctx, "task completed, plan advanced",
			zap.Int("activeTaskIndex", state.Plan.ActiveTaskIndex))
	}
	return nil
}

// programItem drives one plan item through a bounded tool loop.
func (m *Machine) programItem(ctx context.Context, state *SessionState, step string) error {
	prompt := fmt.Sprintf("Original request:\n%s\n\nCurrent plan item:\n%s", state.Request, step)
	transcript := []llm.Message{{Role: llm.RoleUser, Content: prompt}}

	for round := 0; round < maxProgramRounds; round++ {
		msg, err := m.client.Invoke(ctx, programSystemPrompt, transcript, tools.Definitions())
		if err != nil {
			return err
		}
		transcript = append(transcript, msg)
		if !msg.HasToolCalls() {
			return nil
		}

		results := make([]llm.ToolResult, 0, len(msg.ToolCalls))
		for _, call := range msg.ToolCalls {
			res, err := m.executor.Execute(ctx, tools.Invocation{ID: call.ID, Name: call.Name, Input: call.Input})
			if err != nil {
				res = tools.Result{Output: err.Error(), Status: tools.StatusError}
			}
			results = append(results, llm.ToolResult{
				ToolCallID: call.ID,
				Result:     res.Output,
				IsError:    res.Status == tools.StatusError,
			})
		}
		transcript = append(transcript, llm.Message{Role: llm.RoleTool, ToolResults: results})
	}

	// Out of rounds with tools still pending. The item counts as attempted;
	// the reviewer decides whether the result is acceptable.
	m.log.Warn(ctx, "plan item hit tool-round budget", zap.String("step", step))
	return nil
}
