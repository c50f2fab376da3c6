// Package plan models the revisable task plan an orchestration session works
// through: an ordered list of tasks, each carrying an append-only log of plan
// revisions. Editing a plan always appends a revision rather than mutating
// one, so history is auditable and concurrent readers stay safe.
package plan

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Actor tags who authored a plan revision.
type Actor string

const (
	ActorHuman Actor = "human"
	ActorAgent Actor = "agent"
)

// ErrNoActiveRevision is returned when a task has no revisions yet.
var ErrNoActiveRevision = errors.New("task has no plan revisions")

// PlanItem is a single step within a revision. Index is a stable ordinal
// assigned at creation, not necessarily the array position.
type PlanItem struct {
	Index     int    `json:"index"`
	Plan      string `json:"plan"`
	Completed bool   `json:"completed"`
}

// PlanRevision is one append-only version of a task's step list.
type PlanRevision struct {
	RevisionIndex int        `json:"revisionIndex"`
	Plans         []PlanItem `json:"plans"`
	CreatedAt     time.Time  `json:"createdAt"`
	CreatedBy     Actor      `json:"createdBy"`
}

// Task tracks one unit of requested work and its plan history.
type Task struct {
	ID                  string         `json:"id"`
	TaskIndex           int            `json:"taskIndex"`
	Request             string         `json:"request"`
	Title               string         `json:"title"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
	Completed           bool           `json:"completed"`
	PlanRevisions       []PlanRevision `json:"planRevisions"`
	ActiveRevisionIndex int            `json:"activeRevisionIndex"`
}

// NewTask creates a task with a fresh id and timestamps.
func NewTask(taskIndex int, request, title string) Task {
	now := time.Now().UTC()
	return Task{
		ID:        uuid.NewString(),
		TaskIndex: taskIndex,
		Request:   request,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AppendRevision appends a new revision authored by the given actor and
// makes it active. The revision index is assigned monotonically from the
// current log length; existing revisions are never touched.
func (t *Task) AppendRevision(items []PlanItem, by Actor) PlanRevision {
	rev := PlanRevision{
		RevisionIndex: len(t.PlanRevisions),
		Plans:         append([]PlanItem(nil), items...),
		CreatedAt:     time.Now().UTC(),
		CreatedBy:     by,
	}
	t.PlanRevisions = append(t.PlanRevisions, rev)
	t.ActiveRevisionIndex = rev.RevisionIndex
	t.UpdatedAt = rev.CreatedAt
	return rev
}

// ActiveRevision returns the task's active revision.
func (t *Task) ActiveRevision() (PlanRevision, error) {
	if len(t.PlanRevisions) == 0 {
		return PlanRevision{}, ErrNoActiveRevision
	}
	if t.ActiveRevisionIndex < 0 || t.ActiveRevisionIndex >= len(t.PlanRevisions) {
		return PlanRevision{}, fmt.Errorf("active revision index %d out of range [0,%d)", t.ActiveRevisionIndex, len(t.PlanRevisions))
	}
	return t.PlanRevisions[t.ActiveRevisionIndex], nil
}

// CompleteItem marks the plan item with the given stable index complete on
// the active revision and touches the task's UpdatedAt.
func (t *Task) CompleteItem(index int) error {
	if len(t.PlanRevisions) == 0 {
		return ErrNoActiveRevision
	}
	rev := &t.PlanRevisions[t.ActiveRevisionIndex]
	for i := range rev.Plans {
		if rev.Plans[i].Index == index {
			rev.Plans[i].Completed = true
			t.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("plan item %d not found in revision %d", index, t.ActiveRevisionIndex)
}

// AllItemsComplete reports whether every item of the active revision is done.
// A task with no revisions is not complete.
func (t *Task) AllItemsComplete() bool {
	rev, err := t.ActiveRevision()
	if err != nil {
		return false
	}
	for _, item := range rev.Plans {
		if !item.Completed {
			return false
		}
	}
	return true
}

// TaskPlan is the ordered sequence of tasks for one request, with a cursor
// on the task currently being worked.
type TaskPlan struct {
	Tasks           []Task `json:"tasks"`
	ActiveTaskIndex int    `json:"activeTaskIndex"`
}

// Validate checks the cross-model invariants.
func (p *TaskPlan) Validate() error {
	if len(p.Tasks) > 0 && (p.ActiveTaskIndex < 0 || p.ActiveTaskIndex >= len(p.Tasks)) {
		return fmt.Errorf("active task index %d out of range [0,%d)", p.ActiveTaskIndex, len(p.Tasks))
	}
	for _, t := range p.Tasks {
		if len(t.PlanRevisions) == 0 {
			continue
		}
		if t.ActiveRevisionIndex < 0 || t.ActiveRevisionIndex >= len(t.PlanRevisions) {
			return fmt.Errorf("task %s: active revision index %d out of range [0,%d)", t.ID, t.ActiveRevisionIndex, len(t.PlanRevisions))
		}
	}
	return nil
}

// ActiveTask returns a pointer to the task under the cursor.
func (p *TaskPlan) ActiveTask() (*Task, error) {
	if len(p.Tasks) == 0 {
		return nil, errors.New("task plan is empty")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p.Tasks[p.ActiveTaskIndex], nil
}

// ActivePlanItems returns a copy of the plan items of the active revision of
// the active task.
func (p *TaskPlan) ActivePlanItems() ([]PlanItem, error) {
	task, err := p.ActiveTask()
	if err != nil {
		return nil, err
	}
	rev, err := task.ActiveRevision()
	if err != nil {
		return nil, err
	}
	return append([]PlanItem(nil), rev.Plans...), nil
}

// Advance marks the active task complete if all its items are done and moves
// the cursor to the next task. The cursor never decreases and never leaves
// [0, len). Returns true when the cursor moved.
func (p *TaskPlan) Advance() bool {
	task, err := p.ActiveTask()
	if err != nil || !task.AllItemsComplete() {
		return false
	}
	if !task.Completed {
		task.Completed = true
		task.UpdatedAt = time.Now().UTC()
	}
	if p.ActiveTaskIndex+1 < len(p.Tasks) {
		p.ActiveTaskIndex++
		return true
	}
	return false
}

// Done reports whether every task in the plan is complete.
func (p *TaskPlan) Done() bool {
	if len(p.Tasks) == 0 {
		return false
	}
	for _, t := range p.Tasks {
		if !t.Completed {
			return false
		}
	}
	return true
}
