// Package orchestrator drives the staged pipeline that turns a user request
// into a completed task plan: intent classification, design conversation,
// handoff to the planner, plan construction, programming, and review.
package orchestrator

import (
	"github.com/lodestar-dev/lodestar/internal/graph"
	"github.com/lodestar-dev/lodestar/internal/llm"
	"github.com/lodestar-dev/lodestar/internal/plan"
)

// Stage identifies a state of the orchestration machine.
type Stage string

const (
	// StageClassifyIntent routes the incoming message.
	StageClassifyIntent Stage = "classify-intent"

	// StageDesign conducts the clarifying design conversation.
	StageDesign Stage = "design"

	// StageHandoff transfers control from design to the planner, one way.
	StageHandoff Stage = "handoff-to-planner"

	// StagePlan turns the reconciled feature graph into a task plan.
	StagePlan Stage = "plan"

	// StageProgram executes plan items against the workspace.
	StageProgram Stage = "program"

	// StageReview audits the completed work.
	StageReview Stage = "review"

	// StageEnd terminates the turn.
	StageEnd Stage = "end"
)

// Route is the closed routing decision produced by intent classification.
// The driver switches on it exhaustively; adding a case is a compile-time
// visible change, never an ad-hoc string comparison.
type Route int

const (
	// RouteDesign stays in the design conversation. It is also the
	// fallback for anything the classifier could not place.
	RouteDesign Route = iota

	// RoutePlanner hands the session off to the planner.
	RoutePlanner

	// RouteEnd terminates the turn without further work.
	RouteEnd
)

func (r Route) String() string {
	switch r {
	case RoutePlanner:
		return "planner"
	case RouteEnd:
		return "end"
	default:
		return "design"
	}
}

// AgentStatus flags what a sub-agent is currently doing for a session.
type AgentStatus string

const (
	AgentIdle    AgentStatus = "idle"
	AgentRunning AgentStatus = "running"
	AgentDone    AgentStatus = "done"
)

// SessionState is the per-session state the hosting runtime owns. Stages
// never write to it directly; they return a Delta the driver merges.
type SessionState struct {
	SessionID string
	Request   string

	// Messages is the design conversation so far.
	Messages []llm.Message

	Graph *graph.FeatureGraph
	Deps  graph.DependencyIndex
	Plan  *plan.TaskPlan

	PlannerStatus    AgentStatus
	ProgrammerStatus AgentStatus

	// HandedOff records that the one-way design-to-planner transition has
	// been taken for the current request.
	HandedOff bool
}

// NewSessionState creates an idle session for one request.
func NewSessionState(sessionID, request string) *SessionState {
	return &SessionState{
		SessionID:        sessionID,
		Request:          request,
		PlannerStatus:    AgentIdle,
		ProgrammerStatus: AgentIdle,
	}
}

// Delta is the partial-state update a stage returns. Zero-valued fields
// leave the corresponding session state untouched.
type Delta struct {
	Reply    string
	Messages []llm.Message

	Graph *graph.FeatureGraph
	Deps  graph.DependencyIndex
	Plan  *plan.TaskPlan

	PlannerStatus    AgentStatus
	ProgrammerStatus AgentStatus

	HandedOff bool
}

// Apply merges a stage's delta into the session state.
func (s *SessionState) Apply(d Delta) {
	if len(d.Messages) > 0 {
		s.Messages = append(s.Messages, d.Messages...)
	}
	if d.Graph != nil {
		s.Graph = d.Graph
	}
	if d.Deps != nil {
		s.Deps = d.Deps
	}
	if d.Plan != nil {
		s.Plan = d.Plan
	}
	if d.PlannerStatus != "" {
		s.PlannerStatus = d.PlannerStatus
	}
	if d.ProgrammerStatus != "" {
		s.ProgrammerStatus = d.ProgrammerStatus
	}
	if d.HandedOff {
		s.HandedOff = true
	}
}

// Result is the terminal output of one orchestrated turn. The machine
// always produces one, even when a stage fails internally.
type Result struct {
	Message string
	Stage   Stage
	Verdict *Verdict
}

// Verdict mirrors the reviewer's terminal output for callers that do not
// import the reviewer package.
type Verdict struct {
	Approved bool
	Summary  string
}
