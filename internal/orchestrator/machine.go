package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/lodestar-dev/lodestar/internal/issue"
	"github.com/lodestar-dev/lodestar/internal/llm"
	"github.com/lodestar-dev/lodestar/internal/logging"
	"github.com/lodestar-dev/lodestar/internal/plan"
	"github.com/lodestar-dev/lodestar/internal/reviewer"
	"github.com/lodestar-dev/lodestar/internal/telemetry"
	"github.com/lodestar-dev/lodestar/internal/tools"
)

// Options configures a Machine.
type Options struct {
	// WorkdirRoot is the workspace the programmer and reviewer operate in.
	WorkdirRoot string

	// Rules is free-form repository guidance included in reviewer context.
	Rules string

	MaxDesignQuestions int
	MaxResponseChars   int
}

// Machine advances one session through the orchestration stages. Stages are
// not re-entered concurrently for the same session; the caller serializes
// turns.
type Machine struct {
	client   llm.Client
	executor tools.Executor
	channel  issue.Channel
	reviewer *reviewer.Loop
	log      *logging.Logger
	opts     Options
}

// NewMachine wires the machine's collaborators.
func NewMachine(client llm.Client, executor tools.Executor, channel issue.Channel, rev *reviewer.Loop, log *logging.Logger, opts Options) *Machine {
	if opts.MaxDesignQuestions <= 0 {
		opts.MaxDesignQuestions = 3
	}
	if opts.MaxResponseChars <= 0 {
		opts.MaxResponseChars = 1200
	}
	return &Machine{
		client:   client,
		executor: executor,
		channel:  channel,
		reviewer: rev,
		log:      log.Named("orchestrator"),
		opts:     opts,
	}
}

var stageMetrics struct {
	transitions metric.Int64Counter
}

var stageMetricsOnce sync.Once

func initStageMetrics() {
	m := telemetry.Meter("github.com/lodestar-dev/lodestar/orchestrator")
	stageMetrics.transitions, _ = m.Int64Counter("lodestar.orchestrator.stage_transitions",
		metric.WithDescription("Stage transitions taken by the orchestration machine"),
		metric.WithUnit("{transition}"),
	)
}

// Run processes one user turn. It always returns a terminal Result with a
// user-facing message, even when a stage fails internally.
func (m *Machine) Run(ctx context.Context, state *SessionState, userMessage string) Result {
	stageMetricsOnce.Do(initStageMetrics)
	ctx = logging.WithSessionID(ctx, state.SessionID)

	res, err := m.run(ctx, state, userMessage)
	if err != nil {
		m.log.Error(ctx, "turn failed", zap.Error(err))
		return Result{
			Message: fmt.Sprintf("I could not finish this turn: %v. Nothing further was changed.", err),
			Stage:   StageEnd,
		}
	}
	return res
}

func (m *Machine) run(ctx context.Context, state *SessionState, userMessage string) (Result, error) {
	stage := StageClassifyIntent
	var result Result

	for stage != StageEnd {
		m.log.Debug(ctx, "entering stage", zap.String("stage", string(stage)))
		if stageMetrics.transitions != nil {
			stageMetrics.transitions.Add(ctx, 1)
		}

		switch stage {
		case StageClassifyIntent:
			route := m.classifyIntent(ctx, state, userMessage)
			m.log.Info(ctx, "intent classified", zap.String("route", route.String()))
			switch route {
			case RoutePlanner:
				stage = StageHandoff
			case RouteEnd:
				result.Message = "Nothing to do this turn."
				stage = StageEnd
			case RouteDesign:
				stage = StageDesign
			default:
				stage = StageDesign
			}

		case StageDesign:
			delta, err := m.designTurn(ctx, state, userMessage)
			if err != nil {
				return Result{}, err
			}
			state.Apply(delta)
			result.Message = delta.Reply
			stage = StageEnd

		case StageHandoff:
			// One-way: control does not return to design for this request
			// without a fresh classification pass.
			state.Apply(Delta{HandedOff: true, PlannerStatus: AgentRunning})
			stage = StagePlan

		case StagePlan:
			p, reconciled, deps, err := m.buildPlan(state)
			if err != nil {
				return Result{}, err
			}
			state.Apply(Delta{Plan: p, Graph: reconciled, Deps: deps, PlannerStatus: AgentDone})
			if err := issue.SavePlan(ctx, m.channel, p); err != nil {
				return Result{}, fmt.Errorf("persisting plan: %w", err)
			}
			stage = StageProgram

		case StageProgram:
			state.Apply(Delta{ProgrammerStatus: AgentRunning})
			for !state.Plan.Done() {
				if err := m.programActiveTask(ctx, state); err != nil {
					state.Apply(Delta{ProgrammerStatus: AgentIdle})
					return Result{}, err
				}
			}
			state.Apply(Delta{ProgrammerStatus: AgentDone})
			if err := issue.SavePlan(ctx, m.channel, state.Plan); err != nil {
				return Result{}, fmt.Errorf("persisting completed plan: %w", err)
			}
			stage = StageReview

		case StageReview:
			verdict, err := m.reviewWork(ctx, state)
			if err != nil {
				return Result{}, err
			}
			result.Verdict = &Verdict{Approved: verdict.Approved, Summary: verdict.Summary}
			if verdict.Approved {
				result.Message = "All tasks completed and the review approved the work.\n\n" + verdict.Summary
			} else {
				result.Message = "All tasks completed but the review requested changes.\n\n" + verdict.Summary
			}
			stage = StageEnd
		}
	}

	result.Stage = StageEnd
	return result, nil
}

// reviewWork assembles the reviewer's context and runs the action loop.
func (m *Machine) reviewWork(ctx context.Context, state *SessionState) (reviewer.Verdict, error) {
	items, err := plan.RenderActiveItems(state.Plan)
	if err != nil {
		// A fully completed plan has no active task to render.
		items = ""
	}
	return m.reviewer.Run(ctx, state.SessionID, reviewer.Context{
		OriginalRequest:  state.Request,
		WorkingDir:       m.opts.WorkdirRoot,
		WorkspaceTree:    workspaceTree(m.opts.WorkdirRoot),
		CustomRules:      m.opts.Rules,
		CompletedSummary: plan.RenderCompletedTaskSummaries(state.Plan),
		ActivePlanItems:  items,
	})
}

// workspaceTree renders a shallow two-level listing of the workspace for
// reviewer context. Failures degrade to an empty tree rather than blocking
// the review.
func workspaceTree(root string) string {
	if root == "" {
		return ""
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return ""
	}

	var lines []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if !e.IsDir() {
			lines = append(lines, e.Name())
			continue
		}
		lines = append(lines, e.Name()+"/")
		children, err := os.ReadDir(filepath.Join(root, e.Name()))
		if err != nil {
			continue
		}
		for _, c := range children {
			if strings.HasPrefix(c.Name(), ".") {
				continue
			}
			name := c.Name()
			if c.IsDir() {
				name += "/"
			}
			lines = append(lines, "  "+filepath.Join(e.Name(), name))
		}
	}
	return strings.Join(lines, "\n")
}
