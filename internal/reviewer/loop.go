// Package reviewer implements the bounded audit loop that runs after
// programming completes: it alternates between asking the reasoning
// collaborator for audit actions and executing them, until the model stops
// proposing tools or the transcript budget is exhausted, then produces a
// terminal verdict from the accumulated transcript.
package reviewer

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lodestar-dev/lodestar/internal/llm"
	"github.com/lodestar-dev/lodestar/internal/logging"
	"github.com/lodestar-dev/lodestar/internal/scratch"
	"github.com/lodestar-dev/lodestar/internal/telemetry"
	"github.com/lodestar-dev/lodestar/internal/tools"
)

// DefaultMaxActions is the review-round budget when none is configured.
const DefaultMaxActions = 30

// scratchKeyNotes is where the reviewer accumulates cross-turn notes.
const scratchKeyNotes = "review-notes"

// Verdict is the loop's terminal output.
type Verdict struct {
	Approved bool
	Summary  string
}

// Context carries everything the reviewer sees about the finished work.
type Context struct {
	OriginalRequest  string
	WorkingDir       string
	WorkspaceTree    string
	CustomRules      string
	ChangedFiles     []string
	CompletedSummary string
	ActivePlanItems  string
}

// Loop drives the generate-actions / take-actions cycle.
type Loop struct {
	client     llm.Client
	executor   tools.Executor
	notes      scratch.Store
	log        *logging.Logger
	maxActions int
}

// New creates a reviewer loop. maxActions <= 0 selects DefaultMaxActions.
func New(client llm.Client, executor tools.Executor, notes scratch.Store, log *logging.Logger, maxActions int) *Loop {
	if maxActions <= 0 {
		maxActions = DefaultMaxActions
	}
	return &Loop{
		client:     client,
		executor:   executor,
		notes:      notes,
		log:        log.Named("reviewer"),
		maxActions: maxActions,
	}
}

// reviewMetrics holds lazily-initialized instruments for the loop.
var reviewMetrics struct {
	actions metric.Int64Counter
	rounds  metric.Int64Histogram
}

var reviewMetricsOnce sync.Once

func initReviewMetrics() {
	m := telemetry.Meter("github.com/lodestar-dev/lodestar/reviewer")
	reviewMetrics.actions, _ = m.Int64Counter("lodestar.review.actions",
		metric.WithDescription("Tool invocations executed during review"),
		metric.WithUnit("{invocation}"),
	)
	reviewMetrics.rounds, _ = m.Int64Histogram("lodestar.review.rounds",
		metric.WithDescription("Review rounds taken before the terminal verdict"),
		metric.WithUnit("{round}"),
	)
}

// Run executes the review cycle for one session and returns the terminal
// verdict. There is no cancellation mechanism beyond the transcript budget
// and the caller's context; hitting the budget is a defined transition to
// final review, not an error.
func (l *Loop) Run(ctx context.Context, sessionID string, rc Context) (Verdict, error) {
	reviewMetricsOnce.Do(initReviewMetrics)

	// Notes from earlier review turns carry forward.
	if l.notes != nil {
		if prior, err := l.notes.Get(ctx, sessionID, scratchKeyNotes); err == nil {
			rc.CustomRules = strings.TrimSpace(rc.CustomRules + "\n\nNotes from earlier review turns:\n" + prior)
		} else if !errors.Is(err, scratch.ErrNotFound) {
			l.log.Warn(ctx, "failed to read review notes", zap.Error(err))
		}
	}

	transcript := []llm.Message{{Role: llm.RoleUser, Content: reviewPrompt(rc)}}
	rounds := 0

	for {
		// The transcript budget counts entries including the initial prompt.
		// Once it reaches 2*max+1 no further actions may be proposed, even
		// when the last message still carries tool calls.
		if len(transcript) >= 2*l.maxActions+1 {
			break
		}

		msg, err := l.client.Invoke(ctx, reviewSystemPrompt, transcript, tools.Definitions())
		if err != nil {
			return Verdict{}, err
		}
		transcript = append(transcript, msg)
		rounds++

		if !msg.HasToolCalls() {
			break
		}

		results := l.takeActions(ctx, msg.ToolCalls)
		transcript = append(transcript, llm.Message{Role: llm.RoleTool, ToolResults: results})
	}

	if reviewMetrics.rounds != nil {
		reviewMetrics.rounds.Record(ctx, int64(rounds))
	}

	verdict, err := l.finalReview(ctx, transcript)
	if err != nil {
		return Verdict{}, err
	}

	if l.notes != nil {
		if err := l.notes.Put(ctx, sessionID, scratchKeyNotes, verdict.Summary); err != nil {
			l.log.Warn(ctx, "failed to record review notes", zap.Error(err))
		}
	}
	return verdict, nil
}

// takeActions executes every proposed invocation. Independent tools run
// concurrently, but results are merged back in proposal order so tool-result
// correlation stays stable regardless of completion order. Execution
// failures are folded into error-status results, never raised.
func (l *Loop) takeActions(ctx context.Context, calls []llm.ToolCall) []llm.ToolResult {
	results := make([]llm.ToolResult, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		g.Go(func() error {
			res, err := l.executor.Execute(gctx, tools.Invocation{
				ID:    call.ID,
				Name:  call.Name,
				Input: call.Input,
			})
			if err != nil {
				res = tools.Result{Output: err.Error(), Status: tools.StatusError}
			}
			results[i] = llm.ToolResult{
				ToolCallID: call.ID,
				Result:     res.Output,
				IsError:    res.Status == tools.StatusError,
			}
			return nil
		})
	}
	// Workers fold failures into results instead of returning errors.
	_ = g.Wait()

	if reviewMetrics.actions != nil {
		reviewMetrics.actions.Add(ctx, int64(len(calls)))
	}
	l.log.Debug(ctx, "review actions executed", zap.Int("count", len(calls)))
	return results
}

// finalReview asks for a terminal verdict over the accumulated transcript.
// No tools are offered; the answer must stand on what was gathered.
func (l *Loop) finalReview(ctx context.Context, transcript []llm.Message) (Verdict, error) {
	transcript = append(transcript, llm.Message{Role: llm.RoleUser, Content: finalReviewPrompt})

	msg, err := l.client.Invoke(ctx, reviewSystemPrompt, transcript, nil)
	if err != nil {
		return Verdict{}, err
	}
	return parseVerdict(msg.Content), nil
}

// parseVerdict reads the verdict line, failing closed to changes-requested
// when the model did not follow the format.
func parseVerdict(content string) Verdict {
	trimmed := strings.TrimSpace(content)
	lower := strings.ToLower(trimmed)
	approved := strings.HasPrefix(lower, "verdict: approved")
	return Verdict{Approved: approved, Summary: trimmed}
}
