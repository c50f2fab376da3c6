package orchestrator

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/lodestar-dev/lodestar/internal/llm"
)

const classifySystemPrompt = `You route a software-change conversation.
Given the conversation so far and the latest user message, answer with exactly one word:
design - the user is still discussing, asking, or refining what to build
plan - the user has asked to proceed and the work should be planned and executed
end - the message needs no further work this turn
Answer with the single word only.`

// classifyIntent inspects the session's status flags and the conversation,
// and routes to exactly one named stage. Status flags short-circuit the
// model call: a session with a sub-agent already running never re-enters.
func (m *Machine) classifyIntent(ctx context.Context, state *SessionState, userMessage string) Route {
	if state.PlannerStatus == AgentRunning || state.ProgrammerStatus == AgentRunning {
		m.log.Info(ctx, "sub-agent busy, ending turn",
			zap.String("planner", string(state.PlannerStatus)),
			zap.String("programmer", string(state.ProgrammerStatus)))
		return RouteEnd
	}

	transcript := append(append([]llm.Message(nil), state.Messages...), llm.Message{
		Role:    llm.RoleUser,
		Content: userMessage,
	})
	msg, err := m.client.Invoke(ctx, classifySystemPrompt, transcript, nil)
	if err != nil {
		m.log.Warn(ctx, "intent classification failed, staying in design", zap.Error(err))
		return RouteDesign
	}
	return parseRoute(msg.Content)
}

// parseRoute maps the classifier's answer onto the closed Route set. Any
// answer outside the set falls back to the design conversation so the
// machine never stalls on unexpected output.
func parseRoute(answer string) Route {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "plan", "planner":
		return RoutePlanner
	case "end":
		return RouteEnd
	default:
		return RouteDesign
	}
}
