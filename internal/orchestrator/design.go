package orchestrator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lodestar-dev/lodestar/internal/graph"
	"github.com/lodestar-dev/lodestar/internal/llm"
)

// maxDesignRounds bounds tool iterations within one design turn.
const maxDesignRounds = 4

const (
	toolAddFeature   = "add_feature"
	toolLinkFeatures = "link_features"
)

func designTools() []llm.Tool {
	return []llm.Tool{
		{
			Name:        toolAddFeature,
			Description: "Record a product feature in the design graph. Replaces the feature if the id already exists. Requires id and name.",
			InputSchema: map[string]any{
				"id":          map[string]any{"type": "string"},
				"name":        map[string]any{"type": "string"},
				"description": map[string]any{"type": "string"},
				"status":      map[string]any{"type": "string", "enum": []string{"proposed", "active", "in-progress", "inactive"}},
			},
		},
		{
			Name:        toolLinkFeatures,
			Description: "Add a directed relation between two recorded features. Requires source, target and type.",
			InputSchema: map[string]any{
				"source": map[string]any{"type": "string"},
				"target": map[string]any{"type": "string"},
				"type":   map[string]any{"type": "string", "description": "Relation label, e.g. depends-on, relates-to."},
			},
		},
	}
}

func (m *Machine) designSystemPrompt() string {
	return fmt.Sprintf(`You are the design collaborator for a software-change agent.
Hold an incremental conversation about what to build. Record agreed features with the tools as the picture firms up.
Ask at most %d targeted clarifying questions before proposing any concrete step.
Keep every response under %d characters.
Never present a full multi-step implementation plan unless the user explicitly asks for one.`,
		m.opts.MaxDesignQuestions, m.opts.MaxResponseChars)
}

// designTurn runs one round of the clarifying conversation. Tool calls
// mutate the feature graph by replacement: each application constructs a
// new snapshot, the previous one stays valid throughout.
func (m *Machine) designTurn(ctx context.Context, state *SessionState, userMessage string) (Delta, error) {
	delta := Delta{Messages: []llm.Message{{Role: llm.RoleUser, Content: userMessage}}}
	transcript := append(append([]llm.Message(nil), state.Messages...), delta.Messages[0])

	g := state.Graph
	for round := 0; round < maxDesignRounds; round++ {
		msg, err := m.client.Invoke(ctx, m.designSystemPrompt(), transcript, designTools())
		if err != nil {
			return Delta{}, fmt.Errorf("design turn: %w", err)
		}
		transcript = append(transcript, msg)
		delta.Messages = append(delta.Messages, msg)
		delta.Reply = msg.Content

		if !msg.HasToolCalls() {
			break
		}

		results := make([]llm.ToolResult, 0, len(msg.ToolCalls))
		for _, call := range msg.ToolCalls {
			next, err := applyFeatureCall(g, call)
			res := llm.ToolResult{ToolCallID: call.ID, Result: "recorded"}
			if err != nil {
				res.Result = err.Error()
				res.IsError = true
				m.log.Warn(ctx, "design tool rejected", zap.String("tool", call.Name), zap.Error(err))
			} else {
				g = next
			}
			results = append(results, res)
		}
		toolMsg := llm.Message{Role: llm.RoleTool, ToolResults: results}
		transcript = append(transcript, toolMsg)
		delta.Messages = append(delta.Messages, toolMsg)
	}

	delta.Graph = g
	return delta, nil
}

// applyFeatureCall folds one tool call into a replacement graph snapshot.
func applyFeatureCall(g *graph.FeatureGraph, call llm.ToolCall) (*graph.FeatureGraph, error) {
	nodes := map[string]graph.FeatureNode{}
	var edges []graph.FeatureEdge
	var artifacts map[string]string
	version := 0
	if g != nil {
		for _, n := range g.ListFeatures() {
			nodes[n.ID] = n
		}
		edges = g.ListEdges()
		artifacts = g.Artifacts()
		version = g.Version()
	}

	switch call.Name {
	case toolAddFeature:
		id, _ := call.Input["id"].(string)
		name, _ := call.Input["name"].(string)
		if id == "" || name == "" {
			return nil, fmt.Errorf("add_feature requires id and name")
		}
		desc, _ := call.Input["description"].(string)
		status, _ := call.Input["status"].(string)
		if status == "" {
			status = string(graph.StatusProposed)
		}
		nodes[id] = graph.FeatureNode{ID: id, Name: name, Description: desc, Status: graph.Status(status)}
	case toolLinkFeatures:
		source, _ := call.Input["source"].(string)
		target, _ := call.Input["target"].(string)
		typ, _ := call.Input["type"].(string)
		if source == "" || target == "" || typ == "" {
			return nil, fmt.Errorf("link_features requires source, target and type")
		}
		edges = append(edges, graph.FeatureEdge{Source: source, Target: target, Type: typ})
	default:
		return nil, fmt.Errorf("unknown design tool %q", call.Name)
	}

	return graph.New(version+1, nodes, edges, artifacts), nil
}
