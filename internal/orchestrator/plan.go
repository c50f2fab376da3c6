package orchestrator

import (
	"fmt"
	"sort"

	"github.com/lodestar-dev/lodestar/internal/graph"
	"github.com/lodestar-dev/lodestar/internal/plan"
)

// buildPlan reconciles the session's feature graph and derives the initial
// task plan: one task per feature that is not inactive, ordered so that a
// feature's dependencies are planned before the feature itself. Each task
// gets its first revision, authored by the agent.
func (m *Machine) buildPlan(state *SessionState) (*plan.TaskPlan, *graph.FeatureGraph, graph.DependencyIndex, error) {
	if state.Graph == nil {
		return nil, nil, nil, fmt.Errorf("no feature graph to plan from")
	}

	reconciled, deps := graph.Reconcile(state.Graph)

	ordered, err := dependencyOrder(reconciled)
	if err != nil {
		return nil, nil, nil, err
	}

	p := &plan.TaskPlan{}
	for _, node := range ordered {
		if node.Status == graph.StatusInactive {
			continue
		}
		task := plan.NewTask(len(p.Tasks), state.Request, graph.Describe(node))

		items := []plan.PlanItem{{Index: 0, Plan: "Implement " + graph.Describe(node)}}
		outgoing, err := reconciled.EdgesFrom(node.ID)
		if err != nil {
			return nil, nil, nil, err
		}
		for _, e := range outgoing {
			dep, ok := reconciled.GetFeature(e.Target)
			if !ok {
				continue
			}
			items = append(items, plan.PlanItem{
				Index: len(items),
				Plan:  fmt.Sprintf("Verify %s against %s", node.Name, graph.Describe(dep)),
			})
		}
		task.AppendRevision(items, plan.ActorAgent)
		p.Tasks = append(p.Tasks, task)
	}

	if len(p.Tasks) == 0 {
		return nil, nil, nil, fmt.Errorf("feature graph yields no plannable tasks")
	}
	if err := p.Validate(); err != nil {
		return nil, nil, nil, err
	}
	return p, reconciled, deps, nil
}

// dependencyOrder returns the graph's features so that every edge target
// precedes its source, with ties broken by id for a stable result. A cycle
// does not fail planning: the remaining nodes are appended in id order.
func dependencyOrder(g *graph.FeatureGraph) ([]graph.FeatureNode, error) {
	features := g.ListFeatures()
	pending := make(map[string]int, len(features))
	for _, n := range features {
		out, err := g.EdgesFrom(n.ID)
		if err != nil {
			return nil, err
		}
		pending[n.ID] = len(out)
	}

	var ordered []graph.FeatureNode
	placed := make(map[string]bool, len(features))

	for len(ordered) < len(features) {
		var ready []string
		for id, n := range pending {
			if n == 0 && !placed[id] {
				ready = append(ready, id)
			}
		}
		if len(ready) == 0 {
			for _, n := range features {
				if !placed[n.ID] {
					ordered = append(ordered, n)
				}
			}
			break
		}
		sort.Strings(ready)
		for _, id := range ready {
			n, _ := g.GetFeature(id)
			ordered = append(ordered, n)
			placed[id] = true
			incoming, err := g.EdgesInto(id)
			if err != nil {
				return nil, err
			}
			for _, e := range incoming {
				pending[e.Source]--
			}
		}
	}
	return ordered, nil
}
