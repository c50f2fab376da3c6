package tools

import (
	"context"
	"fmt"
)

// Mux routes invocations to the executor registered under the tool name.
type Mux struct {
	executors map[string]Executor
}

// NewMux creates an empty tool mux.
func NewMux() *Mux {
	return &Mux{executors: make(map[string]Executor)}
}

// Register binds an executor to a tool name, replacing any previous binding.
func (m *Mux) Register(name string, e Executor) {
	m.executors[name] = e
}

// Execute implements Executor by dispatching on the invocation name. An
// unknown tool is an execution failure, not a core error.
func (m *Mux) Execute(ctx context.Context, inv Invocation) (Result, error) {
	e, ok := m.executors[inv.Name]
	if !ok {
		return Result{
			Output: fmt.Sprintf("unknown tool %q", inv.Name),
			Status: StatusError,
		}, nil
	}
	return e.Execute(ctx, inv)
}
