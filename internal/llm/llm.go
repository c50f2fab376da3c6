// Package llm defines the reasoning-collaborator contract: a client takes a
// system prompt and a conversation transcript and returns one message that
// may carry free text, proposed tool invocations, or both. Provider bindings
// live beside the interface; the rest of the core depends only on Client.
package llm

import "context"

// Role identifies who authored a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a tool invocation proposed by the model.
type ToolCall struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
}

// ToolResult is the outcome of executing a proposed invocation, correlated
// back by the invocation id.
type ToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	Result     string `json:"result"`
	IsError    bool   `json:"is_error"`
}

// Message is one transcript entry.
type Message struct {
	Role        Role         `json:"role"`
	Content     string       `json:"content,omitempty"`
	ToolCalls   []ToolCall   `json:"tool_calls,omitempty"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`
}

// HasToolCalls reports whether the message proposes any tool invocations.
func (m Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

// Tool describes a tool the model may invoke. InputSchema is the JSON
// schema property map of the tool's input object.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// Client is the reasoning collaborator. Failures propagate as errors; the
// core applies no retry policy beyond what a binding chooses to do.
type Client interface {
	Invoke(ctx context.Context, systemPrompt string, transcript []Message, tools []Tool) (Message, error)
}
