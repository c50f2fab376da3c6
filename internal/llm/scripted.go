package llm

import (
	"context"
	"errors"
	"sync"
)

// ScriptedClient is a Client that replays a fixed sequence of responses.
// Used in tests and offline dry runs where no provider is configured.
type ScriptedClient struct {
	mu        sync.Mutex
	responses []Message
	next      int

	// Invocations records every call for assertion.
	Invocations []ScriptedInvocation
}

// ScriptedInvocation captures the arguments of one Invoke call.
type ScriptedInvocation struct {
	SystemPrompt string
	Transcript   []Message
	Tools        []Tool
}

// NewScriptedClient creates a client that returns the given messages in order.
func NewScriptedClient(responses ...Message) *ScriptedClient {
	return &ScriptedClient{responses: responses}
}

// Invoke implements Client. It errors once the script is exhausted.
func (s *ScriptedClient) Invoke(_ context.Context, systemPrompt string, transcript []Message, tools []Tool) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Invocations = append(s.Invocations, ScriptedInvocation{
		SystemPrompt: systemPrompt,
		Transcript:   append([]Message(nil), transcript...),
		Tools:        tools,
	})

	if s.next >= len(s.responses) {
		return Message{}, errors.New("scripted client exhausted")
	}
	msg := s.responses[s.next]
	s.next++
	return msg, nil
}
