// Package issue persists a task plan inside an externally-owned text body
// (typically a tracker issue), wrapped in sentinel tags so human-authored
// content around the plan survives every write-back.
package issue

import (
	"context"
	"fmt"
	"sync"

	"github.com/lodestar-dev/lodestar/internal/logging"
	"github.com/lodestar-dev/lodestar/internal/plan"
)

// Channel reads and replaces the full text body of the external store.
type Channel interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, content string) error
}

// LoadPlan reads the channel and extracts the task plan. A missing or
// corrupted plan yields nil without error; plan extraction runs on
// externally-authored text and recovers locally.
func LoadPlan(ctx context.Context, log *logging.Logger, ch Channel) (*plan.TaskPlan, error) {
	body, err := ch.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading issue body: %w", err)
	}
	return plan.ExtractFromIssue(ctx, log, body), nil
}

// SavePlan splices the serialized plan into the channel's current body,
// preserving everything outside the sentinel tags verbatim.
func SavePlan(ctx context.Context, ch Channel, p *plan.TaskPlan) error {
	body, err := ch.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading issue body: %w", err)
	}
	updated, err := plan.SerializeIntoIssue(p, body)
	if err != nil {
		return err
	}
	if err := ch.Write(ctx, updated); err != nil {
		return fmt.Errorf("writing issue body: %w", err)
	}
	return nil
}

// MemoryChannel is an in-memory Channel for tests and local runs.
type MemoryChannel struct {
	mu   sync.Mutex
	body string
}

// NewMemoryChannel creates a channel seeded with the given body.
func NewMemoryChannel(body string) *MemoryChannel {
	return &MemoryChannel{body: body}
}

// Read implements Channel.
func (c *MemoryChannel) Read(_ context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.body, nil
}

// Write implements Channel.
func (c *MemoryChannel) Write(_ context.Context, content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.body = content
	return nil
}
