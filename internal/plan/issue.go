package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lodestar-dev/lodestar/internal/logging"
)

// Sentinel tags wrapping the serialized plan inside externally-stored text
// (typically an issue body). Content outside the tags belongs to whoever
// authored the issue and is preserved verbatim on write-back.
const (
	OpenTag  = "<lodestar-task-plan>"
	CloseTag = "</lodestar-task-plan>"
)

// ExtractFromIssue parses a TaskPlan out of free text by locating the
// sentinel tags and structurally validating the enclosed JSON. The text is
// externally authored and may be absent or corrupted, so every failure path
// returns nil and logs the reason; this function never panics.
func ExtractFromIssue(ctx context.Context, log *logging.Logger, content string) *TaskPlan {
	start := strings.Index(content, OpenTag)
	if start == -1 {
		log.Debug(ctx, "no task plan open tag in issue content")
		return nil
	}
	rest := content[start+len(OpenTag):]
	end := strings.Index(rest, CloseTag)
	if end == -1 {
		log.Warn(ctx, "task plan open tag without close tag")
		return nil
	}
	enclosed := strings.TrimSpace(rest[:end])

	// Structural check before decoding into the model: tasks must be an
	// array and activeTaskIndex a number.
	var probe map[string]any
	if err := json.Unmarshal([]byte(enclosed), &probe); err != nil {
		log.Warn(ctx, "task plan content is not valid JSON", zap.Error(err))
		return nil
	}
	if _, ok := probe["tasks"].([]any); !ok {
		log.Warn(ctx, "task plan content missing tasks array")
		return nil
	}
	if _, ok := probe["activeTaskIndex"].(float64); !ok {
		log.Warn(ctx, "task plan content missing numeric activeTaskIndex")
		return nil
	}

	var p TaskPlan
	if err := json.Unmarshal([]byte(enclosed), &p); err != nil {
		log.Warn(ctx, "task plan content failed to decode", zap.Error(err))
		return nil
	}
	if err := p.Validate(); err != nil {
		log.Warn(ctx, "task plan content failed validation", zap.Error(err))
		return nil
	}
	return &p
}

// SerializeIntoIssue encodes the plan and splices it between the sentinel
// tags inside existing issue content. Text outside the tags is preserved
// verbatim; when no tag block exists yet one is appended.
func SerializeIntoIssue(p *TaskPlan, existing string) (string, error) {
	encoded, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding task plan: %w", err)
	}
	block := OpenTag + "\n" + string(encoded) + "\n" + CloseTag

	start := strings.Index(existing, OpenTag)
	if start == -1 {
		if existing == "" {
			return block, nil
		}
		return strings.TrimRight(existing, "\n") + "\n\n" + block, nil
	}
	rest := existing[start+len(OpenTag):]
	end := strings.Index(rest, CloseTag)
	if end == -1 {
		// Broken block: replace from the open tag to the end of the text.
		return existing[:start] + block, nil
	}
	after := rest[end+len(CloseTag):]
	return existing[:start] + block + after, nil
}
