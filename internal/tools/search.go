package tools

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const maxSearchMatches = 200

// SearchExecutor answers read-only regular-expression searches over the
// workspace tree. Hidden directories and anything outside the root are
// never visited.
type SearchExecutor struct {
	root string
}

// NewSearchExecutor creates a search executor rooted at the given directory.
func NewSearchExecutor(root string) *SearchExecutor {
	return &SearchExecutor{root: root}
}

// Execute implements Executor for the search tool.
func (e *SearchExecutor) Execute(ctx context.Context, inv Invocation) (Result, error) {
	pattern, _ := inv.Input["pattern"].(string)
	if pattern == "" {
		return Result{Output: "search invocation missing pattern", Status: StatusError}, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Result{Output: fmt.Sprintf("invalid pattern: %v", err), Status: StatusError}, nil
	}

	dir := e.root
	if rel, _ := inv.Input["path"].(string); rel != "" {
		joined := filepath.Join(e.root, rel)
		if !strings.HasPrefix(joined, filepath.Clean(e.root)+string(os.PathSeparator)) && joined != filepath.Clean(e.root) {
			return Result{Output: fmt.Sprintf("path %q escapes the workspace", rel), Status: StatusError}, nil
		}
		dir = joined
	}

	var matches []string
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if len(matches) >= maxSearchMatches {
			return filepath.SkipAll
		}

		// Unreadable or binary-ish files are skipped silently.
		_ = grepFile(path, re, e.root, &matches)
		return nil
	})
	if walkErr != nil {
		return Result{Output: walkErr.Error(), Status: StatusError}, nil
	}

	if len(matches) == 0 {
		return Result{Output: "no matches", Status: StatusSuccess}, nil
	}
	return Result{Output: strings.Join(matches, "\n"), Status: StatusSuccess}, nil
}

// grepFile appends "path:line: text" entries for each matching line.
func grepFile(path string, re *regexp.Regexp, root string, matches *[]string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if re.MatchString(line) {
			*matches = append(*matches, fmt.Sprintf("%s:%d: %s", rel, lineNum, line))
			if len(*matches) >= maxSearchMatches {
				break
			}
		}
	}
	return scanner.Err()
}
