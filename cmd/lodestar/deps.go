package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/lodestar-dev/lodestar/internal/config"
	"github.com/lodestar-dev/lodestar/internal/issue"
	"github.com/lodestar-dev/lodestar/internal/llm"
	"github.com/lodestar-dev/lodestar/internal/logging"
	"github.com/lodestar-dev/lodestar/internal/scratch"
	"github.com/lodestar-dev/lodestar/internal/tools"
)

// deps bundles the wired collaborators for one CLI invocation.
type deps struct {
	cfg     *config.Config
	log     *logging.Logger
	client  llm.Client
	channel issue.Channel
	notes   scratch.Store
	mux     *tools.Mux

	closers []func() error
}

func (d *deps) Close() {
	for _, c := range d.closers {
		_ = c()
	}
	_ = d.log.Sync()
}

// wire builds the dependency set from configuration. autoApprove skips the
// interactive confirmation prompt for commands the safety classifier did
// not pre-approve.
func wire(ctx context.Context, autoApprove bool) (*deps, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logging.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, err
	}

	d := &deps{cfg: cfg, log: log}

	client, err := llm.NewAnthropicClient(cfg.Model.APIKey.Value(), cfg.Model.Name)
	if err != nil {
		return nil, err
	}
	d.client = client

	if cfg.GitHub.Owner != "" {
		ch, err := issue.NewGitHubChannel(ctx, cfg.GitHub.Token, cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.GitHub.Issue)
		if err != nil {
			return nil, err
		}
		d.channel = ch
	} else {
		d.channel = issue.NewMemoryChannel("")
	}

	if cfg.Scratch.Path != "" {
		store, err := scratch.NewBadgerStore(cfg.Scratch.Path)
		if err != nil {
			return nil, err
		}
		d.notes = store
		d.closers = append(d.closers, store.Close)
	} else {
		d.notes = scratch.NewMemoryStore()
	}

	confirm := promptConfirm
	if autoApprove {
		confirm = func(context.Context, []string) bool { return true }
	}

	mux := tools.NewMux()
	mux.Register(tools.ToolShell, tools.NewShellExecutor(cfg.Workspace.Root, confirm, log))
	mux.Register(tools.ToolSearch, tools.NewSearchExecutor(cfg.Workspace.Root))
	d.mux = mux

	return d, nil
}

// promptConfirm asks the operator before running a command the classifier
// did not pre-approve.
func promptConfirm(_ context.Context, command []string) bool {
	fmt.Fprintf(os.Stderr, "Run `%s`? [y/N] ", strings.Join(command, " "))
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
