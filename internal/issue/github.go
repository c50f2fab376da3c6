package issue

import (
	"context"
	"fmt"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/lodestar-dev/lodestar/internal/config"
)

// GitHubChannel round-trips content through a GitHub issue body.
type GitHubChannel struct {
	client *github.Client
	owner  string
	repo   string
	number int
}

// NewGitHubChannel creates a channel bound to one issue.
func NewGitHubChannel(ctx context.Context, token config.Secret, owner, repo string, number int) (*GitHubChannel, error) {
	if !token.IsSet() {
		return nil, fmt.Errorf("GitHub token not set")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token.Value()})
	tc := oauth2.NewClient(ctx, ts)
	return &GitHubChannel{
		client: github.NewClient(tc),
		owner:  owner,
		repo:   repo,
		number: number,
	}, nil
}

// Read implements Channel.
func (c *GitHubChannel) Read(ctx context.Context) (string, error) {
	iss, _, err := c.client.Issues.Get(ctx, c.owner, c.repo, c.number)
	if err != nil {
		return "", fmt.Errorf("fetching issue %s/%s#%d: %w", c.owner, c.repo, c.number, err)
	}
	return iss.GetBody(), nil
}

// Write implements Channel.
func (c *GitHubChannel) Write(ctx context.Context, content string) error {
	_, _, err := c.client.Issues.Edit(ctx, c.owner, c.repo, c.number, &github.IssueRequest{
		Body: github.String(content),
	})
	if err != nil {
		return fmt.Errorf("updating issue %s/%s#%d: %w", c.owner, c.repo, c.number, err)
	}
	return nil
}
