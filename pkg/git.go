package release

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Remote is a named git remote bound to a fixed URL.
type Remote struct {
	Name string
	URL  string
}

// Gateway drives the git CLI for the release workflow. Git itself is treated
// as an opaque command; all state inspection goes through porcelain output.
type Gateway struct {
	run Runner
	log *zap.SugaredLogger
}

func NewGateway(run Runner, log *zap.SugaredLogger) *Gateway {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Gateway{run: run, log: log}
}

// EnsureWorkTree fails when the runner's directory is not inside a git
// working tree.
func (g *Gateway) EnsureWorkTree(ctx context.Context) error {
	if _, err := g.run.Run(ctx, "git", "rev-parse", "--git-dir"); err != nil {
		return fmt.Errorf("not in a git repository: %w", err)
	}
	return nil
}

// EnsureRemotes adds any of the given remotes that are not yet configured.
// Existing remotes are never modified, so the call is idempotent.
func (g *Gateway) EnsureRemotes(ctx context.Context, remotes []Remote) error {
	res, err := g.run.Run(ctx, "git", "remote")
	if err != nil {
		return fmt.Errorf("listing remotes: %w", err)
	}

	configured := make(map[string]bool)
	for _, name := range strings.Fields(res.Stdout) {
		configured[name] = true
	}

	for _, remote := range remotes {
		if configured[remote.Name] {
			g.log.Debugw("remote already configured", "remote", remote.Name)
			continue
		}
		if _, err := g.run.Run(ctx, "git", "remote", "add", remote.Name, remote.URL); err != nil {
			return fmt.Errorf("adding remote %s: %w", remote.Name, err)
		}
	}
	return nil
}

// HasPendingChanges reports whether the working tree has uncommitted
// modifications.
func (g *Gateway) HasPendingChanges(ctx context.Context) (bool, error) {
	res, err := g.run.Run(ctx, "git", "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("checking status: %w", err)
	}
	return res.Stdout != "", nil
}

// ShortStatus returns the human-readable short status for display.
func (g *Gateway) ShortStatus(ctx context.Context) (string, error) {
	res, err := g.run.Run(ctx, "git", "status", "--short")
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// CommitAndPush stages all changes, commits with message, and pushes branch
// to each remote in order. It returns (false, nil) without side effects when
// the tree is clean. A push failure aborts the remaining pushes; the local
// commit is not rolled back.
func (g *Gateway) CommitAndPush(ctx context.Context, message, branch string, remotes []Remote) (bool, error) {
	pending, err := g.HasPendingChanges(ctx)
	if err != nil {
		return false, err
	}
	if !pending {
		return false, nil
	}

	if _, err := g.run.Run(ctx, "git", "add", "."); err != nil {
		return false, fmt.Errorf("staging changes: %w", err)
	}
	if _, err := g.run.Run(ctx, "git", "commit", "-m", message); err != nil {
		return false, fmt.Errorf("committing: %w", err)
	}

	for _, remote := range remotes {
		if _, err := g.run.Run(ctx, "git", "push", remote.Name, branch); err != nil {
			return true, fmt.Errorf("pushing to %s: %w", remote.Name, err)
		}
		g.log.Debugw("pushed", "remote", remote.Name, "branch", branch)
	}
	return true, nil
}
