package release

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/mod/semver"
)

// Publisher creates GitHub releases with the gh CLI against a fixed public
// repository. The repository is always the public fork, even when the commit
// went to both remotes, because only the fork feeds the Arduino Library
// Manager index.
type Publisher struct {
	run  Runner
	repo string
	log  *zap.SugaredLogger
}

func NewPublisher(run Runner, repo string, log *zap.SugaredLogger) *Publisher {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Publisher{run: run, repo: repo, log: log}
}

// CreateRelease tags v<version> on the target repository. Empty notes
// request auto-generated notes from gh instead of an explicit message.
func (p *Publisher) CreateRelease(ctx context.Context, v Version, notes string) error {
	tag := v.Tag()
	if !semver.IsValid(tag) {
		return fmt.Errorf("release tag %q is not valid semver", tag)
	}

	args := []string{
		"release", "create", tag,
		"--title", fmt.Sprintf("Release %s", v),
		"--repo", p.repo,
	}
	if notes != "" {
		args = append(args, "--notes", notes)
	} else {
		args = append(args, "--generate-notes")
	}

	if _, err := p.run.Run(ctx, "gh", args...); err != nil {
		return fmt.Errorf("creating release %s on %s: %w", tag, p.repo, err)
	}
	p.log.Debugw("release created", "tag", tag, "repo", p.repo)
	return nil
}
