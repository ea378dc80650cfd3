package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"go.uber.org/zap"
)

// ErrAborted reports that the user declined the version confirmation. It is
// a clean exit for the CLI, not a failure.
var ErrAborted = errors.New("aborted by user")

// ErrFormatIssues reports library format problems the user declined to
// continue past. Unlike ErrAborted this is a failed precondition.
var ErrFormatIssues = errors.New("library format issues")

// Config carries the fixed identities of the release workflow. Defaults
// match the BasicMicro Arduino library setup; individual fields can be
// overridden through the environment (see package main).
type Config struct {
	// Dir is the repository working tree. Empty means the current directory.
	Dir string
	// PropertiesFile is the version file path, relative to Dir.
	PropertiesFile string
	// Branch is pushed to every remote.
	Branch string
	// Remotes are pushed in order; the first failure stops the sequence.
	Remotes []Remote
	// ReleaseRepo is the owner/name GitHub releases are created on.
	ReleaseRepo string
}

func DefaultConfig() Config {
	return Config{
		PropertiesFile: "library.properties",
		Branch:         "main",
		Remotes: []Remote{
			{Name: "upstream", URL: "https://github.com/acidtech/basicmicro_arduino"},
			{Name: "origin", URL: "https://github.com/basicmicrosupport/basicmicro_arduino"},
		},
		ReleaseRepo: "basicmicrosupport/basicmicro_arduino",
	}
}

// CheckLibraryFormat reports issues with an Arduino library layout. Only the
// properties file is required; its absence is reported, not fatal, because
// the user may opt to continue.
func CheckLibraryFormat(dir, propertiesFile string) []string {
	var issues []string
	if _, err := os.Stat(filepath.Join(dir, propertiesFile)); err != nil {
		issues = append(issues, fmt.Sprintf("missing required file: %s", propertiesFile))
	}
	return issues
}

// Workflow sequences the full release flow: verify the repository, bump the
// version, commit and push to both remotes, create the GitHub release.
// Every step blocks on the previous one; there is no retry or rollback.
type Workflow struct {
	Config Config
	Runner Runner
	Prompt Prompter
	Out    io.Writer
	Log    *zap.SugaredLogger
	// Interactive enables the progress spinner. Leave false when Out is not
	// a terminal.
	Interactive bool
}

func (w *Workflow) logger() *zap.SugaredLogger {
	if w.Log == nil {
		return zap.NewNop().Sugar()
	}
	return w.Log
}

func (w *Workflow) spin(suffix string) func() {
	if !w.Interactive {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(w.Out))
	s.Suffix = " " + suffix
	s.Start()
	return s.Stop
}

// Run executes the release flow end to end. It returns ErrAborted when the
// user declines the version confirmation, nil once the commit and pushes
// have landed (even if release creation failed), and any other error on a
// fatal step, including ErrFormatIssues for a declined format warning.
func (w *Workflow) Run(ctx context.Context) error {
	log := w.logger()
	gateway := NewGateway(w.Runner, log)

	// 1. Must be inside a working tree.
	if err := gateway.EnsureWorkTree(ctx); err != nil {
		return err
	}

	// 2. Library format check; the user may continue past issues.
	// Declining is a failed precondition, not a clean abort.
	if issues := CheckLibraryFormat(w.Config.Dir, w.Config.PropertiesFile); len(issues) > 0 {
		fmt.Fprintln(w.Out, text.FgYellow.Sprint("Arduino library format issues detected:"))
		for _, issue := range issues {
			fmt.Fprintf(w.Out, "  - %s\n", issue)
		}
		ok, err := w.Prompt.Confirm("Continue anyway?", false)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrFormatIssues, strings.Join(issues, "; "))
		}
	}

	// 3. Remote setup is best-effort.
	if err := gateway.EnsureRemotes(ctx, w.Config.Remotes); err != nil {
		fmt.Fprintln(w.Out, text.FgYellow.Sprintf("Warning: could not configure remotes: %v", err))
	}

	// 4. Read the current version. The raw token is echoed as written, so
	// an incomplete triple like "9" is not displayed normalized.
	store := NewPropertiesStore(filepath.Join(w.Config.Dir, w.Config.PropertiesFile))
	raw, err := store.RawVersion()
	if err != nil {
		return err
	}
	current, err := ParseVersion(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", store.Path, err)
	}
	fmt.Fprintf(w.Out, "Current version: %s\n", raw)

	// 5. Pick the bump and confirm the candidate.
	answer, err := w.Prompt.Input("Bump type (major/minor/patch)", string(BumpPatch))
	if err != nil {
		return err
	}
	next := current.Bump(ParseBumpKind(answer))
	fmt.Fprintf(w.Out, "New version will be: %s\n", next)

	ok, err := w.Prompt.Confirm("Continue with this version?", true)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}

	// 6. Write the bumped version back.
	replaced, err := store.Write(next)
	if err != nil {
		return err
	}
	if !replaced {
		return fmt.Errorf("%w: %s", ErrNoVersion, store.Path)
	}
	fmt.Fprintf(w.Out, "Updated %s to version %s\n", w.Config.PropertiesFile, next)

	// 7. Commit and push to both remotes.
	message, err := w.Prompt.Input("Commit message", fmt.Sprintf("Bump version to %s", next))
	if err != nil {
		return err
	}
	if status, err := gateway.ShortStatus(ctx); err == nil && status != "" {
		fmt.Fprintln(w.Out, "Changes to commit:")
		fmt.Fprintln(w.Out, status)
	}

	stop := w.spin("Committing and pushing...")
	committed, err := gateway.CommitAndPush(ctx, message, w.Config.Branch, w.Config.Remotes)
	stop()
	if err != nil {
		return err
	}
	if !committed {
		return fmt.Errorf("nothing to commit after updating %s", w.Config.PropertiesFile)
	}
	for _, remote := range w.Config.Remotes {
		fmt.Fprintln(w.Out, text.FgGreen.Sprintf("Pushed %s to %s", w.Config.Branch, remote.Name))
	}

	// 8. Release creation is a soft step; the pushes already landed.
	notes, err := w.Prompt.Input("Release notes (optional)", "")
	if err != nil {
		return err
	}
	publisher := NewPublisher(w.Runner, w.Config.ReleaseRepo, log)
	stop = w.spin("Creating GitHub release...")
	releaseErr := publisher.CreateRelease(ctx, next, notes)
	stop()
	if releaseErr != nil {
		fmt.Fprintln(w.Out, text.FgYellow.Sprintf("Warning: release creation failed: %v", releaseErr))
		fmt.Fprintln(w.Out, "Troubleshooting:")
		fmt.Fprintln(w.Out, "  1. Make sure the GitHub CLI is authenticated: gh auth login")
		fmt.Fprintf(w.Out, "  2. Verify you have access to %s\n", w.Config.ReleaseRepo)
		fmt.Fprintf(w.Out, "Retry manually with: gh release create %s --repo %s\n", next.Tag(), w.Config.ReleaseRepo)
	}

	w.printSummary(current, next, releaseErr == nil)
	return nil
}

func (w *Workflow) printSummary(old, next Version, released bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w.Out)
	t.SetStyle(table.StyleLight)
	t.AppendRow(table.Row{"Previous version", old})
	t.AppendRow(table.Row{"New version", next})
	for _, remote := range w.Config.Remotes {
		t.AppendRow(table.Row{"Pushed to " + remote.Name, remote.URL})
	}
	if released {
		t.AppendRow(table.Row{"Release", fmt.Sprintf("%s on %s", next.Tag(), w.Config.ReleaseRepo)})
	} else {
		t.AppendRow(table.Row{"Release", text.FgYellow.Sprint("failed, retry manually")})
	}

	fmt.Fprintln(w.Out)
	fmt.Fprintln(w.Out, text.FgGreen.Sprint("Arduino library release completed"))
	t.Render()
}
