package release

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// scriptPrompter replays canned answers in order. Empty answers resolve to
// the prompt default, mirroring TermPrompter.
type scriptPrompter struct {
	t       *testing.T
	answers []string
	asked   []string
}

func (p *scriptPrompter) next(prompt string) string {
	p.asked = append(p.asked, prompt)
	if len(p.answers) == 0 {
		p.t.Fatalf("unexpected prompt: %q", prompt)
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer
}

func (p *scriptPrompter) Confirm(prompt string, def bool) (bool, error) {
	answer := p.next(prompt)
	if answer == "" {
		return def, nil
	}
	return strings.HasPrefix(strings.ToLower(answer), "y"), nil
}

func (p *scriptPrompter) Input(prompt, def string) (string, error) {
	answer := p.next(prompt)
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

func testWorkflow(t *testing.T, fake *fakeRunner, answers ...string) (*Workflow, *PropertiesStore) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "library.properties")
	if err := os.WriteFile(path, []byte(sampleProperties), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Dir = dir
	workflow := &Workflow{
		Config: cfg,
		Runner: fake,
		Prompt: &scriptPrompter{t: t, answers: answers},
		Out:    &bytes.Buffer{},
	}
	return workflow, NewPropertiesStore(path)
}

// pendingTree scripts the git responses of a dirty working tree.
func pendingTree() *fakeRunner {
	return &fakeRunner{results: map[string]Result{
		"git status --porcelain": {Stdout: " M library.properties"},
		"git status --short":     {Stdout: " M library.properties"},
	}}
}

func TestWorkflowHappyPath(t *testing.T) {
	fake := pendingTree()
	// bump type, version confirmation, commit message, release notes
	workflow, store := testWorkflow(t, fake, "minor", "", "", "")

	if err := workflow.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	v, err := store.Read()
	if err != nil {
		t.Fatal(err)
	}
	if v != (Version{1, 3, 0}) {
		t.Errorf("version after run = %v, want 1.3.0", v)
	}

	want := []string{
		"git rev-parse --git-dir",
		"git remote",
		"git remote add upstream https://github.com/acidtech/basicmicro_arduino",
		"git remote add origin https://github.com/basicmicrosupport/basicmicro_arduino",
		"git status --short",
		"git status --porcelain",
		"git add .",
		"git commit -m Bump version to 1.3.0",
		"git push upstream main",
		"git push origin main",
		"gh release create v1.3.0 --title Release 1.3.0 --repo basicmicrosupport/basicmicro_arduino --generate-notes",
	}
	if len(fake.calls) != len(want) {
		t.Fatalf("calls:\n%s\nwant:\n%s", strings.Join(fake.calls, "\n"), strings.Join(want, "\n"))
	}
	for i := range want {
		if fake.calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, fake.calls[i], want[i])
		}
	}
}

func TestWorkflowDefaultBumpIsPatch(t *testing.T) {
	fake := pendingTree()
	workflow, store := testWorkflow(t, fake, "", "", "", "")

	if err := workflow.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	v, _ := store.Read()
	if v != (Version{1, 2, 4}) {
		t.Errorf("version after run = %v, want 1.2.4", v)
	}
}

func TestWorkflowCustomCommitMessage(t *testing.T) {
	fake := pendingTree()
	workflow, _ := testWorkflow(t, fake, "patch", "y", "Release prep", "")

	if err := workflow.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !fake.called("git commit -m Release prep") {
		t.Errorf("calls = %v, expected custom commit message", fake.calls)
	}
}

func TestWorkflowExplicitNotes(t *testing.T) {
	fake := pendingTree()
	workflow, _ := testWorkflow(t, fake, "patch", "", "", "Fixed packet CRC handling")

	if err := workflow.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	want := "gh release create v1.2.4 --title Release 1.2.4 --repo basicmicrosupport/basicmicro_arduino --notes Fixed packet CRC handling"
	if !fake.called(want) {
		t.Errorf("calls = %v, want %q", fake.calls, want)
	}
}

func TestWorkflowUserAbortLeavesFileUntouched(t *testing.T) {
	fake := pendingTree()
	workflow, store := testWorkflow(t, fake, "major", "n")

	err := workflow.Run(context.Background())
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("Run = %v, want ErrAborted", err)
	}

	v, readErr := store.Read()
	if readErr != nil {
		t.Fatal(readErr)
	}
	if v != (Version{1, 2, 3}) {
		t.Errorf("version after abort = %v, want unchanged 1.2.3", v)
	}
	for _, call := range fake.calls {
		if strings.HasPrefix(call, "git add") || strings.HasPrefix(call, "git commit") || strings.HasPrefix(call, "git push") {
			t.Errorf("mutating command issued after abort: %s", call)
		}
	}
}

func TestWorkflowNotARepository(t *testing.T) {
	fake := pendingTree()
	fake.errs = map[string]error{
		"git rev-parse --git-dir": errors.New("exit 128: not a git repository"),
	}
	workflow, _ := testWorkflow(t, fake)

	if err := workflow.Run(context.Background()); err == nil {
		t.Error("expected fatal error outside a repository")
	}
}

func TestWorkflowMissingVersionEntryIsFatal(t *testing.T) {
	fake := pendingTree()
	workflow, store := testWorkflow(t, fake)
	if err := os.WriteFile(store.Path, []byte("name=Basicmicro\n"), 0644); err != nil {
		t.Fatal(err)
	}

	err := workflow.Run(context.Background())
	if !errors.Is(err, ErrNoVersion) {
		t.Errorf("Run = %v, want ErrNoVersion", err)
	}
}

func TestWorkflowMissingPropertiesFileDeclined(t *testing.T) {
	fake := pendingTree()
	workflow, store := testWorkflow(t, fake, "n")
	if err := os.Remove(store.Path); err != nil {
		t.Fatal(err)
	}

	err := workflow.Run(context.Background())
	if !errors.Is(err, ErrFormatIssues) {
		t.Errorf("Run = %v, want ErrFormatIssues after declining format warning", err)
	}
	// A failed precondition must not be mistaken for a clean user abort.
	if errors.Is(err, ErrAborted) {
		t.Error("declining the format warning reported ErrAborted")
	}
}

func TestWorkflowMissingPropertiesFileContinued(t *testing.T) {
	fake := pendingTree()
	workflow, store := testWorkflow(t, fake, "y")
	if err := os.Remove(store.Path); err != nil {
		t.Fatal(err)
	}

	err := workflow.Run(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Run = %v, want ErrNotFound after continuing past the warning", err)
	}
}

func TestWorkflowDisplaysRawVersionToken(t *testing.T) {
	fake := pendingTree()
	workflow, store := testWorkflow(t, fake, "patch", "", "", "")
	if err := os.WriteFile(store.Path, []byte("name=Basicmicro\nversion=9\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out := &bytes.Buffer{}
	workflow.Out = out

	if err := workflow.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Current version: 9\n") {
		t.Errorf("expected the raw token to be echoed unnormalized, got:\n%s", out.String())
	}

	v, err := store.Read()
	if err != nil {
		t.Fatal(err)
	}
	if v != (Version{9, 0, 1}) {
		t.Errorf("version after run = %v, want 9.0.1", v)
	}
}

func TestWorkflowRemoteSetupFailureIsBestEffort(t *testing.T) {
	fake := pendingTree()
	fake.errs = map[string]error{
		"git remote": errors.New("exit 1"),
	}
	workflow, store := testWorkflow(t, fake, "patch", "", "", "")

	if err := workflow.Run(context.Background()); err != nil {
		t.Fatalf("Run failed despite best-effort remote setup: %v", err)
	}
	v, _ := store.Read()
	if v != (Version{1, 2, 4}) {
		t.Errorf("version after run = %v, want 1.2.4", v)
	}
}

func TestWorkflowPushFailureIsFatal(t *testing.T) {
	fake := pendingTree()
	fake.errs = map[string]error{
		"git push upstream main": errors.New("exit 1: rejected"),
	}
	workflow, _ := testWorkflow(t, fake, "patch", "", "", "")

	if err := workflow.Run(context.Background()); err == nil {
		t.Fatal("expected push failure to be fatal")
	}
	if fake.called("git push origin main") {
		t.Error("second remote was pushed after the first push failed")
	}
	for _, call := range fake.calls {
		if strings.HasPrefix(call, "gh ") {
			t.Errorf("release creation attempted after push failure: %s", call)
		}
	}
}

func TestWorkflowReleaseFailureDoesNotFailRun(t *testing.T) {
	fake := pendingTree()
	fake.errs = map[string]error{
		"gh release create v1.2.4 --title Release 1.2.4 --repo basicmicrosupport/basicmicro_arduino --generate-notes": errors.New("exit 1: not authenticated"),
	}
	workflow, _ := testWorkflow(t, fake, "patch", "", "", "")
	out := &bytes.Buffer{}
	workflow.Out = out

	if err := workflow.Run(context.Background()); err != nil {
		t.Fatalf("Run = %v, release failure must not fail the run", err)
	}
	if !strings.Contains(out.String(), "gh auth login") {
		t.Errorf("output missing remediation hint:\n%s", out.String())
	}
}

func TestWorkflowNothingToCommitIsFatal(t *testing.T) {
	// A clean tree after the version write means the write did not land.
	fake := &fakeRunner{results: map[string]Result{
		"git status --porcelain": {Stdout: ""},
	}}
	workflow, _ := testWorkflow(t, fake, "patch", "", "", "")

	err := workflow.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "nothing to commit") {
		t.Errorf("Run = %v, want nothing-to-commit error", err)
	}
}

func TestCheckLibraryFormat(t *testing.T) {
	dir := t.TempDir()
	issues := CheckLibraryFormat(dir, "library.properties")
	if len(issues) != 1 {
		t.Fatalf("issues = %v, want exactly one", issues)
	}
	if want := fmt.Sprintf("missing required file: %s", "library.properties"); issues[0] != want {
		t.Errorf("issue = %q, want %q", issues[0], want)
	}

	if err := os.WriteFile(filepath.Join(dir, "library.properties"), []byte(sampleProperties), 0644); err != nil {
		t.Fatal(err)
	}
	if issues := CheckLibraryFormat(dir, "library.properties"); len(issues) != 0 {
		t.Errorf("issues = %v, want none", issues)
	}
}
