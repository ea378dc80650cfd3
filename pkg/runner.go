package release

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Result holds the outcome of one external command invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes external commands synchronously, capturing their output.
// A non-zero exit is returned as both a populated Result and a non-nil
// error; callers running best-effort steps inspect the Result and drop the
// error, everything else propagates it.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner runs commands with os/exec in a fixed working directory. No
// timeouts are applied; a hanging subprocess blocks the run.
type ExecRunner struct {
	Dir string
	Log *zap.SugaredLogger
}

func NewExecRunner(dir string, log *zap.SugaredLogger) *ExecRunner {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ExecRunner{Dir: dir, Log: log}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}

	display := strings.Join(append([]string{name}, args...), " ")
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			res.ExitCode = exitErr.ExitCode()
			r.Log.Debugw("command failed",
				"cmd", display,
				"exit", res.ExitCode,
				"duration", time.Since(start),
				"stderr", res.Stderr,
			)
			return res, fmt.Errorf("%s: exit %d: %s", display, res.ExitCode, res.Stderr)
		}
		res.ExitCode = -1
		return res, fmt.Errorf("%s: %w", display, err)
	}

	r.Log.Debugw("command ok", "cmd", display, "duration", time.Since(start))
	return res, nil
}
