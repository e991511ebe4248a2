package toolchain

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// Result is the outcome of a command that ran to completion. A non-zero
// ExitCode is reported here, not as an error.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

func (r Result) OK() bool { return r.ExitCode == 0 }

// Runner executes the toolchain binary in a working directory. It returns an
// error only when the process could not run to completion: it failed to start
// or ctx ended first.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (Result, error)
}

// ExecRunner runs a binary on the host.
type ExecRunner struct {
	Binary string
}

func NewExecRunner(binary string) *ExecRunner {
	return &ExecRunner{Binary: binary}
}

func (r *ExecRunner) Run(ctx context.Context, dir string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	cmd.Dir = dir
	cmd.WaitDelay = 5 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return res, nil
	}
	if err != nil {
		res.ExitCode = -1
		return res, err
	}
	return res, nil
}
