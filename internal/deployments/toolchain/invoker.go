package toolchain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dappforge/dappforge-backend/internal/deployments/domain"
	"github.com/dappforge/dappforge-backend/internal/metrics"
)

const (
	stepCompile = "compile"
	stepPublish = "publish"
)

// Invoker drives `move compile` and `move publish` against a composed package.
// Failures are terminal; nothing is retried.
type Invoker struct {
	runner         Runner
	compileTimeout time.Duration
	publishTimeout time.Duration
}

func NewInvoker(runner Runner, compileTimeout, publishTimeout time.Duration) *Invoker {
	return &Invoker{
		runner:         runner,
		compileTimeout: compileTimeout,
		publishTimeout: publishTimeout,
	}
}

// Compile builds the package in dir with addressVar bound to owner.
func (i *Invoker) Compile(ctx context.Context, dir, addressVar, owner string) error {
	res, timedOut, err := i.run(ctx, stepCompile, i.compileTimeout, dir,
		"move", "compile", "--named-addresses", namedAddress(addressVar, owner))
	switch {
	case timedOut:
		return &domain.CompileTimeoutError{Timeout: i.compileTimeout}
	case err != nil && !errors.Is(err, context.Canceled):
		return &domain.CompileError{ExitCode: res.ExitCode, Output: err.Error()}
	case err != nil:
		return fmt.Errorf("compile: %w", err)
	case !res.OK():
		return &domain.CompileError{ExitCode: res.ExitCode, Output: failureOutput(res)}
	}
	return nil
}

// Publish publishes the package and returns the raw stdout as the receipt.
func (i *Invoker) Publish(ctx context.Context, dir, addressVar, owner string) (string, error) {
	res, timedOut, err := i.run(ctx, stepPublish, i.publishTimeout, dir,
		"move", "publish", "--named-addresses", namedAddress(addressVar, owner), "--assume-yes")
	switch {
	case timedOut:
		return "", &domain.PublishTimeoutError{Timeout: i.publishTimeout}
	case err != nil && !errors.Is(err, context.Canceled):
		return "", &domain.PublishError{ExitCode: res.ExitCode, Output: err.Error()}
	case err != nil:
		return "", fmt.Errorf("publish: %w", err)
	case !res.OK():
		return "", &domain.PublishError{ExitCode: res.ExitCode, Output: failureOutput(res)}
	}
	return res.Stdout, nil
}

func (i *Invoker) run(ctx context.Context, step string, timeout time.Duration, dir string, args ...string) (Result, bool, error) {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	res, err := i.runner.Run(tctx, dir, args...)
	metrics.ObserveToolchainStep(step, time.Since(start), err == nil && res.OK())

	timedOut := err != nil && errors.Is(tctx.Err(), context.DeadlineExceeded)
	return res, timedOut, err
}

func namedAddress(addressVar, owner string) string {
	return addressVar + "=" + owner
}

// failureOutput prefers stderr; the CLI reports some failures on stdout only.
func failureOutput(res Result) string {
	if s := strings.TrimSpace(res.Stderr); s != "" {
		return s
	}
	return strings.TrimSpace(res.Stdout)
}
