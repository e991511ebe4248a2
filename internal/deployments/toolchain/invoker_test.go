package toolchain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dappforge/dappforge-backend/internal/deployments/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	dir  string
	args []string
}

// scriptedRunner returns canned results in order and records every call.
type scriptedRunner struct {
	results []Result
	errs    []error
	block   bool
	calls   []call
}

func (r *scriptedRunner) Run(ctx context.Context, dir string, args ...string) (Result, error) {
	r.calls = append(r.calls, call{dir: dir, args: args})
	if r.block {
		<-ctx.Done()
		return Result{ExitCode: -1}, ctx.Err()
	}
	i := len(r.calls) - 1
	var err error
	if i < len(r.errs) {
		err = r.errs[i]
	}
	if i < len(r.results) {
		return r.results[i], err
	}
	return Result{}, err
}

func TestInvoker_Compile(t *testing.T) {
	t.Run("passes the named address", func(t *testing.T) {
		runner := &scriptedRunner{results: []Result{{Stdout: "ok"}}}
		inv := NewInvoker(runner, time.Minute, time.Minute)

		require.NoError(t, inv.Compile(context.Background(), "/tmp/pkg", "token_owner", "0xABC"))
		require.Len(t, runner.calls, 1)
		assert.Equal(t, "/tmp/pkg", runner.calls[0].dir)
		assert.Equal(t, []string{"move", "compile", "--named-addresses", "token_owner=0xABC"}, runner.calls[0].args)
	})

	t.Run("non-zero exit carries stderr", func(t *testing.T) {
		runner := &scriptedRunner{results: []Result{{Stdout: "BUILDING", Stderr: "error: bad type\n", ExitCode: 1}}}
		inv := NewInvoker(runner, time.Minute, time.Minute)

		err := inv.Compile(context.Background(), "/tmp/pkg", "token_owner", "0xABC")
		var compileErr *domain.CompileError
		require.ErrorAs(t, err, &compileErr)
		assert.Equal(t, 1, compileErr.ExitCode)
		assert.Equal(t, "error: bad type", compileErr.Output)
		assert.Equal(t, "error: bad type", domain.Details(err))
	})

	t.Run("falls back to stdout when stderr is empty", func(t *testing.T) {
		runner := &scriptedRunner{results: []Result{{Stdout: "Unable to resolve packages", ExitCode: 1}}}
		inv := NewInvoker(runner, time.Minute, time.Minute)

		err := inv.Compile(context.Background(), "/tmp/pkg", "token_owner", "0xABC")
		var compileErr *domain.CompileError
		require.ErrorAs(t, err, &compileErr)
		assert.Equal(t, "Unable to resolve packages", compileErr.Output)
	})

	t.Run("start failure", func(t *testing.T) {
		runner := &scriptedRunner{
			results: []Result{{ExitCode: -1}},
			errs:    []error{errors.New(`exec: "aptos": executable file not found in $PATH`)},
		}
		inv := NewInvoker(runner, time.Minute, time.Minute)

		err := inv.Compile(context.Background(), "/tmp/pkg", "token_owner", "0xABC")
		var compileErr *domain.CompileError
		require.ErrorAs(t, err, &compileErr)
		assert.Equal(t, -1, compileErr.ExitCode)
		assert.Contains(t, compileErr.Output, "executable file not found")
	})

	t.Run("timeout", func(t *testing.T) {
		inv := NewInvoker(&scriptedRunner{block: true}, 20*time.Millisecond, time.Minute)

		err := inv.Compile(context.Background(), "/tmp/pkg", "token_owner", "0xABC")
		var timeoutErr *domain.CompileTimeoutError
		require.ErrorAs(t, err, &timeoutErr)
		assert.Equal(t, 20*time.Millisecond, timeoutErr.Timeout)
	})

	t.Run("caller cancellation is not a compile failure", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		inv := NewInvoker(&scriptedRunner{block: true}, time.Minute, time.Minute)

		err := inv.Compile(ctx, "/tmp/pkg", "token_owner", "0xABC")
		require.ErrorIs(t, err, context.Canceled)
		var compileErr *domain.CompileError
		assert.False(t, errors.As(err, &compileErr))
	})
}

func TestInvoker_Publish(t *testing.T) {
	t.Run("returns raw stdout as the receipt", func(t *testing.T) {
		stdout := "Transaction submitted: https://explorer/txn/0x1\n{\n  \"Result\": {}\n}\n"
		runner := &scriptedRunner{results: []Result{{Stdout: stdout}}}
		inv := NewInvoker(runner, time.Minute, time.Minute)

		receipt, err := inv.Publish(context.Background(), "/tmp/pkg", "dao_owner", "0xABC")
		require.NoError(t, err)
		assert.Equal(t, stdout, receipt)
		assert.Equal(t,
			[]string{"move", "publish", "--named-addresses", "dao_owner=0xABC", "--assume-yes"},
			runner.calls[0].args)
	})

	t.Run("non-zero exit", func(t *testing.T) {
		runner := &scriptedRunner{results: []Result{{Stderr: "INSUFFICIENT_BALANCE", ExitCode: 1}}}
		inv := NewInvoker(runner, time.Minute, time.Minute)

		receipt, err := inv.Publish(context.Background(), "/tmp/pkg", "dao_owner", "0xABC")
		assert.Empty(t, receipt)
		var publishErr *domain.PublishError
		require.ErrorAs(t, err, &publishErr)
		assert.Equal(t, "INSUFFICIENT_BALANCE", publishErr.Output)
	})

	t.Run("timeout", func(t *testing.T) {
		inv := NewInvoker(&scriptedRunner{block: true}, time.Minute, 20*time.Millisecond)

		_, err := inv.Publish(context.Background(), "/tmp/pkg", "dao_owner", "0xABC")
		var timeoutErr *domain.PublishTimeoutError
		require.ErrorAs(t, err, &timeoutErr)
	})
}
