// Package pyexec runs conversion worker processes under strict resource
// bounds and maps their failures onto the user-facing error taxonomy.
package pyexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os/exec"
	"time"

	"golang.org/x/sync/semaphore"

	"pagalpdf/internal/config"
	"pagalpdf/internal/domain"
)

// Invocation describes a single worker run. Everything user-controlled
// (paths, parameters) travels as discrete argv elements, never through a
// shell.
type Invocation struct {
	Interpreter string
	Script      string
	InputPath   string
	OutputPath  string
	Args        []string
	Timeout     time.Duration
}

// Invoker spawns worker processes. A weighted semaphore caps how many run
// at once; excess requests wait instead of spawning unboundedly.
type Invoker struct {
	sem    *semaphore.Weighted
	logger *slog.Logger
}

func NewInvoker(maxConcurrent int, logger *slog.Logger) *Invoker {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Invoker{
		sem:    semaphore.NewWeighted(int64(maxConcurrent)),
		logger: logger,
	}
}

// Run executes the worker as `<interpreter> <script> <input> <output>
// [args...]` and waits for it. Exactly one child process per call; a failed
// invocation is terminal for the request, no retry.
//
// Returned errors are already classified: ConversionTimeoutError when the
// budget was exceeded (the child is killed), RuntimeNotFoundError when the
// interpreter could not be started, otherwise the stderr-derived cause.
func (iv *Invoker) Run(ctx context.Context, inv Invocation) error {
	if err := iv.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("waiting for conversion slot: %w", err)
	}
	defer iv.sem.Release(1)

	cctx, cancel := context.WithTimeout(ctx, inv.Timeout)
	defer cancel()

	argv := append([]string{inv.Script, inv.InputPath, inv.OutputPath}, inv.Args...)
	cmd := exec.CommandContext(cctx, inv.Interpreter, argv...)

	// Captured output is a safety net, capped so a chatty worker cannot
	// balloon memory. Sharing one buffer keeps stdout and stderr in order;
	// os/exec serialises writes to an identical writer.
	captured := &cappedBuffer{max: config.MaxCapturedOutput}
	cmd.Stdout = captured
	cmd.Stderr = captured

	// Don't hang on inherited pipes after the kill.
	cmd.WaitDelay = 5 * time.Second

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	iv.logger.Debug("worker finished",
		"script", inv.Script,
		"duration", elapsed,
		"error", err,
	)

	if err == nil {
		return nil
	}

	if cctx.Err() == context.DeadlineExceeded {
		iv.logger.Warn("worker timed out",
			"script", inv.Script,
			"budget", inv.Timeout,
		)
		return &domain.ConversionTimeoutError{Budget: inv.Timeout.String()}
	}

	// The interpreter itself failed to start: the cached resolution is
	// stale, the caller invalidates it.
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return &domain.RuntimeNotFoundError{Candidates: []string{inv.Interpreter}}
	}

	cause := Classify(captured.String())
	iv.logger.Error("worker failed",
		"script", inv.Script,
		"duration", elapsed,
		"cause", cause,
	)
	return cause
}

// cappedBuffer keeps the first max bytes and silently drops the rest while
// still reporting full writes.
type cappedBuffer struct {
	buf bytes.Buffer
	max int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if room := b.max - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *cappedBuffer) String() string { return b.buf.String() }
