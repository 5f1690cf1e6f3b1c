package pyexec

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"pagalpdf/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// writeWorker writes a shell script standing in for a Python worker. The
// invoker only cares about the argv contract and exit status, so /bin/sh is
// a faithful substitute.
func writeWorker(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worker.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write worker: %v", err)
	}
	return path
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-script workers require a unix shell")
	}
}

func TestRunSuccessWritesOutput(t *testing.T) {
	requireShell(t)

	// $1=input $2=output under the worker contract.
	script := writeWorker(t, `cp "$1" "$2"`)
	in := filepath.Join(t.TempDir(), "in.pdf")
	out := filepath.Join(t.TempDir(), "out.pdf")
	if err := os.WriteFile(in, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatal(err)
	}

	iv := NewInvoker(2, testLogger())
	err := iv.Run(context.Background(), Invocation{
		Interpreter: "/bin/sh",
		Script:      script,
		InputPath:   in,
		OutputPath:  out,
		Timeout:     10 * time.Second,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if err := ValidateOutput(out, MagicPDF); err != nil {
		t.Errorf("output validation failed: %v", err)
	}
}

func TestRunPassesExtraArgs(t *testing.T) {
	requireShell(t)

	script := writeWorker(t, `printf '%s' "$3" > "$2"`)
	out := filepath.Join(t.TempDir(), "out.txt")

	iv := NewInvoker(1, testLogger())
	err := iv.Run(context.Background(), Invocation{
		Interpreter: "/bin/sh",
		Script:      script,
		InputPath:   "/dev/null",
		OutputPath:  out,
		Args:        []string{"CONFIDENTIAL; rm -rf /"},
		Timeout:     10 * time.Second,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	// The argument arrives verbatim: argv elements are never interpreted
	// by a shell.
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "CONFIDENTIAL; rm -rf /" {
		t.Errorf("worker saw arg %q", got)
	}
}

func TestRunTimeoutKillsWorker(t *testing.T) {
	requireShell(t)

	script := writeWorker(t, `sleep 30`)

	iv := NewInvoker(1, testLogger())
	start := time.Now()
	err := iv.Run(context.Background(), Invocation{
		Interpreter: "/bin/sh",
		Script:      script,
		InputPath:   "/dev/null",
		OutputPath:  filepath.Join(t.TempDir(), "out"),
		Timeout:     200 * time.Millisecond,
	})
	elapsed := time.Since(start)

	if !errors.Is(err, domain.ErrTimeout) {
		t.Fatalf("Run() error = %v, want ConversionTimeout", err)
	}
	if elapsed > 10*time.Second {
		t.Errorf("Run() took %s, child was not killed promptly", elapsed)
	}
}

func TestRunClassifiesErrorMarker(t *testing.T) {
	requireShell(t)

	script := writeWorker(t, `echo "ERROR: password is incorrect" >&2; exit 1`)

	iv := NewInvoker(1, testLogger())
	err := iv.Run(context.Background(), Invocation{
		Interpreter: "/bin/sh",
		Script:      script,
		InputPath:   "/dev/null",
		OutputPath:  filepath.Join(t.TempDir(), "out"),
		Timeout:     10 * time.Second,
	})

	var failed *domain.ConversionFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("Run() error = %T, want *domain.ConversionFailedError", err)
	}
	if failed.Message != "password is incorrect" {
		t.Errorf("classified message = %q", failed.Message)
	}
}

func TestRunMissingInterpreter(t *testing.T) {
	requireShell(t)

	iv := NewInvoker(1, testLogger())
	err := iv.Run(context.Background(), Invocation{
		Interpreter: filepath.Join(t.TempDir(), "no-such-python"),
		Script:      "whatever.py",
		InputPath:   "/dev/null",
		OutputPath:  filepath.Join(t.TempDir(), "out"),
		Timeout:     10 * time.Second,
	})
	if !errors.Is(err, domain.ErrRuntimeNotFound) {
		t.Errorf("Run() error = %v, want RuntimeNotFound", err)
	}
}

func TestRunConcurrencyCap(t *testing.T) {
	requireShell(t)

	script := writeWorker(t, `sleep 0.3; : > "$2"`)

	iv := NewInvoker(1, testLogger())
	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := iv.Run(context.Background(), Invocation{
				Interpreter: "/bin/sh",
				Script:      script,
				InputPath:   "/dev/null",
				OutputPath:  filepath.Join(t.TempDir(), "out"),
				Timeout:     10 * time.Second,
			})
			if err != nil {
				t.Errorf("Run() error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	// With a cap of one, the two 300ms workers cannot fully overlap.
	if elapsed := time.Since(start); elapsed < 500*time.Millisecond {
		t.Errorf("two capped invocations finished in %s, expected serialisation", elapsed)
	}
}

func TestCappedBufferTruncates(t *testing.T) {
	b := &cappedBuffer{max: 8}
	n, err := b.Write([]byte("0123456789"))
	if err != nil || n != 10 {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	if b.String() != "01234567" {
		t.Errorf("buffer = %q, want truncation at cap", b.String())
	}
	// Further writes are dropped but still reported as written.
	if n, _ := b.Write([]byte("abc")); n != 3 {
		t.Errorf("Write() after cap = %d, want 3", n)
	}
	if b.String() != "01234567" {
		t.Errorf("buffer grew past cap: %q", b.String())
	}
}
