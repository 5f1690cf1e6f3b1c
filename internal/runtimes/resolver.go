// Package runtimes locates a usable Python interpreter for the conversion
// workers.
//
// Target hosts may have zero, one, or several installations under different
// names and paths. Discovery order:
//  1. Pinned path from configuration (PYTHON_PATH), still probed
//  2. System PATH, most specific name first
//  3. Well-known OS-specific install locations as fallback
//
// The first candidate that answers a version probe wins. The result is
// cached for the process lifetime and re-probed only after Invalidate is
// called on a demonstrated invocation failure.
package runtimes

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"

	"pagalpdf/internal/config"
	"pagalpdf/internal/domain"
)

// Resolver probes interpreter candidates and caches the winner.
type Resolver struct {
	override string
	dirs     []string
	logger   *slog.Logger

	mu     sync.Mutex
	cached string
}

// NewResolver creates a resolver. override, when non-empty, is probed ahead
// of the built-in candidate list.
func NewResolver(override string, logger *slog.Logger) *Resolver {
	return &Resolver{
		override: override,
		dirs:     fallbackDirs(),
		logger:   logger,
	}
}

// Resolve returns the path of a working interpreter, probing candidates on
// first use. The probe is a pure validation step: it spawns a short-lived
// child per candidate and has no other side effects.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != "" {
		return r.cached, nil
	}

	cands := r.candidates()
	for _, cand := range cands {
		if err := probe(ctx, cand); err != nil {
			r.logger.Debug("interpreter probe failed", "candidate", cand, "error", err)
			continue
		}
		r.logger.Info("interpreter resolved", "path", cand)
		r.cached = cand
		return cand, nil
	}

	return "", &domain.RuntimeNotFoundError{Candidates: cands}
}

// Invalidate drops the cached interpreter so the next Resolve re-probes.
// Called when an invocation fails in a way that suggests the interpreter
// vanished from under us.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cached != "" {
		r.logger.Warn("interpreter cache invalidated", "path", r.cached)
		r.cached = ""
	}
}

// Cached returns the cached interpreter path without probing.
func (r *Resolver) Cached() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cached, r.cached != ""
}

// candidates builds the ordered list of concrete paths to probe.
func (r *Resolver) candidates() []string {
	var cands []string
	seen := make(map[string]bool)
	add := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			cands = append(cands, p)
		}
	}

	add(r.override)

	// System PATH covers every OS when Python is installed normally.
	for _, name := range interpreterNames() {
		if p, err := exec.LookPath(name); err == nil {
			add(p)
		}
	}

	// Well-known fallback directories for this OS.
	for _, dir := range r.dirs {
		for _, name := range interpreterNames() {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				add(p)
			}
		}
	}

	return cands
}

// probe runs the candidate with a version flag under a short timeout.
func probe(ctx context.Context, path string) error {
	pctx, cancel := context.WithTimeout(ctx, config.ProbeTimeout)
	defer cancel()
	return exec.CommandContext(pctx, path, "--version").Run()
}

func interpreterNames() []string {
	if runtime.GOOS == "windows" {
		return []string{"python.exe", "python3.exe", "py.exe"}
	}
	return []string{"python3", "python"}
}

// fallbackDirs returns directories where Python is commonly installed,
// ordered from most to least likely, for the current OS.
func fallbackDirs() []string {
	home, _ := os.UserHomeDir()

	switch runtime.GOOS {
	case "darwin":
		// Homebrew uses /opt/homebrew/bin on Apple Silicon and
		// /usr/local/bin on Intel Macs.
		return []string{
			"/opt/homebrew/bin",
			"/usr/local/bin",
			"/opt/local/bin",
			filepath.Join(home, ".pyenv", "shims"),
		}
	case "linux":
		return []string{
			"/usr/bin",
			"/usr/local/bin",
			filepath.Join(home, ".pyenv", "shims"),
			filepath.Join(home, ".venv", "bin"),
		}
	case "windows":
		pf := os.Getenv("ProgramFiles")
		if pf == "" {
			pf = `C:\Program Files`
		}
		dirs := globDirs(
			filepath.Join(pf, "Python*"),
			filepath.Join(os.Getenv("LOCALAPPDATA"), "Programs", "Python", "Python*"),
		)
		return append(dirs, `C:\Python313`, `C:\Python312`, `C:\Python311`)
	default:
		return nil
	}
}

// globDirs expands glob patterns and returns the matched directories.
func globDirs(patterns ...string) []string {
	var dirs []string
	for _, pat := range patterns {
		matches, _ := filepath.Glob(pat)
		dirs = append(dirs, matches...)
	}
	return dirs
}
