// Package staging manages the temporary input/output file pair owned by one
// conversion request.
//
// Each request gets its own pair under the system temp directory, named with
// a collision-resistant token (unix-nano timestamp plus a UUID suffix), so
// concurrent requests never share or lock anything. Both files are removed
// at request end regardless of outcome.
package staging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const workDirName = "pagalpdf"

// Artifact is the staged file pair for a single request. Paths exist as
// values from allocation time even when later steps fail, so Cleanup always
// has something concrete to remove.
type Artifact struct {
	InputPath  string
	OutputPath string
	logger     *slog.Logger
}

// Stage allocates the artifact pair for the given extensions and writes the
// payload to the input path. Extensions are passed without the leading dot.
func Stage(payload []byte, inExt, outExt string, logger *slog.Logger) (*Artifact, error) {
	dir := filepath.Join(os.TempDir(), workDirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}

	token := newToken()
	a := &Artifact{
		InputPath:  filepath.Join(dir, fmt.Sprintf("in_%s.%s", token, inExt)),
		OutputPath: filepath.Join(dir, fmt.Sprintf("out_%s.%s", token, outExt)),
		logger:     logger,
	}

	if err := os.WriteFile(a.InputPath, payload, 0o600); err != nil {
		return nil, fmt.Errorf("write staged input: %w", err)
	}

	return a, nil
}

// StageEmpty allocates an artifact pair without writing an input file. Used
// by multi-input operations that stage each input separately.
func StageEmpty(outExt string, logger *slog.Logger) (*Artifact, error) {
	dir := filepath.Join(os.TempDir(), workDirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}

	token := newToken()
	return &Artifact{
		InputPath:  filepath.Join(dir, fmt.Sprintf("in_%s", token)),
		OutputPath: filepath.Join(dir, fmt.Sprintf("out_%s.%s", token, outExt)),
		logger:     logger,
	}, nil
}

// Cleanup removes both staged files if they exist. Idempotent. Removal
// errors are logged and swallowed: cleanup failure must never mask the
// primary outcome being returned to the caller.
func (a *Artifact) Cleanup() {
	for _, path := range []string{a.InputPath, a.OutputPath} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			a.logger.Warn("cleanup failed", "path", path, "error", err)
		}
	}
}

// newToken builds a process-unique name component. The timestamp keeps temp
// files sortable for operators; the UUID suffix carries the collision
// resistance.
func newToken() string {
	return fmt.Sprintf("%d_%s", time.Now().UnixNano(), uuid.NewString()[:8])
}
