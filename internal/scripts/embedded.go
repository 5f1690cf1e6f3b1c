// Package scripts ships the Python conversion workers inside the binary and
// materialises them to a private temp directory on first use.
//
// Worker contract: invoked as `<interpreter> <script> <inputPath> <outputPath>
// [operation args...]`; success is a valid file at outputPath and exit zero;
// failure is a non-zero exit with an "ERROR: ..." line on stderr.
package scripts

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pagalpdf/internal/domain"
)

//go:embed workers/*.py
var workerFiles embed.FS

var (
	extractedDir string
	extractOnce  sync.Once
	extractErr   error
)

// Path returns the on-disk path of the named worker script, extracting the
// embedded set on first call. A missing script is a deployment error and is
// reported without spawning anything.
func Path(name string) (string, error) {
	extractOnce.Do(func() {
		extractedDir, extractErr = extractWorkers()
	})
	if extractErr != nil {
		return "", fmt.Errorf("extract worker scripts: %w", extractErr)
	}

	p := filepath.Join(extractedDir, name)
	if _, err := os.Stat(p); err != nil {
		return "", &domain.ScriptNotFoundError{Script: name}
	}
	return p, nil
}

func extractWorkers() (string, error) {
	dir, err := os.MkdirTemp("", "pagalpdf-workers-*")
	if err != nil {
		return "", fmt.Errorf("create worker directory: %w", err)
	}

	entries, err := workerFiles.ReadDir("workers")
	if err != nil {
		return "", fmt.Errorf("read embedded workers: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".py" {
			continue
		}
		content, err := workerFiles.ReadFile(filepath.Join("workers", entry.Name()))
		if err != nil {
			return "", fmt.Errorf("read embedded %s: %w", entry.Name(), err)
		}
		if err := os.WriteFile(filepath.Join(dir, entry.Name()), content, 0o700); err != nil {
			return "", fmt.Errorf("write %s: %w", entry.Name(), err)
		}
	}

	return dir, nil
}

// Cleanup removes the extracted worker directory. Called on shutdown; the OS
// reclaims temp files anyway if it never runs.
func Cleanup() error {
	if extractedDir == "" {
		return nil
	}
	return os.RemoveAll(extractedDir)
}
