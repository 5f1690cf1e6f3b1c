package convert

import (
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"pagalpdf/internal/staging"
)

// Native implementations for the operations the original tooling did
// in-process rather than through a worker: merge, page extraction, rotate.
// pdfcpu covers these without spawning anything; they still flow through
// staging, output validation, and cleanup like every other operation.

func runNative(kind string, a *staging.Artifact, args []string) error {
	switch kind {
	case "split":
		if len(args) != 1 {
			return fmt.Errorf("split: expected page selection, got %d args", len(args))
		}
		return api.TrimFile(a.InputPath, a.OutputPath, []string{args[0]}, nil)
	case "rotate":
		if len(args) != 1 {
			return fmt.Errorf("rotate: expected angle, got %d args", len(args))
		}
		angle, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("rotate: bad angle %q", args[0])
		}
		return api.RotateFile(a.InputPath, a.OutputPath, angle, nil, nil)
	default:
		return fmt.Errorf("unknown native operation %q", kind)
	}
}

func mergeNative(inputPaths []string, outputPath string) error {
	return api.MergeCreateFile(inputPaths, outputPath, false, nil)
}
