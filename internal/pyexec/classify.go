package pyexec

import (
	"io"
	"os"
	"regexp"
	"strings"

	"pagalpdf/internal/config"
	"pagalpdf/internal/domain"
)

// The workers have no structured error protocol: failure is a non-zero exit
// plus free-text stderr, by convention a line starting with "ERROR:". The
// classification below is best-effort substring matching against that
// convention.

var missingModuleRe = regexp.MustCompile(`No module named '?([A-Za-z0-9_.]+)'?`)

// Classify maps captured worker output onto a cause. Never returns nil: an
// unrecognised failure becomes a ConversionFailedError carrying a trailing
// excerpt of the output.
func Classify(output string) error {
	if m := missingModuleRe.FindStringSubmatch(output); m != nil {
		return &domain.DependencyMissingError{Name: m[1]}
	}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if msg, ok := strings.CutPrefix(line, "ERROR:"); ok {
			return &domain.ConversionFailedError{Message: strings.TrimSpace(msg)}
		}
	}

	return &domain.ConversionFailedError{Message: excerpt(output)}
}

// excerpt keeps the tail of the output, where tracebacks put the message.
func excerpt(output string) string {
	output = strings.TrimSpace(output)
	if len(output) > config.StderrExcerptLen {
		output = output[len(output)-config.StderrExcerptLen:]
	}
	return output
}

// Magic identifies the integrity check applied to an output artifact.
type Magic string

const (
	MagicNone Magic = ""
	MagicPDF  Magic = "%PDF"
	// OOXML containers (docx, xlsx, pptx) are ZIP archives.
	MagicZIP Magic = "PK\x03\x04"
)

// ValidateOutput downgrades a nominally successful invocation when the
// output artifact is missing, empty, or fails its signature check.
func ValidateOutput(path string, magic Magic) error {
	info, err := os.Stat(path)
	if err != nil {
		return &domain.ConversionFailedError{Message: "Conversion produced no output file."}
	}
	if info.Size() == 0 {
		return &domain.ConversionFailedError{Message: "Conversion produced an empty file."}
	}
	if magic == MagicNone {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return &domain.ConversionFailedError{Message: "Conversion output could not be read."}
	}
	defer f.Close()

	header := make([]byte, len(magic))
	if _, err := io.ReadFull(f, header); err != nil || string(header) != string(magic) {
		return &domain.ConversionFailedError{Message: "Conversion produced an invalid file."}
	}
	return nil
}
