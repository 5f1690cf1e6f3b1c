package convert

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"pagalpdf/internal/pyexec"
)

//go:embed operations.yaml
var catalogYAML []byte

// Operation is one catalog entry: what the route accepts, which worker (or
// built-in) runs, and what comes back.
type Operation struct {
	Name           string `yaml:"-"`
	Script         string `yaml:"script"`
	Native         string `yaml:"native"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Input          struct {
		MimeTypes  []string `yaml:"mime_types"`
		Extensions []string `yaml:"extensions"`
	} `yaml:"input"`
	Output struct {
		Extension string `yaml:"extension"`
		MimeType  string `yaml:"mime_type"`
		Suffix    string `yaml:"suffix"`
		Magic     string `yaml:"magic"`
	} `yaml:"output"`
}

// Catalog holds the operation set loaded once at startup.
type Catalog struct {
	ops map[string]*Operation
}

// LoadCatalog parses and sanity-checks the embedded operation catalog.
func LoadCatalog() (*Catalog, error) {
	var doc struct {
		Operations map[string]*Operation `yaml:"operations"`
	}
	if err := yaml.Unmarshal(catalogYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse operation catalog: %w", err)
	}

	for name, op := range doc.Operations {
		op.Name = name
		if err := op.check(); err != nil {
			return nil, fmt.Errorf("operation %q: %w", name, err)
		}
	}

	return &Catalog{ops: doc.Operations}, nil
}

func (op *Operation) check() error {
	switch {
	case op.Script == "" && op.Native == "":
		return fmt.Errorf("neither script nor native implementation")
	case op.Script != "" && op.Native != "":
		return fmt.Errorf("both script and native implementation")
	case op.TimeoutSeconds < 30 || op.TimeoutSeconds > 600:
		return fmt.Errorf("timeout %ds out of range", op.TimeoutSeconds)
	case len(op.Input.MimeTypes) == 0:
		return fmt.Errorf("empty media type allow-list")
	case op.Output.Extension == "" || op.Output.MimeType == "":
		return fmt.Errorf("incomplete output description")
	}
	switch op.Output.Magic {
	case "pdf", "zip", "none":
	default:
		return fmt.Errorf("unknown magic kind %q", op.Output.Magic)
	}
	return nil
}

// Get looks up an operation by route name.
func (c *Catalog) Get(name string) (*Operation, bool) {
	op, ok := c.ops[name]
	return op, ok
}

// Names returns all operation names, sorted for stable route registration.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.ops))
	for name := range c.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Timeout is the operation's invocation budget.
func (op *Operation) Timeout() time.Duration {
	return time.Duration(op.TimeoutSeconds) * time.Second
}

// Magic is the integrity check applied to the output artifact.
func (op *Operation) Magic() pyexec.Magic {
	switch op.Output.Magic {
	case "pdf":
		return pyexec.MagicPDF
	case "zip":
		return pyexec.MagicZIP
	default:
		return pyexec.MagicNone
	}
}

// Accepts reports whether the uploaded media type (with filename-extension
// fallback, since browsers are sloppy about Office MIME types) is allowed
// for this operation.
func (op *Operation) Accepts(mediaType, filename string) bool {
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	for _, mt := range op.Input.MimeTypes {
		if mediaType == mt {
			return true
		}
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range op.Input.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// OutputFilename derives the suggested download name from the original,
// substituting the extension and appending the operation suffix.
func (op *Operation) OutputFilename(original string) string {
	stem := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	if stem == "" {
		stem = "converted"
	}
	return stem + op.Output.Suffix + "." + op.Output.Extension
}
