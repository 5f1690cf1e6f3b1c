package scripts

import (
	"errors"
	"os"
	"strings"
	"testing"

	"pagalpdf/internal/domain"
)

func TestPathExtractsWorker(t *testing.T) {
	p, err := Path("pdf_watermark.py")
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}

	info, err := os.Stat(p)
	if err != nil {
		t.Fatalf("extracted script missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("extracted script is empty")
	}

	// Second call reuses the extraction.
	again, err := Path("pdf_watermark.py")
	if err != nil {
		t.Fatalf("second Path() error = %v", err)
	}
	if again != p {
		t.Errorf("path changed between calls: %q then %q", p, again)
	}
}

func TestPathMissingScript(t *testing.T) {
	_, err := Path("no_such.py")
	if !errors.Is(err, domain.ErrScriptNotFound) {
		t.Fatalf("error = %v, want script-not-found", err)
	}

	var snf *domain.ScriptNotFoundError
	if !errors.As(err, &snf) {
		t.Fatalf("error %v is not a ScriptNotFoundError", err)
	}
	if snf.Script != "no_such.py" {
		t.Errorf("Script = %q", snf.Script)
	}
	if !strings.Contains(err.Error(), "no_such.py") {
		t.Errorf("message %q does not name the script", err.Error())
	}
}

func TestPathAllCatalogWorkers(t *testing.T) {
	workers := []string{
		"pdf_watermark.py",
		"pdf_protect.py",
		"pdf_unlock.py",
		"pdf_compress.py",
		"word_to_pdf.py",
		"pdf_to_docx.py",
		"pdf_to_excel.py",
		"pdf_to_pptx.py",
		"pdf_to_html.py",
		"pdf_ocr.py",
	}

	for _, name := range workers {
		t.Run(name, func(t *testing.T) {
			if _, err := Path(name); err != nil {
				t.Errorf("Path(%q) error = %v", name, err)
			}
		})
	}
}
