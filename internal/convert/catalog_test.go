package convert

import (
	"testing"
	"time"

	"pagalpdf/internal/pyexec"
)

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if len(c.Names()) == 0 {
		t.Fatal("catalog is empty")
	}

	for _, name := range c.Names() {
		op, ok := c.Get(name)
		if !ok {
			t.Fatalf("Get(%q) missing after Names()", name)
		}
		if op.Timeout() < 30*time.Second || op.Timeout() > 10*time.Minute {
			t.Errorf("%s: timeout %v out of range", name, op.Timeout())
		}
	}
}

func TestCatalogKnownOperations(t *testing.T) {
	c, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}

	tests := []struct {
		name   string
		native bool
		magic  pyexec.Magic
		suffix string
	}{
		{"watermark", false, pyexec.MagicPDF, "_watermarked"},
		{"protect", false, pyexec.MagicPDF, "_protected"},
		{"unlock", false, pyexec.MagicPDF, "_unlocked"},
		{"compress", false, pyexec.MagicPDF, "_compressed"},
		{"word-to-pdf", false, pyexec.MagicPDF, ""},
		{"pdf-to-docx", false, pyexec.MagicZIP, ""},
		{"pdf-to-excel", false, pyexec.MagicZIP, ""},
		{"pdf-to-pptx", false, pyexec.MagicZIP, ""},
		{"pdf-to-html", false, pyexec.MagicNone, ""},
		{"pdf-ocr", false, pyexec.MagicPDF, "_ocr"},
		{"merge", true, pyexec.MagicPDF, "_merged"},
		{"split", true, pyexec.MagicPDF, "_pages"},
		{"rotate", true, pyexec.MagicPDF, "_rotated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, ok := c.Get(tt.name)
			if !ok {
				t.Fatalf("operation %q not in catalog", tt.name)
			}
			if got := op.Native != ""; got != tt.native {
				t.Errorf("native = %v, want %v", got, tt.native)
			}
			if op.Magic() != tt.magic {
				t.Errorf("Magic() = %q, want %q", op.Magic(), tt.magic)
			}
			if op.Output.Suffix != tt.suffix {
				t.Errorf("suffix = %q, want %q", op.Output.Suffix, tt.suffix)
			}
		})
	}
}

func TestOperationAccepts(t *testing.T) {
	c, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	watermark, _ := c.Get("watermark")
	wordToPDF, _ := c.Get("word-to-pdf")

	tests := []struct {
		name      string
		op        *Operation
		mediaType string
		filename  string
		want      bool
	}{
		{"pdf upload", watermark, "application/pdf", "report.pdf", true},
		{"pdf case-insensitive", watermark, "Application/PDF", "report.pdf", true},
		{"wrong type", watermark, "image/png", "report.png", false},
		{"octet-stream with pdf extension", watermark, "application/octet-stream", "report.pdf", true},
		{"docx mime", wordToPDF, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "letter.docx", true},
		{"legacy doc by extension", wordToPDF, "application/octet-stream", "letter.DOC", true},
		{"pdf rejected by word-to-pdf", wordToPDF, "application/pdf", "report.pdf", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op.Accepts(tt.mediaType, tt.filename); got != tt.want {
				t.Errorf("Accepts(%q, %q) = %v, want %v", tt.mediaType, tt.filename, got, tt.want)
			}
		})
	}
}

func TestOutputFilename(t *testing.T) {
	c, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	watermark, _ := c.Get("watermark")
	toDocx, _ := c.Get("pdf-to-docx")

	tests := []struct {
		name     string
		op       *Operation
		original string
		want     string
	}{
		{"watermark suffix", watermark, "report.pdf", "report_watermarked.pdf"},
		{"extension swap", toDocx, "report.pdf", "report.docx"},
		{"path stripped", watermark, "../../etc/passwd.pdf", "passwd_watermarked.pdf"},
		{"empty stem", watermark, ".pdf", "converted_watermarked.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op.OutputFilename(tt.original); got != tt.want {
				t.Errorf("OutputFilename(%q) = %q, want %q", tt.original, got, tt.want)
			}
		})
	}
}
