package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Ingestor turns an uploaded artifact into plain text.
type Ingestor interface {
	Ingest(ctx context.Context, path string) (string, error)
}

// Config for the PDF ingestor.
type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
}

// PDFIngestor extracts embedded text from a PDF via pdftotext. Image-only
// scans produce little or no text; judging whether the output is usable is
// the pipeline's call, not ours.
type PDFIngestor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewPDFIngestor(cfg Config, logger *slog.Logger) *PDFIngestor {
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFIngestor{cfg: cfg, runner: execRunner{}, logger: logger}
}

func (e *PDFIngestor) Ingest(ctx context.Context, path string) (string, error) {
	start := time.Now()

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w: %s", err, truncate(string(errb), 512))
	}

	text := string(out)
	pages := 1 + strings.Count(text, "\f")
	e.logger.Info("ingest.pdf.ok",
		"path", path,
		"pages", pages,
		"text_bytes", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}
