// Package pdfexport renders agent responses to paginated PDF files in a
// caller-owned output directory.
package pdfexport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
)

const (
	filenamePrefix = "output_"
	lineWidth      = 200
	lineHeight     = 10
	fontSize       = 12
)

// Exporter writes PDFs into a single output directory it owns.
type Exporter struct {
	outputDir string
}

// NewExporter creates the output directory if needed and returns an exporter
// bound to it.
func NewExporter(outputDir string) (*Exporter, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create pdf output dir: %w", err)
	}
	return &Exporter{outputDir: outputDir}, nil
}

// Export renders content line by line into a fresh PDF and returns the
// generated filename. Runes outside the single-byte Latin-1 range are
// dropped rather than failing the export.
func (e *Exporter) Export(content string) (string, error) {
	filename := filenamePrefix + strings.ReplaceAll(uuid.New().String(), "-", "")[:8] + ".pdf"

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "", fontSize)

	for _, line := range strings.Split(toLatin1(content), "\n") {
		pdf.CellFormat(lineWidth, lineHeight, line, "", 1, "", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filepath.Join(e.outputDir, filename)); err != nil {
		return "", fmt.Errorf("failed to write pdf: %w", err)
	}

	return filename, nil
}

// Sweep deletes generated PDFs older than the retention window and reports
// how many were removed. A zero retention disables sweeping.
func (e *Exporter) Sweep(retention time.Duration) (int, error) {
	if retention <= 0 {
		return 0, nil
	}

	entries, err := os.ReadDir(e.outputDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read pdf output dir: %w", err)
	}

	cutoff := time.Now().Add(-retention)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filenamePrefix) || !strings.HasSuffix(name, ".pdf") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(e.outputDir, name)); err == nil {
				removed++
			}
		}
	}

	return removed, nil
}

// toLatin1 normalizes curly apostrophes and drops runes the PDF's
// single-byte font cannot encode.
func toLatin1(content string) string {
	content = strings.ReplaceAll(content, "’", "'")

	var builder strings.Builder
	builder.Grow(len(content))
	for _, r := range content {
		if r <= 0xFF {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
