package exporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "github.com/KeremDpdo/research-publication-dashboard/internal/errors"
)

// WorkbookFile and ReportFile are the file names written for the xlsx and
// json formats
const (
	WorkbookFile = "analiz.xlsx"
	ReportFile   = "rapor.json"
)

// Exporter writes an analysis bundle to disk in one of the supported formats
type Exporter struct {
	csv    *CSVWriter
	dir    string
	logger *slog.Logger
}

// New creates an exporter writing under dir
func New(dir string, csvBOM bool, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "exporter"))
	return &Exporter{
		csv:    NewCSVWriter(dir, csvBOM, logger),
		dir:    dir,
		logger: logger,
	}
}

// Export writes b in format and returns the paths written
func (e *Exporter) Export(format Format, b Bundle) ([]string, error) {
	if b.Result == nil {
		return nil, apperrors.NewExportError("nothing to export", nil)
	}

	var paths []string
	var err error
	switch format {
	case FormatCSV:
		paths, err = e.exportCSV(b)
	case FormatXLSX:
		paths, err = e.exportFile(WorkbookFile, func(w io.Writer) error { return WriteWorkbook(w, b.Tables()) })
	case FormatJSON:
		if b.Report == nil {
			return nil, apperrors.NewExportError("json export needs a report", nil)
		}
		paths, err = e.exportFile(ReportFile, func(w io.Writer) error { return WriteJSON(w, b.Report) })
	default:
		return nil, apperrors.NewExportError(fmt.Sprintf("unsupported format %q", format), nil)
	}
	if err != nil {
		return nil, apperrors.NewExportError("export failed", err).WithContext("format", string(format))
	}

	e.logger.Info("export completed",
		slog.String("format", string(format)),
		slog.Int("files", len(paths)))
	return paths, nil
}

func (e *Exporter) exportCSV(b Bundle) ([]string, error) {
	tables := b.Tables()
	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		p, err := e.csv.WriteTable(t)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func (e *Exporter) exportFile(name string, write func(io.Writer) error) ([]string, error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", name, err)
	}
	return []string{path}, nil
}

// WriteJSON writes v as indented JSON
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
