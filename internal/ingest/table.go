// Package ingest reads the yearly publication spreadsheets into raw tables.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither xlsx nor csv
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrNoData is returned when a file has no header row
	ErrNoData = errors.New("no data found")
)

// Table is an untyped header/row grid read from one input file
type Table struct {
	Source string
	Sheet  string
	// HeaderRow is the 1-based spreadsheet row holding the headers
	HeaderRow int
	Headers   []string
	Rows      [][]string
	// RowLines holds the 1-based source line of each row when rows are not
	// contiguous, as in CSV files with blank lines or multi-line fields
	RowLines []int
}

// Cell returns the value at row i for the given column index, or "" when the
// row is shorter than the header
func (t *Table) Cell(i, col int) string {
	if col < 0 || i < 0 || i >= len(t.Rows) || col >= len(t.Rows[i]) {
		return ""
	}
	return t.Rows[i][col]
}

// SourceRow is the 1-based spreadsheet row number of data row i
func (t *Table) SourceRow(i int) int {
	if i >= 0 && i < len(t.RowLines) {
		return t.RowLines[i]
	}
	return t.HeaderRow + 1 + i
}

// Reader loads tables from files or uploaded streams
type Reader struct {
	logger  *slog.Logger
	maxSize int64
}

// NewReader creates a reader. maxSize bounds the bytes accepted per input;
// zero means unbounded.
func NewReader(logger *slog.Logger, maxSize int64) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		logger:  logger.With(slog.String("component", "ingest")),
		maxSize: maxSize,
	}
}

// ReadFile opens path and reads it according to its extension
func (r *Reader) ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return r.Read(f, filepath.Base(path))
}

// Read reads a table from src; name selects the format by extension
func (r *Reader) Read(src io.Reader, name string) (*Table, error) {
	data, err := r.readAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	var table *Table
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		table, err = readWorkbook(bytes.NewReader(data), name)
	case ".csv", ".txt":
		table, err = readCSV(data, name)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Info("table loaded",
		slog.String("source", table.Source),
		slog.String("sheet", table.Sheet),
		slog.Int("columns", len(table.Headers)),
		slog.Int("rows", len(table.Rows)))
	return table, nil
}

func (r *Reader) readAll(src io.Reader) ([]byte, error) {
	if r.maxSize <= 0 {
		return io.ReadAll(src)
	}
	data, err := io.ReadAll(io.LimitReader(src, r.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > r.maxSize {
		return nil, fmt.Errorf("input exceeds %d bytes", r.maxSize)
	}
	return data, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
