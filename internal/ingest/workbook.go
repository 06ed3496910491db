package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// headerScanRows bounds how far down a sheet the header row is searched for
const headerScanRows = 10

// headerMarkers identify the header row of a publication sheet
var headerMarkers = []string{"ad soyad", "fakülte", "bölüm", "makale"}

// readWorkbook reads the first sheet of an xlsx workbook
func readWorkbook(src io.Reader, name string) (*Table, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook %s has no sheets", ErrNoData, name)
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	header := findHeaderRow(rows)
	if header < 0 {
		return nil, fmt.Errorf("%w: sheet %q in %s is empty", ErrNoData, sheet, name)
	}

	return &Table{
		Source:    name,
		Sheet:     sheet,
		HeaderRow: header + 1,
		Headers:   rows[header],
		Rows:      rows[header+1:],
	}, nil
}

// findHeaderRow returns the index of the first row carrying a known header
// within the scan window, falling back to the first non-blank row
func findHeaderRow(rows [][]string) int {
	first := -1
	for i, row := range rows {
		if blankRow(row) {
			continue
		}
		if first < 0 {
			first = i
		}
		if i >= headerScanRows {
			break
		}
		text := strings.ToLower(strings.Join(row, " "))
		for _, marker := range headerMarkers {
			if strings.Contains(text, marker) {
				return i
			}
		}
	}
	return first
}
