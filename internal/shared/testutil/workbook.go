package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KeremDpdo/research-publication-dashboard/pkg/contracts/domain"
)

// SourceHeaders returns the yearly spreadsheet headers in their usual order
func SourceHeaders(withTitle bool) []string {
	headers := make([]string, 0, 11)
	if withTitle {
		headers = append(headers, "Unvan")
	}
	headers = append(headers, "Ad Soyad", "Fakülte", "Bölüm")
	for _, p := range domain.PublicationTypes {
		headers = append(headers, p.SourceHeader())
	}
	return headers
}

// Row builds a sheet row without a title column
func Row(name, faculty, department string, counts ...any) []any {
	row := []any{name, faculty, department}
	return append(row, counts...)
}

// WorkbookBytes renders a single-sheet xlsx workbook
func WorkbookBytes(t testing.TB, headers []string, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "Yayınlar"))

	write := func(r int, values []any) {
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r)
			require.NoError(t, err)
			if v == nil {
				continue
			}
			require.NoError(t, f.SetCellValue("Yayınlar", cell, v))
		}
	}

	hdr := make([]any, len(headers))
	for i, h := range headers {
		hdr[i] = h
	}
	write(1, hdr)
	for i, row := range rows {
		write(i+2, row)
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// WriteWorkbook saves a workbook under dir and returns its path
func WriteWorkbook(t testing.TB, dir, name string, headers []string, rows [][]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, WorkbookBytes(t, headers, rows), 0o644))
	return path
}
