package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/KeremDpdo/research-publication-dashboard/internal/shared/testutil"
)

func TestReadWorkbook(t *testing.T) {
	headers := testutil.SourceHeaders(false)
	data := testutil.WorkbookBytes(t, headers, [][]any{
		testutil.Row("Prof. Dr. Ayşe Yılmaz", "Mühendislik Fakültesi", "Fizik Bölümü", 1, 2, 3, 0, 0, 0, 1),
		testutil.Row("Ali Demir", "Eğitim Fakültesi", "", 0, 0, 1.0, 0, 0, 0, 0),
	})

	r := NewReader(nil, 0)
	table, err := r.Read(bytes.NewReader(data), "2023.xlsx")
	require.NoError(t, err)

	assert.Equal(t, "2023.xlsx", table.Source)
	assert.Equal(t, "Yayınlar", table.Sheet)
	assert.Equal(t, headers, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Prof. Dr. Ayşe Yılmaz", table.Cell(0, 0))
	assert.Equal(t, "3", table.Cell(0, 5))
	assert.Equal(t, "", table.Cell(1, 2))
	assert.Equal(t, "", table.Cell(1, 99))
	assert.Equal(t, 2, table.SourceRow(0))
}

func TestReadFile(t *testing.T) {
	path := testutil.WriteWorkbook(t, t.TempDir(), "2024.xlsx", testutil.SourceHeaders(true), [][]any{
		{"Doç. Dr.", "Ali Demir", "Eğitim Fakültesi", "Temel Eğitim Bölümü", 0, 1},
	})

	table, err := NewReader(nil, 0).ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Unvan", table.Headers[0])
	assert.Equal(t, "Doç. Dr.", table.Cell(0, 0))
}

func TestFindHeaderRow(t *testing.T) {
	rows := [][]string{
		{"", ""},
		{"2023 Yayın Raporu"},
		{"Ad Soyad", "Fakülte"},
		{"Ayşe", "Eğitim Fakültesi"},
	}
	assert.Equal(t, 2, findHeaderRow(rows))
	assert.Equal(t, 0, findHeaderRow([][]string{{"a", "b"}, {"1", "2"}}))
	assert.Equal(t, -1, findHeaderRow([][]string{{" "}}))
}

func TestReadCSV(t *testing.T) {
	text := "Ad Soyad;Fakülte;Bölüm;WoS Q1 Makale Sayısı\nAyşe Yılmaz;Mühendislik Fakültesi;Fizik Bölümü;2\n"

	tests := []struct {
		name string
		data func(t *testing.T) []byte
	}{
		{
			name: "utf-8",
			data: func(t *testing.T) []byte { return []byte(text) },
		},
		{
			name: "utf-8 with bom",
			data: func(t *testing.T) []byte { return append([]byte{0xEF, 0xBB, 0xBF}, text...) },
		},
		{
			name: "utf-16le with bom",
			data: func(t *testing.T) []byte {
				enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
				out, err := enc.Bytes([]byte(text))
				require.NoError(t, err)
				return out
			},
		},
		{
			name: "windows-1254",
			data: func(t *testing.T) []byte {
				out, err := charmap.Windows1254.NewEncoder().Bytes([]byte(text))
				require.NoError(t, err)
				return out
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewReader(nil, 0).Read(bytes.NewReader(tt.data(t)), "2023.csv")
			require.NoError(t, err)
			assert.Equal(t, []string{"Ad Soyad", "Fakülte", "Bölüm", "WoS Q1 Makale Sayısı"}, table.Headers)
			require.Len(t, table.Rows, 1)
			assert.Equal(t, "Mühendislik Fakültesi", table.Cell(0, 1))
			assert.Equal(t, "2", table.Cell(0, 3))
		})
	}
}

func TestReadErrors(t *testing.T) {
	r := NewReader(nil, 16)

	_, err := r.Read(strings.NewReader("x"), "notes.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = r.Read(strings.NewReader("\n\n"), "empty.csv")
	assert.ErrorIs(t, err, ErrNoData)

	_, err = r.Read(strings.NewReader(strings.Repeat("a", 17)), "big.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 16 bytes")

	_, err = NewReader(nil, 0).Read(strings.NewReader("not a zip"), "broken.xlsx")
	assert.Error(t, err)
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ';', sniffDelimiter([]byte("a;b;c\n1,5;2;3")))
	assert.Equal(t, ',', sniffDelimiter([]byte("a,b,c")))
	assert.Equal(t, '\t', sniffDelimiter([]byte("Ad Soyad\tFakülte\tNot, açıklama\n")))
	assert.Equal(t, ',', sniffDelimiter([]byte("a;b,c")))
}

func TestReadCSVSourceRows(t *testing.T) {
	text := "\n" +
		"Ad Soyad,Fakülte,Not\n" +
		"Ayşe Yılmaz,Mühendislik Fakültesi,ilk\n" +
		"\n" +
		"Mehmet Demir,Fen Edebiyat Fakültesi,\"iki\nsatır\"\n" +
		"Zeynep Kaya,Tıp Fakültesi,son\n"

	table, err := NewReader(nil, 0).Read(strings.NewReader(text), "2024.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, table.HeaderRow)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "iki\nsatır", table.Cell(1, 2))

	got := []int{table.SourceRow(0), table.SourceRow(1), table.SourceRow(2)}
	assert.Equal(t, []int{3, 5, 7}, got)
}

func TestReadCSVTabSeparated(t *testing.T) {
	text := "Ad Soyad\tFakülte\tWoS Q1 Makale Sayısı\nAyşe Yılmaz\tMühendislik Fakültesi\t2\n"

	table, err := NewReader(nil, 0).Read(strings.NewReader(text), "2023.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ad Soyad", "Fakülte", "WoS Q1 Makale Sayısı"}, table.Headers)
	assert.Equal(t, "2", table.Cell(0, 2))
}
