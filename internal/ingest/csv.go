package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decodeText converts data to UTF-8 and reports the encoding detected.
// Text without a BOM that is not valid UTF-8 is read as Windows-1254, the
// code page Turkish Excel installs use for CSV exports.
func decodeText(data []byte) ([]byte, string, error) {
	var enc encoding.Encoding
	name := "utf-8"
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], "utf-8-bom", nil
	case bytes.HasPrefix(data, bomUTF16LE):
		enc, name = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), "utf-16le"
	case bytes.HasPrefix(data, bomUTF16BE):
		enc, name = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), "utf-16be"
	case utf8.Valid(data):
		return data, name, nil
	default:
		enc, name = charmap.Windows1254, "windows-1254"
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, "", fmt.Errorf("%s decode failed: %w", name, err)
	}
	return decoded, name, nil
}

// sniffDelimiter picks the most frequent of ',', ';' and tab on the first
// line; ties go to ','
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, most := ',', bytes.Count(line, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > most {
			best, most = d, n
		}
	}
	return best
}

func readCSV(data []byte, name string) (*Table, error) {
	decoded, _, err := decodeText(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.Comma = sniffDelimiter(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	table := &Table{Source: name}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		if table.Headers == nil {
			if blankRow(row) {
				continue
			}
			table.Headers = row
			table.HeaderRow, _ = reader.FieldPos(0)
			continue
		}
		line, _ := reader.FieldPos(0)
		table.Rows = append(table.Rows, row)
		table.RowLines = append(table.RowLines, line)
	}

	if table.Headers == nil {
		return nil, fmt.Errorf("%w: %s has no header row", ErrNoData, name)
	}
	return table, nil
}
