package pipeline

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/KeremDpdo/research-publication-dashboard/internal/ingest"
	"github.com/KeremDpdo/research-publication-dashboard/internal/taxonomy"
	"github.com/KeremDpdo/research-publication-dashboard/pkg/contracts/domain"
)

var (
	errNotFinite  = errors.New("value is not finite")
	errOutOfRange = errors.New("value is out of range")
	errGrouped    = errors.New("ambiguous digit grouping")
)

// groupedDigits matches thousands-grouped integers such as 1.000 or 12.500.000
var groupedDigits = regexp.MustCompile(`^[+-]?\d{1,3}(\.\d{3})+$`)

// sourceColumns maps trimmed spreadsheet headers to canonical column names
var sourceColumns = func() map[string]string {
	m := map[string]string{
		"Unvan":    domain.ColumnTitle,
		"Ad Soyad": domain.ColumnName,
		"Fakülte":  domain.ColumnFaculty,
		"Bölüm":    domain.ColumnDepartment,
	}
	for _, p := range domain.PublicationTypes {
		m[p.SourceHeader()] = p.Column()
	}
	return m
}()

// CanonicalHeader renames a spreadsheet header. Unknown headers are returned
// trimmed; canonical names map to themselves.
func CanonicalHeader(h string) string {
	h = strings.TrimSpace(strings.TrimPrefix(taxonomy.Clean(h), "\ufeff"))
	if c, ok := sourceColumns[h]; ok {
		return c
	}
	return h
}

// Unified is the merged, year-tagged output of Unify
type Unified struct {
	Records     []domain.RawRecord
	TitleColumn bool
	// Skipped counts fully blank rows that were dropped
	Skipped int
}

// Unify tags each table's rows with its year, renames headers and coerces
// the seven counts to integers. Previous-year rows come first.
// A non-numeric count aborts with *TypeConversionError.
func Unify(previous, current *ingest.Table) (*Unified, error) {
	out := &Unified{}
	for _, in := range []struct {
		year  domain.Year
		table *ingest.Table
	}{
		{domain.YearPrevious, previous},
		{domain.YearCurrent, current},
	} {
		if in.table == nil {
			continue
		}
		if err := unifyTable(out, in.year, in.table); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func unifyTable(out *Unified, year domain.Year, t *ingest.Table) error {
	index := make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		c := CanonicalHeader(h)
		if _, dup := index[c]; !dup {
			index[c] = i
		}
	}
	col := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		return -1
	}

	titleCol := col(domain.ColumnTitle)
	if titleCol >= 0 {
		out.TitleColumn = true
	}
	nameCol, facultyCol, departmentCol := col(domain.ColumnName), col(domain.ColumnFaculty), col(domain.ColumnDepartment)

	for i, row := range t.Rows {
		if blank(row) {
			out.Skipped++
			continue
		}

		rec := domain.RawRecord{
			Name:       t.Cell(i, nameCol),
			Title:      t.Cell(i, titleCol),
			Faculty:    t.Cell(i, facultyCol),
			Department: t.Cell(i, departmentCol),
			Year:       year,
			SourceRow:  t.SourceRow(i),
		}
		for _, p := range domain.PublicationTypes {
			raw := t.Cell(i, col(p.Column()))
			n, err := ParseCount(raw)
			if err != nil {
				return &TypeConversionError{
					Column: p.Column(),
					Year:   year,
					Row:    rec.SourceRow,
					Value:  raw,
					Err:    err,
				}
			}
			rec.Counts.Set(p, n)
		}
		out.Records = append(out.Records, rec)
	}
	return nil
}

// ParseCount coerces a count cell to an integer. Blank cells are 0,
// fractional values truncate toward zero and a decimal comma is accepted.
// A dot followed by groups of three digits is rejected: 1.000 reads as 1000
// in Turkish exports and as 1 elsewhere.
func ParseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err == nil {
		return n, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, errOutOfRange
	}
	if groupedDigits.MatchString(s) {
		return 0, errGrouped
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	if f >= math.MaxInt || f < math.MinInt {
		return 0, errOutOfRange
	}
	return int(f), nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
