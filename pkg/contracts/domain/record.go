package domain

import "fmt"

// RawRecord is one spreadsheet row after header renaming and count coercion,
// before taxonomy normalization
type RawRecord struct {
	Name       string `json:"name"`
	Title      string `json:"title,omitempty"`
	Faculty    string `json:"faculty"`
	Department string `json:"department"`
	Counts     Counts `json:"counts"`
	Year       Year   `json:"year"`
	SourceRow  int    `json:"source_row"`
}

// CanonicalRecord is a validated researcher-year row with derived metrics
type CanonicalRecord struct {
	Name              string  `json:"name"`
	Title             Title   `json:"title"`
	Faculty           string  `json:"faculty"`
	Department        string  `json:"department"`
	Counts            Counts  `json:"counts"`
	Year              Year    `json:"year"`
	TotalPublications int     `json:"total_publications"`
	ImpactScore       float64 `json:"impact_score"`
	SourceRow         int     `json:"source_row,omitempty"`
}

// Derive recomputes TotalPublications and ImpactScore from the counts
func (r *CanonicalRecord) Derive() {
	r.TotalPublications = r.Counts.Total()
	r.ImpactScore = r.Counts.Impact()
}

// RemovedRecord is an audit entry for one negative count in a dropped row
type RemovedRecord struct {
	Name      string `json:"name"`
	Reason    string `json:"reason"`
	Column    string `json:"column"`
	Value     int    `json:"value"`
	Year      Year   `json:"year"`
	SourceRow int    `json:"source_row"`
}

// NegativeReason formats the audit reason for a negative count
func NegativeReason(value int, column string) string {
	return fmt.Sprintf("Negatif değer (%d) %s sütununda", value, column)
}

// UnmappedValues lists faculty and department values that were not found in
// the canonical vocabularies, in first-seen order
type UnmappedValues struct {
	Faculties   []string `json:"faculties"`
	Departments []string `json:"departments"`
}

// Empty reports whether every value was mapped
func (u UnmappedValues) Empty() bool {
	return len(u.Faculties) == 0 && len(u.Departments) == 0
}
