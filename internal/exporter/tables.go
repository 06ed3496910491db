package exporter

import (
	"github.com/KeremDpdo/research-publication-dashboard/internal/pipeline"
	"github.com/KeremDpdo/research-publication-dashboard/internal/stats"
	"github.com/KeremDpdo/research-publication-dashboard/pkg/contracts/domain"
)

// Bundle is everything produced for one analysis
type Bundle struct {
	Result    *pipeline.Result
	Summary   stats.Summary
	Takeaways []stats.Takeaway
	Report    *stats.Report
}

// Table is a header row and typed data rows shared by the CSV and XLSX writers
type Table struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// Table names double as CSV file stems and workbook sheet names
const (
	TableRecords  = "Veri"
	TableRemoved  = "Hatalar"
	TableUnmapped = "Eşlenmeyen"
	TableSummary  = "Özet"
)

// RecordsTable lists the canonical dataset in column order
func RecordsTable(records []domain.CanonicalRecord) Table {
	headers := []string{domain.ColumnTitle, domain.ColumnName, domain.ColumnFaculty, domain.ColumnDepartment}
	for _, p := range domain.PublicationTypes {
		headers = append(headers, p.Column())
	}
	headers = append(headers, domain.ColumnYear, domain.ColumnTotal, domain.ColumnImpact)

	rows := make([][]any, 0, len(records))
	for _, r := range records {
		row := []any{r.Title.String(), r.Name, r.Faculty, r.Department}
		for _, p := range domain.PublicationTypes {
			row = append(row, r.Counts.Get(p))
		}
		row = append(row, string(r.Year), r.TotalPublications, r.ImpactScore)
		rows = append(rows, row)
	}
	return Table{Name: TableRecords, Headers: headers, Rows: rows}
}

// RemovedTable lists the audit entries of dropped rows
func RemovedTable(removed []domain.RemovedRecord) Table {
	rows := make([][]any, 0, len(removed))
	for _, r := range removed {
		rows = append(rows, []any{r.Name, string(r.Year), r.SourceRow, r.Column, r.Value, r.Reason})
	}
	return Table{
		Name:    TableRemoved,
		Headers: []string{domain.ColumnName, domain.ColumnYear, "Source Row", "Column", "Value", "Reason"},
		Rows:    rows,
	}
}

// UnmappedTable lists faculty and department values missing from the vocabularies
func UnmappedTable(u domain.UnmappedValues) Table {
	rows := make([][]any, 0, len(u.Faculties)+len(u.Departments))
	for _, v := range u.Faculties {
		rows = append(rows, []any{domain.ColumnFaculty, v})
	}
	for _, v := range u.Departments {
		rows = append(rows, []any{domain.ColumnDepartment, v})
	}
	return Table{Name: TableUnmapped, Headers: []string{"Field", "Value"}, Rows: rows}
}

// SummaryTable lists the headline figures followed by the key takeaways
func SummaryTable(s stats.Summary, takeaways []stats.Takeaway) Table {
	rows := [][]any{
		{"Toplam Yayın", s.TotalPublications},
		{string(domain.YearPrevious) + " Yayınları", s.PreviousPublications},
		{string(domain.YearCurrent) + " Yayınları", s.CurrentPublications},
		{"Yayın Değişimi (%)", s.PercentChange},
		{"Aktif Araştırmacılar", s.ActiveResearchers},
		{"Yüksek Etkili Araştırmacılar (Q1/Q2)", s.HighImpactResearchers},
		{"Ortalama Etki Puanı", s.MeanImpactScore},
		{"Ortalama Çeyreklik Çeşitlilik İndeksi", s.MeanDiversity},
	}
	for _, t := range takeaways {
		rows = append(rows, []any{"Önemli Bulgu", t.Message})
	}
	return Table{Name: TableSummary, Headers: []string{"Metrik", "Değer"}, Rows: rows}
}

// Tables returns every table of the bundle in export order
func (b Bundle) Tables() []Table {
	return []Table{
		RecordsTable(b.Result.Records),
		RemovedTable(b.Result.Removed),
		UnmappedTable(b.Result.Unmapped),
		SummaryTable(b.Summary, b.Takeaways),
	}
}

// StringRows renders the rows as CSV text
func (t Table) StringRows() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = formatCell(v)
		}
		out[i] = cells
	}
	return out
}
