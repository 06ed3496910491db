package stats

import (
	"github.com/KeremDpdo/research-publication-dashboard/internal/config"
	"github.com/KeremDpdo/research-publication-dashboard/internal/taxonomy"
	"github.com/KeremDpdo/research-publication-dashboard/pkg/contracts/domain"
)

// Engine builds reports over canonical records using the taxonomy that
// produced them
type Engine struct {
	faculties   *taxonomy.Vocabulary
	departments *taxonomy.Vocabulary
	thresholds  Thresholds
}

// NewEngine creates an engine over the normalizer's vocabularies
func NewEngine(n *taxonomy.Normalizer) *Engine {
	return &Engine{
		faculties:   n.Faculties(),
		departments: n.Departments(),
		thresholds:  DefaultThresholds(),
	}
}

// WithThresholds returns a copy of the engine using th
func (e *Engine) WithThresholds(th Thresholds) *Engine {
	c := *e
	c.thresholds = th
	return &c
}

// ReportOptions configures a report
type ReportOptions struct {
	Selector Selector
	// TopN bounds every ranking; values <= 0 use the default
	TopN int
	// Orderings computed by the pipeline. Zero values are rebuilt from the
	// records.
	FacultyOrder    taxonomy.Ordering
	DepartmentOrder taxonomy.Ordering
}

// Report is the full sectioned report over the selected records
type Report struct {
	Selector         Selector          `json:"selector"`
	TopN             int               `json:"top_n"`
	Summary          Summary           `json:"summary"`
	Takeaways        []Takeaway        `json:"takeaways"`
	TypeDistribution []YearCounts      `json:"type_distribution"`
	TypeChanges      []Change          `json:"type_changes"`
	TopTypes         []YearRanking     `json:"top_types"`
	TitleBands       []BandTotal       `json:"title_bands"`
	TitleChanges     []Change          `json:"title_changes"`
	TopResearchers   []ResearcherTotal `json:"top_researchers"`
	Faculty          UnitSection       `json:"faculty"`
	Department       UnitSection       `json:"department"`
}

// YearCounts sums the publication counts of one year
type YearCounts struct {
	Year              domain.Year   `json:"year"`
	Counts            domain.Counts `json:"counts"`
	TotalPublications int           `json:"total_publications"`
}

// YearRanking ranks publication types within one year
type YearRanking struct {
	Year  domain.Year `json:"year"`
	Types []Ranked    `json:"types"`
}

// BandTotal is the publication total of one title band in one year
type BandTotal struct {
	Band              string      `json:"band"`
	Year              domain.Year `json:"year"`
	TotalPublications int         `json:"total_publications"`
}

// UnitSection groups the per-unit sections of the report for faculties or
// departments. Groups carry the quartile distribution, publication type
// matrix, impact, active ratio and diversity of each (unit, year).
type UnitSection struct {
	Dimension   Dimension    `json:"dimension"`
	Order       []string     `json:"order"`
	Groups      []GroupYear  `json:"groups"`
	Top         []UnitTotal  `json:"top"`
	Changes     []Change     `json:"changes"`
	TypeChanges []TypeChange `json:"type_changes"`
	// ImpactChanges compares summed impact scores
	ImpactChanges []Change `json:"impact_changes"`
}

// Report selects records with opts.Selector and computes every section
func (e *Engine) Report(records []domain.CanonicalRecord, opts ReportOptions) *Report {
	topN := opts.TopN
	if topN <= 0 {
		topN = config.DefaultTopN
	}
	selected := e.Select(records, opts.Selector)

	facultyOrder := opts.FacultyOrder
	if facultyOrder.Len() == 0 {
		facultyOrder = e.ordering(e.faculties, selected, DimensionFaculty)
	}
	departmentOrder := opts.DepartmentOrder
	if departmentOrder.Len() == 0 {
		departmentOrder = e.ordering(e.departments, selected, DimensionDepartment)
	}

	summary := Summarize(selected)
	return &Report{
		Selector:         opts.Selector,
		TopN:             topN,
		Summary:          summary,
		Takeaways:        Takeaways(selected, summary, e.thresholds, facultyOrder),
		TypeDistribution: TypeDistribution(selected),
		TypeChanges:      TypeChanges(selected),
		TopTypes:         topTypesByYear(selected, topN),
		TitleBands:       TitleBandTotals(selected),
		TitleChanges:     ChangeBy(selected, DimensionTitle, taxonomy.TitleOrdering()),
		TopResearchers:   TopResearchers(selected, topN),
		Faculty:          unitSection(selected, DimensionFaculty, facultyOrder, topN),
		Department:       unitSection(selected, DimensionDepartment, departmentOrder, topN),
	}
}

// Summary computes the headline figures and takeaways of the whole dataset
func (e *Engine) Summary(records []domain.CanonicalRecord, facultyOrder taxonomy.Ordering) (Summary, []Takeaway) {
	if facultyOrder.Len() == 0 {
		facultyOrder = e.ordering(e.faculties, records, DimensionFaculty)
	}
	s := Summarize(records)
	return s, Takeaways(records, s, e.thresholds, facultyOrder)
}

func (e *Engine) ordering(v *taxonomy.Vocabulary, records []domain.CanonicalRecord, dim Dimension) taxonomy.Ordering {
	present := make([]string, 0, len(records))
	for _, r := range records {
		present = append(present, dim.Value(r))
	}
	return taxonomy.NewOrdering(v, present)
}

func unitSection(records []domain.CanonicalRecord, dim Dimension, order taxonomy.Ordering, topN int) UnitSection {
	groups := GroupByYear(records, dim, order)
	keys := make([]string, 0, len(groups))
	for i, g := range groups {
		if i == 0 || groups[i-1].Key != g.Key {
			keys = append(keys, g.Key)
		}
	}
	return UnitSection{
		Dimension:   dim,
		Order:       keys,
		Groups:      groups,
		Top:         TopUnits(records, dim, topN, order),
		Changes:     ChangeBy(records, dim, order),
		TypeChanges: TypeChangesBy(records, dim, order),

		ImpactChanges: ChangeOf(records, dim, order, ImpactMetric),
	}
}

// TypeDistribution sums the counts of each year. Both years are always
// present.
func TypeDistribution(records []domain.CanonicalRecord) []YearCounts {
	out := make([]YearCounts, len(domain.Years))
	for i, y := range domain.Years {
		out[i].Year = y
	}
	for _, r := range records {
		for i := range out {
			if out[i].Year == r.Year {
				out[i].Counts = out[i].Counts.Add(r.Counts)
				out[i].TotalPublications += r.TotalPublications
			}
		}
	}
	return out
}

func topTypesByYear(records []domain.CanonicalRecord, n int) []YearRanking {
	out := make([]YearRanking, 0, len(domain.Years))
	for _, y := range domain.Years {
		var year []domain.CanonicalRecord
		for _, r := range records {
			if r.Year == y {
				year = append(year, r)
			}
		}
		out = append(out, YearRanking{Year: y, Types: TopTypes(year, n)})
	}
	return out
}

// TitleBandTotals sums publications per title band and year. Every band is
// reported for both years, in band order.
func TitleBandTotals(records []domain.CanonicalRecord) []BandTotal {
	type key struct {
		band string
		year domain.Year
	}
	totals := make(map[key]int)
	for _, r := range records {
		totals[key{taxonomy.SeniorTitleBand(r.Title), r.Year}] += r.TotalPublications
	}
	out := make([]BandTotal, 0, len(taxonomy.TitleBands)*len(domain.Years))
	for _, b := range taxonomy.TitleBands {
		for _, y := range domain.Years {
			out = append(out, BandTotal{Band: b, Year: y, TotalPublications: totals[key{b, y}]})
		}
	}
	return out
}
