package taxonomy

import (
	"log/slog"

	"github.com/KeremDpdo/research-publication-dashboard/pkg/contracts/domain"
)

// Normalized is the output of Normalize
type Normalized struct {
	Records       []domain.CanonicalRecord
	Unmapped      domain.UnmappedValues
	TitleInferred bool
}

// Normalizer maps raw faculty, department and title values onto the
// canonical vocabularies
type Normalizer struct {
	faculties   *Vocabulary
	departments *Vocabulary
	logger      *slog.Logger
}

// NewNormalizer creates a normalizer over the built-in vocabularies
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		faculties:   Faculties,
		departments: Departments,
		logger:      logger.With(slog.String("component", "taxonomy")),
	}
}

// Faculties returns the faculty vocabulary in use
func (n *Normalizer) Faculties() *Vocabulary { return n.faculties }

// Departments returns the department vocabulary in use
func (n *Normalizer) Departments() *Vocabulary { return n.departments }

// Normalize canonicalizes every record. Titles are inferred from names when
// titleColumn is false or every title cell is blank. Counts are copied as-is;
// derived metrics are left to the caller.
func (n *Normalizer) Normalize(records []domain.RawRecord, titleColumn bool) Normalized {
	infer := !titleColumn || allTitlesBlank(records)

	out := Normalized{
		Records:       make([]domain.CanonicalRecord, 0, len(records)),
		TitleInferred: infer,
	}
	facultyMisses := newFirstSeen()
	departmentMisses := newFirstSeen()

	for _, r := range records {
		name := Clean(r.Name)
		if name == "" {
			name = domain.UnknownValue
		}

		faculty, ok := n.faculties.Lookup(r.Faculty)
		if !ok && !n.faculties.IsCanonical(faculty) {
			facultyMisses.add(faculty)
		}
		department, ok := n.departments.Lookup(r.Department)
		if !ok && !n.departments.IsCanonical(department) {
			departmentMisses.add(department)
		}

		var title domain.Title
		if infer {
			title = InferTitle(r.Name)
		} else {
			title = ResolveTitle(r.Title)
		}

		out.Records = append(out.Records, domain.CanonicalRecord{
			Name:       name,
			Title:      title,
			Faculty:    faculty,
			Department: department,
			Counts:     r.Counts,
			Year:       r.Year,
			SourceRow:  r.SourceRow,
		})
	}

	out.Unmapped = domain.UnmappedValues{
		Faculties:   facultyMisses.values,
		Departments: departmentMisses.values,
	}
	if !out.Unmapped.Empty() {
		n.logger.Info("unmapped taxonomy values",
			slog.Int("faculties", len(out.Unmapped.Faculties)),
			slog.Int("departments", len(out.Unmapped.Departments)))
	}
	if infer {
		n.logger.Debug("titles inferred from names", slog.Int("records", len(records)))
	}
	return out
}

// FacultyOrdering orders the faculties present in records
func (n *Normalizer) FacultyOrdering(records []domain.CanonicalRecord) Ordering {
	present := make([]string, 0, len(records))
	for _, r := range records {
		present = append(present, r.Faculty)
	}
	return NewOrdering(n.faculties, present)
}

// DepartmentOrdering orders the departments present in records
func (n *Normalizer) DepartmentOrdering(records []domain.CanonicalRecord) Ordering {
	present := make([]string, 0, len(records))
	for _, r := range records {
		present = append(present, r.Department)
	}
	return NewOrdering(n.departments, present)
}

func allTitlesBlank(records []domain.RawRecord) bool {
	for _, r := range records {
		if Clean(r.Title) != "" {
			return false
		}
	}
	return true
}

type firstSeen struct {
	seen   map[string]struct{}
	values []string
}

func newFirstSeen() *firstSeen {
	return &firstSeen{seen: make(map[string]struct{}), values: []string{}}
}

func (f *firstSeen) add(v string) {
	if v == "" || v == domain.UnknownValue {
		return
	}
	if _, ok := f.seen[v]; ok {
		return
	}
	f.seen[v] = struct{}{}
	f.values = append(f.values, v)
}
