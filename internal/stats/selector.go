package stats

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/KeremDpdo/research-publication-dashboard/internal/taxonomy"
	"github.com/KeremDpdo/research-publication-dashboard/pkg/contracts/domain"
)

// Selector restricts a report to a subset of records. A record is kept when,
// for every dimension with a non-empty inclusion list, its value is included,
// and it matches no exclusion list. Matching ignores case under Turkish rules
// and accepts either the canonical value or its vocabulary key.
type Selector struct {
	IncludeFaculties   []string `json:"include_faculties,omitempty"`
	IncludeDepartments []string `json:"include_departments,omitempty"`
	IncludeTitles      []string `json:"include_titles,omitempty"`
	ExcludeFaculties   []string `json:"exclude_faculties,omitempty"`
	ExcludeDepartments []string `json:"exclude_departments,omitempty"`
	ExcludeTitles      []string `json:"exclude_titles,omitempty"`
}

// Empty reports whether the selector keeps every record
func (s Selector) Empty() bool {
	return len(s.IncludeFaculties) == 0 && len(s.IncludeDepartments) == 0 && len(s.IncludeTitles) == 0 &&
		len(s.ExcludeFaculties) == 0 && len(s.ExcludeDepartments) == 0 && len(s.ExcludeTitles) == 0
}

// foldKey canonicalizes a value for case-insensitive comparison. Casers are
// stateful, so one is created per call.
func foldKey(s string) string {
	return cases.Lower(language.Turkish).String(taxonomy.Clean(s))
}

type matcher struct {
	include map[string]struct{}
	exclude map[string]struct{}
}

func newMatcher(include, exclude []string) matcher {
	set := func(values []string) map[string]struct{} {
		if len(values) == 0 {
			return nil
		}
		m := make(map[string]struct{}, len(values))
		for _, v := range values {
			m[foldKey(v)] = struct{}{}
		}
		return m
	}
	return matcher{include: set(include), exclude: set(exclude)}
}

func (m matcher) keep(candidates ...string) bool {
	folded := make([]string, len(candidates))
	for i, c := range candidates {
		folded[i] = foldKey(c)
	}
	contains := func(set map[string]struct{}) bool {
		for _, f := range folded {
			if _, ok := set[f]; ok {
				return true
			}
		}
		return false
	}
	if m.include != nil && !contains(m.include) {
		return false
	}
	return m.exclude == nil || !contains(m.exclude)
}

// Select returns the records kept by sel, in input order
func (e *Engine) Select(records []domain.CanonicalRecord, sel Selector) []domain.CanonicalRecord {
	out := make([]domain.CanonicalRecord, 0, len(records))
	if sel.Empty() {
		return append(out, records...)
	}

	faculty := newMatcher(sel.IncludeFaculties, sel.ExcludeFaculties)
	department := newMatcher(sel.IncludeDepartments, sel.ExcludeDepartments)
	title := newMatcher(sel.IncludeTitles, sel.ExcludeTitles)
	for _, r := range records {
		if !faculty.keep(r.Faculty, e.faculties.KeyOf(r.Faculty)) {
			continue
		}
		if !department.keep(r.Department, e.departments.KeyOf(r.Department)) {
			continue
		}
		if !title.keep(r.Title.String()) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterOptions lists the selectable values present in a dataset
type FilterOptions struct {
	Faculties   []string `json:"faculties"`
	Departments []string `json:"departments"`
	Titles      []string `json:"titles"`
}

// FilterOptions collects the distinct faculty, department and title values
// of records, shown by vocabulary key and sorted with Turkish collation
func (e *Engine) FilterOptions(records []domain.CanonicalRecord) FilterOptions {
	faculties := newOptionSet()
	departments := newOptionSet()
	titles := newOptionSet()
	for _, r := range records {
		faculties.add(optionKey(e.faculties, r.Faculty))
		departments.add(optionKey(e.departments, r.Department))
		titles.add(r.Title.String())
	}

	col := collate.New(language.Turkish, collate.IgnoreCase)
	return FilterOptions{
		Faculties:   faculties.sorted(col),
		Departments: departments.sorted(col),
		Titles:      titles.sorted(col),
	}
}

// optionKey shows a value by its vocabulary key. The unknown sentinel has an
// empty key and is shown as itself.
func optionKey(v *taxonomy.Vocabulary, value string) string {
	if k := v.KeyOf(value); k != "" {
		return k
	}
	return value
}

type optionSet struct {
	seen   map[string]struct{}
	values []string
}

func newOptionSet() *optionSet {
	return &optionSet{seen: make(map[string]struct{})}
}

func (o *optionSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := o.seen[v]; ok {
		return
	}
	o.seen[v] = struct{}{}
	o.values = append(o.values, v)
}

func (o *optionSet) sorted(col *collate.Collator) []string {
	out := make([]string, len(o.values))
	copy(out, o.values)
	col.SortStrings(out)
	return out
}
