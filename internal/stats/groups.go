package stats

import (
	"fmt"

	"github.com/KeremDpdo/research-publication-dashboard/internal/taxonomy"
	"github.com/KeremDpdo/research-publication-dashboard/pkg/contracts/domain"
)

// Dimension is a categorical field records can be grouped by
type Dimension string

const (
	DimensionFaculty    Dimension = "faculty"
	DimensionDepartment Dimension = "department"
	DimensionTitle      Dimension = "title"
)

// Value returns the record's value for the dimension
func (d Dimension) Value(r domain.CanonicalRecord) string {
	switch d {
	case DimensionFaculty:
		return r.Faculty
	case DimensionDepartment:
		return r.Department
	case DimensionTitle:
		return r.Title.String()
	default:
		panic(fmt.Sprintf("stats: unknown dimension %q", string(d)))
	}
}

// Label returns the Turkish display name of the dimension
func (d Dimension) Label() string {
	switch d {
	case DimensionFaculty:
		return "Fakülte"
	case DimensionDepartment:
		return "Bölüm"
	case DimensionTitle:
		return "Unvan"
	default:
		return string(d)
	}
}

// GroupYear aggregates the records of one (group, year) pair
type GroupYear struct {
	Key               string        `json:"key"`
	Year              domain.Year   `json:"year"`
	Counts            domain.Counts `json:"counts"`
	TotalPublications int           `json:"total_publications"`
	ImpactScore       float64       `json:"impact_score"`
	Diversity         float64       `json:"diversity_index"`
	Researchers       int           `json:"researchers"`
	ActiveResearchers int           `json:"active_researchers"`
	ActiveRatio       float64       `json:"active_ratio"`
}

// GroupByYear aggregates records per (dim value, year). Only pairs with at
// least one record are returned, ordered by group then year.
func GroupByYear(records []domain.CanonicalRecord, dim Dimension, order taxonomy.Ordering) []GroupYear {
	type groupKey struct {
		key  string
		year domain.Year
	}
	type acc struct {
		group  GroupYear
		names  map[string]struct{}
		active map[string]struct{}
	}

	groups := make(map[groupKey]*acc)
	var keys []string
	seenKey := make(map[string]struct{})
	for _, r := range records {
		k := groupKey{dim.Value(r), r.Year}
		a, ok := groups[k]
		if !ok {
			a = &acc{
				group:  GroupYear{Key: k.key, Year: k.year},
				names:  make(map[string]struct{}),
				active: make(map[string]struct{}),
			}
			groups[k] = a
			if _, seen := seenKey[k.key]; !seen {
				seenKey[k.key] = struct{}{}
				keys = append(keys, k.key)
			}
		}
		a.group.Counts = a.group.Counts.Add(r.Counts)
		a.group.TotalPublications += r.TotalPublications
		a.group.ImpactScore += r.ImpactScore
		a.names[r.Name] = struct{}{}
		if r.TotalPublications > 0 {
			a.active[r.Name] = struct{}{}
		}
	}
	order.Sort(keys)

	out := make([]GroupYear, 0, len(groups))
	for _, k := range keys {
		for _, y := range domain.Years {
			a, ok := groups[groupKey{k, y}]
			if !ok {
				continue
			}
			g := a.group
			g.Diversity = Diversity(g.Counts)
			g.Researchers = len(a.names)
			g.ActiveResearchers = len(a.active)
			g.ActiveRatio = ratio(g.ActiveResearchers, g.Researchers)
			out = append(out, g)
		}
	}
	return out
}

// MeanDiversity averages the diversity index over every (dim value, year)
// group, 0 when there are none
func MeanDiversity(records []domain.CanonicalRecord, dim Dimension) float64 {
	groups := GroupByYear(records, dim, taxonomy.Ordering{})
	if len(groups) == 0 {
		return 0
	}
	var sum float64
	for _, g := range groups {
		sum += g.Diversity
	}
	return sum / float64(len(groups))
}
