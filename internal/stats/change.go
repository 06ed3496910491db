package stats

import (
	"github.com/KeremDpdo/research-publication-dashboard/internal/taxonomy"
	"github.com/KeremDpdo/research-publication-dashboard/pkg/contracts/domain"
)

// Direction classifies a year-over-year change
type Direction string

const (
	Increase Direction = "increase"
	Decrease Direction = "decrease"
)

// Change is the year-over-year change of one metric for one group
type Change struct {
	Key       string    `json:"key"`
	Previous  float64   `json:"previous"`
	Current   float64   `json:"current"`
	Delta     float64   `json:"delta"`
	Percent   float64   `json:"percent"`
	Direction Direction `json:"direction"`
}

// NewChange builds the change from previous to current. A zero delta counts
// as an increase.
func NewChange(key string, previous, current float64) Change {
	delta := current - previous
	dir := Increase
	if delta < 0 {
		dir = Decrease
	}
	return Change{
		Key:       key,
		Previous:  previous,
		Current:   current,
		Delta:     delta,
		Percent:   PercentChange(previous, current),
		Direction: dir,
	}
}

// PercentChange returns (current - previous) / previous * 100, or 0 when
// previous is 0
func PercentChange(previous, current float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// YearTotals sums total publications per year
func YearTotals(records []domain.CanonicalRecord) (previous, current int) {
	for _, r := range records {
		switch r.Year {
		case domain.YearPrevious:
			previous += r.TotalPublications
		case domain.YearCurrent:
			current += r.TotalPublications
		}
	}
	return previous, current
}

// OverallChange is the change in total publications across the whole dataset
func OverallChange(records []domain.CanonicalRecord) Change {
	prev, cur := YearTotals(records)
	return NewChange("Toplam", float64(prev), float64(cur))
}

// Metric extracts the value compared between years
type Metric func(domain.CanonicalRecord) float64

// TotalPublicationsMetric compares total publications
func TotalPublicationsMetric(r domain.CanonicalRecord) float64 {
	return float64(r.TotalPublications)
}

// ImpactMetric compares impact scores
func ImpactMetric(r domain.CanonicalRecord) float64 {
	return r.ImpactScore
}

// CountMetric compares the count of one publication type
func CountMetric(p domain.PublicationType) Metric {
	return func(r domain.CanonicalRecord) float64 {
		return float64(r.Counts.Get(p))
	}
}

// ChangeBy computes the change in total publications per group of dim
func ChangeBy(records []domain.CanonicalRecord, dim Dimension, order taxonomy.Ordering) []Change {
	return ChangeOf(records, dim, order, TotalPublicationsMetric)
}

// ChangeOf computes the change in metric per group of dim. Groups present in
// only one year count 0 for the other. Results follow order.
func ChangeOf(records []domain.CanonicalRecord, dim Dimension, order taxonomy.Ordering, metric Metric) []Change {
	type pair struct{ prev, cur float64 }
	totals := make(map[string]*pair)
	var keys []string
	for _, r := range records {
		k := dim.Value(r)
		p, ok := totals[k]
		if !ok {
			p = &pair{}
			totals[k] = p
			keys = append(keys, k)
		}
		switch r.Year {
		case domain.YearPrevious:
			p.prev += metric(r)
		case domain.YearCurrent:
			p.cur += metric(r)
		}
	}
	order.Sort(keys)

	out := make([]Change, 0, len(keys))
	for _, k := range keys {
		p := totals[k]
		out = append(out, NewChange(k, p.prev, p.cur))
	}
	return out
}

// TypeChange is the change of every publication type within one group
type TypeChange struct {
	Key     string   `json:"key"`
	Changes []Change `json:"changes"`
}

// TypeChangesBy computes the per-type change within each group of dim
func TypeChangesBy(records []domain.CanonicalRecord, dim Dimension, order taxonomy.Ordering) []TypeChange {
	out := []TypeChange{}
	index := make(map[string]int)
	for _, p := range domain.PublicationTypes {
		for _, c := range ChangeOf(records, dim, order, CountMetric(p)) {
			i, ok := index[c.Key]
			if !ok {
				i = len(out)
				index[c.Key] = i
				out = append(out, TypeChange{Key: c.Key})
			}
			c.Key = p.Column()
			out[i].Changes = append(out[i].Changes, c)
		}
	}
	return out
}

// TypeChanges computes the change per publication type, in column order
func TypeChanges(records []domain.CanonicalRecord) []Change {
	var prev, cur domain.Counts
	for _, r := range records {
		switch r.Year {
		case domain.YearPrevious:
			prev = prev.Add(r.Counts)
		case domain.YearCurrent:
			cur = cur.Add(r.Counts)
		}
	}
	out := make([]Change, 0, len(domain.PublicationTypes))
	for _, p := range domain.PublicationTypes {
		out = append(out, NewChange(p.Column(), float64(prev.Get(p)), float64(cur.Get(p))))
	}
	return out
}
