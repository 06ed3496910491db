package stats

import (
	"math"
	"sort"

	"github.com/KeremDpdo/research-publication-dashboard/internal/taxonomy"
	"github.com/KeremDpdo/research-publication-dashboard/pkg/contracts/domain"
)

// MaxDiversity is the upper bound of Diversity, reached when the four
// quartiles are equally represented
var MaxDiversity = math.Log(float64(len(domain.Quartiles)))

// Diversity is the Shannon index -Σ p·ln p over the non-zero Q1..Q4 counts.
// It is 0 when there are no quartile articles.
func Diversity(c domain.Counts) float64 {
	total := 0
	for _, q := range domain.Quartiles {
		if v := c.Get(q); v > 0 {
			total += v
		}
	}
	if total == 0 {
		return 0
	}
	var h float64
	for _, q := range domain.Quartiles {
		v := c.Get(q)
		if v <= 0 {
			continue
		}
		p := float64(v) / float64(total)
		h -= p * math.Log(p)
	}
	return h
}

// ActiveResearchers counts distinct names with at least one publication
func ActiveResearchers(records []domain.CanonicalRecord) int {
	return countNames(records, func(r domain.CanonicalRecord) bool { return r.TotalPublications > 0 })
}

// HighImpactResearchers counts distinct names with a Q1 or Q2 article
func HighImpactResearchers(records []domain.CanonicalRecord) int {
	return countNames(records, func(r domain.CanonicalRecord) bool { return r.Counts.HighImpact() })
}

// ActiveRatio is active researchers over distinct researchers, 0 for an
// empty group
func ActiveRatio(records []domain.CanonicalRecord) float64 {
	return ratio(ActiveResearchers(records), countNames(records, nil))
}

// MeanImpact averages the impact score over records
func MeanImpact(records []domain.CanonicalRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += r.ImpactScore
	}
	return sum / float64(len(records))
}

func countNames(records []domain.CanonicalRecord, keep func(domain.CanonicalRecord) bool) int {
	names := make(map[string]struct{})
	for _, r := range records {
		if keep == nil || keep(r) {
			names[r.Name] = struct{}{}
		}
	}
	return len(names)
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Ranked is one entry of a top-N ranking
type Ranked struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// TopN returns the n highest entries. Ties are broken by rank in order and
// then by key. n <= 0 returns every entry sorted. The input is not modified.
func TopN(items []Ranked, n int, order taxonomy.Ordering) []Ranked {
	out := make([]Ranked, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return order.Less(out[i].Key, out[j].Key)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// typeOrdering ranks publication types by column order
var typeOrdering = func() taxonomy.Ordering {
	values := make([]string, len(domain.PublicationTypes))
	for i, p := range domain.PublicationTypes {
		values[i] = p.Column()
	}
	return taxonomy.OrderingOf(values)
}()

// TopTypes ranks publication types by their summed count
func TopTypes(records []domain.CanonicalRecord, n int) []Ranked {
	var sum domain.Counts
	for _, r := range records {
		sum = sum.Add(r.Counts)
	}
	items := make([]Ranked, 0, len(domain.PublicationTypes))
	for _, p := range domain.PublicationTypes {
		items = append(items, Ranked{Key: p.Column(), Value: float64(sum.Get(p))})
	}
	return TopN(items, n, typeOrdering)
}

// UnitTotal is a unit's total publications over both years
type UnitTotal struct {
	Key      string  `json:"key"`
	Total    int     `json:"total_publications"`
	Previous int     `json:"previous"`
	Current  int     `json:"current"`
	Impact   float64 `json:"impact_score"`
}

// TopUnits ranks the groups of dim by total publications over both years
func TopUnits(records []domain.CanonicalRecord, dim Dimension, n int, order taxonomy.Ordering) []UnitTotal {
	byKey := make(map[string]*UnitTotal)
	for _, r := range records {
		k := dim.Value(r)
		u, ok := byKey[k]
		if !ok {
			u = &UnitTotal{Key: k}
			byKey[k] = u
		}
		u.Total += r.TotalPublications
		u.Impact += r.ImpactScore
		switch r.Year {
		case domain.YearPrevious:
			u.Previous += r.TotalPublications
		case domain.YearCurrent:
			u.Current += r.TotalPublications
		}
	}
	items := make([]Ranked, 0, len(byKey))
	for k, u := range byKey {
		items = append(items, Ranked{Key: k, Value: float64(u.Total)})
	}
	top := TopN(items, n, order)
	out := make([]UnitTotal, 0, len(top))
	for _, t := range top {
		out = append(out, *byKey[t.Key])
	}
	return out
}

// ResearcherTotal is one researcher's publications summed over both years
type ResearcherTotal struct {
	Name              string  `json:"name"`
	Faculty           string  `json:"faculty"`
	Department        string  `json:"department"`
	TotalPublications int     `json:"total_publications"`
	ImpactScore       float64 `json:"impact_score"`
}

// TopResearchers ranks researchers grouped by (name, faculty, department).
// Ties are broken by name, then faculty, then department.
func TopResearchers(records []domain.CanonicalRecord, n int) []ResearcherTotal {
	type key struct{ name, faculty, department string }
	byKey := make(map[key]*ResearcherTotal)
	for _, r := range records {
		k := key{r.Name, r.Faculty, r.Department}
		t, ok := byKey[k]
		if !ok {
			t = &ResearcherTotal{Name: r.Name, Faculty: r.Faculty, Department: r.Department}
			byKey[k] = t
		}
		t.TotalPublications += r.TotalPublications
		t.ImpactScore += r.ImpactScore
	}
	out := make([]ResearcherTotal, 0, len(byKey))
	for _, t := range byKey {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.TotalPublications != b.TotalPublications:
			return a.TotalPublications > b.TotalPublications
		case a.Name != b.Name:
			return a.Name < b.Name
		case a.Faculty != b.Faculty:
			return a.Faculty < b.Faculty
		default:
			return a.Department < b.Department
		}
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
