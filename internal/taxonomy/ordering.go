package taxonomy

import (
	"encoding/json"
	"sort"

	"github.com/KeremDpdo/research-publication-dashboard/pkg/contracts/domain"
)

// Ordering is a stable display order over the values of one categorical field
type Ordering struct {
	values []string
	rank   map[string]int
}

// NewOrdering orders the values present in data: canonical values follow the
// vocabulary's sorted keys, unmapped values come next alphabetically, and the
// unknown sentinel is always last.
func NewOrdering(vocab *Vocabulary, present []string) Ordering {
	seen := make(map[string]struct{}, len(present))
	for _, v := range present {
		seen[v] = struct{}{}
	}

	values := make([]string, 0, len(seen))
	placed := make(map[string]struct{}, len(seen))
	for _, key := range vocab.SortedKeys() {
		val, _ := vocab.Lookup(key)
		if val == domain.UnknownValue {
			continue
		}
		if _, ok := seen[val]; !ok {
			continue
		}
		if _, dup := placed[val]; dup {
			continue
		}
		placed[val] = struct{}{}
		values = append(values, val)
	}

	var extra []string
	for v := range seen {
		if _, ok := placed[v]; ok || v == domain.UnknownValue {
			continue
		}
		extra = append(extra, v)
	}
	sort.Strings(extra)
	values = append(values, extra...)

	if _, ok := seen[domain.UnknownValue]; ok {
		values = append(values, domain.UnknownValue)
	}
	return OrderingOf(values)
}

// OrderingOf orders values exactly as given
func OrderingOf(values []string) Ordering {
	rank := make(map[string]int, len(values))
	for i, v := range values {
		rank[v] = i
	}
	return Ordering{values: values, rank: rank}
}

// TitleOrdering is the fixed seniority order over title labels
func TitleOrdering() Ordering {
	values := make([]string, len(domain.Titles))
	for i, t := range domain.Titles {
		values[i] = t.String()
	}
	return OrderingOf(values)
}

// Values returns the ordered values
func (o Ordering) Values() []string {
	out := make([]string, len(o.values))
	copy(out, o.values)
	return out
}

// Len returns the number of ordered values
func (o Ordering) Len() int {
	return len(o.values)
}

// Rank returns the position of v; values outside the ordering rank last
func (o Ordering) Rank(v string) int {
	if r, ok := o.rank[v]; ok {
		return r
	}
	return len(o.values)
}

// Less orders a before b, falling back to code point order for values
// outside the ordering
func (o Ordering) Less(a, b string) bool {
	ra, rb := o.Rank(a), o.Rank(b)
	if ra != rb {
		return ra < rb
	}
	return a < b
}

// Sort orders values in place
func (o Ordering) Sort(values []string) {
	sort.SliceStable(values, func(i, j int) bool { return o.Less(values[i], values[j]) })
}

// MarshalJSON encodes the ordering as its value list
func (o Ordering) MarshalJSON() ([]byte, error) {
	if o.values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(o.values)
}
