package taxonomy

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Entry is one raw-key to canonical-value pair of a Vocabulary
type Entry struct {
	Key   string
	Value string
}

// Vocabulary is an immutable ordered bidirectional mapping from raw
// spreadsheet values to canonical names. The reverse direction resolves a
// canonical value to the first key (in declaration order) that maps to it.
type Vocabulary struct {
	entries []Entry
	forward map[string]string
	reverse map[string]string
	values  map[string]struct{}
}

// NewVocabulary builds a vocabulary from entries in declaration order.
// A later entry with a duplicate key is ignored.
func NewVocabulary(entries []Entry) *Vocabulary {
	v := &Vocabulary{
		entries: make([]Entry, 0, len(entries)),
		forward: make(map[string]string, len(entries)),
		reverse: make(map[string]string, len(entries)),
		values:  make(map[string]struct{}, len(entries)),
	}
	for _, e := range entries {
		key := Clean(e.Key)
		if _, dup := v.forward[key]; dup {
			continue
		}
		v.entries = append(v.entries, Entry{Key: key, Value: e.Value})
		v.forward[key] = e.Value
		if _, seen := v.reverse[e.Value]; !seen {
			v.reverse[e.Value] = key
		}
		v.values[e.Value] = struct{}{}
	}
	return v
}

// identityVocabulary maps every name to itself and the empty key to the unknown sentinel
func identityVocabulary(names []string, unknown string) *Vocabulary {
	entries := make([]Entry, 0, len(names)+1)
	for _, n := range names {
		entries = append(entries, Entry{Key: n, Value: n})
	}
	if unknown != "" {
		entries = append(entries, Entry{Key: "", Value: unknown})
	}
	return NewVocabulary(entries)
}

// Lookup returns the canonical value for raw. The second result is false when
// raw is not a key, in which case the cleaned raw value is returned unchanged.
func (v *Vocabulary) Lookup(raw string) (string, bool) {
	key := Clean(raw)
	if val, ok := v.forward[key]; ok {
		return val, true
	}
	return key, false
}

// KeyOf returns the first key mapping to value, or value itself when no key does
func (v *Vocabulary) KeyOf(value string) string {
	if k, ok := v.reverse[value]; ok {
		return k
	}
	return value
}

// IsCanonical reports whether value is a target of the vocabulary
func (v *Vocabulary) IsCanonical(value string) bool {
	_, ok := v.values[value]
	return ok
}

// Len returns the number of entries
func (v *Vocabulary) Len() int {
	return len(v.entries)
}

// Entries returns a copy of the entries in declaration order
func (v *Vocabulary) Entries() []Entry {
	out := make([]Entry, len(v.entries))
	copy(out, v.entries)
	return out
}

// SortedKeys returns the non-empty keys sorted by code point
func (v *Vocabulary) SortedKeys() []string {
	keys := make([]string, 0, len(v.entries))
	for _, e := range v.entries {
		if e.Key != "" {
			keys = append(keys, e.Key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Clean trims surrounding whitespace and applies NFC normalization so that
// decomposed Turkish characters match the vocabulary keys.
func Clean(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
