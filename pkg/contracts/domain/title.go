package domain

import (
	"encoding/json"
	"fmt"
)

// Title is an academic title bucket. The zero value is TitleOther.
// Declaration order is seniority order, with TitleOther last.
type Title int

const (
	TitleOther Title = iota
	TitleResearchAssistant
	TitleLecturer
	TitleAssistantProfessor
	TitleAssociateProfessor
	TitleProfessor
)

// Titles lists every title in display order
var Titles = []Title{
	TitleResearchAssistant,
	TitleLecturer,
	TitleAssistantProfessor,
	TitleAssociateProfessor,
	TitleProfessor,
	TitleOther,
}

var titleLabels = map[Title]string{
	TitleResearchAssistant:  "Arş. Gör.",
	TitleLecturer:           "Öğr. Gör.",
	TitleAssistantProfessor: "Dr. Öğr. Üyesi",
	TitleAssociateProfessor: "Doç. Dr.",
	TitleProfessor:          "Prof. Dr.",
	TitleOther:              "Diğer",
}

// String returns the Turkish canonical label
func (t Title) String() string {
	if s, ok := titleLabels[t]; ok {
		return s
	}
	return fmt.Sprintf("Title(%d)", int(t))
}

// Rank is the display position of t; lower ranks sort first
func (t Title) Rank() int {
	if t == TitleOther {
		return len(Titles) - 1
	}
	return int(t) - 1
}

// ParseTitle returns the title for a canonical label
func ParseTitle(s string) (Title, bool) {
	for t, label := range titleLabels {
		if label == s {
			return t, true
		}
	}
	return TitleOther, false
}

// MarshalJSON encodes the title as its label
func (t Title) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a label; unknown labels become TitleOther
func (t *Title) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t, _ = ParseTitle(s)
	return nil
}
