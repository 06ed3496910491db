package stats

import (
	"fmt"
	"strings"

	"github.com/KeremDpdo/research-publication-dashboard/internal/config"
	"github.com/KeremDpdo/research-publication-dashboard/internal/taxonomy"
	"github.com/KeremDpdo/research-publication-dashboard/pkg/contracts/domain"
)

// Summary holds the headline figures of a dataset
type Summary struct {
	Records               int     `json:"records"`
	TotalPublications     int     `json:"total_publications"`
	PreviousPublications  int     `json:"previous_publications"`
	CurrentPublications   int     `json:"current_publications"`
	PercentChange         float64 `json:"percent_change"`
	ActiveResearchers     int     `json:"active_researchers"`
	HighImpactResearchers int     `json:"high_impact_researchers"`
	MeanImpactScore       float64 `json:"mean_impact_score"`
	// MeanDiversity averages the quartile diversity over (faculty, year) groups
	MeanDiversity     float64 `json:"mean_diversity_index"`
	DominantType      string  `json:"dominant_type,omitempty"`
	DominantTypeCount int     `json:"dominant_type_count"`
}

// Summarize computes the summary of records
func Summarize(records []domain.CanonicalRecord) Summary {
	prev, cur := YearTotals(records)
	s := Summary{
		Records:               len(records),
		TotalPublications:     prev + cur,
		PreviousPublications:  prev,
		CurrentPublications:   cur,
		PercentChange:         PercentChange(float64(prev), float64(cur)),
		ActiveResearchers:     ActiveResearchers(records),
		HighImpactResearchers: HighImpactResearchers(records),
		MeanImpactScore:       MeanImpact(records),
		MeanDiversity:         MeanDiversity(records, DimensionFaculty),
	}
	if top := TopTypes(records, 1); len(top) == 1 && top[0].Value > 0 {
		s.DominantType = top[0].Key
		s.DominantTypeCount = int(top[0].Value)
	}
	return s
}

// Thresholds tune which key takeaways are reported
type Thresholds struct {
	// TrendPercent is the overall change, in percent, beyond which growth or
	// decline is reported
	TrendPercent float64 `json:"trend_percent"`
	// HighImpactFocus is the high-impact share of active researchers above
	// which a quality focus is reported
	HighImpactFocus float64 `json:"high_impact_focus"`
	// DecliningRatio flags faculties whose current total is below this share
	// of the previous total
	DecliningRatio float64 `json:"declining_ratio"`
}

// DefaultThresholds returns the standard takeaway thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{
		TrendPercent:    config.TrendThresholdPercent,
		HighImpactFocus: config.HighImpactFocusRatio,
		DecliningRatio:  config.DecliningFacultyRatio,
	}
}

// TakeawayKind identifies a key takeaway
type TakeawayKind string

const (
	TakeawayGrowth             TakeawayKind = "growth"
	TakeawayDecline            TakeawayKind = "decline"
	TakeawayDominantType       TakeawayKind = "dominant_type"
	TakeawayHighImpactFocus    TakeawayKind = "high_impact_focus"
	TakeawayDecliningFaculties TakeawayKind = "declining_faculties"
)

// Takeaway is one finding derived from the summary
type Takeaway struct {
	Kind    TakeawayKind `json:"kind"`
	Message string       `json:"message"`
	Value   float64      `json:"value,omitempty"`
	Units   []string     `json:"units,omitempty"`
}

// Takeaways derives the key findings of records. facultyOrder orders the
// declining faculties list.
func Takeaways(records []domain.CanonicalRecord, s Summary, th Thresholds, facultyOrder taxonomy.Ordering) []Takeaway {
	out := []Takeaway{}

	switch {
	case s.PercentChange > th.TrendPercent:
		out = append(out, Takeaway{
			Kind:    TakeawayGrowth,
			Message: fmt.Sprintf("Büyüme Trendi: %s'ten %s'e yayın sayısında %%%.1f artış", domain.YearPrevious, domain.YearCurrent, s.PercentChange),
			Value:   s.PercentChange,
		})
	case s.PercentChange < -th.TrendPercent:
		out = append(out, Takeaway{
			Kind:    TakeawayDecline,
			Message: fmt.Sprintf("Düşüş Trendi: %s'ten %s'e yayın sayısında %%%.1f azalma", domain.YearPrevious, domain.YearCurrent, s.PercentChange),
			Value:   s.PercentChange,
		})
	}

	if s.DominantType != "" {
		var p domain.PublicationType
		label := s.DominantType
		if err := p.UnmarshalText([]byte(s.DominantType)); err == nil {
			label = p.Label()
		}
		out = append(out, Takeaway{
			Kind:    TakeawayDominantType,
			Message: fmt.Sprintf("Dominant Yayın Türü: %s (%d adet)", label, s.DominantTypeCount),
			Value:   float64(s.DominantTypeCount),
		})
	}

	if share := ratio(s.HighImpactResearchers, s.ActiveResearchers); share > th.HighImpactFocus {
		out = append(out, Takeaway{
			Kind:    TakeawayHighImpactFocus,
			Message: fmt.Sprintf("Yüksek Etki Odağı: Aktif araştırmacıların %%%.1f'i Q1 veya Q2 makale üretiyor", share*100),
			Value:   share,
		})
	}

	if declining := DecliningUnits(records, DimensionFaculty, th.DecliningRatio, facultyOrder); len(declining) > 0 {
		out = append(out, Takeaway{
			Kind:    TakeawayDecliningFaculties,
			Message: fmt.Sprintf("Düşüş Gösteren Fakülteler: %s %s'te yayın sayısında önemli düşüş yaşadı", strings.Join(declining, ", "), domain.YearCurrent),
			Units:   declining,
		})
	}
	return out
}

// DecliningUnits lists the groups of dim whose current total is below
// ratio times their previous total
func DecliningUnits(records []domain.CanonicalRecord, dim Dimension, ratio float64, order taxonomy.Ordering) []string {
	var out []string
	for _, c := range ChangeBy(records, dim, order) {
		if c.Current < c.Previous*ratio {
			out = append(out, c.Key)
		}
	}
	return out
}
