package stats

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeremDpdo/research-publication-dashboard/internal/taxonomy"
	"github.com/KeremDpdo/research-publication-dashboard/pkg/contracts/domain"
)

func newEngine() *Engine {
	return NewEngine(taxonomy.NewNormalizer(nil))
}

func TestSummarize(t *testing.T) {
	s := Summarize(twoResearchers())

	assert.Equal(t, 4, s.Records)
	assert.Equal(t, 7, s.TotalPublications)
	assert.Equal(t, 3, s.PreviousPublications)
	assert.Equal(t, 4, s.CurrentPublications)
	assert.InDelta(t, 100.0/3, s.PercentChange, 1e-9)
	assert.Equal(t, 2, s.ActiveResearchers)
	assert.Equal(t, 1, s.HighImpactResearchers)
	assert.InDelta(t, 23.5/4, s.MeanImpactScore, 1e-12)

	// only engineering in the current year has more than one quartile
	wantDiversity := -(0.75*math.Log(0.75) + 0.25*math.Log(0.25)) / 4
	assert.InDelta(t, wantDiversity, s.MeanDiversity, 1e-12)

	assert.Equal(t, domain.PubQ1.Column(), s.DominantType)
	assert.Equal(t, 5, s.DominantTypeCount)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, Summary{}, s)
}

func kinds(takeaways []Takeaway) []TakeawayKind {
	out := make([]TakeawayKind, len(takeaways))
	for i, tk := range takeaways {
		out[i] = tk.Kind
	}
	return out
}

func TestTakeaways(t *testing.T) {
	order := taxonomy.NewOrdering(taxonomy.Faculties, []string{engineering, artsScience})

	t.Run("growth with declining faculty", func(t *testing.T) {
		records := twoResearchers()
		got := Takeaways(records, Summarize(records), DefaultThresholds(), order)

		assert.Equal(t, []TakeawayKind{TakeawayGrowth, TakeawayDominantType, TakeawayDecliningFaculties}, kinds(got))
		assert.Contains(t, got[0].Message, "%33.3 artış")
		assert.Contains(t, got[1].Message, "Q1 Makaleleri (5 adet)")
		assert.Equal(t, []string{artsScience}, got[2].Units)
	})

	t.Run("decline and high impact focus", func(t *testing.T) {
		records := []domain.CanonicalRecord{
			record("A", engineering, computerEng, domain.TitleOther, domain.YearPrevious, domain.Counts{Q1: 4}),
			record("A", engineering, computerEng, domain.TitleOther, domain.YearCurrent, domain.Counts{Q2: 2}),
		}
		got := Takeaways(records, Summarize(records), DefaultThresholds(), order)

		assert.Equal(t, []TakeawayKind{TakeawayDecline, TakeawayDominantType, TakeawayHighImpactFocus, TakeawayDecliningFaculties}, kinds(got))
		assert.Equal(t, -50.0, got[0].Value)
		assert.Equal(t, 1.0, got[2].Value)
		assert.Equal(t, []string{engineering}, got[3].Units)
	})

	t.Run("empty dataset", func(t *testing.T) {
		got := Takeaways(nil, Summarize(nil), DefaultThresholds(), taxonomy.Ordering{})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("custom thresholds", func(t *testing.T) {
		records := twoResearchers()
		th := Thresholds{TrendPercent: 50, HighImpactFocus: 0.4, DecliningRatio: 0}
		got := Takeaways(records, Summarize(records), th, order)
		assert.Equal(t, []TakeawayKind{TakeawayDominantType, TakeawayHighImpactFocus}, kinds(got))
	})
}

func TestSelect(t *testing.T) {
	records := append(twoResearchers(),
		record("C", economics, domain.UnknownValue, domain.TitleLecturer, domain.YearCurrent, domain.Counts{Q3: 1}),
		record("D", engineering, environmental, domain.TitleProfessor, domain.YearCurrent, domain.Counts{Q4: 1}),
	)
	engine := newEngine()

	names := func(rs []domain.CanonicalRecord) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = r.Name + "/" + string(r.Year)
		}
		return out
	}

	tests := []struct {
		name string
		sel  Selector
		want []string
	}{
		{
			name: "include faculty ignoring case",
			sel:  Selector{IncludeFaculties: []string{"mühendislik fakültesi"}},
			want: []string{"A/2023", "A/2024", "D/2024"},
		},
		{
			name: "turkish dotted capital",
			sel:  Selector{IncludeFaculties: []string{"İKTİSADİ VE İDARİ BİLİMLER FAKÜLTESİ"}},
			want: []string{"C/2024"},
		},
		{
			name: "exclude title",
			sel:  Selector{ExcludeTitles: []string{"Prof. Dr."}},
			want: []string{"B/2023", "B/2024", "C/2024"},
		},
		{
			name: "include and exclude across dimensions",
			sel: Selector{
				IncludeFaculties:   []string{engineering},
				ExcludeDepartments: []string{computerEng},
			},
			want: []string{"D/2024"},
		},
		{
			name: "unknown department",
			sel:  Selector{IncludeDepartments: []string{domain.UnknownValue}},
			want: []string{"C/2024"},
		},
		{
			name: "include several titles",
			sel:  Selector{IncludeTitles: []string{"Doç. Dr.", "Öğr. Gör."}},
			want: []string{"B/2023", "B/2024", "C/2024"},
		},
		{
			name: "nothing matches",
			sel:  Selector{IncludeFaculties: []string{"Hukuk Fakültesi"}},
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(engine.Select(records, tt.sel)))
		})
	}
}

func TestSelectEmptyReturnsCopy(t *testing.T) {
	records := twoResearchers()
	engine := newEngine()

	got := engine.Select(records, Selector{})
	require.Len(t, got, len(records))
	got[0].Name = "changed"
	assert.Equal(t, "A", records[0].Name)
	assert.True(t, Selector{}.Empty())
	assert.False(t, Selector{ExcludeTitles: []string{"Diğer"}}.Empty())
}

func TestFilterOptions(t *testing.T) {
	records := []domain.CanonicalRecord{
		record("A", engineering, philosophy, domain.TitleProfessor, domain.YearPrevious, domain.Counts{}),
		record("B", economics, environmental, domain.TitleAssociateProfessor, domain.YearPrevious, domain.Counts{}),
		record("C", "Hukuk Fakültesi", computerEng, domain.TitleOther, domain.YearCurrent, domain.Counts{}),
		record("D", artsScience, domain.UnknownValue, domain.TitleAssistantProfessor, domain.YearCurrent, domain.Counts{}),
		record("E", domain.UnknownValue, computerEng, domain.TitleProfessor, domain.YearCurrent, domain.Counts{}),
	}

	got := newEngine().FilterOptions(records)
	want := FilterOptions{
		Faculties: []string{
			domain.UnknownValue,
			artsScience,
			"Hukuk Fakültesi",
			economics,
			engineering,
		},
		Departments: []string{
			computerEng,
			domain.UnknownValue,
			environmental,
			philosophy,
		},
		Titles: []string{"Diğer", "Doç. Dr.", "Dr. Öğr. Üyesi", "Prof. Dr."},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FilterOptions mismatch (-want +got):\n%s", diff)
	}
}

func TestReport(t *testing.T) {
	records := twoResearchers()
	before := append([]domain.CanonicalRecord(nil), records...)

	r := newEngine().Report(records, ReportOptions{})
	if diff := cmp.Diff(before, records); diff != "" {
		t.Fatalf("Report modified its input (-before +after):\n%s", diff)
	}

	assert.Equal(t, 5, r.TopN)
	assert.Equal(t, Summarize(records), r.Summary)
	assert.Equal(t, []YearCounts{
		{Year: domain.YearPrevious, Counts: domain.Counts{ESCI: 1, Q1: 2}, TotalPublications: 3},
		{Year: domain.YearCurrent, Counts: domain.Counts{Q1: 3, Q2: 1}, TotalPublications: 4},
	}, r.TypeDistribution)

	require.Len(t, r.TopTypes, 2)
	assert.Equal(t, []Ranked{
		{domain.PubQ1.Column(), 2},
		{domain.PubESCI.Column(), 1},
		{domain.PubScopus.Column(), 0},
		{domain.PubQ2.Column(), 0},
		{domain.PubQ3.Column(), 0},
	}, r.TopTypes[0].Types)

	assert.Equal(t, []BandTotal{
		{Band: "Dr. Öğr. Üyesi", Year: domain.YearPrevious},
		{Band: "Dr. Öğr. Üyesi", Year: domain.YearCurrent},
		{Band: "Doç. Dr.", Year: domain.YearPrevious, TotalPublications: 1},
		{Band: "Doç. Dr.", Year: domain.YearCurrent},
		{Band: "Prof. Dr.", Year: domain.YearPrevious, TotalPublications: 2},
		{Band: "Prof. Dr.", Year: domain.YearCurrent, TotalPublications: 4},
		{Band: taxonomy.OtherTitlesBand, Year: domain.YearPrevious},
		{Band: taxonomy.OtherTitlesBand, Year: domain.YearCurrent},
	}, r.TitleBands)

	require.Len(t, r.TopResearchers, 2)
	assert.Equal(t, "A", r.TopResearchers[0].Name)
	assert.Equal(t, 6, r.TopResearchers[0].TotalPublications)

	assert.Equal(t, DimensionFaculty, r.Faculty.Dimension)
	assert.Equal(t, []string{artsScience, engineering}, r.Faculty.Order)
	assert.Len(t, r.Faculty.Groups, 4)
	assert.Len(t, r.Faculty.Changes, 2)
	assert.Len(t, r.Faculty.TypeChanges, 2)
	assert.Equal(t, NewChange(engineering, 8, 15), r.Faculty.ImpactChanges[1])
	assert.Equal(t, []string{computerEng, philosophy}, r.Department.Order)
	assert.Equal(t, []TakeawayKind{TakeawayGrowth, TakeawayDominantType, TakeawayDecliningFaculties}, kinds(r.Takeaways))
}

func TestReportWithSelector(t *testing.T) {
	records := twoResearchers()
	engine := newEngine()
	order := taxonomy.NewOrdering(taxonomy.Faculties, []string{engineering, artsScience})

	r := engine.Report(records, ReportOptions{
		Selector:     Selector{IncludeFaculties: []string{engineering}},
		TopN:         1,
		FacultyOrder: order,
	})

	assert.Equal(t, 1, r.TopN)
	assert.Equal(t, 2, r.Summary.Records)
	assert.Equal(t, []string{engineering}, r.Faculty.Order)
	assert.Len(t, r.Faculty.Top, 1)
	assert.Len(t, r.TopTypes[1].Types, 1)
	assert.Equal(t, []string{engineering}, r.Selector.IncludeFaculties)
}

func TestEngineSummaryAndThresholds(t *testing.T) {
	records := twoResearchers()
	engine := newEngine()

	s, takeaways := engine.Summary(records, taxonomy.Ordering{})
	assert.Equal(t, Summarize(records), s)
	assert.Len(t, takeaways, 3)

	strict := engine.WithThresholds(Thresholds{TrendPercent: 90, HighImpactFocus: 1, DecliningRatio: 0})
	_, takeaways = strict.Summary(records, taxonomy.Ordering{})
	assert.Equal(t, []TakeawayKind{TakeawayDominantType}, kinds(takeaways))

	// the original engine keeps its thresholds
	_, takeaways = engine.Summary(records, taxonomy.Ordering{})
	assert.Len(t, takeaways, 3)
}
