package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"github.com/KeremDpdo/research-publication-dashboard/internal/shared/testutil"
	"github.com/KeremDpdo/research-publication-dashboard/pkg/contracts/domain"
)

func TestBuiltinVocabularies(t *testing.T) {
	assert.Equal(t, 14, Faculties.Len())
	assert.Equal(t, 56, Departments.Len())

	got, ok := Faculties.Lookup("  Mühendislik Fakültesi ")
	assert.True(t, ok)
	assert.Equal(t, "Mühendislik Fakültesi", got)

	got, ok = Departments.Lookup("")
	assert.True(t, ok)
	assert.Equal(t, domain.UnknownValue, got)

	got, ok = Faculties.Lookup("Hukuk Fakültesi")
	assert.False(t, ok)
	assert.Equal(t, "Hukuk Fakültesi", got)
}

func TestVocabularyLookupNormalizesUnicode(t *testing.T) {
	decomposed := norm.NFD.String("Çevre Mühendisliği Bölümü")
	require.NotEqual(t, "Çevre Mühendisliği Bölümü", decomposed)

	got, ok := Departments.Lookup(decomposed)
	assert.True(t, ok)
	assert.Equal(t, "Çevre Mühendisliği Bölümü", got)
}

func TestVocabularyReverseLookup(t *testing.T) {
	v := NewVocabulary([]Entry{
		{Key: "Bilg. Müh.", Value: "Bilgisayar Mühendisliği Bölümü"},
		{Key: "Bilgisayar Mühendisliği Bölümü", Value: "Bilgisayar Mühendisliği Bölümü"},
		{Key: "Bilg. Müh.", Value: "ignored duplicate"},
		{Key: "", Value: domain.UnknownValue},
	})

	assert.Equal(t, 3, v.Len())
	assert.Equal(t, "Bilg. Müh.", v.KeyOf("Bilgisayar Mühendisliği Bölümü"))
	assert.Equal(t, "", v.KeyOf(domain.UnknownValue))
	assert.Equal(t, "Hukuk", v.KeyOf("Hukuk"))
	assert.True(t, v.IsCanonical("Bilgisayar Mühendisliği Bölümü"))
	assert.False(t, v.IsCanonical("ignored duplicate"))
	assert.Equal(t, []string{"Bilg. Müh.", "Bilgisayar Mühendisliği Bölümü"}, v.SortedKeys())
}

func TestInferTitle(t *testing.T) {
	tests := []struct {
		name string
		want domain.Title
	}{
		{"Prof. Dr. Ayşe Yılmaz", domain.TitleProfessor},
		{"Prof. Mehmet Kaya", domain.TitleProfessor},
		{"Doç. Dr. Ali Demir", domain.TitleAssociateProfessor},
		{"Dr. Öğr. Üyesi Zeynep Ak", domain.TitleAssistantProfessor},
		{"Öğr. Gör. Can Er", domain.TitleLecturer},
		{"Arş. Gör. Deniz Su", domain.TitleResearchAssistant},
		{"Asst. Prof. John Doe", domain.TitleAssistantProfessor},
		{"Assoc. Prof. Jane Roe", domain.TitleAssociateProfessor},
		{"Lect. PhD Emre Tan", domain.TitleLecturer},
		{"Res. Asst. Elif Gök", domain.TitleResearchAssistant},
		{"Araştırma Görevlisi Berk Ay", domain.TitleResearchAssistant},
		{"Öğretim Görevlisi Selin Kar", domain.TitleLecturer},
		{"Araştırmacı Umut Öz", domain.TitleOther},
		{"İdari Personel Nur Ece", domain.TitleOther},
		{"Ayşe Yılmaz, Prof. Dr.", domain.TitleProfessor},
		{"Mehmet Demir, Araştırma Görevlisi", domain.TitleResearchAssistant},
		{"Ayşe Yılmaz", domain.TitleOther},
		{"", domain.TitleOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferTitle(tt.name))
		})
	}
}

func TestResolveTitle(t *testing.T) {
	assert.Equal(t, domain.TitleProfessor, ResolveTitle(" Prof. Dr. "))
	assert.Equal(t, domain.TitleOther, ResolveTitle(""))
	assert.Equal(t, domain.TitleOther, ResolveTitle("Uzman"))
}

func TestSeniorTitleBand(t *testing.T) {
	assert.Equal(t, "Prof. Dr.", SeniorTitleBand(domain.TitleProfessor))
	assert.Equal(t, "Dr. Öğr. Üyesi", SeniorTitleBand(domain.TitleAssistantProfessor))
	assert.Equal(t, OtherTitlesBand, SeniorTitleBand(domain.TitleResearchAssistant))
	assert.Equal(t, OtherTitlesBand, SeniorTitleBand(domain.TitleOther))
}

func TestNewOrdering(t *testing.T) {
	present := []string{
		domain.UnknownValue,
		"Zooloji Fakültesi",
		"Mühendislik Fakültesi",
		"Eğitim Fakültesi",
		"Hukuk Fakültesi",
		"Mühendislik Fakültesi",
	}

	o := NewOrdering(Faculties, present)
	assert.Equal(t, []string{
		"Eğitim Fakültesi",
		"Mühendislik Fakültesi",
		"Hukuk Fakültesi",
		"Zooloji Fakültesi",
		domain.UnknownValue,
	}, o.Values())

	assert.True(t, o.Less("Mühendislik Fakültesi", "Hukuk Fakültesi"))
	assert.Equal(t, 5, o.Rank("Tıp Fakültesi"))

	values := []string{domain.UnknownValue, "Hukuk Fakültesi", "Eğitim Fakültesi"}
	o.Sort(values)
	assert.Equal(t, []string{"Eğitim Fakültesi", "Hukuk Fakültesi", domain.UnknownValue}, values)
}

func TestTitleOrdering(t *testing.T) {
	assert.Equal(t, []string{
		"Arş. Gör.", "Öğr. Gör.", "Dr. Öğr. Üyesi", "Doç. Dr.", "Prof. Dr.", "Diğer",
	}, TitleOrdering().Values())
}

func TestNormalize(t *testing.T) {
	capture, logger := testutil.NewLogCapture(t)
	n := NewNormalizer(logger)

	raw := []domain.RawRecord{
		{Name: "Prof. Dr. Ayşe", Faculty: "Mühendislik Fakültesi", Department: "Fizik Bölümü", Year: domain.YearPrevious, Counts: domain.Counts{Q1: 1}},
		{Name: " ", Faculty: "Hukuk Fakültesi", Department: "", Year: domain.YearPrevious},
		{Name: "Doç. Dr. Ali", Faculty: "Hukuk Fakültesi", Department: "Ceza Hukuku", Year: domain.YearCurrent},
		{Name: "Can", Faculty: "Tıp Fakültesi", Department: "Ceza Hukuku", Year: domain.YearCurrent},
	}

	t.Run("infers titles without a title column", func(t *testing.T) {
		got := n.Normalize(raw, false)
		require.Len(t, got.Records, 4)
		assert.True(t, got.TitleInferred)

		assert.Equal(t, domain.TitleProfessor, got.Records[0].Title)
		assert.Equal(t, domain.UnknownValue, got.Records[1].Name)
		assert.Equal(t, domain.UnknownValue, got.Records[1].Department)
		assert.Equal(t, domain.TitleAssociateProfessor, got.Records[2].Title)
		assert.Equal(t, domain.TitleOther, got.Records[3].Title)
		assert.Equal(t, domain.Counts{Q1: 1}, got.Records[0].Counts)

		assert.Equal(t, []string{"Hukuk Fakültesi", "Tıp Fakültesi"}, got.Unmapped.Faculties)
		assert.Equal(t, []string{"Ceza Hukuku"}, got.Unmapped.Departments)
		assert.True(t, capture.Contains("unmapped taxonomy values"))
	})

	t.Run("blank title column falls back to inference", func(t *testing.T) {
		got := n.Normalize(raw, true)
		assert.True(t, got.TitleInferred)
		assert.Equal(t, domain.TitleProfessor, got.Records[0].Title)
	})

	t.Run("explicit titles are not inferred", func(t *testing.T) {
		withTitles := []domain.RawRecord{
			{Name: "Prof. Dr. Ayşe", Title: "", Faculty: "Eğitim Fakültesi"},
			{Name: "Ali", Title: "Doç. Dr.", Faculty: "Eğitim Fakültesi"},
		}
		got := n.Normalize(withTitles, true)
		assert.False(t, got.TitleInferred)
		assert.Equal(t, domain.TitleOther, got.Records[0].Title)
		assert.Equal(t, domain.TitleAssociateProfessor, got.Records[1].Title)
		assert.Empty(t, got.Unmapped.Faculties)
		assert.True(t, got.Unmapped.Empty())
	})

	t.Run("is idempotent over canonical values", func(t *testing.T) {
		first := n.Normalize(raw, false)
		again := make([]domain.RawRecord, len(first.Records))
		for i, r := range first.Records {
			again[i] = domain.RawRecord{Name: r.Name, Title: r.Title.String(), Faculty: r.Faculty, Department: r.Department, Counts: r.Counts, Year: r.Year}
		}
		second := n.Normalize(again, true)
		for i := range first.Records {
			assert.Equal(t, first.Records[i], second.Records[i])
		}
	})

	t.Run("orders present units", func(t *testing.T) {
		got := n.Normalize(raw, false)
		assert.Equal(t, []string{"Mühendislik Fakültesi", "Hukuk Fakültesi", "Tıp Fakültesi"}, n.FacultyOrdering(got.Records).Values())
		assert.Equal(t, []string{"Fizik Bölümü", "Ceza Hukuku", domain.UnknownValue}, n.DepartmentOrdering(got.Records).Values())
	})
}
