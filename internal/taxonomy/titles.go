package taxonomy

import (
	"strings"

	"github.com/KeremDpdo/research-publication-dashboard/pkg/contracts/domain"
)

type titlePattern struct {
	needle string
	title  domain.Title
}

// titlePatterns is scanned in order; the first substring found in a name wins.
// Forms containing a shorter pattern come before it: "Asst. Prof." and
// "Prof. Dr." precede "Prof.".
var titlePatterns = []titlePattern{
	{"Asst. Prof.", domain.TitleAssistantProfessor},
	{"Assoc. Prof.", domain.TitleAssociateProfessor},
	{"Prof. Dr.", domain.TitleProfessor},
	{"Prof.", domain.TitleProfessor},
	{"Doç. Dr.", domain.TitleAssociateProfessor},
	{"Dr. Öğr. Üyesi", domain.TitleAssistantProfessor},
	{"Öğr. Gör.", domain.TitleLecturer},
	{"Arş. Gör.", domain.TitleResearchAssistant},
	{"Lect. PhD", domain.TitleLecturer},
	{"Res. Asst.", domain.TitleResearchAssistant},
	{"Araştırma Görevlisi", domain.TitleResearchAssistant},
	{"Öğretim Görevlisi", domain.TitleLecturer},
	{"Araştırmacı", domain.TitleOther},
	{"İdari Personel", domain.TitleOther},
}

// InferTitle derives a title bucket from a researcher's name string
func InferTitle(name string) domain.Title {
	name = Clean(name)
	for _, p := range titlePatterns {
		if strings.Contains(name, p.needle) {
			return p.title
		}
	}
	return domain.TitleOther
}

// ResolveTitle maps a value from an explicit title column. Blank and
// unrecognized values fall into TitleOther.
func ResolveTitle(raw string) domain.Title {
	t, _ := domain.ParseTitle(Clean(raw))
	return t
}

// SeniorTitleBand collapses titles into the report's band, keeping the three
// faculty-member titles and grouping the rest
func SeniorTitleBand(t domain.Title) string {
	switch t {
	case domain.TitleAssistantProfessor, domain.TitleAssociateProfessor, domain.TitleProfessor:
		return t.String()
	default:
		return OtherTitlesBand
	}
}

// OtherTitlesBand is the band label for non-faculty-member titles
const OtherTitlesBand = "Diğer Ünvanlar"

// TitleBands lists the report bands in display order
var TitleBands = []string{
	domain.TitleAssistantProfessor.String(),
	domain.TitleAssociateProfessor.String(),
	domain.TitleProfessor.String(),
	OtherTitlesBand,
}
