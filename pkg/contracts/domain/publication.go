package domain

import "fmt"

// Year identifies which of the two compared reporting years a record belongs to
type Year string

const (
	YearPrevious Year = "2023"
	YearCurrent  Year = "2024"
)

// Years lists both reporting years in chronological order
var Years = []Year{YearPrevious, YearCurrent}

// Valid reports whether y is one of the two reporting years
func (y Year) Valid() bool {
	return y == YearPrevious || y == YearCurrent
}

// UnknownValue is the sentinel used for missing names, faculties and departments
const UnknownValue = "Bilinmeyen"

// Canonical column names used after schema unification
const (
	ColumnTitle      = "Title"
	ColumnName       = "Name"
	ColumnFaculty    = "Faculty"
	ColumnDepartment = "Department"
	ColumnYear       = "Year"
	ColumnTotal      = "Total Publications"
	ColumnImpact     = "Impact Score"
)

// PublicationType is one of the seven per-researcher count categories
type PublicationType int

const (
	PubESCI PublicationType = iota
	PubScopus
	PubQ1
	PubQ2
	PubQ3
	PubQ4
	PubNonQuartile
)

// PublicationTypes lists every publication type in column order
var PublicationTypes = []PublicationType{
	PubESCI, PubScopus, PubQ1, PubQ2, PubQ3, PubQ4, PubNonQuartile,
}

// Quartiles lists the four WoS quartile types
var Quartiles = []PublicationType{PubQ1, PubQ2, PubQ3, PubQ4}

type publicationTypeInfo struct {
	column string
	source string
	label  string
}

var publicationTypeTable = [...]publicationTypeInfo{
	PubESCI:        {"ESCI Articles", "WoS ESCI İndeksinde Taranan Makale", "ESCI Makaleleri"},
	PubScopus:      {"Scopus Articles", "Scopus Makale (WoS SCIE, AHCI, SSCI, ESCI Taranmayan)", "Scopus Makaleleri"},
	PubQ1:          {"Q1 Articles", "WoS Q1 Makale Sayısı", "Q1 Makaleleri"},
	PubQ2:          {"Q2 Articles", "WoS Q2 Makale Sayısı", "Q2 Makaleleri"},
	PubQ3:          {"Q3 Articles", "WoS Q3 Makale Sayısı", "Q3 Makaleleri"},
	PubQ4:          {"Q4 Articles", "WoS Q4 Makale Sayısı", "Q4 Makaleleri"},
	PubNonQuartile: {"Non-Quartile Articles", "WoS Quartile Bulunmayan Makale Sayısı", "Çeyreklik Olmayan Makaleler"},
}

// Column returns the canonical column name
func (p PublicationType) Column() string {
	if int(p) < 0 || int(p) >= len(publicationTypeTable) {
		return fmt.Sprintf("PublicationType(%d)", int(p))
	}
	return publicationTypeTable[p].column
}

// SourceHeader returns the header used in the yearly spreadsheets
func (p PublicationType) SourceHeader() string {
	if int(p) < 0 || int(p) >= len(publicationTypeTable) {
		return ""
	}
	return publicationTypeTable[p].source
}

// Label returns the Turkish display label
func (p PublicationType) Label() string {
	if int(p) < 0 || int(p) >= len(publicationTypeTable) {
		return p.Column()
	}
	return publicationTypeTable[p].label
}

func (p PublicationType) String() string {
	return p.Column()
}

// MarshalText encodes the type by its canonical column name
func (p PublicationType) MarshalText() ([]byte, error) {
	return []byte(p.Column()), nil
}

// UnmarshalText accepts the canonical column name or the display label
func (p *PublicationType) UnmarshalText(text []byte) error {
	s := string(text)
	for _, t := range PublicationTypes {
		if t.Column() == s || t.Label() == s {
			*p = t
			return nil
		}
	}
	return fmt.Errorf("unknown publication type %q", s)
}

// Counts holds the seven publication counts of a researcher-year
type Counts struct {
	ESCI        int `json:"esci_articles"`
	Scopus      int `json:"scopus_articles"`
	Q1          int `json:"q1_articles"`
	Q2          int `json:"q2_articles"`
	Q3          int `json:"q3_articles"`
	Q4          int `json:"q4_articles"`
	NonQuartile int `json:"non_quartile_articles"`
}

// Get returns the count for a publication type
func (c Counts) Get(p PublicationType) int {
	switch p {
	case PubESCI:
		return c.ESCI
	case PubScopus:
		return c.Scopus
	case PubQ1:
		return c.Q1
	case PubQ2:
		return c.Q2
	case PubQ3:
		return c.Q3
	case PubQ4:
		return c.Q4
	case PubNonQuartile:
		return c.NonQuartile
	}
	return 0
}

// Set assigns the count for a publication type
func (c *Counts) Set(p PublicationType, v int) {
	switch p {
	case PubESCI:
		c.ESCI = v
	case PubScopus:
		c.Scopus = v
	case PubQ1:
		c.Q1 = v
	case PubQ2:
		c.Q2 = v
	case PubQ3:
		c.Q3 = v
	case PubQ4:
		c.Q4 = v
	case PubNonQuartile:
		c.NonQuartile = v
	}
}

// Add returns the field-wise sum of c and o
func (c Counts) Add(o Counts) Counts {
	return Counts{
		ESCI:        c.ESCI + o.ESCI,
		Scopus:      c.Scopus + o.Scopus,
		Q1:          c.Q1 + o.Q1,
		Q2:          c.Q2 + o.Q2,
		Q3:          c.Q3 + o.Q3,
		Q4:          c.Q4 + o.Q4,
		NonQuartile: c.NonQuartile + o.NonQuartile,
	}
}

// Total is the sum of all seven counts
func (c Counts) Total() int {
	return c.ESCI + c.Scopus + c.Q1 + c.Q2 + c.Q3 + c.Q4 + c.NonQuartile
}

// Impact is the quartile-weighted impact score.
// Q1..Q4 weigh 4,3,2,1; unranked types (ESCI, Scopus, non-quartile) weigh 0.5.
func (c Counts) Impact() float64 {
	return float64(4*c.Q1+3*c.Q2+2*c.Q3+c.Q4) + 0.5*float64(c.ESCI+c.Scopus+c.NonQuartile)
}

// HighImpact reports whether any Q1 or Q2 article is counted
func (c Counts) HighImpact() bool {
	return c.Q1+c.Q2 > 0
}
