package refdata

import (
	"sort"

	"github.com/tartampluch/go-badi/internal/config"
)

// HolyDay identifies a Badí holy day. The zero value is None.
type HolyDay int

const (
	None HolyDay = iota
	NawRuz
	Ridvan1st
	Ridvan9th
	Ridvan12th
	DeclarationOfTheBab
	AscensionOfBahaullah
	MartyrdomOfTheBab
	BirthOfTheBab
	BirthOfBahaullah
	// DayOfTheCovenant and AscensionOfAbdulBaha are commemorations rather
	// than holy days on which work is suspended.
	DayOfTheCovenant
	AscensionOfAbdulBaha
)

var holyDayNames = [...]string{
	None:                 "None",
	NawRuz:               "Naw-Rúz",
	Ridvan1st:            "First Day of Riḍván",
	Ridvan9th:            "Ninth Day of Riḍván",
	Ridvan12th:           "Twelfth Day of Riḍván",
	DeclarationOfTheBab:  "Declaration of the Báb",
	AscensionOfBahaullah: "Ascension of Baháʼuʼlláh",
	MartyrdomOfTheBab:    "Martyrdom of the Báb",
	BirthOfTheBab:        "Birth of the Báb",
	BirthOfBahaullah:     "Birth of Baháʼuʼlláh",
	DayOfTheCovenant:     "Day of the Covenant",
	AscensionOfAbdulBaha: "Ascension of ʻAbdu'l-Bahá",
}

func (h HolyDay) String() string {
	if h < None || int(h) >= len(holyDayNames) {
		return "HolyDay(?)"
	}
	return holyDayNames[h]
}

// Descriptor places a holy day within the Badí year.
type Descriptor struct {
	DayOfYear int
	Kind      HolyDay
}

// descriptors lists the holy days at their offsets in a year where the
// Birth of the Báb has no table entry.
var descriptors = []Descriptor{
	{1, NawRuz},
	{32, Ridvan1st},
	{40, Ridvan9th},
	{43, Ridvan12th},
	{65, DeclarationOfTheBab},
	{70, AscensionOfBahaullah},
	{112, MartyrdomOfTheBab},
	{config.DefaultBirthOfBab, BirthOfTheBab},
	{237, BirthOfBahaullah},
	{251, DayOfTheCovenant},
	{253, AscensionOfAbdulBaha},
}

// Descriptors returns a copy of the fixed holy-day list in day-of-year order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// Resolve returns the day-of-year of the holy day in a year whose Birth
// of the Báb falls on birthOfBab. known reports whether that value comes
// from the table; the Birth of Baháʼuʼlláh only follows it when it does.
func (d Descriptor) Resolve(birthOfBab int, known bool) int {
	switch d.Kind {
	case BirthOfTheBab:
		return birthOfBab
	case BirthOfBahaullah:
		if known {
			return birthOfBab + 1
		}
	}
	return d.DayOfYear
}

// ResolveYear returns the holy days of a year at their actual day-of-year,
// sorted by day-of-year.
func ResolveYear(year int) []Descriptor {
	bob, known := BirthOfBabDayOfYear(year)
	if !known {
		bob = config.DefaultBirthOfBab
	}

	out := make([]Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, Descriptor{DayOfYear: d.Resolve(bob, known), Kind: d.Kind})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DayOfYear < out[j].DayOfYear })
	return out
}
