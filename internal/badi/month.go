package badi

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/tartampluch/go-badi/internal/config"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Month is a month number as used by Date.Month.
type Month int

const (
	AyyamIHa Month = iota
	Baha
	Jalal
	Jamal
	Azamat
	Nur
	Rahmat
	Kalimat
	Kamal
	Asma
	Izzat
	Mashiyyat
	Ilm
	Qudrat
	Qawl
	Masail
	Sharaf
	Sultan
	Mulk
	Ala
)

var monthNames = [...]string{
	AyyamIHa:  "Ayyám-i-Há",
	Baha:      "Bahá",
	Jalal:     "Jalál",
	Jamal:     "Jamál",
	Azamat:    "ʻAẓamat",
	Nur:       "Núr",
	Rahmat:    "Raḥmat",
	Kalimat:   "Kalimát",
	Kamal:     "Kamál",
	Asma:      "Asmáʼ",
	Izzat:     "ʻIzzat",
	Mashiyyat: "Mashíyyat",
	Ilm:       "ʻIlm",
	Qudrat:    "Qudrat",
	Qawl:      "Qawl",
	Masail:    "Masáʼil",
	Sharaf:    "Sharaf",
	Sultan:    "Sulṭán",
	Mulk:      "Mulk",
	Ala:       "ʻAláʼ",
}

// String returns the transliterated Arabic name of the month.
func (m Month) String() string {
	if m < AyyamIHa || m > Ala {
		return "Month(" + strconv.Itoa(int(m)) + ")"
	}
	return monthNames[m]
}

// monthIndex maps folded names to months; built once at init.
var monthIndex = func() map[string]Month {
	idx := make(map[string]Month, len(monthNames))
	for m, name := range monthNames {
		idx[foldName(name)] = Month(m)
	}
	return idx
}()

// ParseMonth accepts a month number (0-19) or a month name. Names match
// regardless of case, diacritics and the ʻayn/hamza marks, so "ala",
// "ʻAláʼ" and "Ala'" are the same month.
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < int(AyyamIHa) || n > int(Ala) {
			return 0, fmt.Errorf("%w: %d", ErrMonthOutOfRange, n)
		}
		return Month(n), nil
	}
	if m, ok := monthIndex[foldName(s)]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMonth, s)
}

// isNameMark reports the letters dropped when comparing month names:
// transliteration marks for ʻayn and hamza, apostrophes and dashes.
func isNameMark(r rune) bool {
	switch r {
	case 'ʻ', 'ʼ', '\'', '’', '‘', '`', '-', ' ':
		return true
	}
	return false
}

func foldName(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(isNameMark)),
		norm.NFC,
	)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return cases.Fold().String(folded)
}

// ParseDate parses "YEAR-MONTH-DAY" where MONTH is a number or a name,
// e.g. "177-16-6" or "177-Sharaf-6". Ayyám-i-Há may be written with its
// dashes ("176-Ayyam-i-Ha-4").
func ParseDate(s string, opts ...Option) (Date, error) {
	s = strings.TrimSpace(s)
	first := strings.Index(s, "-")
	last := strings.LastIndex(s, "-")
	if first <= 0 || last == first || last == len(s)-1 {
		return Date{}, fmt.Errorf("%s: %q", config.ErrBadiDateFormat, s)
	}

	year, err := strconv.Atoi(s[:first])
	if err != nil {
		return Date{}, fmt.Errorf("%s: %q", config.ErrBadiDateFormat, s)
	}
	day, err := strconv.Atoi(s[last+1:])
	if err != nil {
		return Date{}, fmt.Errorf("%s: %q", config.ErrBadiDateFormat, s)
	}
	month, err := ParseMonth(s[first+1 : last])
	if err != nil {
		return Date{}, err
	}
	return New(year, int(month), day, month == AyyamIHa, opts...)
}
