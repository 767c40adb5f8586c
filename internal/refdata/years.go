// Package refdata holds the static tables of the Badí calendar: the
// per-year irregularities observed since year 172 and the fixed holy days.
//
// The tables are built once at package initialisation and never mutated,
// so every function here is safe for concurrent use.
package refdata

import "github.com/tartampluch/go-badi/internal/config"

// YearSpecifics describes the irregular parts of a single Badí year.
type YearSpecifics struct {
	Year int

	// Leap is true when the year has five days of Ayyám-i-Há.
	Leap bool

	// NawRuzOnMarch21 is true when the year starts on March 21 instead of 20.
	NawRuzOnMarch21 bool

	// BirthOfBab is the day-of-year of the Birth of the Báb, which follows
	// the lunar calendar and therefore moves every year.
	BirthOfBab int
}

// IntercalaryDays returns the number of Ayyám-i-Há days of the year.
func (y YearSpecifics) IntercalaryDays() int {
	if y.Leap {
		return config.IntercalaryDaysLeap
	}
	return config.IntercalaryDaysNormal
}

// NawRuzDay returns the March day on which the year begins.
func (y YearSpecifics) NawRuzDay() int {
	if y.NawRuzOnMarch21 {
		return 21
	}
	return 20
}

func nawRuzOn21(year, birthOfBab int) YearSpecifics {
	return YearSpecifics{Year: year, BirthOfBab: birthOfBab, NawRuzOnMarch21: true}
}

func notLeap(year, birthOfBab int) YearSpecifics {
	return YearSpecifics{Year: year, BirthOfBab: birthOfBab}
}

func leap(year, birthOfBab int) YearSpecifics {
	return YearSpecifics{Year: year, BirthOfBab: birthOfBab, Leap: true}
}

var yearSpecifics = map[int]YearSpecifics{
	172: nawRuzOn21(172, 238),
	173: notLeap(173, 227),
	174: leap(174, 216),
	175: nawRuzOn21(175, 234),
	176: nawRuzOn21(176, 223),
	177: notLeap(177, 213),
	178: leap(178, 232),
	179: nawRuzOn21(179, 220),
	180: nawRuzOn21(180, 210),
	181: notLeap(181, 228),
	182: leap(182, 217),
	183: nawRuzOn21(183, 235),
	184: nawRuzOn21(184, 224),
	185: notLeap(185, 214),
	186: notLeap(186, 233),
	187: leap(187, 223),
	188: nawRuzOn21(188, 211),
	189: notLeap(189, 230),
	190: notLeap(190, 238),
	191: leap(191, 238),
	192: nawRuzOn21(192, 226),
	193: notLeap(193, 215),
	194: notLeap(194, 234),
	195: leap(195, 224),
	196: nawRuzOn21(196, 213),
	197: notLeap(197, 232),
	198: notLeap(198, 221),
	199: leap(199, 210),
	200: nawRuzOn21(200, 228),
	201: notLeap(201, 217),
	202: notLeap(202, 236),
	203: leap(203, 225),
	204: nawRuzOn21(204, 214),
	205: notLeap(205, 233),
	206: notLeap(206, 223),
	207: leap(207, 212),
	208: nawRuzOn21(208, 230),
	209: notLeap(209, 219),
	210: notLeap(210, 237),
	211: leap(211, 227),
	212: nawRuzOn21(212, 215),
	213: notLeap(213, 234),
	214: notLeap(214, 224),
	215: notLeap(215, 213),
	216: leap(216, 232),
	217: notLeap(217, 220),
	218: notLeap(218, 209),
	219: notLeap(219, 228),
	220: leap(220, 218),
	221: notLeap(221, 236),
}

// Lookup returns the table entry of a year.
func Lookup(year int) (YearSpecifics, bool) {
	ys, ok := yearSpecifics[year]
	return ys, ok
}

// IntercalaryLength returns 4 or 5, the number of Ayyám-i-Há days of the year.
//
// Years missing from the table follow the western Badí calendar: the
// intercalary days fall in February of Gregorian year year+1844, so that
// year's leap status decides.
func IntercalaryLength(year int) int {
	if ys, ok := yearSpecifics[year]; ok {
		return ys.IntercalaryDays()
	}
	if isGregorianLeap(year + config.YearZeroInGregorian + 1) {
		return config.IntercalaryDaysLeap
	}
	return config.IntercalaryDaysNormal
}

// NawRuzDay returns the March day (20 or 21) on which the year begins.
func NawRuzDay(year int) int {
	if ys, ok := yearSpecifics[year]; ok {
		return ys.NawRuzDay()
	}
	return config.DefaultNawRuzDay
}

// BirthOfBabDayOfYear returns the day-of-year of the Birth of the Báb, if known.
func BirthOfBabDayOfYear(year int) (int, bool) {
	ys, ok := yearSpecifics[year]
	if !ok {
		return 0, false
	}
	return ys.BirthOfBab, true
}

func isGregorianLeap(year int) bool {
	return year%4 == 0 && year%100 != 0 || year%400 == 0
}
