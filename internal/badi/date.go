// Package badi implements the Badí calendar: a solar calendar of 19
// months of 19 days, with 4 or 5 intercalary days (Ayyám-i-Há) before the
// fasting month ʿAláʾ, whose days begin at sunset.
//
// A Date is an immutable value. It converts to the Gregorian instants of
// the sunsets that bound it, and can be obtained from any instant with
// FromTime. Years 1 to 221 (up to Naw-Rúz 2065) are supported.
//
// Month numbering: 0 is Ayyám-i-Há, 1 to 18 the regular months and 19 is
// ʿAláʾ, the month of fasting.
package badi

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-badi/internal/config"
	"github.com/tartampluch/go-badi/internal/refdata"
)

// Date is a day of the Badí calendar. The zero value is not a valid date;
// use New or FromTime.
type Date struct {
	year      int
	month     int
	day       int
	dayOfYear int
	opts      options
}

// New validates and returns a Badí date. ayyamIHa must only be true for
// month 0; it exists to make calls that mean Ayyám-i-Há explicit.
// Without options, sunsets fall back to 18:00 local time.
func New(year, month, day int, ayyamIHa bool, opts ...Option) (Date, error) {
	return newDate(year, month, day, ayyamIHa, buildOptions(time.Local, opts))
}

func newDate(year, month, day int, ayyamIHa bool, o options) (Date, error) {
	if day < 1 || day > config.DaysInMonth {
		return Date{}, fmt.Errorf("%w: %d", ErrDayOutOfRange, day)
	}
	if month < config.MonthAyyamIHa || month > config.MonthAla {
		return Date{}, fmt.Errorf("%w: %d", ErrMonthOutOfRange, month)
	}
	if month != config.MonthAyyamIHa && ayyamIHa {
		return Date{}, fmt.Errorf("%w: month %d", ErrAyyamIHaFlag, month)
	}
	if year < 1 || year > config.LastSupportedYear {
		return Date{}, fmt.Errorf("%w: %d", ErrUnsupportedYear, year)
	}
	if month == config.MonthAyyamIHa {
		if n := refdata.IntercalaryLength(year); day > n {
			return Date{}, fmt.Errorf("%w: %s %d of year %d has %d days",
				ErrDayOutOfRange, config.ErrIntercalaryRange, day, year, n)
		}
	}

	d := Date{year: year, month: month, day: day, opts: o}
	d.dayOfYear = d.computeDayOfYear()
	return d, nil
}

// Year returns the Badí era year (2020-03-20 began year 177).
func (d Date) Year() int { return d.year }

// Month returns the month number: 0 for Ayyám-i-Há, 19 for ʿAláʾ.
func (d Date) Month() int { return d.month }

// Day returns the day of the month, starting at 1.
func (d Date) Day() int { return d.day }

// MonthName returns the month as a Month value.
func (d Date) MonthName() Month { return Month(d.month) }

// DayOfYear returns the position of the day within its year; Naw-Rúz is 1.
func (d Date) DayOfYear() int { return d.dayOfYear }

// Latitude returns the latitude used for sunsets, if any.
func (d Date) Latitude() (float64, bool) {
	if d.opts.latitude == nil {
		return 0, false
	}
	return *d.opts.latitude, true
}

// Longitude returns the longitude used for sunsets, if any.
func (d Date) Longitude() (float64, bool) {
	if d.opts.longitude == nil {
		return 0, false
	}
	return *d.opts.longitude, true
}

// Location returns the time zone treated as local time.
func (d Date) Location() *time.Location { return d.opts.loc }

// YearInVahid returns the position of the year in its 19-year cycle, 1 to 19.
func (d Date) YearInVahid() int {
	return (d.year-1)%config.VahidLength + 1
}

// Vahid returns the number of the 19-year cycle.
func (d Date) Vahid() int {
	return d.year/config.VahidLength + 1
}

// KullIShay returns the number of the 361-year cycle.
func (d Date) KullIShay() int {
	return d.year/config.KullIShayLength + 1
}

// IsAyyamIHa reports whether the date is an intercalary day.
func (d Date) IsAyyamIHa() bool { return d.month == config.MonthAyyamIHa }

// IsPeriodOfFast reports whether the date falls in ʿAláʾ.
func (d Date) IsPeriodOfFast() bool { return d.month == config.MonthAla }

// IsFeastDay reports whether the date is a Nineteen Day Feast: the first
// day of a month. Ayyám-i-Há has no feast.
func (d Date) IsFeastDay() bool {
	return d.day == 1 && !d.IsAyyamIHa()
}

// Equal reports whether both values denote the same Badí day, regardless
// of where they are observed.
func (d Date) Equal(o Date) bool {
	return d.year == o.year && d.month == o.month && d.day == o.day
}

// String returns the numeric year-month-day form, e.g. "177-16-06".
func (d Date) String() string {
	return fmt.Sprintf(config.FormatBadiDate, d.year, d.month, d.day)
}

// internalMonth orders the months linearly: Ayyám-i-Há becomes 19 and
// ʿAláʾ 20, so that every other month keeps its number.
func (d Date) internalMonth() int {
	switch d.month {
	case config.MonthAyyamIHa:
		return 19
	case config.MonthAla:
		return 20
	}
	return d.month
}

func (d Date) computeDayOfYear() int {
	m := d.internalMonth()
	if m == 20 {
		return config.DaysBeforeIntercalary + refdata.IntercalaryLength(d.year) + d.day
	}
	return (m-1)*config.DaysInMonth + d.day
}

// DayOfNawRuz returns the March day (20 or 21) on which the Badí year starts.
func DayOfNawRuz(year int) int {
	return refdata.NawRuzDay(year)
}

// NawRuz returns midnight UTC of the Gregorian day on which the year starts.
func NawRuz(year int) time.Time {
	return nawRuzDay(year).t
}

func nawRuzDay(year int) civilDay {
	return newCivilDay(year+config.YearZeroInGregorian, time.March, refdata.NawRuzDay(year))
}

// Start returns the sunset at which the day begins.
func (d Date) Start() time.Time {
	return d.opts.sunset(nawRuzDay(d.year).addDays(d.dayOfYear - 2))
}

// End returns the sunset at which the day ends and the next one begins.
func (d Date) End() time.Time {
	return d.opts.sunset(nawRuzDay(d.year).addDays(d.dayOfYear - 1))
}

// Contains reports whether t falls within [Start, End).
func (d Date) Contains(t time.Time) bool {
	return !t.Before(d.Start()) && t.Before(d.End())
}
