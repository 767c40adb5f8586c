package badi

import (
	"github.com/tartampluch/go-badi/internal/config"
	"github.com/tartampluch/go-badi/internal/refdata"
)

// HolyDay returns the holy day falling on d, or refdata.None.
func (d Date) HolyDay() refdata.HolyDay {
	for _, h := range refdata.ResolveYear(d.year) {
		if h.DayOfYear == d.dayOfYear {
			return h.Kind
		}
	}
	return refdata.None
}

// NextFeast returns the first day of the month following d. After ʿAláʾ
// that is Naw-Rúz of the next year.
func (d Date) NextFeast() (Date, error) {
	if d.month == config.MonthAla {
		return newDate(d.year+1, 1, 1, false, d.opts)
	}
	return newDate(d.year, d.month+1, 1, false, d.opts)
}

// NextHolyDate returns the first holy day strictly after d. When the
// year has none left, it returns Naw-Rúz of the next year.
func (d Date) NextHolyDate() (Date, error) {
	for _, h := range refdata.ResolveYear(d.year) {
		if h.DayOfYear > d.dayOfYear {
			return fromYearAndDayOfYear(d.year, h.DayOfYear, d.opts)
		}
	}
	return fromYearAndDayOfYear(d.year+1, 1, d.opts)
}

// LastAyyamIHaDayOfYear returns the last intercalary day of d's year.
func (d Date) LastAyyamIHaDayOfYear() (Date, error) {
	firstAla, err := newDate(d.year, config.MonthAla, 1, false, d.opts)
	if err != nil {
		return Date{}, err
	}
	return fromYearAndDayOfYear(d.year, firstAla.dayOfYear-1, d.opts)
}

// Feasts returns the nineteen feast days of a year, Naw-Rúz first.
func Feasts(year int, opts ...Option) ([]Date, error) {
	o := buildOptions(nil, opts)

	feasts := make([]Date, 0, config.MonthAla)
	for month := 1; month <= config.MonthAla; month++ {
		d, err := newDate(year, month, 1, false, o)
		if err != nil {
			return nil, err
		}
		feasts = append(feasts, d)
	}
	return feasts, nil
}

// HolyDates returns the holy days of a year in calendar order.
func HolyDates(year int, opts ...Option) ([]Date, error) {
	o := buildOptions(nil, opts)
	resolved := refdata.ResolveYear(year)

	dates := make([]Date, 0, len(resolved))
	for _, h := range resolved {
		d, err := fromYearAndDayOfYear(year, h.DayOfYear, o)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, nil
}
