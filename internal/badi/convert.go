package badi

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-badi/internal/config"
	"github.com/tartampluch/go-badi/internal/refdata"
)

// FromTime returns the Badí date in progress at instant t.
//
// The day changes at sunset: an instant after the sunset of its civil day
// belongs to the Badí day of the following civil day, and an instant before
// a sunset that fell past midnight still belongs to the previous one. Local time defaults
// to t's location; WithLocation overrides it.
func FromTime(t time.Time, opts ...Option) (Date, error) {
	o := buildOptions(t.Location(), opts)
	local := t.In(o.loc)

	limit := time.Date(config.LastSupportedGregorianYear, config.LastSupportedGregorianMonth,
		config.LastSupportedGregorianDay, 0, 0, 0, 0, o.loc)
	if local.After(limit) {
		return Date{}, fmt.Errorf("%w: %s", ErrUnsupportedDate, local.Format(config.DateFormatRFC3339))
	}

	day := civilDayOf(local)
	switch {
	case !local.After(o.sunset(day.addDays(-1))):
		// The previous civil day's sunset is after midnight.
		day = day.addDays(-1)
	case local.After(o.sunset(day)):
		day = day.addDays(1)
	}

	gregYear := day.t.Year()
	year := gregYear - config.YearZeroInGregorian
	nawRuz := newCivilDay(gregYear, time.March, refdata.NawRuzDay(year))
	if day.before(nawRuz) {
		year--
		nawRuz = newCivilDay(gregYear-1, time.March, refdata.NawRuzDay(year))
	}

	// Naw-Rúz itself is day 1 at a distance of 0.
	return fromYearAndDayOfYear(year, day.daysSince(nawRuz)+1, o)
}

// FromYearAndDayOfYear returns the date at position doy of the year.
func FromYearAndDayOfYear(year, doy int, opts ...Option) (Date, error) {
	return fromYearAndDayOfYear(year, doy, buildOptions(time.Local, opts))
}

func fromYearAndDayOfYear(year, doy int, o options) (Date, error) {
	if doy < 1 || doy > config.MaxDayOfYear {
		return Date{}, fmt.Errorf("%w: %d", ErrDayOfYearOutOfRange, doy)
	}

	month := (doy + config.DaysInMonth - 1) / config.DaysInMonth
	day := doy - (month-1)*config.DaysInMonth
	intercalary := refdata.IntercalaryLength(year)

	switch {
	case month < 19:
		return newDate(year, month, day, false, o)
	case month == 19 && day <= intercalary:
		return newDate(year, config.MonthAyyamIHa, day, true, o)
	}
	return newDate(year, config.MonthAla, doy-config.DaysBeforeIntercalary-intercalary, false, o)
}
