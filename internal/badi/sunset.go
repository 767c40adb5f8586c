package badi

import (
	"log/slog"
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
	"github.com/tartampluch/go-badi/internal/config"
)

// Sunsetter computes the sunset of a civil day at a location.
// It returns false when the sun does not set that day (polar day or night).
type Sunsetter interface {
	Sunset(year int, month time.Month, day int, latitude, longitude float64) (time.Time, bool)
}

// SunCalculator implements Sunsetter with github.com/sixdouglas/suncalc.
type SunCalculator struct{}

// Sunset returns the sunset instant in UTC, queried at the mean solar noon
// of the civil day.
func (SunCalculator) Sunset(year int, month time.Month, day int, latitude, longitude float64) (time.Time, bool) {
	noon := time.Date(year, month, day, 12, 0, 0, 0, time.UTC).
		Add(-time.Duration(longitude * float64(config.SolarMinutesPerDegree*time.Minute)))

	set := suncalc.GetTimes(noon, latitude, longitude)[suncalc.Sunset].Value
	if set.IsZero() || set.Sub(noon).Abs() > 24*time.Hour {
		return time.Time{}, false
	}
	return set.UTC(), true
}

// civilDay is a Gregorian calendar day, held as midnight UTC so that day
// arithmetic is never disturbed by daylight saving transitions.
type civilDay struct {
	t time.Time
}

func newCivilDay(year int, month time.Month, day int) civilDay {
	return civilDay{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func civilDayOf(t time.Time) civilDay {
	return newCivilDay(t.Date())
}

func (c civilDay) addDays(n int) civilDay {
	return civilDay{t: c.t.AddDate(0, 0, n)}
}

func (c civilDay) before(o civilDay) bool {
	return c.t.Before(o.t)
}

// daysSince returns the number of whole days from o to c.
func (c civilDay) daysSince(o civilDay) int {
	return int(c.t.Sub(o.t) / (24 * time.Hour))
}

// sunset resolves the sunset that ends the civil day c.
func (o options) sunset(c civilDay) time.Time {
	loc := o.loc
	if loc == nil {
		loc = time.UTC
	}
	year, month, day := c.t.Date()
	fallback := time.Date(year, month, day, config.SunsetFallbackHour, 0, 0, 0, loc)

	if o.latitude == nil || o.longitude == nil {
		return fallback
	}
	lat, lon := *o.latitude, *o.longitude
	if math.Abs(lat) > config.MaxLatitude || math.Abs(lon) > config.MaxLongitude {
		return fallback
	}

	if o.sun == nil {
		return fallback
	}
	set, ok := o.sun.Sunset(year, month, day, lat, lon)
	if !ok {
		slog.Debug(config.MsgSunsetPolar,
			config.LogKeyComponent, config.CompBadi,
			config.LogKeyDay, c.t.Format(config.DateFormatFullDash))
		return fallback
	}
	return set.In(loc)
}
