package badi

import "time"

// Option configures where a Date is observed: the coordinates used for
// sunset, the time zone treated as local time and the solar calculator.
type Option func(*options)

type options struct {
	latitude  *float64
	longitude *float64
	loc       *time.Location
	sun       Sunsetter
}

// WithLatitude sets the latitude in degrees.
func WithLatitude(lat float64) Option {
	return func(o *options) { o.latitude = &lat }
}

// WithLongitude sets the longitude in degrees.
func WithLongitude(lon float64) Option {
	return func(o *options) { o.longitude = &lon }
}

// WithCoordinates sets both latitude and longitude.
func WithCoordinates(lat, lon float64) Option {
	return func(o *options) {
		o.latitude = &lat
		o.longitude = &lon
	}
}

// WithLocation sets the time zone whose 18:00 is used when no sunset can
// be computed. A nil location is ignored.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.loc = loc
		}
	}
}

// WithSunsetter replaces the solar calculator. A nil value is ignored.
func WithSunsetter(s Sunsetter) Option {
	return func(o *options) {
		if s != nil {
			o.sun = s
		}
	}
}

func buildOptions(defaultLoc *time.Location, opts []Option) options {
	o := options{loc: defaultLoc, sun: SunCalculator{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.loc == nil {
		o.loc = time.Local
	}
	return o
}

