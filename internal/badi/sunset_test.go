package badi_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-badi/internal/badi"
)

func TestSunset_Fallback(t *testing.T) {
	want := local(2021, time.January, 17, 18)

	tests := []struct {
		name string
		opts []badi.Option
	}{
		{"No Coordinates", nil},
		{"Latitude Only", []badi.Option{badi.WithLatitude(53.6)}},
		{"Longitude Only", []badi.Option{badi.WithLongitude(10.0)}},
		{"Longitude Too Far East", []badi.Option{badi.WithCoordinates(53.6, 190)}},
		{"Longitude Too Far West", []badi.Option{badi.WithCoordinates(53.6, -190)}},
		{"Arctic", []badi.Option{badi.WithCoordinates(66.6, 10.0)}},
		{"Antarctic", []badi.Option{badi.WithCoordinates(-66.6, 10.0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sun := new(MockSunsetter)
			opts := append([]badi.Option{badi.WithSunsetter(sun)}, tt.opts...)

			d := mustNew(t, 177, 17, 1, opts...)
			assert.Equal(t, want, d.Start())
			sun.AssertNumberOfCalls(t, "Sunset", 0)
		})
	}
}

func TestSunset_Calculator(t *testing.T) {
	sunset := time.Date(2021, time.January, 17, 15, 34, 40, 0, time.UTC)
	sun := new(MockSunsetter)
	sun.On("Sunset", 2021, time.January, 17, 53.6, 10.0).Return(sunset, true).Once()

	d := mustNew(t, 177, 17, 1, badi.WithCoordinates(53.6, 10.0), badi.WithSunsetter(sun))
	start := d.Start()

	assert.True(t, sunset.Equal(start))
	assert.Equal(t, cet, start.Location(), "sunsets are reported in local time")
	sun.AssertExpectations(t)
}

func TestSunset_PolarNight(t *testing.T) {
	sun := new(MockSunsetter)
	sun.On("Sunset", 2021, time.January, 17, 65.0, 10.0).Return(time.Time{}, false)

	d := mustNew(t, 177, 17, 1, badi.WithCoordinates(65.0, 10.0), badi.WithSunsetter(sun))
	assert.Equal(t, local(2021, time.January, 17, 18), d.Start())
	sun.AssertExpectations(t)
}

func TestSunCalculator_Hamburg(t *testing.T) {
	hamburg := []badi.Option{badi.WithCoordinates(53.6, 10.0), badi.WithLocation(time.UTC)}

	winter, err := badi.New(177, 17, 1, false, hamburg...)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Date(2021, time.January, 17, 15, 34, 40, 947_000_000, time.UTC), winter.Start(), time.Millisecond)

	// Summer time in Hamburg does not move the instant.
	summer, err := badi.New(178, 6, 1, false, badi.WithCoordinates(53.6, 10.0), badi.WithLocation(time.FixedZone("CEST", 2*60*60)))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, time.June, 23, 19, 55, 0, 0, time.UTC), summer.End().UTC().Truncate(time.Minute))
	assert.Equal(t, 21, summer.End().Hour())
}

func TestSunCalculator_SunsetOnNextGregorianDay(t *testing.T) {
	cest := time.FixedZone("CEST", 2*60*60)

	d, err := badi.New(178, 6, 1, false, badi.WithCoordinates(64.6, 8.0), badi.WithLocation(cest))
	require.NoError(t, err)

	end := d.End()
	assert.Equal(t, time.Date(2021, time.June, 23, 22, 18, 0, 0, time.UTC), end.UTC().Truncate(time.Minute))
	assert.Equal(t, 24, end.Day(), "local sunset falls on the next Gregorian day")

	next, err := d.NextFeast()
	require.NoError(t, err)
	assert.Equal(t, 7, next.Month())
}

func TestSunCalculator_Polar(t *testing.T) {
	var calc badi.SunCalculator

	_, ok := calc.Sunset(2021, time.June, 21, 89.0, 0)
	assert.False(t, ok, "midnight sun")

	set, ok := calc.Sunset(2021, time.March, 20, 0, 0)
	require.True(t, ok)
	assert.Equal(t, 20, set.Day())
}

func TestSunCalculator_WesternLongitude(t *testing.T) {
	var calc badi.SunCalculator

	// Los Angeles: the sunset of January 17 is on January 18 in UTC.
	set, ok := calc.Sunset(2021, time.January, 17, 34.05, -118.25)
	require.True(t, ok)
	assert.Equal(t, time.Date(2021, time.January, 18, 1, 9, 0, 0, time.UTC), set.Truncate(time.Minute))
}

func TestZeroDate_StartAndEnd(t *testing.T) {
	var d badi.Date
	assert.NotPanics(t, func() {
		_ = d.Start()
		_ = d.End()
	})
	assert.Equal(t, time.UTC, d.Start().Location())
}
