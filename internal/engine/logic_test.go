package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-badi/internal/badi"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		value     string
		want      time.Time
		yearKnown bool
	}{
		{"1990-06-15", time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC), true},
		{"19900615", time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC), true},
		{"1990-06-15T08:30:00Z", time.Date(1990, 6, 15, 8, 30, 0, 0, time.UTC), true},
		{"--06-15", time.Date(0, 6, 15, 0, 0, 0, 0, time.UTC), false},
		{"--0615", time.Date(0, 6, 15, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, known, err := parseDate(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.yearKnown, known)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, _, err := parseDate("15/06/1990")
	assert.Error(t, err)
}

func TestFeedYears(t *testing.T) {
	assert.Equal(t, []int{176, 177, 178}, feedYears(177))
	assert.Equal(t, []int{1, 2}, feedYears(1))
	assert.Equal(t, []int{220, 221}, feedYears(221))
}

func TestBadiBirthDate_UsesCivilDay(t *testing.T) {
	// A birth time late in the evening still counts as that civil day.
	born := time.Date(2020, time.December, 31, 23, 0, 0, 0, time.UTC)

	d, err := badiBirthDate(born, time.UTC, nil)
	require.NoError(t, err)
	assert.Equal(t, "177-16-02", d.String())
}

func TestAnniversary(t *testing.T) {
	birth, err := badi.New(160, 0, 5, true)
	require.NoError(t, err)

	_, ok, err := anniversary("Leap Baby", birth, 159, nil)
	require.NoError(t, err)
	assert.False(t, ok, "not born yet")

	o, ok, err := anniversary("Leap Baby", birth, 177, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, o.Date.Day())
	assert.Equal(t, 17, o.Age)
	assert.Equal(t, "Badí birthday: Leap Baby (17)", o.Summary)

	o, ok, err = anniversary("Leap Baby", birth, 160, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Badí birthday: Leap Baby (birth)", o.Summary)
}
