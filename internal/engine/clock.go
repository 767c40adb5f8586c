package engine

import "time"

// Clock supplies the instant the feed is generated for. Tests pin it.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

// Now returns the current time in the system location.
func (RealClock) Now() time.Time {
	return time.Now()
}
