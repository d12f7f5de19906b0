package ports

import "time"

// Clock abstracts wall-clock access so engine tests can drive time
// deterministically. The engine computes all durations from timestamps
// obtained here, never from interval counting.
type Clock interface {
	Now() time.Time
}

// WallClock is the real system clock.
type WallClock struct{}

// Now returns time.Now.
func (WallClock) Now() time.Time {
	return time.Now()
}
