package ports

import (
	"time"
)

// Clock abstracts the current time so caches and range computations can be
// tested against a fixed instant.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock implementation
type SystemClock struct{}

// Now returns the current local time
func (SystemClock) Now() time.Time {
	return time.Now()
}
