// Package system supplies wall-clock time to the pipeline.
package system

import "time"

// Clock satisfies scout.Clock with UTC readings, keeping stored record
// timestamps comparable across runs regardless of host timezone.
type Clock struct{}

// New returns a ready Clock.
func New() Clock {
	return Clock{}
}

// Now returns the current UTC time.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}
