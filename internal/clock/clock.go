// Package clock supplies the timestamps stamped on stored records.
package clock

import "time"

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// Func adapts a function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

type system struct{}

// System returns a Clock reading wall time in UTC, truncated to microseconds
// so values survive a round trip through a timestamptz column unchanged.
func System() Clock { return system{} }

func (system) Now() time.Time { return Normalize(time.Now()) }

// Normalize converts t to UTC with microsecond precision.
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// After returns now when it is strictly later than prev, otherwise prev plus
// one microsecond. Used for updatedAt so every mutation observably advances it.
func After(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Microsecond)
}

// Fixed returns a Clock that always reports t. Tests use it.
func Fixed(t time.Time) Clock {
	t = Normalize(t)
	return Func(func() time.Time { return t })
}
