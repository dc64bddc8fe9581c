package lang

import (
	"context"
	"maps"
	"time"
)

// Clock supplies the current time to native functions.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the system wall clock.
type SystemClock struct{}

// Now returns time.Now.
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock time.Time

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return time.Time(c) }

// Native is a host function invoked by name from a script, e.g. now().
type Native func(ctx context.Context) (any, error)

// Natives maps function names to their implementations.
type Natives map[string]Native

// With returns a copy of n with fn registered under name.
func (n Natives) With(name string, fn Native) Natives {
	out := maps.Clone(n)
	if out == nil {
		out = make(Natives, 1)
	}

	out[name] = fn

	return out
}

// DefaultNatives returns the date functions now, day, month and year read
// from clock.
//
// now is the Unix time in milliseconds, day and month are English names
// ("Monday", "January"), and year is the four-digit year.
func DefaultNatives(clock Clock) Natives {
	return Natives{
		"now": func(context.Context) (any, error) {
			return float64(clock.Now().UnixMilli()), nil
		},
		"day": func(context.Context) (any, error) {
			return clock.Now().Weekday().String(), nil
		},
		"month": func(context.Context) (any, error) {
			return clock.Now().Month().String(), nil
		},
		"year": func(context.Context) (any, error) {
			return float64(clock.Now().Year()), nil
		},
	}
}
