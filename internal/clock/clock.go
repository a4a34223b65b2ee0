package clock

import (
	"math"
	"time"
)

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// AfterFuncFunc schedules f to run after d. Override in tests to drive timers by hand.
var AfterFuncFunc = func(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// Stopper is the subset of *time.Timer used by callers.
type Stopper interface {
	Stop() bool
}

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// AfterFunc is a thin wrapper around AfterFuncFunc.
func AfterFunc(d time.Duration, f func()) Stopper { return AfterFuncFunc(d, f) }

// Since returns the time elapsed between start and Now.
func Since(start time.Time) time.Duration { return Now().Sub(start) }

// ElapsedSeconds returns the whole number of seconds between start and now,
// rounded half away from zero.
func ElapsedSeconds(start, now time.Time) int {
	ms := float64(now.Sub(start).Milliseconds())
	return int(math.Round(ms / 1000))
}
