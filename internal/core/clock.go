package core

import "time"

// Clock provides time operations that can be mocked for testing.
// Protocol drivers read it at dispatch and after the last reply is parsed.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// RealClock uses the standard time package.
type RealClock struct{}

func (RealClock) Now() time.Time                  { return time.Now() }
func (RealClock) Since(t time.Time) time.Duration { return time.Since(t) }

// FakeClock is a test clock that can be manually advanced.
// Fake workers advance it from inside a call to simulate latency.
type FakeClock struct {
	current time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{current: start}
}

func (f *FakeClock) Now() time.Time                  { return f.current }
func (f *FakeClock) Since(t time.Time) time.Duration { return f.current.Sub(t) }
func (f *FakeClock) Advance(d time.Duration)         { f.current = f.current.Add(d) }
func (f *FakeClock) Set(t time.Time)                 { f.current = t }

// Milliseconds converts d to fractional milliseconds, the unit records use.
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
