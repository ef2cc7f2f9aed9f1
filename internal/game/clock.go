package game

import "time"

// Clock is the time source for every sleep and deadline in the bot.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// FakeClock advances only when slept on. Safe for a single goroutine.
type FakeClock struct {
	now   time.Time
	Slept time.Duration
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() time.Time { return c.now }

func (c *FakeClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	c.now = c.now.Add(d)
	c.Slept += d
}

// Advance moves the clock without counting it as sleep.
func (c *FakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
