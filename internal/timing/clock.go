// Package timing holds the clock the bot paces itself with, plus small
// timing helpers used for logging.
package timing

import (
	"fmt"
	"sync"
	"time"

	"flyff-assist/internal/logging"
)

// Clock is the time source for cooldowns, avoidance expiry and pacing.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	Sleep(d time.Duration)
}

type realClock struct{}

// Real returns the wall clock.
func Real() Clock { return realClock{} }

func (realClock) Now() time.Time                  { return time.Now() }
func (realClock) Since(t time.Time) time.Duration { return time.Since(t) }
func (realClock) Sleep(d time.Duration)           { time.Sleep(d) }

// ManualClock only moves when told to. Sleep advances it instantly, so paced
// sequences run without waiting and the total delay stays observable.
type ManualClock struct {
	mu    sync.Mutex
	now   time.Time
	slept time.Duration
}

// NewManualClock starts a manual clock at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

func (c *ManualClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	c.slept += d
}

// Advance moves the clock forward without counting it as sleep.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Slept reports the total duration passed to Sleep.
func (c *ManualClock) Slept() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slept
}

// Timer measures how long a named operation takes.
type Timer struct {
	name      string
	startTime time.Time
}

// NewTimer creates and starts a new timer with given name
func NewTimer(name string) *Timer {
	return &Timer{name: name, startTime: time.Now()}
}

// Elapsed returns the elapsed time since timer creation
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.startTime)
}

// Stop logs the elapsed time and returns the duration
func (t *Timer) Stop() time.Duration {
	elapsed := t.Elapsed()
	logging.Debug("Timer [%s]: %v", t.name, elapsed)
	return elapsed
}

// FormatDuration formats a duration into human-readable string
func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
