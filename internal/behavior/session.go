package behavior

import (
	"sync"
	"time"

	"flyff-assist/internal/hud"
	"flyff-assist/internal/movement"
	"flyff-assist/internal/slots"
	"flyff-assist/internal/timing"
	"flyff-assist/internal/vision"
)

// Session is the state that lives from mode start to mode stop.
type Session struct {
	Clock      timing.Clock
	Slots      *slots.Scheduler
	Avoid      *vision.AvoidanceList
	Disconnect *hud.DisconnectMonitor
	Statistics *Statistics

	// Zero while the support target is within range.
	FarFromTarget time.Time

	avoidDirection string
}

// NewSession creates a session. recognizer may be nil to disable the
// disconnect monitor.
func NewSession(clock timing.Clock, recognizer hud.TextRecognizer) *Session {
	return &Session{
		Clock:          clock,
		Slots:          slots.NewScheduler(slots.DefaultGrid(), clock),
		Avoid:          vision.NewAvoidanceList(clock),
		Disconnect:     hud.NewDisconnectMonitor(recognizer),
		Statistics:     NewStatistics(clock),
		avoidDirection: movement.KeyRight,
	}
}

// Reset clears everything tied to the running mode.
func (s *Session) Reset() {
	s.Slots.Reset()
	s.Slots.ResetBuffClock()
	s.Avoid.Clear()
	s.Disconnect.Reset()
	s.FarFromTarget = time.Time{}
}

// NextAvoidDirection returns the strafe key for the next obstacle
// maneuver, alternating right and left.
func (s *Session) NextAvoidDirection() string {
	dir := s.avoidDirection
	if dir == movement.KeyRight {
		s.avoidDirection = movement.KeyLeft
	} else {
		s.avoidDirection = movement.KeyRight
	}
	return dir
}

// Statistics holds runtime statistics
type Statistics struct {
	clock           timing.Clock
	StartTime       time.Time
	KillCount       int
	LastKillTime    time.Time
	TotalKillTime   time.Duration
	TotalSearchTime time.Duration
	mu              sync.RWMutex
}

// NewStatistics creates new statistics
func NewStatistics(clock timing.Clock) *Statistics {
	return &Statistics{clock: clock, StartTime: clock.Now()}
}

// AddKill records a new kill
func (s *Statistics) AddKill(killTime, searchTime time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.KillCount++
	s.LastKillTime = s.clock.Now()
	s.TotalKillTime += killTime
	s.TotalSearchTime += searchTime
}

// KillsPerMinute calculates kills per minute
func (s *Statistics) KillsPerMinute() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.killsPerMinute()
}

func (s *Statistics) killsPerMinute() float64 {
	elapsed := s.clock.Since(s.StartTime).Minutes()
	if elapsed <= 0 {
		return 0
	}
	return float64(s.KillCount) / elapsed
}

// Summary returns kills, kills per hour and uptime.
func (s *Statistics) Summary() (kills int, kph float64, uptime string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.KillCount, s.killsPerMinute() * 60, timing.FormatDuration(s.clock.Since(s.StartTime))
}
