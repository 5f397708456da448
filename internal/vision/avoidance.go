package vision

import (
	"sync"
	"time"

	"flyff-assist/internal/geom"
	"flyff-assist/internal/timing"
)

// AvoidedArea is a region the selector must skip until it expires.
type AvoidedArea struct {
	Bounds     geom.Bounds
	RecordedAt time.Time
	Duration   time.Duration
}

// AvoidanceList manages avoided areas
type AvoidanceList struct {
	clock timing.Clock
	areas []AvoidedArea
	mu    sync.RWMutex
}

// NewAvoidanceList creates an empty list driven by clock.
func NewAvoidanceList(clock timing.Clock) *AvoidanceList {
	return &AvoidanceList{clock: clock}
}

// Add adds an area to avoid for the given duration.
func (al *AvoidanceList) Add(bounds geom.Bounds, duration time.Duration) {
	al.mu.Lock()
	defer al.mu.Unlock()
	al.areas = append(al.areas, AvoidedArea{
		Bounds:     bounds,
		RecordedAt: al.clock.Now(),
		Duration:   duration,
	})
}

// IsAvoided reports whether p falls inside an area that has not expired.
func (al *AvoidanceList) IsAvoided(p geom.Point) bool {
	al.mu.RLock()
	defer al.mu.RUnlock()

	now := al.clock.Now()
	for _, area := range al.areas {
		if expired(area, now) {
			continue
		}
		if area.Bounds.Contains(p) {
			return true
		}
	}
	return false
}

// Prune removes expired areas.
func (al *AvoidanceList) Prune() {
	al.mu.Lock()
	defer al.mu.Unlock()

	now := al.clock.Now()
	active := al.areas[:0]
	for _, area := range al.areas {
		if !expired(area, now) {
			active = append(active, area)
		}
	}
	al.areas = active
}

// Clear drops every area.
func (al *AvoidanceList) Clear() {
	al.mu.Lock()
	defer al.mu.Unlock()
	al.areas = nil
}

// Len returns the number of stored areas, expired or not.
func (al *AvoidanceList) Len() int {
	al.mu.RLock()
	defer al.mu.RUnlock()
	return len(al.areas)
}

func expired(area AvoidedArea, now time.Time) bool {
	return now.Sub(area.RecordedAt) >= area.Duration
}
