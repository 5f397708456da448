package slots

import (
	"time"

	"flyff-assist/internal/logging"
	"flyff-assist/internal/timing"
)

// UsageGrid holds the last time each slot was fired. The zero time means
// the slot is off cooldown.
type UsageGrid [Bars][SlotsPerBar]time.Time

// Activator fires a slot in the game client.
type Activator interface {
	SendSlot(bar, slot int) error
}

// Scheduler tracks slot usage for one session. It is not safe for
// concurrent use; the bot loop owns it.
type Scheduler struct {
	grid     Grid
	usage    UsageGrid
	lastBuff time.Time
	clock    timing.Clock
}

// NewScheduler creates a scheduler for grid. The buff clock starts now, so
// the first buff waits one full interval.
func NewScheduler(grid Grid, clock timing.Clock) *Scheduler {
	return &Scheduler{
		grid:     grid,
		clock:    clock,
		lastBuff: clock.Now(),
	}
}

// SetGrid swaps the slot layout, keeping usage state.
func (s *Scheduler) SetGrid(grid Grid) {
	s.grid = grid
}

// Grid returns the active slot layout.
func (s *Scheduler) Grid() Grid {
	return s.grid
}

// Slot returns the slot at ref.
func (s *Scheduler) Slot(ref Ref) Slot {
	return s.grid[ref.Bar][ref.Slot]
}

// Refresh clears every usage whose elapsed time exceeds the slot's
// cooldown. Call once per tick before selecting.
func (s *Scheduler) Refresh() {
	now := s.clock.Now()
	for b := range s.usage {
		for i, last := range s.usage[b] {
			if last.IsZero() {
				continue
			}
			if now.Sub(last) > s.grid[b][i].CooldownDuration() {
				s.usage[b][i] = time.Time{}
			}
		}
	}
}

// Ready reports whether ref is off cooldown.
func (s *Scheduler) Ready(ref Ref) bool {
	return s.usage[ref.Bar][ref.Slot].IsZero()
}

func (s *Scheduler) eligible(ref Ref, t Type, threshold uint32) bool {
	slot := s.Slot(ref)
	return slot.Type == t &&
		slot.Enabled &&
		slot.ThresholdValue() >= threshold &&
		s.Ready(ref)
}

// SelectOne returns the eligible slot of type t with the lowest configured
// threshold that is still >= threshold. Equal thresholds resolve to the
// first slot in bar then slot order.
func (s *Scheduler) SelectOne(t Type, threshold uint32) (Ref, bool) {
	var (
		best   Ref
		bestTh uint32
		found  bool
	)
	for b := 0; b < Bars; b++ {
		for i := 0; i < SlotsPerBar; i++ {
			ref := Ref{Bar: b, Slot: i}
			if !s.eligible(ref, t, threshold) {
				continue
			}
			th := s.Slot(ref).ThresholdValue()
			if !found || th < bestTh {
				best, bestTh, found = ref, th, true
			}
		}
	}
	return best, found
}

// SelectAll returns every eligible slot of type t in bar then slot order.
func (s *Scheduler) SelectAll(t Type, threshold uint32) []Ref {
	var refs []Ref
	for b := 0; b < Bars; b++ {
		for i := 0; i < SlotsPerBar; i++ {
			ref := Ref{Bar: b, Slot: i}
			if s.eligible(ref, t, threshold) {
				refs = append(refs, ref)
			}
		}
	}
	return refs
}

// MarkUsed starts the cooldown of ref. Heals and buffs also restart the
// buff interval.
func (s *Scheduler) MarkUsed(ref Ref) {
	now := s.clock.Now()
	s.usage[ref.Bar][ref.Slot] = now
	switch s.Slot(ref).Type {
	case HealSkill, BuffSkill:
		s.lastBuff = now
	}
}

// Reset clears every cooldown.
func (s *Scheduler) Reset() {
	s.usage = UsageGrid{}
}

// Usage returns a copy of the usage grid.
func (s *Scheduler) Usage() UsageGrid {
	return s.usage
}

// LastBuffUsage returns when a buff or heal was last fired.
func (s *Scheduler) LastBuffUsage() time.Time {
	return s.lastBuff
}

// BuffDue reports whether more than interval has passed since the last buff.
func (s *Scheduler) BuffDue(interval time.Duration) bool {
	return s.clock.Since(s.lastBuff) > interval
}

// ResetBuffClock restarts the buff interval without firing anything.
func (s *Scheduler) ResetBuffClock() {
	s.lastBuff = s.clock.Now()
}

// Trigger fires the slot SelectOne picks and reports whether one was found.
func (s *Scheduler) Trigger(act Activator, t Type, threshold uint32) bool {
	ref, ok := s.SelectOne(t, threshold)
	if !ok {
		return false
	}
	s.fire(act, ref, t, threshold)
	return true
}

// TriggerAll fires every slot SelectAll returns and reports how many.
func (s *Scheduler) TriggerAll(act Activator, t Type, threshold uint32) int {
	refs := s.SelectAll(t, threshold)
	for _, ref := range refs {
		s.fire(act, ref, t, threshold)
	}
	return len(refs)
}

func (s *Scheduler) fire(act Activator, ref Ref, t Type, threshold uint32) {
	logging.Debug("Slot usage: %s (%s, value %d)", ref, t, threshold)
	if err := act.SendSlot(ref.Bar, ref.Slot); err != nil {
		logging.Warn("Failed to send slot %s: %v", ref, err)
	}
	s.MarkUsed(ref)
}
