package slots

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Defaults for unset slot fields.
const (
	DefaultCooldown  = 100 * time.Millisecond
	DefaultThreshold = 100
)

// Slot is one cell of the grid.
type Slot struct {
	Type      Type    `json:"slot_type"`
	Cooldown  *uint32 `json:"slot_cooldown"`  // milliseconds
	Threshold *uint32 `json:"slot_threshold"` // percent
	Enabled   bool    `json:"slot_enabled"`
}

// DefaultSlot returns an enabled, unused slot.
func DefaultSlot() Slot {
	return Slot{Type: Unused, Enabled: true}
}

// UnmarshalJSON decodes a slot. A missing slot_enabled means true and
// negative numbers fall back to the defaults.
func (s *Slot) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type      Type   `json:"slot_type"`
		Cooldown  *int64 `json:"slot_cooldown"`
		Threshold *int64 `json:"slot_threshold"`
		Enabled   *bool  `json:"slot_enabled"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Slot{
		Type:      raw.Type,
		Cooldown:  toUint32(raw.Cooldown),
		Threshold: toUint32(raw.Threshold),
		Enabled:   raw.Enabled == nil || *raw.Enabled,
	}
	return nil
}

func toUint32(v *int64) *uint32 {
	if v == nil || *v < 0 || *v > math.MaxUint32 {
		return nil
	}
	return Uint32(uint32(*v))
}

// CooldownDuration returns the configured cooldown or DefaultCooldown.
func (s Slot) CooldownDuration() time.Duration {
	if s.Cooldown == nil {
		return DefaultCooldown
	}
	return time.Duration(*s.Cooldown) * time.Millisecond
}

// ThresholdValue returns the configured threshold or DefaultThreshold.
func (s Slot) ThresholdValue() uint32 {
	if s.Threshold == nil {
		return DefaultThreshold
	}
	return *s.Threshold
}

// Grid is the full slot layout, indexed [bar][slot].
type Grid [Bars][SlotsPerBar]Slot

// DefaultGrid returns a grid of default slots.
func DefaultGrid() Grid {
	var g Grid
	for b := range g {
		for s := range g[b] {
			g[b][s] = DefaultSlot()
		}
	}
	return g
}

// Ref addresses one slot.
type Ref struct {
	Bar  int
	Slot int
}

func (r Ref) String() string {
	return fmt.Sprintf("bar %d slot %d", r.Bar, r.Slot)
}

// Valid reports whether r points inside the grid.
func (r Ref) Valid() bool {
	return r.Bar >= 0 && r.Bar < Bars && r.Slot >= 0 && r.Slot < SlotsPerBar
}

// Uint32 is a helper for building slots in code.
func Uint32(v uint32) *uint32 {
	return &v
}
