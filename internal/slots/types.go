// Package slots models the 9x10 action slot grid and decides which slot to
// fire given cooldowns, thresholds and live stats.
package slots

import "fmt"

// Grid dimensions: nine bars (F1-F9) of ten slots (1-0).
const (
	Bars        = 9
	SlotsPerBar = 10
)

// Type is what a slot is bound to.
type Type int

const (
	Unused Type = iota
	Food
	Pill
	HealSkill
	MpRestorer
	FpRestorer
	PickupPet
	PickupMotion
	AttackSkill
	BuffSkill
	RezSkill
	Flying
)

var typeNames = [...]string{
	Unused:       "Unused",
	Food:         "Food",
	Pill:         "Pill",
	HealSkill:    "HealSkill",
	MpRestorer:   "MpRestorer",
	FpRestorer:   "FpRestorer",
	PickupPet:    "PickupPet",
	PickupMotion: "PickupMotion",
	AttackSkill:  "AttackSkill",
	BuffSkill:    "BuffSkill",
	RezSkill:     "RezSkill",
	Flying:       "Flying",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// MarshalText encodes the type by name.
func (t Type) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(typeNames) {
		return nil, fmt.Errorf("unknown slot type %d", int(t))
	}
	return []byte(typeNames[t]), nil
}

// UnmarshalText decodes a type name. Unknown names become Unused so an old
// or hand-edited config still loads.
func (t *Type) UnmarshalText(text []byte) error {
	for i, name := range typeNames {
		if name == string(text) {
			*t = Type(i)
			return nil
		}
	}
	*t = Unused
	return nil
}
