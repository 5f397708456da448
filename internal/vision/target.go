package vision

import (
	"fmt"

	"flyff-assist/internal/geom"
)

// Category tags classified pixels and the targets built from them.
type Category int

const (
	MobPassive Category = iota
	MobAggressive
	TargetMarker

	// HUD stat bars. These never become targets.
	BarHP
	BarMP
	BarFP
)

func (c Category) String() string {
	switch c {
	case MobPassive:
		return "Passive"
	case MobAggressive:
		return "Aggressive"
	case TargetMarker:
		return "TargetMarker"
	case BarHP:
		return "HP"
	case BarMP:
		return "MP"
	case BarFP:
		return "FP"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// IsMob reports whether the category is a creature name tag.
func (c Category) IsMob() bool {
	return c == MobPassive || c == MobAggressive
}

// Target represents a detected target on screen
type Target struct {
	Category Category
	Bounds   geom.Bounds
}

// AttackCoords returns the point the bot aims at. Name tags float above
// the creature, so mobs use the bottom edge; the marker is aimed at its
// center.
func (t Target) AttackCoords() geom.Point {
	if t.Category == TargetMarker {
		return t.Bounds.Center()
	}
	return t.Bounds.BottomCenter()
}

func (t Target) String() string {
	return fmt.Sprintf("%s at (%d,%d) size %dx%d", t.Category, t.Bounds.X, t.Bounds.Y, t.Bounds.W, t.Bounds.H)
}
