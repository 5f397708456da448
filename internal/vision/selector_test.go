package vision

import (
	"testing"
	"time"

	"flyff-assist/internal/geom"
	"flyff-assist/internal/timing"
)

var center = geom.Pt(400, 300)

// mobAt builds a 20x4 name tag whose attack point is at (x, y).
func mobAt(category Category, x, y int) Target {
	return Target{Category: category, Bounds: geom.NewBounds(x-10, y-4, 20, 4)}
}

func TestFindClosestEmpty(t *testing.T) {
	if got := FindClosest(nil, nil, 325, center); got != nil {
		t.Fatalf("got %v from no targets", got)
	}
}

func TestFindClosestOrdersByDistance(t *testing.T) {
	targets := []Target{
		mobAt(MobPassive, 400+120, 300),
		mobAt(MobPassive, 400, 300+30),
		mobAt(MobPassive, 400-60, 300),
	}
	got := FindClosest(targets, nil, 325, center)
	if got != &targets[1] {
		t.Fatalf("got %v, want the mob 30px away", got)
	}
}

func TestFindClosestTieKeepsListOrder(t *testing.T) {
	targets := []Target{
		mobAt(MobPassive, 400+50, 300),
		mobAt(MobPassive, 400-50, 300),
	}
	if got := FindClosest(targets, nil, 325, center); got != &targets[0] {
		t.Fatalf("got %v, want the first of two equally distant mobs", got)
	}
}

func TestFindClosestAggressiveCeilingFallback(t *testing.T) {
	// All three are beyond ceiling/2 but within ceiling.
	targets := []Target{
		mobAt(MobAggressive, 400+300, 300),
		mobAt(MobAggressive, 400+200, 300),
		mobAt(MobAggressive, 400+250, 300),
	}
	got := FindClosest(targets, nil, 325, center)
	if got != &targets[1] {
		t.Fatalf("got %v, want the closest aggressive mob", got)
	}
}

func TestFindClosestAppliesCeiling(t *testing.T) {
	targets := []Target{
		mobAt(MobAggressive, 400+200, 300), // beyond 325/2
		mobAt(MobPassive, 400+250, 300),
		mobAt(MobPassive, 400+300, 300),
	}
	got := FindClosest(targets, nil, 325, center)
	if got != &targets[1] {
		t.Fatalf("got %v, want the closer passive mob", got)
	}
}

func TestFindClosestSkipsAvoided(t *testing.T) {
	clock := timing.NewManualClock(time.Unix(0, 0))
	avoid := NewAvoidanceList(clock)

	targets := []Target{
		mobAt(MobPassive, 410, 300),
		mobAt(MobPassive, 500, 300),
	}
	avoid.Add(geom.Around(geom.Pt(410, 300), 5), 5*time.Second)

	if got := FindClosest(targets, avoid, 325, center); got != &targets[1] {
		t.Fatalf("got %v, want the non-avoided mob", got)
	}

	clock.Advance(5*time.Second - time.Millisecond)
	if got := FindClosest(targets, avoid, 325, center); got != &targets[1] {
		t.Fatalf("avoidance expired early: got %v", got)
	}

	clock.Advance(time.Millisecond)
	if got := FindClosest(targets, avoid, 325, center); got != &targets[0] {
		t.Fatalf("got %v, want the closest mob once avoidance expired", got)
	}
}

func TestFindClosestAllAvoided(t *testing.T) {
	avoid := NewAvoidanceList(timing.NewManualClock(time.Unix(0, 0)))
	targets := []Target{mobAt(MobPassive, 410, 300)}
	avoid.Add(geom.Around(geom.Pt(410, 300), 5), time.Minute)

	if got := FindClosest(targets, avoid, 325, center); got != nil {
		t.Fatalf("got %v, want nil when every target is avoided", got)
	}
}

func TestFindClosestMarkerUsesCenter(t *testing.T) {
	marker := Target{Category: TargetMarker, Bounds: geom.NewBounds(390, 290, 20, 20)}
	if got := marker.AttackCoords(); got != center {
		t.Fatalf("AttackCoords = %v, want %v", got, center)
	}
}
