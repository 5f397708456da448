package behavior

import (
	"time"

	"flyff-assist/internal/geom"
	"flyff-assist/internal/hud"
	"flyff-assist/internal/movement"
	"flyff-assist/internal/slots"
	"flyff-assist/internal/timing"
	"flyff-assist/internal/vision"
)

var frameCenter = geom.Pt(400, 300)

type fakeAnalyzer struct {
	mobs     []vision.Target
	marker   *vision.Target
	distance int
}

func (f *fakeAnalyzer) IdentifyMobs(cfg vision.MobConfig) []vision.Target { return f.mobs }

func (f *fakeAnalyzer) IdentifyTargetMarker() *vision.Target {
	if f.marker == nil {
		return nil
	}
	m := *f.marker
	return &m
}

func (f *fakeAnalyzer) FindClosestMob(mobs []vision.Target, avoid *vision.AvoidanceList, ceiling int) *vision.Target {
	return vision.FindClosest(mobs, avoid, ceiling, frameCenter)
}

func (f *fakeAnalyzer) MarkerDistance(marker vision.Target) int { return f.distance }

func (f *fakeAnalyzer) showMarker(distance int) {
	f.marker = &vision.Target{Category: vision.TargetMarker, Bounds: geom.NewBounds(395, 240, 10, 10)}
	f.distance = distance
}

func (f *fakeAnalyzer) hideMarker() {
	f.marker = nil
}

type keyEvent struct {
	key  string
	mode movement.KeyMode
}

type fakeInput struct {
	keys   []keyEvent
	slots  []slots.Ref
	clicks []geom.Point
}

func (f *fakeInput) SendKey(key string, mode movement.KeyMode) error {
	f.keys = append(f.keys, keyEvent{key: key, mode: mode})
	return nil
}

func (f *fakeInput) SendSlot(bar, slot int) error {
	f.slots = append(f.slots, slots.Ref{Bar: bar, Slot: slot})
	return nil
}

func (f *fakeInput) MouseClick(x, y int) error {
	f.clicks = append(f.clicks, geom.Pt(x, y))
	return nil
}

func (f *fakeInput) reset() {
	f.keys = nil
	f.slots = nil
	f.clicks = nil
}

// held returns the keys held down, in order, filtered by keep.
func (f *fakeInput) held(keep ...string) []string {
	var out []string
	for _, ev := range f.keys {
		if ev.mode != movement.KeyHold {
			continue
		}
		for _, k := range keep {
			if ev.key == k {
				out = append(out, ev.key)
			}
		}
	}
	return out
}

func (f *fakeInput) pressed(key string) int {
	n := 0
	for _, ev := range f.keys {
		if ev.key == key && ev.mode == movement.KeyPress {
			n++
		}
	}
	return n
}

type harness struct {
	clock    *timing.ManualClock
	analyzer *fakeAnalyzer
	input    *fakeInput
	stats    *hud.ClientStats
	session  *Session
	deps     Deps
}

func newHarness() *harness {
	clock := timing.NewManualClock(time.Unix(10000, 0))
	h := &harness{
		clock:    clock,
		analyzer: &fakeAnalyzer{},
		input:    &fakeInput{},
		stats:    hud.NewClientStats(),
		session:  NewSession(clock, nil),
	}
	h.deps = Deps{
		Analyzer: h.analyzer,
		Stats:    h.stats,
		Movement: movement.NewCoordinator(h.input, clock),
		Session:  h.session,
		Clock:    clock,
	}
	return h
}

func slot(t slots.Type, threshold int) slots.Slot {
	s := slots.Slot{Type: t, Enabled: true}
	if threshold >= 0 {
		s.Threshold = slots.Uint32(uint32(threshold))
	}
	return s
}
