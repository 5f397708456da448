package behavior

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"flyff-assist/internal/config"
	"flyff-assist/internal/movement"
	"flyff-assist/internal/slots"
	"flyff-assist/internal/timing"
)

func newSupport(h *harness, setup func(g *slots.Grid)) *SupportBehavior {
	settings := (&config.SupportConfig{}).Settings()
	if setup != nil {
		setup(&settings.Grid)
	}
	sb := NewSupportBehavior(h.deps, settings)
	sb.Start()
	return sb
}

func TestSupportResurrectsDeadTarget(t *testing.T) {
	h := newHarness()
	sb := newSupport(h, func(g *slots.Grid) {
		g[0][0] = slot(slots.Pill, -1)
		g[8][0] = slot(slots.RezSkill, -1)
	})
	h.stats.HP.Value = 40
	h.stats.TargetHP.Value = 0
	h.analyzer.showMarker(50)

	if err := sb.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if want := []slots.Ref{{Bar: 8, Slot: 0}}; !reflect.DeepEqual(h.input.slots, want) {
		t.Fatalf("sent %v, want only the rez slot", h.input.slots)
	}
	if h.session.Slots.Usage() != (slots.UsageGrid{}) {
		t.Error("usage grid not cleared after resurrecting")
	}
}

func TestSupportRestorations(t *testing.T) {
	h := newHarness()
	sb := newSupport(h, func(g *slots.Grid) {
		g[0][0] = slot(slots.Pill, 50)
		g[0][1] = slot(slots.Food, 30)
		g[1][0] = slot(slots.HealSkill, 70)
		g[2][0] = slot(slots.MpRestorer, -1)
		g[3][0] = slot(slots.FpRestorer, -1)
	})
	h.stats.HP.Value = 40
	h.stats.TargetHP.Value = 60
	h.stats.MP.Value = 30
	h.stats.FP.Value = 0
	h.analyzer.showMarker(50)

	if err := sb.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	want := []slots.Ref{{Bar: 0, Slot: 0}, {Bar: 1, Slot: 0}, {Bar: 2, Slot: 0}}
	if !reflect.DeepEqual(h.input.slots, want) {
		t.Fatalf("sent %v, want %v", h.input.slots, want)
	}
	if h.clock.Slept() < StepDelay {
		t.Errorf("slept %v, want at least %v after restorations", h.clock.Slept(), StepDelay)
	}
}

func TestSupportBuffInterval(t *testing.T) {
	h := newHarness()
	sb := newSupport(h, func(g *slots.Grid) {
		g[4][0] = slot(slots.BuffSkill, -1)
	})
	h.stats.TargetHP.Value = 100
	h.analyzer.showMarker(50)

	sb.Tick()
	if len(h.input.slots) != 0 {
		t.Fatalf("buffed before the interval: %v", h.input.slots)
	}

	h.clock.Advance(config.DefaultBuffInterval)
	sb.Tick()
	if want := []slots.Ref{{Bar: 4, Slot: 0}}; !reflect.DeepEqual(h.input.slots, want) {
		t.Fatalf("sent %v, want the buff slot", h.input.slots)
	}

	h.input.reset()
	sb.Tick()
	if len(h.input.slots) != 0 {
		t.Fatalf("buffed twice in a row: %v", h.input.slots)
	}
}

func TestSupportHealPostponesBuff(t *testing.T) {
	h := newHarness()
	sb := newSupport(h, func(g *slots.Grid) {
		g[1][0] = slot(slots.HealSkill, 70)
		g[4][0] = slot(slots.BuffSkill, -1)
	})
	h.stats.TargetHP.Value = 50
	h.analyzer.showMarker(50)

	h.clock.Advance(5 * time.Second)
	sb.Tick()

	if want := []slots.Ref{{Bar: 1, Slot: 0}}; !reflect.DeepEqual(h.input.slots, want) {
		t.Fatalf("sent %v, want only the heal", h.input.slots)
	}
}

func TestSupportObstacleAvoidance(t *testing.T) {
	h := newHarness()
	sb := newSupport(h, nil)
	h.stats.TargetHP.Value = 80
	h.analyzer.hideMarker()

	// First tick out of reach only re-follows.
	sb.Tick()
	if sb.ObstacleState() != ObstacleAvoiding {
		t.Fatalf("state = %v, want Avoiding", sb.ObstacleState())
	}
	if h.session.FarFromTarget.IsZero() {
		t.Fatal("far-from-target timer not started")
	}
	if h.input.pressed(movement.KeyFollow) != 1 || len(h.input.held(movement.KeyForward, movement.KeyJump)) != 0 {
		t.Fatalf("first tick keys = %+v, want a single follow press", h.input.keys)
	}

	h.input.reset()
	sb.Tick()
	h.analyzer.showMarker(250)
	sb.Tick()

	got := h.input.held(movement.KeyLeft, movement.KeyRight)
	if want := []string{movement.KeyRight, movement.KeyLeft}; !reflect.DeepEqual(got, want) {
		t.Fatalf("strafe keys = %v, want %v", got, want)
	}

	h.analyzer.showMarker(150)
	sb.Tick()
	if sb.ObstacleState() != ObstacleNormal || !h.session.FarFromTarget.IsZero() {
		t.Errorf("state = %v timer %v, want Normal and cleared", sb.ObstacleState(), h.session.FarFromTarget)
	}
}

func TestSupportFirstFarTickOnRealClock(t *testing.T) {
	h := newHarness()
	h.deps.Clock = timing.Real()
	h.session = NewSession(h.deps.Clock, nil)
	h.deps.Session = h.session
	h.deps.Movement = movement.NewCoordinator(h.input, h.deps.Clock)
	sb := newSupport(h, nil)
	h.stats.TargetHP.Value = 80
	h.analyzer.hideMarker()

	sb.Tick()
	if n := h.input.pressed(movement.KeyFollow); n != 1 {
		t.Errorf("follow pressed %d times, want 1", n)
	}
	if got := h.input.held(movement.KeyForward, movement.KeyLeft, movement.KeyRight); len(got) != 0 {
		t.Errorf("circled on the first far tick: held %v", got)
	}
}

func TestObstacleCooldownWholeMilliseconds(t *testing.T) {
	h := newHarness()
	o := &obstacleAvoider{session: h.session, mc: h.deps.Movement, state: ObstacleAvoiding}

	h.session.FarFromTarget = h.clock.Now().Add(-999 * time.Microsecond)
	o.far()
	if n := h.input.pressed(movement.KeyFollow); n != 1 || len(h.input.held(movement.KeyForward)) != 0 {
		t.Fatalf("keys = %+v, want a follow press under a millisecond", h.input.keys)
	}

	h.input.reset()
	h.session.FarFromTarget = h.clock.Now().Add(-time.Millisecond)
	o.far()
	if len(h.input.held(movement.KeyForward)) != 1 {
		t.Fatal("no circle after a full millisecond")
	}
}

func TestSupportObstacleCooldown(t *testing.T) {
	h := newHarness()
	settings := (&config.SupportConfig{}).Settings()
	settings.ObstacleCooldown = time.Second
	sb := NewSupportBehavior(h.deps, settings)
	sb.Start()
	h.stats.TargetHP.Value = 80

	sb.Tick()
	sb.Tick()
	if len(h.input.held(movement.KeyLeft, movement.KeyRight)) != 0 {
		t.Fatal("circled before the cooldown")
	}
	if h.input.pressed(movement.KeyFollow) != 2 {
		t.Fatalf("follow pressed %d times, want 2", h.input.pressed(movement.KeyFollow))
	}

	h.clock.Advance(time.Second)
	sb.Tick()
	if len(h.input.held(movement.KeyLeft, movement.KeyRight)) != 1 {
		t.Fatal("no circle once the cooldown passed")
	}
}

func TestSupportIdleWithoutTarget(t *testing.T) {
	h := newHarness()
	sb := newSupport(h, nil)
	h.stats.TargetHP.Value = 0
	h.analyzer.hideMarker()

	sb.Tick()
	if len(h.input.keys) != 0 || sb.ObstacleState() != ObstacleNormal {
		t.Fatalf("keys %+v state %v with no target at all", h.input.keys, sb.ObstacleState())
	}
}

func TestSupportStopsWhenDead(t *testing.T) {
	h := newHarness()
	sb := newSupport(h, nil)
	h.stats.HP.Update(200)
	h.stats.HP.Update(0)

	if err := sb.Tick(); !errors.Is(err, ErrPlayerDead) {
		t.Fatalf("Tick = %v, want ErrPlayerDead", err)
	}
}
