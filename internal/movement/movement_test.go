package movement

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"flyff-assist/internal/geom"
	"flyff-assist/internal/timing"
)

type event struct {
	key  string
	mode KeyMode
	at   time.Duration
}

type fakeInput struct {
	clock  *timing.ManualClock
	start  time.Time
	events []event
	slots  [][2]int
	clicks []geom.Point
	err    error
}

func (f *fakeInput) SendKey(key string, mode KeyMode) error {
	f.events = append(f.events, event{key: key, mode: mode, at: f.clock.Since(f.start)})
	return f.err
}

func (f *fakeInput) SendSlot(bar, slot int) error {
	f.slots = append(f.slots, [2]int{bar, slot})
	return f.err
}

func (f *fakeInput) MouseClick(x, y int) error {
	f.clicks = append(f.clicks, geom.Pt(x, y))
	return f.err
}

type actionLog []string

func (a *actionLog) LogAction(action string) { *a = append(*a, action) }

func newTestCoordinator() (*Coordinator, *fakeInput, *timing.ManualClock) {
	start := time.Unix(0, 0)
	clock := timing.NewManualClock(start)
	input := &fakeInput{clock: clock, start: start}
	return NewCoordinator(input, clock), input, clock
}

func TestHoldKeyForTiming(t *testing.T) {
	mc, input, clock := newTestCoordinator()
	mc.HoldKeyFor(KeyBackward, 50*time.Millisecond)

	want := []event{
		{key: "s", mode: KeyHold, at: 0},
		{key: "s", mode: KeyRelease, at: 50 * time.Millisecond},
	}
	if !reflect.DeepEqual(input.events, want) {
		t.Fatalf("events = %+v, want %+v", input.events, want)
	}
	if clock.Slept() != 50*time.Millisecond {
		t.Errorf("slept %v", clock.Slept())
	}
}

func TestHoldKeysKeepsGap(t *testing.T) {
	mc, input, _ := newTestCoordinator()
	mc.HoldKeys(KeyForward, KeyJump, KeyRight)

	for i, ev := range input.events {
		if want := time.Duration(i) * KeyGap; ev.at != want {
			t.Errorf("event %d at %v, want %v", i, ev.at, want)
		}
		if ev.mode != KeyHold {
			t.Errorf("event %d mode %v", i, ev.mode)
		}
	}
}

func TestSendErrorsAreAbsorbed(t *testing.T) {
	mc, input, _ := newTestCoordinator()
	input.err = errors.New("evaluate failed")

	mc.PressKey(KeyFollow)
	mc.ClickTarget(geom.Pt(10, 20))
	if len(input.events) != 1 || len(input.clicks) != 1 {
		t.Fatalf("events %v clicks %v", input.events, input.clicks)
	}
	if err := mc.SendSlot(0, 1); err == nil {
		t.Error("SendSlot should report the input error to the scheduler")
	}
}

func TestRecorder(t *testing.T) {
	mc, _, _ := newTestCoordinator()
	var log actionLog
	mc.SetRecorder(&log)

	mc.PressKey(KeyFollow)
	mc.SendSlot(2, 9)

	want := actionLog{"Press key: z", "Slot F3-0"}
	if !reflect.DeepEqual(log, want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
}

func TestWaitRandomBounds(t *testing.T) {
	mc, _, clock := newTestCoordinator()
	for i := 0; i < 50; i++ {
		before := clock.Slept()
		mc.WaitRandom(100*time.Millisecond, 200*time.Millisecond)
		d := clock.Slept() - before
		if d < 100*time.Millisecond || d > 200*time.Millisecond {
			t.Fatalf("WaitRandom slept %v", d)
		}
	}
}
