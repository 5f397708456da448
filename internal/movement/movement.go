// Package movement turns high level moves into key and mouse events.
package movement

import (
	"fmt"
	"math/rand"
	"time"

	"flyff-assist/internal/geom"
	"flyff-assist/internal/logging"
	"flyff-assist/internal/timing"
)

// KeyMode is how a key event is delivered.
type KeyMode int

const (
	KeyPress KeyMode = iota
	KeyHold
	KeyRelease
)

func (m KeyMode) String() string {
	switch m {
	case KeyPress:
		return "press"
	case KeyHold:
		return "hold"
	case KeyRelease:
		return "release"
	default:
		return fmt.Sprintf("KeyMode(%d)", int(m))
	}
}

// Keys used by the behaviors.
const (
	KeyForward  = "w"
	KeyBackward = "s"
	KeyLeft     = "a"
	KeyRight    = "d"
	KeyJump     = "space"
	KeyFollow   = "z"
	KeyEscape   = "escape"
	KeyRotLeft  = "left"
	KeyRotRight = "right"
)

// KeyGap separates consecutive key events.
const KeyGap = 10 * time.Millisecond

// Input delivers events to the game client. Implementations are fire and
// forget; errors are logged by the coordinator and otherwise ignored.
type Input interface {
	SendKey(key string, mode KeyMode) error
	SendSlot(bar, slot int) error
	MouseClick(x, y int) error
}

// Recorder receives a short description of every action, for the debug
// overlay.
type Recorder interface {
	LogAction(action string)
}

// Coordinator sequences input events with the pauses the client needs.
type Coordinator struct {
	input    Input
	clock    timing.Clock
	rng      *rand.Rand
	recorder Recorder
}

// NewCoordinator creates a coordinator on input, pacing with clock.
func NewCoordinator(input Input, clock timing.Clock) *Coordinator {
	return &Coordinator{
		input: input,
		clock: clock,
		rng:   rand.New(rand.NewSource(clock.Now().UnixNano())),
	}
}

// SetRecorder installs r to receive action descriptions.
func (mc *Coordinator) SetRecorder(r Recorder) {
	mc.recorder = r
}

func (mc *Coordinator) record(action string) {
	if mc.recorder != nil {
		mc.recorder.LogAction(action)
	}
}

func (mc *Coordinator) send(key string, mode KeyMode) {
	if err := mc.input.SendKey(key, mode); err != nil {
		logging.Warn("Failed to %s key %s: %v", mode, key, err)
	}
}

// PressKey taps key.
func (mc *Coordinator) PressKey(key string) {
	mc.send(key, KeyPress)
	mc.record("Press key: " + key)
	mc.clock.Sleep(KeyGap)
}

// HoldKey holds key down.
func (mc *Coordinator) HoldKey(key string) {
	mc.send(key, KeyHold)
}

// ReleaseKey releases a held key.
func (mc *Coordinator) ReleaseKey(key string) {
	mc.send(key, KeyRelease)
}

// HoldKeys holds each key in order.
func (mc *Coordinator) HoldKeys(keys ...string) {
	for _, key := range keys {
		mc.HoldKey(key)
		mc.clock.Sleep(KeyGap)
	}
}

// ReleaseKeys releases each key in order.
func (mc *Coordinator) ReleaseKeys(keys ...string) {
	for _, key := range keys {
		mc.ReleaseKey(key)
		mc.clock.Sleep(KeyGap)
	}
}

// HoldKeyFor holds key for duration.
func (mc *Coordinator) HoldKeyFor(key string, duration time.Duration) {
	mc.HoldKey(key)
	mc.clock.Sleep(duration)
	mc.ReleaseKey(key)
}

// Wait pauses for duration.
func (mc *Coordinator) Wait(duration time.Duration) {
	mc.clock.Sleep(duration)
}

// WaitRandom pauses for a random duration in [lo, hi].
func (mc *Coordinator) WaitRandom(lo, hi time.Duration) {
	if hi <= lo {
		mc.clock.Sleep(lo)
		return
	}
	mc.clock.Sleep(lo + time.Duration(mc.rng.Int63n(int64(hi-lo)+1)))
}

// Rotate turns the camera right for duration.
func (mc *Coordinator) Rotate(duration time.Duration) {
	mc.HoldKeyFor(KeyRotRight, duration)
}

// RotateRandom turns the camera left or right at random.
func (mc *Coordinator) RotateRandom(duration time.Duration) {
	if mc.rng.Intn(2) == 0 {
		mc.HoldKeyFor(KeyRotLeft, duration)
	} else {
		mc.HoldKeyFor(KeyRotRight, duration)
	}
}

// ClickTarget clicks a screen point.
func (mc *Coordinator) ClickTarget(p geom.Point) {
	logging.Debug("Clicking target at (%d, %d)", p.X, p.Y)
	if err := mc.input.MouseClick(p.X, p.Y); err != nil {
		logging.Warn("Failed to click at (%d, %d): %v", p.X, p.Y, err)
	}
	mc.record(fmt.Sprintf("Click at (%d, %d)", p.X, p.Y))
}

// SendSlot activates a slot. Coordinator satisfies slots.Activator.
func (mc *Coordinator) SendSlot(bar, slot int) error {
	mc.record(fmt.Sprintf("Slot F%d-%d", bar+1, (slot+1)%10))
	return mc.input.SendSlot(bar, slot)
}

// LockTarget follows the selected target.
func (mc *Coordinator) LockTarget() {
	mc.PressKey(KeyFollow)
}

// CancelTarget drops the current selection.
func (mc *Coordinator) CancelTarget() {
	mc.PressKey(KeyEscape)
}

// StopAllMovement releases every movement key.
func (mc *Coordinator) StopAllMovement() {
	for _, key := range []string{KeyForward, KeyLeft, KeyBackward, KeyRight, KeyJump, KeyRotLeft, KeyRotRight} {
		mc.ReleaseKey(key)
	}
}
