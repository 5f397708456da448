package behavior

import (
	"time"

	"flyff-assist/internal/logging"
	"flyff-assist/internal/movement"
)

// ObstacleState is whether support mode is trying to get back to its
// target.
type ObstacleState int

const (
	ObstacleNormal ObstacleState = iota
	ObstacleAvoiding
)

func (s ObstacleState) String() string {
	if s == ObstacleAvoiding {
		return "Avoiding"
	}
	return "Normal"
}

// obstacleAvoider unsticks the character when the followed target is out
// of reach. The timer lives in the session.
type obstacleAvoider struct {
	session  *Session
	mc       *movement.Coordinator
	cooldown time.Duration
	state    ObstacleState
}

// far is called on every tick the target is missing or out of range.
// The first call only presses follow; once the cooldown has passed, in
// whole milliseconds, the character runs a jumping half circle.
func (o *obstacleAvoider) far() {
	if o.state == ObstacleNormal {
		o.state = ObstacleAvoiding
		o.session.FarFromTarget = o.session.Clock.Now()
		logging.Debug("Target out of reach, avoiding obstacles")
		o.mc.PressKey(movement.KeyFollow)
		return
	}

	elapsed := o.session.Clock.Since(o.session.FarFromTarget)
	if elapsed.Milliseconds() > o.cooldown.Milliseconds() {
		circleManeuver(o.mc, o.session.NextAvoidDirection())
		return
	}
	o.mc.PressKey(movement.KeyFollow)
}

// near is called when the target is back within range.
func (o *obstacleAvoider) near() {
	if o.state == ObstacleAvoiding {
		logging.Debug("Target back in range")
	}
	o.state = ObstacleNormal
	o.session.FarFromTarget = time.Time{}
}

func (o *obstacleAvoider) reset() {
	o.state = ObstacleNormal
	o.session.FarFromTarget = time.Time{}
}

// circleManeuver jumps forward while strafing towards dir, then brakes
// and re-follows the target.
func circleManeuver(mc *movement.Coordinator, dir string) {
	mc.HoldKeys(movement.KeyForward, movement.KeyJump, dir)
	mc.Wait(CircleHold)
	mc.ReleaseKey(dir)
	mc.Wait(CircleDrift)
	mc.ReleaseKeys(movement.KeyJump, movement.KeyForward)
	mc.HoldKeyFor(movement.KeyBackward, CircleBrake)
	mc.PressKey(movement.KeyFollow)
	mc.Wait(CircleSettle)
}
