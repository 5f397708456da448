package behavior

import "time"

// Pauses between tick sub-steps. They keep the ordering the client needs
// to register inputs.
const (
	StepDelay    = 100 * time.Millisecond
	CircleHold   = 200 * time.Millisecond
	CircleDrift  = 500 * time.Millisecond
	CircleBrake  = 50 * time.Millisecond
	CircleSettle = 300 * time.Millisecond

	ClickSettle    = 150 * time.Millisecond
	RotateStep     = 50 * time.Millisecond
	ObstacleRun    = 800 * time.Millisecond
	PickupMotion   = 1 * time.Second
	ClickAvoidance = 5 * time.Second
)

// MaxRotationAttempts is how often farming turns the camera before it
// walks a circle to find mobs.
const MaxRotationAttempts = 30
