// Package behavior contains the per-tick logic of each bot mode.
package behavior

import (
	"errors"

	"flyff-assist/internal/hud"
	"flyff-assist/internal/movement"
	"flyff-assist/internal/timing"
	"flyff-assist/internal/vision"
)

// Behavior is one bot mode. Tick runs a single iteration to completion.
type Behavior interface {
	Name() string
	Start()
	Tick() error
	Stop()
}

// Tick errors that end the current mode.
var (
	ErrPlayerDead  = errors.New("player is dead")
	ErrMobsTimeout = errors.New("no mobs found before timeout")
)

// Analyzer is the detection surface the behaviors use.
// *vision.ImageAnalyzer implements it.
type Analyzer interface {
	IdentifyMobs(cfg vision.MobConfig) []vision.Target
	IdentifyTargetMarker() *vision.Target
	FindClosestMob(mobs []vision.Target, avoid *vision.AvoidanceList, ceiling int) *vision.Target
	MarkerDistance(marker vision.Target) int
}

// Deps bundles what every behavior needs. Stats must be refreshed by the
// caller before each Tick.
type Deps struct {
	Analyzer Analyzer
	Stats    *hud.ClientStats
	Movement *movement.Coordinator
	Session  *Session
	Clock    timing.Clock
}

// playerDead reports a self HP of zero on a HUD that has been seen before.
func playerDead(stats *hud.ClientStats) bool {
	return stats.HP.MaxWidth > 0 && stats.HP.Value == 0
}
