// Package config holds the bot configuration and its defaults.
//
// Every field on disk is optional. Settings resolves the raw values, so a
// field that is missing or out of range falls back to its default there.
// The only hard failures are a slot grid that does not decode or is not
// 9x10, which Load reports up front.
package config

import (
	"time"

	"flyff-assist/internal/slots"
	"flyff-assist/internal/vision"
)

// Mode selects the behavior the bot runs.
type Mode string

const (
	ModeStopped Mode = ""
	ModeFarming Mode = "farming"
	ModeSupport Mode = "support"
)

func (m Mode) String() string {
	if m == ModeStopped {
		return "stopped"
	}
	return string(m)
}

// ParseMode maps a mode name to a Mode. Unknown names stop the bot.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeFarming, ModeSupport:
		return Mode(s)
	default:
		return ModeStopped
	}
}

// BotConfig is the "config" object of data.json.
type BotConfig struct {
	Mode    Mode          `json:"mode"`
	Farming FarmingConfig `json:"farming_config"`
	Support SupportConfig `json:"support_config"`
}

// SlotBar is one bar of ten slots as stored on disk.
type SlotBar struct {
	Slots []slots.Slot `json:"slots"`
}

// RGB is a color whose channels may be missing individually.
type RGB [3]*int

// FarmingConfig is the raw farming section.
type FarmingConfig struct {
	SlotBars []SlotBar `json:"slot_bars"`

	CircleRotation         *int  `json:"circle_pattern_rotation_duration"`
	PreventAlreadyAttacked *bool `json:"prevent_already_attacked"`
	StopFighting           *bool `json:"is_stop_fighting"`

	PassiveColors       *RGB `json:"passive_mobs_colors"`
	PassiveTolerance    *int `json:"passive_tolerence"`
	AggressiveColors    *RGB `json:"aggressive_mobs_colors"`
	AggressiveTolerance *int `json:"aggressive_tolerence"`

	ObstacleCooldown *int `json:"obstacle_avoidance_cooldown"`
	ObstacleMaxTry   *int `json:"obstacle_avoidance_max_try"`

	MinNameWidth *int `json:"min_mobs_name_width"`
	MaxNameWidth *int `json:"max_mobs_name_width"`

	MinHPAttack    *int `json:"min_hp_attack"`
	PickupDuration *int `json:"pickup_duration"`
	BuffInterval   *int `json:"interval_between_buffs"`
	MobsTimeout    *int `json:"mobs_timeout"`
	MaxDistance    *int `json:"max_target_distance"`
}

// SupportConfig is the raw support section.
type SupportConfig struct {
	SlotBars []SlotBar `json:"slot_bars"`

	ObstacleCooldown  *int  `json:"obstacle_avoidance_cooldown"`
	OnDeathDisconnect *bool `json:"on_death_disconnect"`
	BuffInterval      *int  `json:"interval_between_buffs"`
	MarkerDistance    *int  `json:"marker_distance_threshold"`
}

// Default returns a configuration with every field unset.
func Default() *BotConfig {
	return &BotConfig{}
}

// Validate checks the fields that cannot be defaulted.
func (c *BotConfig) Validate() error {
	if err := validateGrid("farming_config", c.Farming.SlotBars); err != nil {
		return err
	}
	return validateGrid("support_config", c.Support.SlotBars)
}

// Defaults
const (
	DefaultBuffInterval = 2000 * time.Millisecond

	DefaultCircleRotation          = 30
	DefaultPassiveTolerance        = 5
	DefaultAggressiveTolerance     = 10
	DefaultFarmingObstacleCooldown = 5000 * time.Millisecond
	DefaultObstacleMaxTry          = 5
	DefaultMinNameWidth            = 11
	DefaultMaxNameWidth            = 180
	DefaultPickupDuration          = 1500 * time.Millisecond
	DefaultMaxDistance             = 325

	DefaultSupportObstacleCooldown = 0
	DefaultMarkerDistance          = 200
)

var (
	DefaultPassiveColor    = vision.NewColor(234, 234, 149)
	DefaultAggressiveColor = vision.NewColor(179, 23, 23)
)

// FarmingSettings is FarmingConfig with every default applied.
type FarmingSettings struct {
	Grid                   slots.Grid
	Mobs                   vision.MobConfig
	CircleRotation         int
	PreventAlreadyAttacked bool
	StopFighting           bool
	ObstacleCooldown       time.Duration
	ObstacleMaxTry         int
	MinHPAttack            int
	PickupDuration         time.Duration
	BuffInterval           time.Duration
	MobsTimeout            time.Duration
	MaxDistance            int
}

// Settings resolves the farming section.
func (f *FarmingConfig) Settings() FarmingSettings {
	minWidth := intOr(f.MinNameWidth, DefaultMinNameWidth, 0, 1<<16)
	maxWidth := intOr(f.MaxNameWidth, DefaultMaxNameWidth, 0, 1<<16)
	if minWidth > maxWidth {
		minWidth, maxWidth = DefaultMinNameWidth, DefaultMaxNameWidth
	}

	return FarmingSettings{
		Grid: toGrid(f.SlotBars),
		Mobs: vision.MobConfig{
			PassiveColor:        colorOr(f.PassiveColors, DefaultPassiveColor),
			PassiveTolerance:    uint8(intOr(f.PassiveTolerance, DefaultPassiveTolerance, 0, 255)),
			AggressiveColor:     colorOr(f.AggressiveColors, DefaultAggressiveColor),
			AggressiveTolerance: uint8(intOr(f.AggressiveTolerance, DefaultAggressiveTolerance, 0, 255)),
			Width:               vision.WidthFilter{Min: minWidth, Max: maxWidth},
		},
		CircleRotation:         intOr(f.CircleRotation, DefaultCircleRotation, 1, 1<<16),
		PreventAlreadyAttacked: boolOr(f.PreventAlreadyAttacked, true),
		StopFighting:           boolOr(f.StopFighting, false),
		ObstacleCooldown:       millisOr(f.ObstacleCooldown, DefaultFarmingObstacleCooldown),
		ObstacleMaxTry:         intOr(f.ObstacleMaxTry, DefaultObstacleMaxTry, 0, 1<<16),
		MinHPAttack:            intOr(f.MinHPAttack, 0, 0, 100),
		PickupDuration:         millisOr(f.PickupDuration, DefaultPickupDuration),
		BuffInterval:           millisOr(f.BuffInterval, DefaultBuffInterval),
		MobsTimeout:            millisOr(f.MobsTimeout, 0),
		MaxDistance:            intOr(f.MaxDistance, DefaultMaxDistance, 1, 1<<16),
	}
}

// SupportSettings is SupportConfig with every default applied.
type SupportSettings struct {
	Grid              slots.Grid
	ObstacleCooldown  time.Duration
	OnDeathDisconnect bool
	BuffInterval      time.Duration
	MarkerDistance    int
}

// Settings resolves the support section.
func (s *SupportConfig) Settings() SupportSettings {
	return SupportSettings{
		Grid:              toGrid(s.SlotBars),
		ObstacleCooldown:  millisOr(s.ObstacleCooldown, DefaultSupportObstacleCooldown),
		OnDeathDisconnect: boolOr(s.OnDeathDisconnect, true),
		BuffInterval:      millisOr(s.BuffInterval, DefaultBuffInterval),
		MarkerDistance:    intOr(s.MarkerDistance, DefaultMarkerDistance, 1, 1<<16),
	}
}

func intOr(v *int, def, lo, hi int) int {
	if v == nil || *v < lo || *v > hi {
		return def
	}
	return *v
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func millisOr(v *int, def time.Duration) time.Duration {
	if v == nil || *v < 0 {
		return def
	}
	return time.Duration(*v) * time.Millisecond
}

func colorOr(c *RGB, def vision.Color) vision.Color {
	if c == nil {
		return def
	}
	channel := func(v *int, d uint8) uint8 {
		return uint8(intOr(v, int(d), 0, 255))
	}
	return vision.NewColor(channel(c[0], def.R), channel(c[1], def.G), channel(c[2], def.B))
}
