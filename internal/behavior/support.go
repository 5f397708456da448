package behavior

import (
	"flyff-assist/internal/config"
	"flyff-assist/internal/logging"
	"flyff-assist/internal/slots"
)

// SupportBehavior follows a party member, keeps them healed and buffed
// and resurrects them when they die.
type SupportBehavior struct {
	Deps
	settings config.SupportSettings
	obstacle *obstacleAvoider
}

// NewSupportBehavior creates the support mode.
func NewSupportBehavior(deps Deps, settings config.SupportSettings) *SupportBehavior {
	return &SupportBehavior{
		Deps:     deps,
		settings: settings,
		obstacle: &obstacleAvoider{
			session:  deps.Session,
			mc:       deps.Movement,
			cooldown: settings.ObstacleCooldown,
		},
	}
}

func (sb *SupportBehavior) Name() string { return "support" }

// Start installs the support slot layout.
func (sb *SupportBehavior) Start() {
	sb.Session.Slots.SetGrid(sb.settings.Grid)
	sb.Session.Slots.Reset()
	sb.obstacle.reset()
}

// Stop clears the usage grid.
func (sb *SupportBehavior) Stop() {
	sb.Session.Slots.Reset()
	sb.obstacle.reset()
}

// ObstacleState reports the obstacle state machine.
func (sb *SupportBehavior) ObstacleState() ObstacleState {
	return sb.obstacle.state
}

// Tick runs one support iteration.
func (sb *SupportBehavior) Tick() error {
	stats := sb.Stats
	sched := sb.Session.Slots

	if sb.settings.OnDeathDisconnect && playerDead(stats) {
		return ErrPlayerDead
	}

	marker := sb.Analyzer.IdentifyTargetMarker()
	stats.TargetOnScreen = marker != nil
	sched.Refresh()

	targetHP := stats.TargetHP.Value
	if targetHP == 0 && marker != nil {
		logging.Info("Target is dead, resurrecting")
		sched.Trigger(sb.Movement, slots.RezSkill, 0)
		sched.Reset()
		return nil
	}

	sb.checkRestorations()
	sb.Clock.Sleep(StepDelay)

	if targetHP > 0 {
		if marker == nil || sb.Analyzer.MarkerDistance(*marker) > sb.settings.MarkerDistance {
			sb.obstacle.far()
		} else {
			sb.obstacle.near()
			sb.checkBuffs()
		}
	}
	return nil
}

func (sb *SupportBehavior) checkRestorations() {
	stats := sb.Stats
	sched := sb.Session.Slots

	if hp := stats.HP.Value; hp > 0 {
		sched.TriggerAll(sb.Movement, slots.Pill, uint32(hp))
		sched.TriggerAll(sb.Movement, slots.Food, uint32(hp))
	}
	if hp := stats.TargetHP.Value; hp > 0 {
		sched.TriggerAll(sb.Movement, slots.HealSkill, uint32(hp))
	}
	if mp := stats.MP.Value; mp > 0 {
		sched.TriggerAll(sb.Movement, slots.MpRestorer, uint32(mp))
	}
	if fp := stats.FP.Value; fp > 0 {
		sched.TriggerAll(sb.Movement, slots.FpRestorer, uint32(fp))
	}
}

func (sb *SupportBehavior) checkBuffs() {
	sched := sb.Session.Slots
	if !sched.BuffDue(sb.settings.BuffInterval) {
		return
	}
	sched.ResetBuffClock()
	sched.Trigger(sb.Movement, slots.BuffSkill, 0)
	sb.Clock.Sleep(StepDelay)
}
