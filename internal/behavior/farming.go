package behavior

import (
	"time"

	"flyff-assist/internal/config"
	"flyff-assist/internal/geom"
	"flyff-assist/internal/logging"
	"flyff-assist/internal/movement"
	"flyff-assist/internal/slots"
	"flyff-assist/internal/vision"
)

// FarmingState is the position in the farming state machine.
type FarmingState int

const (
	FarmingStateNoEnemyFound FarmingState = iota
	FarmingStateSearchingForEnemy
	FarmingStateEnemyFound
	FarmingStateVerifyTarget
	FarmingStateAttacking
	FarmingStateAfterEnemyKill
)

func (s FarmingState) String() string {
	switch s {
	case FarmingStateNoEnemyFound:
		return "NoEnemyFound"
	case FarmingStateSearchingForEnemy:
		return "SearchingForEnemy"
	case FarmingStateEnemyFound:
		return "EnemyFound"
	case FarmingStateVerifyTarget:
		return "VerifyTarget"
	case FarmingStateAttacking:
		return "Attacking"
	case FarmingStateAfterEnemyKill:
		return "AfterEnemyKill"
	default:
		return "Unknown"
	}
}

// FarmingBehavior looks for mobs around the player, kills them and picks
// up the loot.
type FarmingBehavior struct {
	Deps
	settings config.FarmingSettings

	state  FarmingState
	marker *vision.Target

	currentTarget *vision.Target
	lastClickPos  *geom.Point

	rotationAttempts int
	obstacleTries    int
	noEnemySince     time.Time

	lastKillTime     time.Time
	attackStart      time.Time
	lastTargetHP     int
	lastTargetChange time.Time
}

// NewFarmingBehavior creates the farming mode.
func NewFarmingBehavior(deps Deps, settings config.FarmingSettings) *FarmingBehavior {
	return &FarmingBehavior{
		Deps:     deps,
		settings: settings,
		state:    FarmingStateSearchingForEnemy,
	}
}

func (fb *FarmingBehavior) Name() string { return "farming" }

// State returns the current state.
func (fb *FarmingBehavior) State() FarmingState {
	return fb.state
}

// Start installs the farming slot layout.
func (fb *FarmingBehavior) Start() {
	fb.Session.Slots.SetGrid(fb.settings.Grid)
	fb.Session.Slots.Reset()
	fb.state = FarmingStateSearchingForEnemy
	fb.lastKillTime = fb.Clock.Now()
	fb.noEnemySince = time.Time{}
}

// Stop drops the current target and lets go of every key.
func (fb *FarmingBehavior) Stop() {
	fb.currentTarget = nil
	fb.state = FarmingStateSearchingForEnemy
	fb.Session.Slots.Reset()
	fb.Movement.StopAllMovement()
}

// Tick runs one farming iteration.
func (fb *FarmingBehavior) Tick() error {
	if playerDead(fb.Stats) {
		return ErrPlayerDead
	}

	fb.marker = fb.Analyzer.IdentifyTargetMarker()
	fb.Stats.TargetOnScreen = fb.marker != nil
	fb.Session.Avoid.Prune()
	fb.Session.Slots.Refresh()

	fb.checkRestorations()
	fb.checkBuffs()

	next, err := fb.runStateMachine()
	if next != fb.state {
		logging.Debug("Farming state: %s -> %s", fb.state, next)
	}
	fb.state = next
	return err
}

func (fb *FarmingBehavior) runStateMachine() (FarmingState, error) {
	switch fb.state {
	case FarmingStateNoEnemyFound:
		return fb.onNoEnemyFound()
	case FarmingStateSearchingForEnemy:
		return fb.onSearchingForEnemy(), nil
	case FarmingStateEnemyFound:
		return fb.onEnemyFound(), nil
	case FarmingStateVerifyTarget:
		return fb.onVerifyTarget(), nil
	case FarmingStateAttacking:
		return fb.onAttacking(), nil
	case FarmingStateAfterEnemyKill:
		return fb.afterEnemyKill(), nil
	default:
		return FarmingStateSearchingForEnemy, nil
	}
}

func (fb *FarmingBehavior) onNoEnemyFound() (FarmingState, error) {
	now := fb.Clock.Now()
	if fb.noEnemySince.IsZero() {
		fb.noEnemySince = now
	} else if fb.settings.MobsTimeout > 0 && now.Sub(fb.noEnemySince) > fb.settings.MobsTimeout {
		logging.Error("No enemies found for %v", now.Sub(fb.noEnemySince))
		return FarmingStateNoEnemyFound, ErrMobsTimeout
	}

	if fb.rotationAttempts < MaxRotationAttempts {
		fb.Movement.Rotate(RotateStep)
		fb.Movement.Wait(RotateStep)
		fb.rotationAttempts++
		return FarmingStateSearchingForEnemy, nil
	}

	fb.moveCirclePattern()
	fb.rotationAttempts = 0
	return FarmingStateSearchingForEnemy, nil
}

// moveCirclePattern walks a circle; a short turn makes a wide circle.
func (fb *FarmingBehavior) moveCirclePattern() {
	mc := fb.Movement
	mc.HoldKeys(movement.KeyForward, movement.KeyJump, movement.KeyRight)
	mc.Wait(time.Duration(fb.settings.CircleRotation) * time.Millisecond)
	mc.ReleaseKey(movement.KeyRight)
	mc.Wait(20 * time.Millisecond)
	mc.ReleaseKeys(movement.KeyJump, movement.KeyForward)
	mc.HoldKeyFor(movement.KeyBackward, CircleBrake)
}

func (fb *FarmingBehavior) onSearchingForEnemy() FarmingState {
	if fb.settings.StopFighting {
		return FarmingStateSearchingForEnemy
	}

	mobs := fb.Analyzer.IdentifyMobs(fb.settings.Mobs)
	if len(mobs) == 0 {
		return FarmingStateNoEnemyFound
	}

	closest := fb.Analyzer.FindClosestMob(mobs, fb.Session.Avoid, fb.settings.MaxDistance)
	if closest == nil {
		return FarmingStateNoEnemyFound
	}

	target := *closest
	fb.currentTarget = &target
	fb.rotationAttempts = 0
	fb.noEnemySince = time.Time{}
	logging.Debug("Selected %s", target)
	return FarmingStateEnemyFound
}

func (fb *FarmingBehavior) onEnemyFound() FarmingState {
	if fb.currentTarget == nil {
		return FarmingStateSearchingForEnemy
	}

	point := fb.currentTarget.AttackCoords()
	fb.lastClickPos = &point
	fb.Movement.ClickTarget(point)
	fb.Movement.Wait(ClickSettle)
	return FarmingStateVerifyTarget
}

func (fb *FarmingBehavior) onVerifyTarget() FarmingState {
	if fb.marker != nil && fb.Stats.TargetAlive() {
		// A bar that is not full means someone is already fighting it.
		if fb.settings.PreventAlreadyAttacked && fb.Stats.TargetHP.Value < 100 {
			logging.Debug("Target already under attack, skipping")
			fb.Movement.CancelTarget()
			fb.avoidLastClick()
			return FarmingStateSearchingForEnemy
		}
		now := fb.Clock.Now()
		fb.attackStart = now
		fb.lastTargetChange = now
		fb.lastTargetHP = fb.Stats.TargetHP.Value
		fb.obstacleTries = 0
		return FarmingStateAttacking
	}

	fb.avoidLastClick()
	return FarmingStateSearchingForEnemy
}

func (fb *FarmingBehavior) onAttacking() FarmingState {
	hp := fb.Stats.TargetHP.Value

	if hp == 0 && fb.marker != nil {
		logging.Info("Target defeated")
		return FarmingStateAfterEnemyKill
	}
	if fb.marker == nil {
		logging.Debug("Target lost")
		return FarmingStateSearchingForEnemy
	}

	now := fb.Clock.Now()
	if hp != fb.lastTargetHP {
		fb.lastTargetHP = hp
		fb.lastTargetChange = now
	} else if now.Sub(fb.lastTargetChange) > fb.settings.ObstacleCooldown {
		if !fb.avoidObstacle() {
			return fb.abortAttack()
		}
		fb.lastTargetChange = fb.Clock.Now()
	}

	fb.Session.Slots.Trigger(fb.Movement, slots.AttackSkill, 0)
	return FarmingStateAttacking
}

// avoidObstacle tries to reach a target whose HP is not moving. It
// returns false once the tries are used up.
func (fb *FarmingBehavior) avoidObstacle() bool {
	if fb.obstacleTries >= fb.settings.ObstacleMaxTry {
		return false
	}
	mc := fb.Movement
	logging.Debug("Avoiding obstacle (attempt %d)", fb.obstacleTries)

	if fb.obstacleTries == 0 {
		mc.PressKey(movement.KeyFollow)
		mc.HoldKeys(movement.KeyForward, movement.KeyJump)
		mc.Wait(ObstacleRun)
		mc.ReleaseKeys(movement.KeyJump, movement.KeyForward)
	} else {
		dir := fb.Session.NextAvoidDirection()
		mc.HoldKeys(movement.KeyForward, movement.KeyJump)
		mc.HoldKeyFor(dir, CircleHold)
		mc.Wait(ObstacleRun)
		mc.ReleaseKeys(movement.KeyJump, movement.KeyForward)
		mc.PressKey(movement.KeyFollow)
	}
	fb.obstacleTries++
	return true
}

func (fb *FarmingBehavior) abortAttack() FarmingState {
	logging.Warn("Giving up on %s", fb.currentTarget)
	fb.Movement.CancelTarget()
	fb.avoidLastClick()
	fb.currentTarget = nil
	return FarmingStateSearchingForEnemy
}

// avoidLastClick keeps the spot that was just clicked out of selection
// for a while.
func (fb *FarmingBehavior) avoidLastClick() {
	if fb.lastClickPos == nil {
		return
	}
	fb.Session.Avoid.Add(geom.Around(*fb.lastClickPos, 1), ClickAvoidance)
}

func (fb *FarmingBehavior) afterEnemyKill() FarmingState {
	now := fb.Clock.Now()
	killTime := now.Sub(fb.attackStart)
	searchTime := fb.attackStart.Sub(fb.lastKillTime)
	fb.Session.Statistics.AddKill(killTime, searchTime)
	fb.lastKillTime = now
	fb.Session.Slots.Reset()

	kills, kph, _ := fb.Session.Statistics.Summary()
	logging.Info("Kill #%d - Search: %v, Kill: %v (%.1f/h)", kills, searchTime, killTime, kph)

	fb.performPickup()
	fb.currentTarget = nil
	return FarmingStateSearchingForEnemy
}

func (fb *FarmingBehavior) performPickup() {
	sched := fb.Session.Slots
	if sched.Trigger(fb.Movement, slots.PickupPet, 0) {
		logging.Debug("Picking up items with pet")
		fb.Movement.Wait(fb.settings.PickupDuration)
		// Unsummon so the pet is ready for the next kill.
		sched.Refresh()
		sched.Trigger(fb.Movement, slots.PickupPet, 0)
		return
	}
	if sched.Trigger(fb.Movement, slots.PickupMotion, 0) {
		logging.Debug("Picking up items with motion")
		fb.Movement.Wait(PickupMotion)
	}
}

func (fb *FarmingBehavior) checkRestorations() {
	stats := fb.Stats
	sched := fb.Session.Slots

	if hp := stats.HP.Value; hp > 0 {
		sched.Trigger(fb.Movement, slots.Pill, uint32(hp))
		sched.Trigger(fb.Movement, slots.HealSkill, uint32(hp))
		sched.Trigger(fb.Movement, slots.Food, uint32(hp))
	}
	if mp := stats.MP.Value; mp > 0 {
		sched.Trigger(fb.Movement, slots.MpRestorer, uint32(mp))
	}
	if fp := stats.FP.Value; fp > 0 {
		sched.Trigger(fb.Movement, slots.FpRestorer, uint32(fp))
	}
}

func (fb *FarmingBehavior) checkBuffs() {
	sched := fb.Session.Slots
	if fb.state == FarmingStateAttacking || !sched.BuffDue(fb.settings.BuffInterval) {
		return
	}
	sched.ResetBuffClock()
	if sched.Trigger(fb.Movement, slots.BuffSkill, 0) {
		fb.Clock.Sleep(StepDelay)
	}
}
