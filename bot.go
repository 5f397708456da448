package main

import (
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"flyff-assist/internal/behavior"
	"flyff-assist/internal/config"
	"flyff-assist/internal/hud"
	"flyff-assist/internal/logging"
	"flyff-assist/internal/movement"
	"flyff-assist/internal/timing"
	"flyff-assist/internal/vision"
)

// Loop pacing.
const (
	idleDelay       = 100 * time.Millisecond
	notReadyDelay   = 500 * time.Millisecond
	captureErrDelay = 250 * time.Millisecond
	overlayActions  = 5
)

// FrameSource provides captured frames.
type FrameSource interface {
	Capture() (*image.RGBA, error)
}

// Options are the runtime choices made on the command line.
type Options struct {
	ConfigPath string
	Input      string
	Origin     image.Point
	OCR        bool
	Overlay    bool
}

// Bot wires capture, detection and the active behavior together. The main
// loop owns all detection and behavior state; other goroutines only post
// mode changes.
type Bot struct {
	opts Options
	data *config.PersistentData

	browser    *Browser
	screen     FrameSource
	recognizer *TesseractRecognizer

	clock    timing.Clock
	analyzer *vision.ImageAnalyzer
	stats    *hud.ClientStats
	movement *movement.Coordinator
	session  *behavior.Session

	mode     config.Mode
	behavior behavior.Behavior

	tray         *TrayApp
	modeCh       chan config.Mode
	stopCh       chan struct{}
	done         chan struct{}
	overlayCh    chan overlayFrame
	cookiesSaved bool

	running      atomic.Bool
	startOnce    sync.Once
	shutdownOnce sync.Once
}

// NewBot builds the bot for opts on top of the loaded data.
func NewBot(opts Options, data *config.PersistentData) (*Bot, error) {
	b := &Bot{
		opts:     opts,
		data:     data,
		clock:    timing.Real(),
		analyzer: vision.NewImageAnalyzer(nil),
		stats:    hud.NewClientStats(),
		modeCh:   make(chan config.Mode, 1),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}

	var input movement.Input
	switch opts.Input {
	case "browser":
		b.browser = NewBrowser()
		b.screen = b.browser
		input = NewBrowserInput(b.browser)
	case "native":
		b.screen = NewNativeScreen(opts.Origin)
		input = NewNativeInput(opts.Origin)
	default:
		return nil, errors.New("input must be browser or native")
	}

	var recognizer hud.TextRecognizer
	if opts.OCR {
		r, err := NewTesseractRecognizer()
		if err != nil {
			logging.Warn("Text recognition disabled: %v", err)
		} else {
			b.recognizer = r
			recognizer = r
		}
	}

	b.movement = movement.NewCoordinator(input, b.clock)
	if b.browser != nil {
		b.movement.SetRecorder(b.browser)
	}
	b.session = behavior.NewSession(b.clock, recognizer)

	if opts.Overlay && b.browser != nil {
		b.overlayCh = make(chan overlayFrame, 1)
		b.browser.EnableOverlay()
	}

	b.tray = NewTrayApp(b)
	return b, nil
}

// Start launches the browser and the main loop. Safe to call more than once.
func (b *Bot) Start() {
	b.startOnce.Do(func() {
		if b.browser != nil {
			SafeGo(func() {
				if err := b.browser.Start(b.data.Cookies); err != nil {
					logging.Error("Failed to start browser: %v", err)
				}
			})
		}
		if b.overlayCh != nil {
			SafeGo(b.overlayWorker)
		}

		b.ChangeMode(b.data.Config.Mode)
		b.running.Store(true)
		SafeGo(b.mainLoop)
	})
}

// ChangeMode asks the loop to switch mode before its next tick. A newer
// request replaces one that has not been applied yet.
func (b *Bot) ChangeMode(mode config.Mode) {
	for {
		select {
		case b.modeCh <- mode:
			logging.Info("Mode change requested: %s", mode)
			return
		default:
		}
		select {
		case <-b.modeCh:
		default:
		}
	}
}

// Shutdown stops the loop, saves state and closes the browser.
func (b *Bot) Shutdown() {
	b.shutdownOnce.Do(func() {
		logging.Info("Shutting down...")
		close(b.stopCh)
		stopped := true
		if b.running.Load() {
			select {
			case <-b.done:
			case <-time.After(5 * time.Second):
				logging.Warn("Main loop did not stop in time")
				stopped = false
			}
		}

		b.SaveState()
		if b.browser != nil {
			b.browser.Close()
		}
		if b.recognizer != nil {
			b.recognizer.Close()
		}
		// a loop still running may publish again
		if b.overlayCh != nil && stopped {
			close(b.overlayCh)
		}
	})
}

func (b *Bot) mainLoop() {
	logging.Info("Main loop started")
	defer close(b.done)

	for {
		select {
		case <-b.stopCh:
			b.applyMode(config.ModeStopped, false)
			logging.Info("Main loop stopped")
			return
		case mode := <-b.modeCh:
			b.applyMode(mode, true)
		default:
			b.runIteration()
		}
	}
}

// applyMode stops the running behavior and starts the one for mode.
func (b *Bot) applyMode(mode config.Mode, persist bool) {
	if mode == b.mode && (b.behavior != nil || mode == config.ModeStopped) {
		return
	}

	if b.behavior != nil {
		b.behavior.Stop()
		logging.Info("%s mode stopped", b.behavior.Name())
	}
	b.behavior = nil
	b.session.Reset()
	b.mode = mode

	switch mode {
	case config.ModeFarming:
		b.behavior = behavior.NewFarmingBehavior(b.deps(), b.data.Config.Farming.Settings())
	case config.ModeSupport:
		b.behavior = behavior.NewSupportBehavior(b.deps(), b.data.Config.Support.Settings())
	}
	if b.behavior != nil {
		b.behavior.Start()
		logging.Info("%s mode started", b.behavior.Name())
	} else {
		logging.Info("Bot stopped, detection continues")
	}

	b.tray.SetMode(mode)
	if persist {
		b.data.Config.Mode = mode
		b.SaveState()
	}
}

func (b *Bot) deps() behavior.Deps {
	return behavior.Deps{
		Analyzer: b.analyzer,
		Stats:    b.stats,
		Movement: b.movement,
		Session:  b.session,
		Clock:    b.clock,
	}
}

func (b *Bot) runIteration() {
	timer := timing.NewTimer("main_loop")
	defer timer.Stop()

	if b.browser != nil {
		if !b.browser.Ready() {
			b.clock.Sleep(notReadyDelay)
			return
		}
		if !b.cookiesSaved {
			logging.Info("Game loaded, saving cookies")
			b.SaveState()
			b.cookiesSaved = true
		}
	}

	img, err := b.screen.Capture()
	if err != nil || img == nil {
		logging.Warn("Failed to capture screen: %v", err)
		b.analyzer.SetFrame(nil)
		b.clock.Sleep(captureErrDelay)
		return
	}
	b.analyzer.SetFrame(img)
	b.stats.Update(b.analyzer.Classifier(), img)

	b.session.Disconnect.Check(img)
	if b.session.Disconnect.Disconnected() {
		b.handleDisconnect()
		return
	}

	if b.behavior == nil {
		b.clock.Sleep(idleDelay)
	} else if err := b.behavior.Tick(); err != nil {
		b.handleTickError(err)
	}

	b.publish()
}

func (b *Bot) handleDisconnect() {
	logging.Error("Client disconnected")
	b.session.Disconnect.Reset()
	if b.browser == nil {
		b.applyMode(config.ModeStopped, false)
		return
	}
	if err := b.browser.Reload(); err != nil {
		logging.Error("Failed to reload the client: %v", err)
	}
	b.session.Reset()
}

func (b *Bot) handleTickError(err error) {
	switch {
	case errors.Is(err, behavior.ErrPlayerDead):
		logging.Error("Player died, stopping %s mode", b.mode)
		wasSupport := b.mode == config.ModeSupport
		b.applyMode(config.ModeStopped, false)
		if wasSupport && b.browser != nil {
			if err := b.browser.LeaveGame(); err != nil {
				logging.Error("Failed to leave the game: %v", err)
			}
		}
	case errors.Is(err, behavior.ErrMobsTimeout):
		logging.Error("%v, stopping %s mode", err, b.mode)
		b.applyMode(config.ModeStopped, false)
	default:
		logging.Error("Behavior error: %v", err)
	}
}

func behaviorState(bh behavior.Behavior) string {
	switch bh := bh.(type) {
	case *behavior.FarmingBehavior:
		return bh.State().String()
	case *behavior.SupportBehavior:
		return bh.ObstacleState().String()
	default:
		return ""
	}
}

// publish updates the tray and hands a snapshot to the overlay worker.
func (b *Bot) publish() {
	kills, kph, uptime := b.session.Statistics.Summary()
	state := behaviorState(b.behavior)
	b.tray.UpdateStatus(b.mode, state, kills, kph, uptime)

	if b.overlayCh == nil {
		return
	}
	frame := overlayFrame{
		Mobs:    b.analyzer.IdentifyMobs(b.data.Config.Farming.Settings().Mobs),
		Marker:  b.analyzer.IdentifyTargetMarker(),
		Stats:   *b.stats,
		Mode:    b.mode,
		State:   state,
		Kills:   kills,
		KPH:     kph,
		Uptime:  uptime,
		Actions: b.browser.RecentActions(overlayActions),
	}
	select {
	case b.overlayCh <- frame:
	default:
		logging.Debug("Overlay worker busy, skipping frame")
	}
}

func (b *Bot) overlayWorker() {
	for frame := range b.overlayCh {
		if err := b.browser.DrawOverlay(frame); err != nil {
			logging.Debug("Failed to draw overlay: %v", err)
		}
	}
}

// SaveState writes the config and, in browser mode, the current cookies.
func (b *Bot) SaveState() {
	if b.browser != nil {
		if cookies, err := b.browser.Cookies(); err != nil {
			logging.Debug("Keeping saved cookies: %v", err)
		} else {
			b.data.Cookies = cookies
		}
	}
	if err := config.Save(b.opts.ConfigPath, b.data); err != nil {
		logging.Error("Failed to save data: %v", err)
	}
}
