package main

import (
	"fmt"

	"github.com/getlantern/systray"

	"flyff-assist/internal/config"
	"flyff-assist/internal/logging"
)

// TrayApp is the system tray menu. Mode clicks are forwarded to the bot,
// which applies them between ticks.
type TrayApp struct {
	bot *Bot

	statusItem  *systray.MenuItem
	statsItem   *systray.MenuItem
	stopItem    *systray.MenuItem
	farmingItem *systray.MenuItem
	supportItem *systray.MenuItem
	quitItem    *systray.MenuItem

	ready chan struct{}
}

// NewTrayApp creates the tray for bot.
func NewTrayApp(bot *Bot) *TrayApp {
	return &TrayApp{bot: bot, ready: make(chan struct{})}
}

// Run blocks on the tray event loop. It must be called from main.
func (t *TrayApp) Run() {
	logging.Info("Starting system tray application")
	systray.Run(t.onReady, func() {
		logging.Info("System tray exit")
		t.bot.Shutdown()
	})
}

func (t *TrayApp) onReady() {
	systray.SetTitle("Flyff Assist")
	systray.SetTooltip("Flyff Universe assistant")

	t.statusItem = systray.AddMenuItem("Status: Starting...", "Current bot status")
	t.statusItem.Disable()
	t.statsItem = systray.AddMenuItem("No kills yet", "Session statistics")
	t.statsItem.Disable()

	systray.AddSeparator()

	modeMenu := systray.AddMenuItem("Mode", "Select bot mode")
	t.stopItem = modeMenu.AddSubMenuItemCheckbox("Stop", "Stop all actions", false)
	t.farmingItem = modeMenu.AddSubMenuItemCheckbox("Farming", "Farm mobs automatically", false)
	t.supportItem = modeMenu.AddSubMenuItemCheckbox("Support", "Follow and heal a party member", false)

	systray.AddSeparator()
	t.quitItem = systray.AddMenuItem("Quit", "Quit the application")

	close(t.ready)
	go t.handleEvents()

	logging.Info("System tray initialized")
	t.bot.Start()
}

func (t *TrayApp) handleEvents() {
	for {
		select {
		case <-t.stopItem.ClickedCh:
			t.bot.ChangeMode(config.ModeStopped)
		case <-t.farmingItem.ClickedCh:
			t.bot.ChangeMode(config.ModeFarming)
		case <-t.supportItem.ClickedCh:
			t.bot.ChangeMode(config.ModeSupport)
		case <-t.quitItem.ClickedCh:
			logging.Info("Quit requested by user")
			systray.Quit()
			return
		}
	}
}

func (t *TrayApp) isReady() bool {
	select {
	case <-t.ready:
		return true
	default:
		return false
	}
}

// SetMode checks the menu entry of mode.
func (t *TrayApp) SetMode(mode config.Mode) {
	if !t.isReady() {
		return
	}
	for item, m := range map[*systray.MenuItem]config.Mode{
		t.stopItem:    config.ModeStopped,
		t.farmingItem: config.ModeFarming,
		t.supportItem: config.ModeSupport,
	} {
		if m == mode {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
}

// UpdateStatus refreshes the status lines.
func (t *TrayApp) UpdateStatus(mode config.Mode, state string, kills int, kph float64, uptime string) {
	if !t.isReady() {
		return
	}
	if state != "" {
		t.statusItem.SetTitle(fmt.Sprintf("Status: %s (%s)", mode, state))
	} else {
		t.statusItem.SetTitle(fmt.Sprintf("Status: %s", mode))
	}
	t.statsItem.SetTitle(fmt.Sprintf("%d kills | %.1f/h | %s", kills, kph, uptime))
}
