package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/png"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"golang.org/x/image/draw"

	"flyff-assist/internal/config"
	"flyff-assist/internal/logging"
)

const gameURL = "https://universe.flyff.com/play"

// Browser timeouts.
const (
	navigateTimeout = 60 * time.Second
	captureTimeout  = 5 * time.Second
	evalTimeout     = 2 * time.Second
	canvasTimeout   = 2 * time.Second
)

// Canvas size the detection geometry is tuned for.
const (
	canvasWidth  = 800
	canvasHeight = 600
)

// actionLogSize is how many actions the overlay remembers.
const actionLogSize = 10

var errBrowserClosed = errors.New("browser context is invalid")

// inputScript is evaluated in the page once the game has loaded. It
// dispatches synthetic events straight to the game canvas.
const inputScript = `
const client = document.querySelector('canvas')
const input = document.querySelector('input')

function dispatchEvent(event) {
    return client.dispatchEvent(event)
}

function mouseEvent(type, x, y) {
    switch (type) {
        case 'move':
            dispatchEvent(new MouseEvent('mousemove', { clientX: x, clientY: y }))
            break;
        case 'moveClick':
            dispatchEvent(new MouseEvent('mousemove', { clientX: x, clientY: y }))
            dispatchEvent(new MouseEvent('mousedown', { clientX: x, clientY: y }))
            dispatchEvent(new MouseEvent('mouseup', { clientX: x, clientY: y }))
            break;
    }
}

function keyboardEvent(keyMode, key) {
    switch (keyMode) {
        case 'press':
            dispatchEvent(new KeyboardEvent('keydown', { key }))
            dispatchEvent(new KeyboardEvent('keyup', { key }))
            break;
        case 'hold':
            dispatchEvent(new KeyboardEvent('keydown', { key }))
            break;
        case 'release':
            dispatchEvent(new KeyboardEvent('keyup', { key }))
            break;
    }
}

function sendSlot(slotBarIndex, slotIndex) {
    keyboardEvent('press', ` + "`F${slotBarIndex + 1}`" + `)
    keyboardEvent('press', String(slotIndex))
}
`

// ActionLog is one entry of the overlay's action list.
type ActionLog struct {
	Message   string
	Timestamp time.Time
}

// Browser owns the chromedp instance running the game client. It is the
// frame source and the action recorder in browser mode.
//
// The contexts are fixed at construction. Every other method is a no-op
// returning errBrowserClosed until Start has launched the browser.
type Browser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	started     atomic.Bool
	overlay     atomic.Bool

	ready    bool
	readyMu  sync.RWMutex
	actions  []ActionLog
	actionMu sync.RWMutex
}

// NewBrowser creates a browser. Nothing is launched until Start.
func NewBrowser() *Browser {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", false),
		chromedp.Flag("disable-gpu", false),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(canvasWidth, canvasHeight),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(logging.Debug))
	return &Browser{
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
		actions:     make([]ActionLog, 0, actionLogSize),
	}
}

// EnableOverlay tells Capture to hide the debug overlay while it grabs a
// frame.
func (b *Browser) EnableOverlay() {
	b.overlay.Store(true)
}

// Start launches Chromium, restores cookies and opens the game.
func (b *Browser) Start(cookies []config.Cookie) error {
	// Run without actions allocates the browser.
	if err := chromedp.Run(b.ctx); err != nil {
		logging.Error("Failed to launch browser: %v", err)
		return err
	}
	b.started.Store(true)
	logging.Info("Browser launched")

	if len(cookies) > 0 {
		logging.Info("Setting %d cookies before navigation", len(cookies))
		if err := b.SetCookies(cookies); err != nil {
			logging.Warn("Failed to set cookies before navigation: %v", err)
		}
	}

	logging.Info("Navigating to %s", gameURL)
	navCtx, navCancel := context.WithTimeout(b.ctx, navigateTimeout)
	defer navCancel()
	if err := chromedp.Run(navCtx, chromedp.Navigate(gameURL)); err != nil {
		logging.Error("Navigation error: %v", err)
		return err
	}

	logging.Info("Navigation completed successfully")
	return nil
}

func (b *Browser) alive() bool {
	return b.started.Load() && b.ctx.Err() == nil
}

// Ready reports whether the game canvas exists, injecting the input script
// the first time it does.
func (b *Browser) Ready() bool {
	if !b.alive() {
		return false
	}

	var exists bool
	ctx, cancel := context.WithTimeout(b.ctx, canvasTimeout)
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.Evaluate(`document.querySelector('canvas') !== null`, &exists)); err != nil {
		logging.Debug("Failed to check canvas existence: %v", err)
		return false
	}
	if !exists {
		b.setReady(false)
		return false
	}

	b.readyMu.RLock()
	ready := b.ready
	b.readyMu.RUnlock()
	if ready {
		return true
	}

	if err := b.Eval(inputScript); err != nil {
		logging.Warn("Failed to inject input script: %v", err)
		return false
	}
	logging.Info("Game canvas found, input script injected")
	b.setReady(true)
	return true
}

func (b *Browser) setReady(v bool) {
	b.readyMu.Lock()
	b.ready = v
	b.readyMu.Unlock()
}

// Capture screenshots the page. With the overlay enabled it is hidden for
// the shot so detection never sees its own boxes.
func (b *Browser) Capture() (*image.RGBA, error) {
	if !b.alive() {
		return nil, errBrowserClosed
	}

	var buf []byte
	shot := chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().WithFormat(page.CaptureScreenshotFormatPng).Do(ctx)
		return err
	})
	tasks := chromedp.Tasks{shot}
	if b.overlay.Load() {
		tasks = chromedp.Tasks{
			chromedp.Evaluate(overlayVisibilityScript(false), nil),
			shot,
			chromedp.Evaluate(overlayVisibilityScript(true), nil),
		}
	}

	ctx, cancel := context.WithTimeout(b.ctx, captureTimeout)
	defer cancel()
	if err := chromedp.Run(ctx, tasks); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	return toRGBA(img), nil
}

// toRGBA returns img as an RGBA anchored at the origin.
func toRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && bounds.Min == (image.Point{}) {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

// Eval runs js in the page.
func (b *Browser) Eval(js string) error {
	if !b.alive() {
		return errBrowserClosed
	}
	ctx, cancel := context.WithTimeout(b.ctx, evalTimeout)
	defer cancel()
	return chromedp.Run(ctx, chromedp.Evaluate(js, nil))
}

// Reload reloads the game page. The input script is injected again once
// the canvas is back.
func (b *Browser) Reload() error {
	if !b.alive() {
		return errBrowserClosed
	}
	b.setReady(false)
	ctx, cancel := context.WithTimeout(b.ctx, navigateTimeout)
	defer cancel()
	return chromedp.Run(ctx, chromedp.Reload())
}

// LeaveGame navigates away from the client, which logs the character out.
func (b *Browser) LeaveGame() error {
	if !b.alive() {
		return errBrowserClosed
	}
	b.setReady(false)
	ctx, cancel := context.WithTimeout(b.ctx, navigateTimeout)
	defer cancel()
	return chromedp.Run(ctx, chromedp.Navigate("about:blank"))
}

// LogAction records an action for the overlay, keeping the last few.
func (b *Browser) LogAction(message string) {
	b.actionMu.Lock()
	defer b.actionMu.Unlock()

	b.actions = append(b.actions, ActionLog{Message: message, Timestamp: time.Now()})
	if len(b.actions) > actionLogSize {
		b.actions = b.actions[len(b.actions)-actionLogSize:]
	}
}

// RecentActions returns up to n of the latest actions, oldest first.
func (b *Browser) RecentActions(n int) []ActionLog {
	b.actionMu.RLock()
	defer b.actionMu.RUnlock()

	n = min(n, len(b.actions))
	out := make([]ActionLog, n)
	copy(out, b.actions[len(b.actions)-n:])
	return out
}

// Cookies reads every browser cookie.
func (b *Browser) Cookies() ([]config.Cookie, error) {
	if !b.alive() {
		return nil, errBrowserClosed
	}

	var cookies []*network.Cookie
	err := chromedp.Run(b.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = network.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return nil, err
	}

	out := make([]config.Cookie, len(cookies))
	for i, c := range cookies {
		out[i] = config.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		}
	}
	logging.Debug("Retrieved %d cookies from browser", len(out))
	return out, nil
}

// SetCookies installs cookies. A cookie the browser rejects is skipped.
func (b *Browser) SetCookies(cookies []config.Cookie) error {
	if len(cookies) == 0 {
		return nil
	}
	if !b.alive() {
		return errBrowserClosed
	}

	return chromedp.Run(b.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		for _, c := range cookies {
			params := network.SetCookie(c.Name, c.Value).
				WithDomain(c.Domain).
				WithPath(c.Path).
				WithHTTPOnly(c.HTTPOnly).
				WithSecure(c.Secure)
			if c.Expires > 0 {
				expires := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
				params = params.WithExpires(&expires)
			}
			if c.SameSite != "" {
				params = params.WithSameSite(network.CookieSameSite(c.SameSite))
			}
			if err := params.Do(ctx); err != nil {
				logging.Warn("Failed to set cookie %s: %v", c.Name, err)
			}
		}
		return nil
	}))
}

// Close shuts the browser down.
func (b *Browser) Close() {
	logging.Info("Closing browser...")
	if b.cancel != nil {
		b.cancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
}
