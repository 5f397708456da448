package main

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/go-vgo/robotgo"

	"flyff-assist/internal/movement"
)

// NativeInput drives the focused game window with OS-level input. Canvas
// coordinates are offset by origin, the canvas' top-left on screen.
type NativeInput struct {
	origin image.Point
}

// NewNativeInput creates native input for a canvas at origin.
func NewNativeInput(origin image.Point) *NativeInput {
	return &NativeInput{origin: origin}
}

// SendKey taps, holds or releases key.
func (n *NativeInput) SendKey(key string, mode movement.KeyMode) error {
	switch mode {
	case movement.KeyPress:
		return robotgo.KeyTap(key)
	case movement.KeyHold:
		return robotgo.KeyToggle(key, "down")
	case movement.KeyRelease:
		return robotgo.KeyToggle(key, "up")
	default:
		return fmt.Errorf("unsupported key mode: %d", mode)
	}
}

// SendSlot selects the bar with F1-F9 and taps the slot number.
func (n *NativeInput) SendSlot(bar, slot int) error {
	if err := robotgo.KeyTap(fmt.Sprintf("f%d", bar+1)); err != nil {
		return err
	}
	return robotgo.KeyTap(strconv.Itoa(slot))
}

// MouseClick moves the cursor over the canvas point and left-clicks.
func (n *NativeInput) MouseClick(x, y int) error {
	robotgo.Move(n.origin.X+x, n.origin.Y+y)
	robotgo.Click("left", false)
	return nil
}

// NativeScreen captures the canvas area straight from the screen.
type NativeScreen struct {
	area image.Rectangle
}

// NewNativeScreen captures the 800x600 canvas at origin.
func NewNativeScreen(origin image.Point) *NativeScreen {
	return &NativeScreen{area: image.Rect(0, 0, canvasWidth, canvasHeight).Add(origin)}
}

// Capture grabs the canvas area.
func (s *NativeScreen) Capture() (*image.RGBA, error) {
	bit := robotgo.CaptureScreen(s.area.Min.X, s.area.Min.Y, s.area.Dx(), s.area.Dy())
	if bit == nil {
		return nil, errors.New("screen capture failed")
	}
	defer robotgo.FreeBitmap(bit)

	img := robotgo.ToImage(bit)
	if img == nil {
		return nil, errors.New("screen capture returned no image")
	}
	return toRGBA(img), nil
}

// parseOrigin reads an "x,y" screen position.
func parseOrigin(s string) (image.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return image.Point{}, fmt.Errorf("origin %q: want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return image.Point{}, fmt.Errorf("origin %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return image.Point{}, fmt.Errorf("origin %q: %w", s, err)
	}
	if x < 0 || y < 0 {
		return image.Point{}, fmt.Errorf("origin %q: negative coordinate", s)
	}
	return image.Pt(x, y), nil
}
