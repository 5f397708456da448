// Package vision finds game entities in captured frames: it classifies
// pixels by reference color, merges them into targets and picks the one to
// engage.
package vision

import "image/color"

// Color is an opaque RGB reference color.
type Color struct {
	R, G, B uint8
}

// NewColor creates a new Color
func NewColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// RGBA converts the reference to an opaque color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Matches reports whether every channel of the observed pixel is within
// tolerance of the reference. Alpha is not looked at; callers skip
// non-opaque pixels before matching.
func (c Color) Matches(r, g, b, tolerance uint8) bool {
	return channelDiff(r, c.R) <= tolerance &&
		channelDiff(g, c.G) <= tolerance &&
		channelDiff(b, c.B) <= tolerance
}

// MatchesRGBA is Matches for a color.RGBA pixel.
func (c Color) MatchesRGBA(px color.RGBA, tolerance uint8) bool {
	return c.Matches(px.R, px.G, px.B, tolerance)
}

// channelDiff is |a-b| without leaving uint8.
func channelDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
