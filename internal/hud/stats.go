// Package hud reads the player's numbers off the client HUD: stat bar
// percentages and the connection indicator.
package hud

import (
	"image"

	"flyff-assist/internal/geom"
	"flyff-assist/internal/vision"
)

// Bar colors sampled from the client, darkest to brightest.
var (
	hpColors = []vision.Color{
		vision.NewColor(174, 18, 55),
		vision.NewColor(188, 24, 62),
		vision.NewColor(204, 30, 70),
		vision.NewColor(220, 36, 78),
	}
	mpColors = []vision.Color{
		vision.NewColor(20, 84, 196),
		vision.NewColor(36, 132, 220),
		vision.NewColor(44, 164, 228),
		vision.NewColor(56, 188, 232),
	}
	fpColors = []vision.Color{
		vision.NewColor(45, 230, 29),
		vision.NewColor(28, 172, 28),
		vision.NewColor(44, 124, 52),
		vision.NewColor(20, 146, 20),
	}
)

// BarTolerance is the per-channel tolerance for bar colors.
const BarTolerance = 2

// Fixed HUD areas on the 800x600 canvas.
var (
	SelfArea   = vision.ROI{MinX: 0, MinY: 0, MaxX: 250, MaxY: 110}
	TargetArea = vision.ROI{MinX: 300, MinY: 0, MaxX: 550, MaxY: 60}
)

// A bar is at least this many rows tall; shorter blobs are text.
const minBarHeight = 3

// StatusBar tracks one bar. Value is the detected width relative to the
// widest width seen so far, in percent.
type StatusBar struct {
	Kind     vision.Category
	Value    int
	Width    int
	MaxWidth int
}

// Update records a new width and recomputes Value. It reports whether
// Value changed.
func (b *StatusBar) Update(width int) bool {
	prev := b.Value
	b.Width = width
	if width > b.MaxWidth {
		b.MaxWidth = width
	}

	if b.MaxWidth > 0 {
		b.Value = width * 100 / b.MaxWidth
	} else {
		b.Value = 0
	}
	b.Value = max(0, min(100, b.Value))
	return b.Value != prev
}

// ClientStats holds the live stats of one frame.
type ClientStats struct {
	HP       StatusBar
	MP       StatusBar
	FP       StatusBar
	TargetHP StatusBar

	// Set by the caller once the target marker has been looked up.
	TargetOnScreen bool
}

// NewClientStats creates an empty stats set.
func NewClientStats() *ClientStats {
	return &ClientStats{
		HP:       StatusBar{Kind: vision.BarHP},
		MP:       StatusBar{Kind: vision.BarMP},
		FP:       StatusBar{Kind: vision.BarFP},
		TargetHP: StatusBar{Kind: vision.BarHP},
	}
}

// Reset forgets every width seen, for example after a mode change.
func (cs *ClientStats) Reset() {
	*cs = *NewClientStats()
}

// TargetAlive reports whether the selected target still has HP.
func (cs *ClientStats) TargetAlive() bool {
	return cs.TargetHP.Value > 0
}

// Update reads all bars from img.
func (cs *ClientStats) Update(c *vision.Classifier, img *image.RGBA) {
	if img == nil {
		return
	}

	self := scanBars(c, img, SelfArea, map[vision.Category][]vision.Color{
		vision.BarHP: hpColors,
		vision.BarMP: mpColors,
		vision.BarFP: fpColors,
	})
	cs.HP.Update(self[vision.BarHP])
	cs.MP.Update(self[vision.BarMP])
	cs.FP.Update(self[vision.BarFP])

	target := scanBars(c, img, TargetArea, map[vision.Category][]vision.Color{
		vision.BarHP: hpColors,
	})
	cs.TargetHP.Update(target[vision.BarHP])
}

// scanBars returns the widest bar-shaped cluster per category.
func scanBars(c *vision.Classifier, img *image.RGBA, roi vision.ROI, colors map[vision.Category][]vision.Color) map[vision.Category]int {
	var refs []vision.Reference
	for _, kind := range []vision.Category{vision.BarHP, vision.BarMP, vision.BarFP} {
		for _, col := range colors[kind] {
			refs = append(refs, vision.Reference{Color: col, Tolerance: BarTolerance, Category: kind})
		}
	}

	points := vision.Collect(c.Classify(img, refs, vision.ScanOptions{ROI: roi, TopBand: -1}))

	widths := make(map[vision.Category]int, len(colors))
	for kind, pts := range points {
		for _, b := range geom.NewPointCloud(pts).Cluster(vision.MergeDistanceX, vision.MergeDistanceY) {
			if b.H >= minBarHeight && b.W > widths[kind] {
				widths[kind] = b.W
			}
		}
	}
	return widths
}
