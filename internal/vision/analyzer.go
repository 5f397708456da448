package vision

import (
	"image"
	"sync"

	"flyff-assist/internal/geom"
	"flyff-assist/internal/logging"
	"flyff-assist/internal/timing"
)

// MobConfig holds the name-tag detection parameters for one scan.
type MobConfig struct {
	PassiveColor        Color
	PassiveTolerance    uint8
	AggressiveColor     Color
	AggressiveTolerance uint8
	Width               WidthFilter
}

// Ignore bands applied to every scan of a captured frame. The bottom of the
// canvas holds the action bars and chat.
const (
	IgnoreAreaTop    = 0
	IgnoreAreaBottom = 100
)

// ImageAnalyzer runs detection against the most recent frame.
type ImageAnalyzer struct {
	classifier *Classifier
	frame      *image.RGBA
	mu         sync.RWMutex
}

// NewImageAnalyzer creates a new image analyzer
func NewImageAnalyzer(classifier *Classifier) *ImageAnalyzer {
	if classifier == nil {
		classifier = NewClassifier(0)
	}
	return &ImageAnalyzer{classifier: classifier}
}

// SetFrame installs the frame used by the following detections. Passing
// nil clears it so a failed capture never leaves stale pixels behind.
func (ia *ImageAnalyzer) SetFrame(img *image.RGBA) {
	ia.mu.Lock()
	defer ia.mu.Unlock()
	ia.frame = img
}

// Frame returns the current frame, or nil.
func (ia *ImageAnalyzer) Frame() *image.RGBA {
	ia.mu.RLock()
	defer ia.mu.RUnlock()
	return ia.frame
}

// Classifier returns the classifier shared with the HUD readers.
func (ia *ImageAnalyzer) Classifier() *Classifier {
	return ia.classifier
}

// Center returns the middle of the current frame, where the player stands.
func (ia *ImageAnalyzer) Center() geom.Point {
	img := ia.Frame()
	if img == nil {
		return geom.Point{}
	}
	return geom.Pt(img.Rect.Dx()/2, img.Rect.Dy()/2)
}

func (ia *ImageAnalyzer) scanOptions() ScanOptions {
	return ScanOptions{TopBand: IgnoreAreaTop, BottomBand: IgnoreAreaBottom}
}

// IdentifyMobs finds passive and aggressive name tags in one pass.
// Aggressive mobs come first in the result.
func (ia *ImageAnalyzer) IdentifyMobs(cfg MobConfig) []Target {
	img := ia.Frame()
	if img == nil {
		return nil
	}
	timer := timing.NewTimer("identify_mobs")
	defer timer.Stop()

	refs := []Reference{
		{Color: cfg.PassiveColor, Tolerance: cfg.PassiveTolerance, Category: MobPassive},
		{Color: cfg.AggressiveColor, Tolerance: cfg.AggressiveTolerance, Category: MobAggressive},
	}
	opts := ia.scanOptions()
	opts.Exclude = []geom.Bounds{HealthBarArea}

	points := Collect(ia.classifier.Classify(img, refs, opts))
	logging.Debug("Found %d passive points, %d aggressive points",
		len(points[MobPassive]), len(points[MobAggressive]))

	filter := cfg.Width
	aggressive := MergeCloud(points[MobAggressive], MobAggressive, &filter)
	passive := MergeCloud(points[MobPassive], MobPassive, &filter)

	logging.Debug("Identified %d total mobs (passive: %d, aggressive: %d)",
		len(aggressive)+len(passive), len(passive), len(aggressive))
	return append(aggressive, passive...)
}

// FindClosestMob picks the mob to engage relative to the frame center.
func (ia *ImageAnalyzer) FindClosestMob(mobs []Target, avoid *AvoidanceList, ceiling int) *Target {
	if ia.Frame() == nil {
		return nil
	}
	return FindClosest(mobs, avoid, ceiling, ia.Center())
}

// MarkerDistance returns the distance from the marker's attack point to
// the frame center.
func (ia *ImageAnalyzer) MarkerDistance(marker Target) int {
	return marker.AttackCoords().Distance(ia.Center())
}
