package vision

import (
	"image"

	"flyff-assist/internal/logging"
)

// Target marker colors. The blank variant is shown over targets that
// cannot be attacked, such as party members.
var (
	MarkerColor      = NewColor(246, 90, 106)
	BlankMarkerColor = NewColor(164, 180, 226)
)

// MarkerTolerance is the tolerance used for both marker colors.
const MarkerTolerance = 5

// IdentifyTargetMarker looks for the red marker over the whole frame and,
// when there is none, tries the blank marker once. The largest cluster
// wins; single pixels are noise and ignored.
func (ia *ImageAnalyzer) IdentifyTargetMarker() *Target {
	img := ia.Frame()
	if img == nil {
		return nil
	}

	markers := ia.scanMarker(img, MarkerColor)
	if len(markers) == 0 {
		markers = ia.scanMarker(img, BlankMarkerColor)
	}

	var biggest *Target
	for i := range markers {
		if biggest == nil || markers[i].Bounds.Size() > biggest.Bounds.Size() {
			biggest = &markers[i]
		}
	}
	if biggest == nil || biggest.Bounds.Size() <= 1 {
		return nil
	}

	logging.Debug("Target marker detected: %s", biggest)
	return biggest
}

func (ia *ImageAnalyzer) scanMarker(img *image.RGBA, c Color) []Target {
	refs := []Reference{{Color: c, Tolerance: MarkerTolerance, Category: TargetMarker}}
	points := Collect(ia.classifier.Classify(img, refs, ia.scanOptions()))
	return MergeCloud(points[TargetMarker], TargetMarker, nil)
}
