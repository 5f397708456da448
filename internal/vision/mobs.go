package vision

import (
	"flyff-assist/internal/geom"
	"flyff-assist/internal/logging"
)

// Merge distances for name tags: letters of one name are close on X,
// while separate lines of text sit a few rows apart.
const (
	MergeDistanceX = 50
	MergeDistanceY = 3
)

// WidthFilter keeps clusters whose width lies in [Min, Max].
type WidthFilter struct {
	Min int
	Max int
}

// Accepts reports whether w is within the filter.
func (f WidthFilter) Accepts(w int) bool {
	return w >= f.Min && w <= f.Max
}

// MergeCloud clusters points with the default merge distances and turns
// every cluster into a Target of the given category. A nil filter keeps
// every cluster.
func MergeCloud(points []geom.Point, category Category, filter *WidthFilter) []Target {
	clusters := geom.NewPointCloud(points).Cluster(MergeDistanceX, MergeDistanceY)

	targets := make([]Target, 0, len(clusters))
	for _, bounds := range clusters {
		if filter != nil && !filter.Accepts(bounds.W) {
			logging.Debug("%s cluster REJECTED at (%d,%d) size %dx%d (width must be in [%d,%d])",
				category, bounds.X, bounds.Y, bounds.W, bounds.H, filter.Min, filter.Max)
			continue
		}
		targets = append(targets, Target{Category: category, Bounds: bounds})
	}
	return targets
}
