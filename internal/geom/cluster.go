package geom

import "sort"

// Axis selects the coordinate a clustering pass works on.
type Axis func(Point) int

var (
	XAxis Axis = func(p Point) int { return p.X }
	YAxis Axis = func(p Point) int { return p.Y }
)

// ClusterByDistance splits the cloud along one axis. Points whose coordinate
// is within maxDistance of a point already in the group join it, which on a
// single axis is the same as cutting the sorted sequence at every gap larger
// than maxDistance. The cloud itself is not modified.
func (pc *PointCloud) ClusterByDistance(maxDistance int, axis Axis) []*PointCloud {
	if len(pc.Points) == 0 {
		return nil
	}

	points := make([]Point, len(pc.Points))
	copy(points, pc.Points)
	// Sort on both coordinates so the output does not depend on input order.
	sort.Slice(points, func(i, j int) bool {
		ai, aj := axis(points[i]), axis(points[j])
		if ai != aj {
			return ai < aj
		}
		if points[i].X != points[j].X {
			return points[i].X < points[j].X
		}
		return points[i].Y < points[j].Y
	})

	var clusters []*PointCloud
	current := []Point{points[0]}
	for i := 1; i < len(points); i++ {
		if axis(points[i])-axis(points[i-1]) <= maxDistance {
			current = append(current, points[i])
			continue
		}
		clusters = append(clusters, NewPointCloud(current))
		current = []Point{points[i]}
	}
	return append(clusters, NewPointCloud(current))
}

// Cluster runs the two-pass interval clustering: first along X with
// maxDistanceX, then along Y with maxDistanceY inside every X-cluster. Each
// resulting cluster is returned as its bounding rectangle, in X-cluster order
// and then Y order.
func (pc *PointCloud) Cluster(maxDistanceX, maxDistanceY int) []Bounds {
	var result []Bounds
	for _, xCluster := range pc.ClusterByDistance(maxDistanceX, XAxis) {
		for _, xyCluster := range xCluster.ClusterByDistance(maxDistanceY, YAxis) {
			result = append(result, xyCluster.ToBounds())
		}
	}
	return result
}
