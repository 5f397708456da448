// Package geom holds the screen-space primitives shared by detection and
// selection: points, rectangles and point clouds.
package geom

import "math"

// Point represents a 2D coordinate in screen space.
type Point struct {
	X int
	Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Distance returns the Euclidean distance to other, truncated to an integer.
func (p Point) Distance(other Point) int {
	dx := float64(p.X - other.X)
	dy := float64(p.Y - other.Y)
	return int(math.Sqrt(dx*dx + dy*dy))
}

// Bounds represents a rectangular area. W and H count pixels, so a single
// point has W == H == 1.
type Bounds struct {
	X int // Top-left X coordinate
	Y int // Top-left Y coordinate
	W int // Width
	H int // Height
}

// NewBounds creates a new Bounds
func NewBounds(x, y, w, h int) Bounds {
	return Bounds{X: x, Y: y, W: w, H: h}
}

// Center returns the center point of the bounds
func (b Bounds) Center() Point {
	return Point{X: b.X + b.W/2, Y: b.Y + b.H/2}
}

// BottomCenter returns the middle of the bottom edge.
func (b Bounds) BottomCenter() Point {
	return Point{X: b.X + b.W/2, Y: b.Y + b.H}
}

// Size returns the area of the bounds
func (b Bounds) Size() int {
	return b.W * b.H
}

// Contains reports whether p lies inside the half-open rectangle.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.X && p.X < b.X+b.W &&
		p.Y >= b.Y && p.Y < b.Y+b.H
}

// Grow expands the bounds by amount, split evenly on both sides.
func (b Bounds) Grow(amount int) Bounds {
	return Bounds{
		X: b.X - amount/2,
		Y: b.Y - amount/2,
		W: b.W + amount,
		H: b.H + amount,
	}
}

// Around returns a square of side 2*radius centered on p.
func Around(p Point, radius int) Bounds {
	return Bounds{X: p.X - radius, Y: p.Y - radius, W: 2 * radius, H: 2 * radius}
}

// PointCloud is an unordered set of points waiting to be clustered.
type PointCloud struct {
	Points []Point
}

// NewPointCloud wraps points without copying them.
func NewPointCloud(points []Point) *PointCloud {
	return &PointCloud{Points: points}
}

// Add adds a point to the cloud
func (pc *PointCloud) Add(p Point) {
	pc.Points = append(pc.Points, p)
}

// Len returns the number of points
func (pc *PointCloud) Len() int {
	return len(pc.Points)
}

// ToBounds returns the minimal rectangle covering every point, or the zero
// Bounds for an empty cloud.
func (pc *PointCloud) ToBounds() Bounds {
	return pointsToBounds(pc.Points)
}

func pointsToBounds(points []Point) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y
	for _, p := range points[1:] {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	return Bounds{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1}
}
