package vision

import (
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"

	"flyff-assist/internal/geom"
)

// QueueCapacity bounds the channel rows are emitted into. Producers block
// when it is full.
const QueueCapacity = 4096

// HealthBarArea is the top-left HUD rectangle (x <= 250, y <= 110). Its
// colors collide with name tags so creature scans exclude it.
var HealthBarArea = geom.NewBounds(0, 0, 251, 111)

// Reference is one color the classifier looks for.
type Reference struct {
	Color     Color
	Tolerance uint8
	Category  Category
}

// ROI limits a scan. Bounds are inclusive and a zero max means the full
// extent of the frame.
type ROI struct {
	MinX, MinY int
	MaxX, MaxY int
}

// ScanOptions configures a single classification pass.
type ScanOptions struct {
	ROI ROI

	// Rows with y <= TopBand or y > height-BottomBand are UI chrome.
	TopBand    int
	BottomBand int

	// Points inside any of these are never emitted.
	Exclude []geom.Bounds
}

// Classified is a pixel that matched a reference.
type Classified struct {
	Point    geom.Point
	Category Category
}

// Classifier scans frames row by row on a bounded worker pool.
type Classifier struct {
	workers int
}

// NewClassifier returns a classifier using at most workers goroutines;
// workers <= 0 means one per CPU.
func NewClassifier(workers int) *Classifier {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Classifier{workers: workers}
}

// Classify scans img against refs and streams every matching pixel. Each
// pixel is tagged with the first reference it matches. The channel is
// closed once all rows are done; arrival order is unspecified.
func (c *Classifier) Classify(img *image.RGBA, refs []Reference, opts ScanOptions) <-chan Classified {
	out := make(chan Classified, QueueCapacity)
	if img == nil || len(refs) == 0 {
		close(out)
		return out
	}

	width, height := img.Rect.Dx(), img.Rect.Dy()
	roi := opts.ROI
	if roi.MaxX == 0 || roi.MaxX >= width {
		roi.MaxX = width - 1
	}
	if roi.MaxY == 0 || roi.MaxY >= height {
		roi.MaxY = height - 1
	}
	bottom := height - opts.BottomBand

	go func() {
		defer close(out)

		var g errgroup.Group
		g.SetLimit(c.workers)
		for y := max(roi.MinY, 0); y <= roi.MaxY; y++ {
			if y <= opts.TopBand || y > bottom {
				continue
			}
			y := y
			g.Go(func() error {
				scanRow(img, y, roi, refs, opts.Exclude, out)
				return nil
			})
		}
		_ = g.Wait()
	}()

	return out
}

func scanRow(img *image.RGBA, y int, roi ROI, refs []Reference, exclude []geom.Bounds, out chan<- Classified) {
	row := img.Pix[y*img.Stride : y*img.Stride+img.Rect.Dx()*4]
	for x := max(roi.MinX, 0); x*4 < len(row); x++ {
		if x > roi.MaxX {
			return
		}
		px := row[x*4 : x*4+4]
		if px[3] != 255 {
			continue
		}

		p := geom.Pt(x, y)
		if excluded(p, exclude) {
			continue
		}

		for _, ref := range refs {
			if ref.Color.Matches(px[0], px[1], px[2], ref.Tolerance) {
				out <- Classified{Point: p, Category: ref.Category}
				break
			}
		}
	}
}

func excluded(p geom.Point, areas []geom.Bounds) bool {
	for _, a := range areas {
		if a.Contains(p) {
			return true
		}
	}
	return false
}

// Collect drains a classification stream into one point list per category.
func Collect(stream <-chan Classified) map[Category][]geom.Point {
	points := make(map[Category][]geom.Point)
	for c := range stream {
		points[c.Category] = append(points[c.Category], c.Point)
	}
	return points
}
