package main

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"flyff-assist/internal/config"
	"flyff-assist/internal/geom"
	"flyff-assist/internal/hud"
	"flyff-assist/internal/logging"
	"flyff-assist/internal/vision"
)

const trainResultPath = "result.png"

var (
	passiveBox    = color.RGBA{R: 234, G: 234, B: 149, A: 255}
	aggressiveBox = color.RGBA{R: 179, G: 23, B: 23, A: 255}
	markerBox     = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	textColor     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// TrainingMode runs detection on a saved screenshot and writes the
// annotated result to result.png.
func TrainingMode(path string, data *config.PersistentData) error {
	logging.Info("=== Training Mode Started ===")

	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		return fmt.Errorf("failed to read %s", path)
	}
	defer mat.Close()

	img, err := mat.ToImage()
	if err != nil {
		return fmt.Errorf("convert %s: %w", path, err)
	}
	frame := toRGBA(img)
	logging.Info("Image loaded: %dx%d", frame.Bounds().Dx(), frame.Bounds().Dy())

	settings := data.Config.Farming.Settings()
	analyzer := vision.NewImageAnalyzer(nil)
	analyzer.SetFrame(frame)

	mobs := analyzer.IdentifyMobs(settings.Mobs)
	logging.Info("Found %d mobs", len(mobs))
	marker := analyzer.IdentifyTargetMarker()
	logging.Info("Target marker detected: %v", marker != nil)

	stats := hud.NewClientStats()
	stats.Update(analyzer.Classifier(), frame)
	stats.TargetOnScreen = marker != nil
	logging.Info("HP: %d%%, MP: %d%%, FP: %d%%, Target HP: %d%%",
		stats.HP.Value, stats.MP.Value, stats.FP.Value, stats.TargetHP.Value)

	annotate(&mat, mobs, marker, stats, settings)
	if !gocv.IMWrite(trainResultPath, mat) {
		return fmt.Errorf("failed to write %s", trainResultPath)
	}

	logging.Info("=== Training Mode Completed, see %s ===", trainResultPath)
	return nil
}

func rect(b geom.Bounds) image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

func label(mat *gocv.Mat, text string, at image.Point, c color.RGBA) {
	gocv.PutText(mat, text, at, gocv.FontHersheyPlain, 1.2, c, 1)
}

func annotate(mat *gocv.Mat, mobs []vision.Target, marker *vision.Target, stats *hud.ClientStats, settings config.FarmingSettings) {
	for i, mob := range mobs {
		c := passiveBox
		if mob.Category == vision.MobAggressive {
			c = aggressiveBox
		}
		gocv.Rectangle(mat, rect(mob.Bounds), c, 2)
		label(mat, fmt.Sprintf("#%d %s (%dx%d)", i+1, mob.Category, mob.Bounds.W, mob.Bounds.H),
			image.Pt(mob.Bounds.X, mob.Bounds.Y-6), c)
	}
	if marker != nil {
		gocv.Rectangle(mat, rect(marker.Bounds), markerBox, 2)
		label(mat, "target", image.Pt(marker.Bounds.X, marker.Bounds.Y-6), markerBox)
	}

	gocv.Rectangle(mat, rect(vision.HealthBarArea), markerBox, 1)

	lines := []string{
		fmt.Sprintf("HP %d%%  MP %d%%  FP %d%%", stats.HP.Value, stats.MP.Value, stats.FP.Value),
		fmt.Sprintf("Target HP %d%%", stats.TargetHP.Value),
		fmt.Sprintf("Name width %d-%d", settings.Mobs.Width.Min, settings.Mobs.Width.Max),
		fmt.Sprintf("Tolerance passive %d aggressive %d", settings.Mobs.PassiveTolerance, settings.Mobs.AggressiveTolerance),
		fmt.Sprintf("Mobs %d", len(mobs)),
	}
	y := mat.Rows() - 20*len(lines)
	for _, line := range lines {
		label(mat, line, image.Pt(10, y), textColor)
		y += 20
	}
}
