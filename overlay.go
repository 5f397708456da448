package main

import (
	"fmt"
	"strings"

	"flyff-assist/internal/config"
	"flyff-assist/internal/geom"
	"flyff-assist/internal/hud"
	"flyff-assist/internal/vision"
)

// overlayFrame is one snapshot for the debug overlay. It is a copy so the
// overlay worker never touches loop state.
type overlayFrame struct {
	Mobs    []vision.Target
	Marker  *vision.Target
	Stats   hud.ClientStats
	Mode    config.Mode
	State   string
	Kills   int
	KPH     float64
	Uptime  string
	Actions []ActionLog
}

const (
	overlayPanelX = 560
	overlayID     = "flyff-assist-overlay"
)

// overlayVisibilityScript shows or hides the overlay canvas if it exists.
func overlayVisibilityScript(visible bool) string {
	visibility := "hidden"
	if visible {
		visibility = "visible"
	}
	return fmt.Sprintf("(function() { const o = document.getElementById('%s'); if (o) o.style.visibility = '%s'; })();", overlayID, visibility)
}

func overlayColor(c vision.Category) string {
	switch c {
	case vision.MobAggressive:
		return "red"
	case vision.MobPassive:
		return "yellow"
	case vision.TargetMarker:
		return "cyan"
	default:
		return "lime"
	}
}

// overlayScript builds the JavaScript that draws f over the game canvas.
func overlayScript(f overlayFrame) string {
	var sb strings.Builder
	sb.WriteString(`(function() {
	const game = document.querySelector('canvas');
	if (!game) return;
	const rect = game.getBoundingClientRect();
	let overlay = document.getElementById('` + overlayID + `');
	if (!overlay) {
		overlay = document.createElement('canvas');
		overlay.id = '` + overlayID + `';
		overlay.style.position = 'absolute';
		overlay.style.pointerEvents = 'none';
		overlay.style.zIndex = '9999';
		document.body.appendChild(overlay);
	}
	overlay.style.left = rect.left + 'px';
	overlay.style.top = rect.top + 'px';
	overlay.style.width = rect.width + 'px';
	overlay.style.height = rect.height + 'px';
	overlay.width = game.width;
	overlay.height = game.height;
	const ctx = overlay.getContext('2d');
	ctx.clearRect(0, 0, overlay.width, overlay.height);
	ctx.lineWidth = 2;
	ctx.font = '14px monospace';
`)

	box := func(b geom.Bounds, color, label string) {
		fmt.Fprintf(&sb, "\tctx.strokeStyle = '%s'; ctx.strokeRect(%d, %d, %d, %d);\n", color, b.X, b.Y, b.W, b.H)
		if label != "" {
			fmt.Fprintf(&sb, "\tctx.fillStyle = '%s'; ctx.fillText('%s', %d, %d);\n", color, escapeJS(label), b.X, b.Y-4)
		}
	}
	for _, m := range f.Mobs {
		box(m.Bounds, overlayColor(m.Category), m.Category.String())
	}
	if f.Marker != nil {
		box(f.Marker.Bounds, overlayColor(vision.TargetMarker), "target")
	}

	lines := []string{
		"Mode: " + f.Mode.String(),
	}
	if f.State != "" {
		lines = append(lines, "State: "+f.State)
	}
	lines = append(lines,
		fmt.Sprintf("HP %d%% MP %d%% FP %d%%", f.Stats.HP.Value, f.Stats.MP.Value, f.Stats.FP.Value),
		fmt.Sprintf("Target HP %d%%", f.Stats.TargetHP.Value),
		fmt.Sprintf("Kills %d (%.1f/h) %s", f.Kills, f.KPH, f.Uptime),
	)
	for _, a := range f.Actions {
		lines = append(lines, fmt.Sprintf("[%s] %s", a.Timestamp.Format("15:04:05"), a.Message))
	}

	fmt.Fprintf(&sb, "\tctx.fillStyle = 'rgba(0, 0, 0, 0.6)'; ctx.fillRect(%d, 0, %d, %d);\n",
		overlayPanelX, canvasWidth-overlayPanelX, 18*len(lines)+10)
	sb.WriteString("\tctx.fillStyle = 'white';\n")
	for i, line := range lines {
		fmt.Fprintf(&sb, "\tctx.fillText('%s', %d, %d);\n", escapeJS(line), overlayPanelX+8, 20+18*i)
	}
	sb.WriteString("})();\n")
	return sb.String()
}

// DrawOverlay renders f over the game canvas.
func (b *Browser) DrawOverlay(f overlayFrame) error {
	return b.Eval(overlayScript(f))
}
