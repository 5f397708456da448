package hud

import (
	"image"
	"strings"
	"unicode"

	"flyff-assist/internal/logging"
)

// PingArea is where the client prints its latency.
var PingArea = image.Rect(2, 110, 2+120, 110+20)

// DisconnectThreshold is how many consecutive-ish "0ms" readings mean the
// connection is gone.
const DisconnectThreshold = 10

// TextRecognizer reads text from part of an image.
type TextRecognizer interface {
	Recognize(img image.Image, region image.Rectangle, language string) (string, error)
}

// DisconnectMonitor watches the ping readout. A dead connection shows a
// latency of zero; every zero bumps a counter, every real latency lowers
// it again.
type DisconnectMonitor struct {
	recognizer TextRecognizer
	counter    int
}

// NewDisconnectMonitor creates a monitor. A nil recognizer disables it.
func NewDisconnectMonitor(r TextRecognizer) *DisconnectMonitor {
	return &DisconnectMonitor{recognizer: r}
}

// Check reads the ping area of img and updates the counter. Recognition
// failures and unreadable text leave the counter untouched.
func (m *DisconnectMonitor) Check(img image.Image) {
	if m.recognizer == nil || img == nil {
		return
	}

	text, err := m.recognizer.Recognize(img, PingArea, "eng")
	if err != nil {
		logging.Debug("Ping recognition failed: %v", err)
		return
	}
	m.Observe(text)
}

// Observe applies one recognized ping text to the counter.
func (m *DisconnectMonitor) Observe(text string) {
	latency, ok := pingValue(text)
	if !ok {
		return
	}
	switch latency {
	case "0", "O", "o":
		m.counter++
		logging.Debug("Ping reads zero (%d/%d)", m.counter, DisconnectThreshold)
	default:
		if m.counter > 0 {
			m.counter--
		}
	}
}

// Disconnected reports whether enough zero readings piled up.
func (m *DisconnectMonitor) Disconnected() bool {
	return m.counter > DisconnectThreshold
}

// Counter returns the current zero-reading count.
func (m *DisconnectMonitor) Counter() int {
	return m.counter
}

// Reset clears the counter.
func (m *DisconnectMonitor) Reset() {
	m.counter = 0
}

// pingValue extracts the token right before "ms".
func pingValue(text string) (string, bool) {
	idx := strings.Index(text, "ms")
	if idx < 0 {
		return "", false
	}
	before := strings.TrimRightFunc(text[:idx], unicode.IsSpace)
	start := strings.LastIndexFunc(before, func(r rune) bool {
		return !unicode.IsDigit(r) && r != 'O' && r != 'o'
	})
	return before[start+1:], true
}
