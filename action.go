package main

import (
	"fmt"
	"strings"

	"flyff-assist/internal/movement"
)

// BrowserInput sends input through the functions of inputScript.
type BrowserInput struct {
	browser *Browser
}

// NewBrowserInput creates input bound to browser.
func NewBrowserInput(browser *Browser) *BrowserInput {
	return &BrowserInput{browser: browser}
}

// jsKeys maps key names to KeyboardEvent.key values where they differ.
var jsKeys = map[string]string{
	movement.KeyJump:     " ",
	movement.KeyEscape:   "Escape",
	movement.KeyRotLeft:  "ArrowLeft",
	movement.KeyRotRight: "ArrowRight",
}

func jsKey(key string) string {
	if k, ok := jsKeys[key]; ok {
		return k
	}
	return key
}

// keyScript builds the keyboardEvent call for key in mode.
func keyScript(key string, mode movement.KeyMode) (string, error) {
	switch mode {
	case movement.KeyPress, movement.KeyHold, movement.KeyRelease:
	default:
		return "", fmt.Errorf("unsupported key mode: %d", mode)
	}
	return fmt.Sprintf("keyboardEvent('%s', '%s');", mode, escapeJS(jsKey(key))), nil
}

// SendKey dispatches a keyboard event.
func (a *BrowserInput) SendKey(key string, mode movement.KeyMode) error {
	js, err := keyScript(key, mode)
	if err != nil {
		return err
	}
	return a.browser.Eval(js)
}

// SendSlot presses the bar's function key, then the slot number.
func (a *BrowserInput) SendSlot(bar, slot int) error {
	return a.browser.Eval(fmt.Sprintf("sendSlot(%d, %d);", bar, slot))
}

// MouseClick moves to x,y on the canvas and clicks.
func (a *BrowserInput) MouseClick(x, y int) error {
	return a.browser.Eval(fmt.Sprintf("mouseEvent('moveClick', %d, %d);", x, y))
}

// escapeJS escapes s for a single-quoted JavaScript string literal.
func escapeJS(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\'':
			sb.WriteString(`\'`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
