package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
	"golang.org/x/image/draw"
)

// Ping text preprocessing.
const (
	ocrScale     = 4
	ocrThreshold = 180
	ocrPadding   = 20
	pingChars    = "0123456789Oms"
)

// TesseractRecognizer reads HUD text with Tesseract. It satisfies
// hud.TextRecognizer.
type TesseractRecognizer struct {
	client   *gosseract.Client
	language string
	mu       sync.Mutex
}

// NewTesseractRecognizer creates a recognizer for English text.
func NewTesseractRecognizer() (*TesseractRecognizer, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")

	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set PSM: %w", err)
	}
	if err := client.SetWhitelist(pingChars); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set whitelist: %w", err)
	}
	return &TesseractRecognizer{client: client, language: "eng"}, nil
}

// Recognize reads the text inside region of img.
func (r *TesseractRecognizer) Recognize(img image.Image, region image.Rectangle, language string) (string, error) {
	region = region.Intersect(img.Bounds())
	if region.Empty() {
		return "", fmt.Errorf("region %v outside image", region)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, prepareForOCR(img, region)); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if language != "" && language != r.language {
		if err := r.client.SetLanguage(language); err != nil {
			return "", fmt.Errorf("failed to set OCR language: %w", err)
		}
		r.language = language
	}
	if err := r.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := r.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.Join(strings.Fields(text), " "), nil
}

// Close releases the Tesseract client.
func (r *TesseractRecognizer) Close() error {
	return r.client.Close()
}

// prepareForOCR upscales region, turns bright text black on white and pads
// the result so Tesseract sees a clean line.
func prepareForOCR(img image.Image, region image.Rectangle) *image.Gray {
	scaled := image.NewRGBA(image.Rect(0, 0, region.Dx()*ocrScale, region.Dy()*ocrScale))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, region, draw.Src, nil)

	size := scaled.Bounds().Size().Add(image.Pt(2*ocrPadding, 2*ocrPadding))
	out := image.NewGray(image.Rectangle{Max: size})
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)

	for y := 0; y < scaled.Bounds().Dy(); y++ {
		for x := 0; x < scaled.Bounds().Dx(); x++ {
			g := color.GrayModel.Convert(scaled.At(x, y)).(color.Gray)
			if g.Y > ocrThreshold {
				out.SetGray(x+ocrPadding, y+ocrPadding, color.Gray{Y: 0})
			}
		}
	}
	return out
}
