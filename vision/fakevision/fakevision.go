// Package fakevision is a scriptable vision.Vision used by engine and
// primitive tests, mirroring driver/fakedriver's style: a plain struct
// tests arrange before driving a script, no real image processing.
package fakevision

import (
	"context"
	"strings"

	"github.com/awantoch/uiscript/driver"
	"github.com/awantoch/uiscript/vision"
)

// TextHit lets a test declare that a given image (identified by its PNG
// bytes, used as a map key) contains text at a known point.
type TextHit struct {
	Text  string
	Point vision.Point
}

// Vision is the fake: Screens maps a screenshot's raw bytes to the text
// hits and OCR transcript a test wants returned for it; Templates maps a
// template's raw bytes to a fixed match result.
type Vision struct {
	Screens   map[string][]TextHit
	Transcript map[string]string
	Templates map[string]vision.Point
	MatchOK   map[string]bool
}

func New() *Vision {
	return &Vision{
		Screens:    map[string][]TextHit{},
		Transcript: map[string]string{},
		Templates:  map[string]vision.Point{},
		MatchOK:    map[string]bool{},
	}
}

func key(img driver.Image) string { return string(img.PNG) }

func (v *Vision) FindText(ctx context.Context, image driver.Image, text string) (vision.Point, bool, error) {
	for _, hit := range v.Screens[key(image)] {
		if strings.Contains(strings.ToLower(hit.Text), strings.ToLower(text)) {
			return hit.Point, true, nil
		}
	}
	return vision.Point{}, false, nil
}

func (v *Vision) RecognizeAllText(ctx context.Context, image driver.Image) (string, error) {
	return v.Transcript[key(image)], nil
}

func (v *Vision) MatchTemplate(ctx context.Context, image driver.Image, template driver.Image, minConfidence float64) (vision.Point, bool, error) {
	p, ok := v.Templates[key(template)]
	return p, ok && v.MatchOK[key(template)], nil
}

var _ vision.Vision = (*Vision)(nil)
