// Package vision declares the Vision Facade (C2, spec.md §4.7): a
// synchronous interface over OCR text recognition and template matching,
// wrapping whatever async vision engine a host actually runs. Per
// spec.md §9 ("expose a synchronous findText/matchTemplate at the Vision
// Facade boundary; implementations wrap their async engines with a
// bounded wait"), callers never see the underlying engine's async shape.
package vision

import (
	"context"
	"time"

	"github.com/awantoch/uiscript/driver"
)

// Point is an image-pixel-space location (spec.md §4.7: "point? (image-
// pixel space)").
type Point struct {
	X, Y float64
}

// DefaultCallTimeout is the internal safety timeout an implementation
// applies to its underlying async vision call (spec.md §5: "OCR/template
// calls block synchronously with a 10s internal safety timeout").
const DefaultCallTimeout = 10 * time.Second

// Vision is the narrow capability the interpreter depends on. Engine is
// process-global and stateless from the interpreter's perspective
// (spec.md §3 "Lifecycle").
type Vision interface {
	// FindText locates the first case-insensitive occurrence of text in
	// image and returns its bounding box center, or ok=false if absent.
	FindText(ctx context.Context, image driver.Image, text string) (p Point, ok bool, err error)

	// RecognizeAllText returns the whitespace-joined, trimmed text found
	// anywhere in image (spec.md §4.4 readScreen/readRegion).
	RecognizeAllText(ctx context.Context, image driver.Image) (string, error)

	// MatchTemplate finds the best match of template within image using
	// an RGB L1-mean similarity over a coarse sampling grid (spec.md §4.4
	// clickImage: "coarse grid step of 4px, sample every 4th pixel"); ok
	// is true only when the best score meets minConfidence.
	MatchTemplate(ctx context.Context, image driver.Image, template driver.Image, minConfidence float64) (p Point, ok bool, err error)
}
