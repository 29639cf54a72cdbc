package primitive

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/awantoch/uiscript/driver"
	"github.com/awantoch/uiscript/scripterr"
)

// visionPollInterval is the OCR/template-specific poll interval (spec.md
// §5: "OCR-based loops 200ms").
const visionPollInterval = 200 * time.Millisecond

// decodeTemplate base64-decodes the step's imageBase64 field into a
// driver.Image the Vision Facade can match against. Width/Height are left
// zero; implementations that need them decode the PNG header themselves.
func decodeTemplate(args map[string]any) (driver.Image, error) {
	encoded, err := str(args, "imageBase64")
	if err != nil {
		return driver.Image{}, err
	}
	raw, decodeErr := base64.StdEncoding.DecodeString(encoded)
	if decodeErr != nil {
		return driver.Image{}, scripterr.Decodef("could not decode imageBase64: %v", decodeErr)
	}
	return driver.Image{PNG: raw}, nil
}

// ClickText implements clickText{text, timeout}: deadline-loops a
// screenshot -> OCR -> case-insensitive contains match; the matched
// bounding box center is tapped (spec.md §4.4).
func ClickText(pc *Context, args map[string]any) error {
	text, err := str(args, "text")
	if err != nil {
		return err
	}
	timeout := timeoutOr(args, 10)
	deadline := Now().Add(timeout)
	for {
		img, capErr := pc.Driver.Device().CaptureScreenshot(pc.Ctx)
		if capErr == nil {
			if p, ok, findErr := pc.Vision.FindText(pc.Ctx, img, text); findErr == nil && ok {
				return wrapDeviceErr(pc.Driver.Device().TapXY(pc.Ctx, p.X, p.Y))
			}
		}
		if Now().After(deadline) {
			return scripterr.NotFoundf("text %q not found within %s", text, timeout)
		}
		Sleep(visionPollInterval)
	}
}

// WaitText implements waitText{text, timeout}: same deadline loop as
// ClickText but observation-only.
func WaitText(pc *Context, args map[string]any) error {
	text, err := str(args, "text")
	if err != nil {
		return err
	}
	timeout := timeoutOr(args, 10)
	deadline := Now().Add(timeout)
	for {
		img, capErr := pc.Driver.Device().CaptureScreenshot(pc.Ctx)
		if capErr == nil {
			if _, ok, findErr := pc.Vision.FindText(pc.Ctx, img, text); findErr == nil && ok {
				return nil
			}
		}
		if Now().After(deadline) {
			return scripterr.NotFoundf("text %q not found within %s", text, timeout)
		}
		Sleep(visionPollInterval)
	}
}

// FindText implements findText{text, as}: records the matched point
// without tapping it.
func FindText(pc *Context, args map[string]any) error {
	text, err := str(args, "text")
	if err != nil {
		return err
	}
	img, capErr := pc.Driver.Device().CaptureScreenshot(pc.Ctx)
	if capErr != nil {
		return scripterr.Wrap(scripterr.Unknown, capErr, "capturing screen")
	}
	p, ok, findErr := pc.Vision.FindText(pc.Ctx, img, text)
	if findErr != nil {
		return scripterr.Wrap(scripterr.Unknown, findErr, "running OCR")
	}
	as := resultKey(args, "found")
	if !ok {
		pc.Store.SetVar(as+"_found", false)
		return nil
	}
	pc.Store.SetVar(as+"_found", true)
	pc.Store.SetVar(as+"_x", p.X)
	pc.Store.SetVar(as+"_y", p.Y)
	return nil
}

// ReadScreen implements readScreen{as, formats?}: full-screen OCR,
// whitespace-joined and trimmed. An optional "formats" array of
// doublestar glob patterns keeps only recognized words matching at least
// one pattern (e.g. ["*@*.*"] to keep only email-shaped tokens) — useful
// for pulling a specific value out of a screen full of text without a
// full regex primitive.
func ReadScreen(pc *Context, args map[string]any) error {
	img, capErr := pc.Driver.Device().CaptureScreenshot(pc.Ctx)
	if capErr != nil {
		return scripterr.Wrap(scripterr.Unknown, capErr, "capturing screen")
	}
	text, ocrErr := pc.Vision.RecognizeAllText(pc.Ctx, img)
	if ocrErr != nil {
		return scripterr.Wrap(scripterr.Unknown, ocrErr, "running OCR")
	}
	pc.Store.SetVar(resultKey(args, "text"), filterByFormats(text, strSliceOr(args, "formats")))
	return nil
}

// filterByFormats keeps only whitespace-separated words in text that
// match at least one of the given doublestar patterns; with no patterns
// it returns text unchanged (beyond whitespace normalization).
func filterByFormats(text string, patterns []string) string {
	normalized := normalizeWhitespace(text)
	if len(patterns) == 0 {
		return normalized
	}
	words := strings.Fields(normalized)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		for _, pattern := range patterns {
			if ok, _ := doublestar.Match(pattern, w); ok {
				kept = append(kept, w)
				break
			}
		}
	}
	return strings.Join(kept, " ")
}

// ReadRegion implements readRegion{regionX,regionY,regionWidth,regionHeight,
// as, formats?}. The region fields are not read: OCR runs over the whole
// screenshot, so the text written is the same as readScreen's for the same
// screen. The optional "formats" filter behaves the same as readScreen's.
func ReadRegion(pc *Context, args map[string]any) error {
	img, capErr := pc.Driver.Device().CaptureScreenshot(pc.Ctx)
	if capErr != nil {
		return scripterr.Wrap(scripterr.Unknown, capErr, "capturing screen")
	}
	text, ocrErr := pc.Vision.RecognizeAllText(pc.Ctx, img)
	if ocrErr != nil {
		return scripterr.Wrap(scripterr.Unknown, ocrErr, "running OCR")
	}
	pc.Store.SetVar(resultKey(args, "text"), filterByFormats(text, strSliceOr(args, "formats")))
	return nil
}

// ClickImage implements clickImage{imageBase64, confidence=0.8, timeout}:
// decodes the template, deadline-loops a screenshot -> template match,
// taps the best match's center (spec.md §4.4).
func ClickImage(pc *Context, args map[string]any) error {
	templateBytes, decodeErr := decodeTemplate(args)
	if decodeErr != nil {
		return decodeErr
	}
	confidence := numOr(args, "confidence", 0.8)
	timeout := timeoutOr(args, 10)
	deadline := Now().Add(timeout)
	for {
		img, capErr := pc.Driver.Device().CaptureScreenshot(pc.Ctx)
		if capErr == nil {
			p, ok, matchErr := pc.Vision.MatchTemplate(pc.Ctx, img, templateBytes, confidence)
			if matchErr == nil && ok {
				return wrapDeviceErr(pc.Driver.Device().TapXY(pc.Ctx, p.X, p.Y))
			}
		}
		if Now().After(deadline) {
			return scripterr.NotFoundf("template not matched within %s", timeout)
		}
		Sleep(visionPollInterval)
	}
}

// WaitImage implements waitImage{imageBase64, confidence=0.8, timeout}:
// same loop as ClickImage, observation-only.
func WaitImage(pc *Context, args map[string]any) error {
	templateBytes, decodeErr := decodeTemplate(args)
	if decodeErr != nil {
		return decodeErr
	}
	confidence := numOr(args, "confidence", 0.8)
	timeout := timeoutOr(args, 10)
	deadline := Now().Add(timeout)
	for {
		img, capErr := pc.Driver.Device().CaptureScreenshot(pc.Ctx)
		if capErr == nil {
			_, ok, matchErr := pc.Vision.MatchTemplate(pc.Ctx, img, templateBytes, confidence)
			if matchErr == nil && ok {
				return nil
			}
		}
		if Now().After(deadline) {
			return scripterr.NotFoundf("template not matched within %s", timeout)
		}
		Sleep(visionPollInterval)
	}
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func wrapDeviceErr(err error) error {
	if err == nil {
		return nil
	}
	return scripterr.Wrap(scripterr.Unknown, err, "tapping matched point")
}
