package primitive

import (
	"time"

	"github.com/awantoch/uiscript/scripterr"
	"github.com/awantoch/uiscript/selector"
)

// coord resolves an {x|xVar, y|yVar} pair, preferring the *Var form when
// present (spec.md §4.4: "coordinates accept xVar/yVar as variable-
// sourced alternatives").
func coord(pc *Context, args map[string]any, xKey, yKey string) (float64, float64, error) {
	x, xErr := coordValue(pc, args, xKey)
	if xErr != nil {
		return 0, 0, xErr
	}
	y, yErr := coordValue(pc, args, yKey)
	if yErr != nil {
		return 0, 0, yErr
	}
	return x, y, nil
}

func coordValue(pc *Context, args map[string]any, key string) (float64, error) {
	if varName, ok := args[key+"Var"].(string); ok {
		v, found := pc.Store.GetVar(varName)
		if !found {
			return 0, scripterr.Invalid("variable %q referenced by %sVar not set", varName, key)
		}
		if f, ok := v.(float64); ok {
			return f, nil
		}
		return 0, scripterr.Invalid("variable %q is not numeric", varName)
	}
	v, ok := args[key]
	if !ok {
		return 0, scripterr.Invalid("missing required field %q", key)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, scripterr.Invalid("field %q must be numeric", key)
	}
	return f, nil
}

// TapXY implements tapXY{x|xVar, y|yVar}.
func TapXY(pc *Context, args map[string]any) error {
	x, y, err := coord(pc, args, "x", "y")
	if err != nil {
		return err
	}
	if gestErr := pc.Driver.Device().TapXY(pc.Ctx, x, y); gestErr != nil {
		return scripterr.Wrap(scripterr.Unknown, gestErr, "tapping (%.0f, %.0f)", x, y)
	}
	return nil
}

// DoubleTapXY implements doubleTapXY{x|xVar, y|yVar}.
func DoubleTapXY(pc *Context, args map[string]any) error {
	x, y, err := coord(pc, args, "x", "y")
	if err != nil {
		return err
	}
	if gestErr := pc.Driver.Device().DoubleTapXY(pc.Ctx, x, y); gestErr != nil {
		return scripterr.Wrap(scripterr.Unknown, gestErr, "double-tapping (%.0f, %.0f)", x, y)
	}
	return nil
}

// LongPressXY implements longPressXY{x|xVar, y|yVar, duration=1}.
func LongPressXY(pc *Context, args map[string]any) error {
	x, y, err := coord(pc, args, "x", "y")
	if err != nil {
		return err
	}
	duration := time.Duration(numOr(args, "duration", 1) * float64(time.Second))
	if gestErr := pc.Driver.Device().LongPressXY(pc.Ctx, x, y, duration); gestErr != nil {
		return scripterr.Wrap(scripterr.Unknown, gestErr, "long-pressing (%.0f, %.0f)", x, y)
	}
	return nil
}

// Swipe implements swipe{x,y,toX,toY,duration=0.3}.
func Swipe(pc *Context, args map[string]any) error {
	x, y, err := coord(pc, args, "x", "y")
	if err != nil {
		return err
	}
	toX, toY, err := coord(pc, args, "toX", "toY")
	if err != nil {
		return err
	}
	duration := time.Duration(numOr(args, "duration", 0.3) * float64(time.Second))
	if gestErr := pc.Driver.Device().PressThenDragTo(pc.Ctx, x, y, toX, toY, duration); gestErr != nil {
		return scripterr.Wrap(scripterr.Unknown, gestErr, "swiping")
	}
	return nil
}

// direction offsets express swipe/scroll directions relative to a frame's
// center, in points.
var directionOffsets = map[string][2]float64{
	"up":    {0, -150},
	"down":  {0, 150},
	"left":  {-150, 0},
	"right": {150, 0},
}

// SwipeElement implements swipeElement{selector, direction}.
func SwipeElement(pc *Context, args map[string]any) error {
	sel, kind, err := selectorArgs(args)
	if err != nil {
		return err
	}
	direction := strOr(args, "direction", "up")
	offset, known := directionOffsets[direction]
	if !known {
		return scripterr.Invalid("unknown swipe direction %q", direction)
	}
	app, err := resolveApp(pc)
	if err != nil {
		return err
	}
	el, ok, findErr := selector.FindOne(pc.Ctx, app, kind, sel)
	if findErr != nil {
		return scripterr.Wrap(scripterr.Unknown, findErr, "resolving %q", sel)
	}
	if !ok {
		return scripterr.NotFoundf("element %q not found", sel)
	}
	rect, rectErr := el.Frame(pc.Ctx)
	if rectErr != nil {
		return scripterr.Wrap(scripterr.Unknown, rectErr, "reading frame of %q", sel)
	}
	cx, cy := rect.X+rect.Width/2, rect.Y+rect.Height/2
	return pc.Driver.Device().PressThenDragTo(pc.Ctx, cx, cy, cx+offset[0], cy+offset[1], 300*time.Millisecond)
}

// Scroll implements scroll{direction, distance=200, selector?}: drags
// from the center of selector (or the screen, when absent) by distance
// points in the given direction.
func Scroll(pc *Context, args map[string]any) error {
	direction := strOr(args, "direction", "up")
	offset, known := directionOffsets[direction]
	if !known {
		return scripterr.Invalid("unknown scroll direction %q", direction)
	}
	distance := numOr(args, "distance", 200)
	scale := distance / 150

	var cx, cy float64
	if sel, ok := args["selector"].(string); ok && sel != "" {
		kind := selector.ParseKind(strOr(args, "selectorType", ""))
		app, err := resolveApp(pc)
		if err != nil {
			return err
		}
		el, ok, findErr := selector.FindOne(pc.Ctx, app, kind, sel)
		if findErr != nil {
			return scripterr.Wrap(scripterr.Unknown, findErr, "resolving %q", sel)
		}
		if !ok {
			return scripterr.NotFoundf("element %q not found", sel)
		}
		rect, rectErr := el.Frame(pc.Ctx)
		if rectErr != nil {
			return scripterr.Wrap(scripterr.Unknown, rectErr, "reading frame of %q", sel)
		}
		cx, cy = rect.X+rect.Width/2, rect.Y+rect.Height/2
	} else {
		img, imgErr := pc.Driver.Device().CaptureScreenshot(pc.Ctx)
		if imgErr != nil {
			return scripterr.Wrap(scripterr.Unknown, imgErr, "capturing screen for scroll origin")
		}
		cx, cy = float64(img.Width)/2, float64(img.Height)/2
	}
	return pc.Driver.Device().PressThenDragTo(pc.Ctx, cx, cy, cx+offset[0]*scale, cy+offset[1]*scale, 300*time.Millisecond)
}

// Pinch implements pinch{selector?, scale=1, velocity=1}. The driver
// facade has no dedicated pinch gesture primitive (spec.md §4.7 exposes
// only single-point press/drag), so it is modeled as two opposed drags
// synthesizing the zoom pinch.
func Pinch(pc *Context, args map[string]any) error {
	scale := numOr(args, "scale", 1)
	var cx, cy float64 = 0, 0
	var haveCenter bool
	if sel, ok := args["selector"].(string); ok && sel != "" {
		kind := selector.ParseKind(strOr(args, "selectorType", ""))
		app, err := resolveApp(pc)
		if err != nil {
			return err
		}
		el, ok, findErr := selector.FindOne(pc.Ctx, app, kind, sel)
		if findErr != nil {
			return scripterr.Wrap(scripterr.Unknown, findErr, "resolving %q", sel)
		}
		if !ok {
			return scripterr.NotFoundf("element %q not found", sel)
		}
		rect, rectErr := el.Frame(pc.Ctx)
		if rectErr != nil {
			return scripterr.Wrap(scripterr.Unknown, rectErr, "reading frame of %q", sel)
		}
		cx, cy = rect.X+rect.Width/2, rect.Y+rect.Height/2
		haveCenter = true
	}
	if !haveCenter {
		img, imgErr := pc.Driver.Device().CaptureScreenshot(pc.Ctx)
		if imgErr != nil {
			return scripterr.Wrap(scripterr.Unknown, imgErr, "capturing screen for pinch origin")
		}
		cx, cy = float64(img.Width)/2, float64(img.Height)/2
	}
	spread := 80.0 * scale
	dev := pc.Driver.Device()
	if err := dev.PressThenDragTo(pc.Ctx, cx-20, cy, cx-spread, cy, 300*time.Millisecond); err != nil {
		return scripterr.Wrap(scripterr.Unknown, err, "pinching")
	}
	if err := dev.PressThenDragTo(pc.Ctx, cx+20, cy, cx+spread, cy, 300*time.Millisecond); err != nil {
		return scripterr.Wrap(scripterr.Unknown, err, "pinching")
	}
	return nil
}
