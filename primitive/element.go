package primitive

import (
	"context"

	"github.com/awantoch/uiscript/driver"
	"github.com/awantoch/uiscript/scripterr"
	"github.com/awantoch/uiscript/selector"
)

// resolveApp fetches the current app or fails with NotFound — every
// single/multi-element action needs one.
func resolveApp(pc *Context) (driver.App, error) {
	app, ok, err := pc.CurrentApp()
	if err != nil {
		return nil, scripterr.Wrap(scripterr.Unknown, err, "resolving current app")
	}
	if !ok {
		return nil, scripterr.NotFoundf("no current app")
	}
	return app, nil
}

// Click implements click/tap{selector, selectorType, timeout}: requires
// the element be hittable (spec.md §4.4).
func Click(pc *Context, args map[string]any) error {
	sel, kind, err := selectorArgs(args)
	if err != nil {
		return err
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
	if !el.IsHittable(pc.Ctx) {
		return scripterr.NotInteractablef("element %q is not hittable", sel)
	}
	if err := el.Tap(pc.Ctx); err != nil {
		return scripterr.Wrap(scripterr.Unknown, err, "tapping %q", sel)
	}
	return nil
}

// Wait implements wait{selector, selectorType, timeout}: deadline-loops
// until the element exists; only requires exists, not hittable.
func Wait(pc *Context, args map[string]any) error {
	sel, kind, err := selectorArgs(args)
	if err != nil {
		return err
	}
	timeout := timeoutOr(args, 10)
	app, err := resolveApp(pc)
	if err != nil {
		return err
	}
	deadline := Now().Add(timeout)
	for {
		if el, ok, _ := selector.FindOne(pc.Ctx, app, kind, sel); ok && el.Exists(pc.Ctx) {
			return nil
		}
		if Now().After(deadline) {
			return scripterr.Timeoutf("element %q did not appear within %s", sel, timeout)
		}
		Sleep(pollInterval)
	}
}

// WaitDisappear implements waitDisappear{selector, selectorType, timeout}:
// succeeds even on timeout — observation-only (spec.md §4.4).
func WaitDisappear(pc *Context, args map[string]any) error {
	sel, kind, err := selectorArgs(args)
	if err != nil {
		return err
	}
	timeout := timeoutOr(args, 10)
	app, err := resolveApp(pc)
	if err != nil {
		return err
	}
	deadline := Now().Add(timeout)
	for {
		el, ok, _ := selector.FindOne(pc.Ctx, app, kind, sel)
		if !ok || !el.Exists(pc.Ctx) {
			return nil
		}
		if Now().After(deadline) {
			return nil
		}
		Sleep(pollInterval)
	}
}

// attrReader selects which Element accessor "read" uses.
var attrReaders = map[string]func(el driver.Element, ctx context.Context) (string, error){
	"label":            func(el driver.Element, ctx context.Context) (string, error) { return el.Label(ctx) },
	"value":            func(el driver.Element, ctx context.Context) (string, error) { return el.Value(ctx) },
	"identifier":       func(el driver.Element, ctx context.Context) (string, error) { return el.Identifier(ctx) },
	"placeholderValue": func(el driver.Element, ctx context.Context) (string, error) { return el.PlaceholderValue(ctx) },
}

// Read implements read{attribute, as, selector, selectorType, timeout}.
func Read(pc *Context, args map[string]any) error {
	sel, kind, err := selectorArgs(args)
	if err != nil {
		return err
	}
	attr := strOr(args, "attribute", "label")
	reader, known := attrReaders[attr]
	if !known {
		return scripterr.Invalid("unknown read attribute %q", attr)
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
	val, readErr := reader(el, pc.Ctx)
	if readErr != nil {
		return scripterr.Wrap(scripterr.Unknown, readErr, "reading %s of %q", attr, sel)
	}
	pc.Store.SetVar(resultKey(args, "value"), val)
	return nil
}

// Exists implements exists{selector, selectorType, as, timeout=0}: an
// optional deadline loop, writing "true"/"false" rather than failing.
func Exists(pc *Context, args map[string]any) error {
	sel, kind, err := selectorArgs(args)
	if err != nil {
		return err
	}
	timeout := timeoutOr(args, 0)
	as := resultKey(args, "exists")
	app, err := resolveApp(pc)
	if err != nil {
		return err
	}
	deadline := Now().Add(timeout)
	for {
		if el, ok, _ := selector.FindOne(pc.Ctx, app, kind, sel); ok && el.Exists(pc.Ctx) {
			pc.Store.SetVar(as, true)
			return nil
		}
		if Now().After(deadline) {
			pc.Store.SetVar(as, false)
			return nil
		}
		Sleep(pollInterval)
	}
}

// GetRect implements getRect{selector, selectorType, as}: writes the
// sibling keys K_x/K_y/K_width/K_height/K_centerX/K_centerY (spec.md §3).
func GetRect(pc *Context, args map[string]any) error {
	sel, kind, err := selectorArgs(args)
	if err != nil {
		return err
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
	as := resultKey(args, "rect")
	pc.Store.SetVar(as+"_x", rect.X)
	pc.Store.SetVar(as+"_y", rect.Y)
	pc.Store.SetVar(as+"_width", rect.Width)
	pc.Store.SetVar(as+"_height", rect.Height)
	pc.Store.SetVar(as+"_centerX", rect.X+rect.Width/2)
	pc.Store.SetVar(as+"_centerY", rect.Y+rect.Height/2)
	return nil
}

// Clear implements clear{selector, selectorType, timeout}: requires the
// element be hittable, like click.
func Clear(pc *Context, args map[string]any) error {
	sel, kind, err := selectorArgs(args)
	if err != nil {
		return err
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
	if !el.IsHittable(pc.Ctx) {
		return scripterr.NotInteractablef("element %q is not hittable", sel)
	}
	// The driver facade has no edit-menu or "Select All" operation, so this
	// long-presses the element and then sends an empty TypeText; whether
	// the field's existing text is removed depends on the driver.
	if err := el.PressForDuration(pc.Ctx, 0); err != nil {
		return scripterr.Wrap(scripterr.Unknown, err, "clearing %q", sel)
	}
	if err := el.TypeText(pc.Ctx, ""); err != nil {
		return scripterr.Wrap(scripterr.Unknown, err, "clearing %q", sel)
	}
	return nil
}

// PasteText implements pasteText{text, selector?}: sets the device
// pasteboard, then invokes Paste via the element if given.
func PasteText(pc *Context, args map[string]any) error {
	text, err := str(args, "text")
	if err != nil {
		return err
	}
	if pasteErr := pc.Driver.Device().SetPasteboard(pc.Ctx, text); pasteErr != nil {
		return scripterr.Wrap(scripterr.Unknown, pasteErr, "setting pasteboard")
	}
	sel := strOr(args, "selector", "")
	if sel == "" {
		return nil
	}
	kind := selector.ParseKind(strOr(args, "selectorType", ""))
	app, appErr := resolveApp(pc)
	if appErr != nil {
		return appErr
	}
	el, ok, findErr := selector.FindOne(pc.Ctx, app, kind, sel)
	if findErr != nil {
		return scripterr.Wrap(scripterr.Unknown, findErr, "resolving %q", sel)
	}
	if !ok {
		return scripterr.NotFoundf("element %q not found", sel)
	}
	if err := el.Tap(pc.Ctx); err != nil {
		return scripterr.Wrap(scripterr.Unknown, err, "tapping %q before paste", sel)
	}
	return el.TypeText(pc.Ctx, text)
}
