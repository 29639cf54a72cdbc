package primitive

import (
	"github.com/awantoch/uiscript/scripterr"
	"github.com/awantoch/uiscript/selector"
)

// Type implements type{value|text, selector, clear?=false}: taps the
// selected element (optionally clearing it), then types into it. The
// selector is required; without one the step fails with InvalidArgument.
func Type(pc *Context, args map[string]any) error {
	text := strOr(args, "value", "")
	if text == "" {
		text = strOr(args, "text", "")
	}
	sel, _ := args["selector"].(string)
	if sel != "" {
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
		if !el.IsHittable(pc.Ctx) {
			return scripterr.NotInteractablef("element %q is not hittable", sel)
		}
		if err := el.Tap(pc.Ctx); err != nil {
			return scripterr.Wrap(scripterr.Unknown, err, "tapping %q before typing", sel)
		}
		if boolOr(args, "clear", false) {
			if err := el.TypeText(pc.Ctx, ""); err != nil {
				return scripterr.Wrap(scripterr.Unknown, err, "clearing %q before typing", sel)
			}
		}
		if err := el.TypeText(pc.Ctx, text); err != nil {
			return scripterr.Wrap(scripterr.Unknown, err, "typing into %q", sel)
		}
		return nil
	}
	// The driver facade only exposes TypeText on a resolved Element
	// (spec.md §4.7); a selector-less type has no focused-element
	// concept to target.
	return scripterr.Invalid("type requires a selector")
}
