package primitive

import (
	"strconv"

	"github.com/awantoch/uiscript/scripterr"
	"github.com/awantoch/uiscript/selector"
	"github.com/awantoch/uiscript/store"
)

// FindElements implements findElements{selector, selectorType, limit?,
// as="elements"}: refreshes the Element Cache and writes the ordered
// descriptor list plus "{as}_count" (spec.md §4.4). forEach iterates the
// list written under "as"; clickNth/readNth read the cache.
func FindElements(pc *Context, args map[string]any) error {
	sel, kind, err := selectorArgs(args)
	if err != nil {
		return err
	}
	limit := int(numOr(args, "limit", 0))
	as := resultKey(args, "elements")

	app, err := resolveApp(pc)
	if err != nil {
		return err
	}
	els, findErr := selector.FindMany(pc.Ctx, app, kind, sel, limit)
	if findErr != nil {
		return scripterr.Wrap(scripterr.Unknown, findErr, "resolving %q", sel)
	}

	descriptors := make([]store.ElementDescriptor, 0, len(els))
	for i, el := range els {
		d := store.ElementDescriptor{Index: i}
		d.Label, _ = el.Label(pc.Ctx)
		d.Value, _ = el.Value(pc.Ctx)
		d.Identifier, _ = el.Identifier(pc.Ctx)
		d.IsEnabled = el.Exists(pc.Ctx)
		d.IsHittable = el.IsHittable(pc.Ctx)
		if rect, rectErr := el.Frame(pc.Ctx); rectErr == nil {
			d.X, d.Y, d.Width, d.Height = rect.X, rect.Y, rect.Width, rect.Height
			d.CenterX, d.CenterY = rect.X+rect.Width/2, rect.Y+rect.Height/2
		}
		descriptors = append(descriptors, d)
	}
	pc.Cache.Set(descriptors)

	list := make([]any, len(descriptors))
	for i, d := range descriptors {
		list[i] = d.AsMap()
	}
	pc.Store.SetVar(as, list)
	pc.Store.SetVar(as+"_count", len(descriptors))
	return nil
}

// CountElements implements countElements{selector, selectorType, as}.
func CountElements(pc *Context, args map[string]any) error {
	sel, kind, err := selectorArgs(args)
	if err != nil {
		return err
	}
	app, err := resolveApp(pc)
	if err != nil {
		return err
	}
	els, findErr := selector.FindMany(pc.Ctx, app, kind, sel, 0)
	if findErr != nil {
		return scripterr.Wrap(scripterr.Unknown, findErr, "resolving %q", sel)
	}
	pc.Store.SetVar(resultKey(args, "count"), len(els))
	return nil
}

// ClickNth implements clickNth{index}: taps the nth entry of the current
// Element Cache.
func ClickNth(pc *Context, args map[string]any) error {
	idx := int(numOr(args, "index", 0))
	if idx < 0 || idx >= len(pc.Cache.Elements) {
		return scripterr.NotFoundf("no cached element at index %d", idx)
	}
	d := pc.Cache.Elements[idx]
	if !d.IsHittable {
		return scripterr.NotInteractablef("cached element at index %d is not hittable", idx)
	}
	return pc.Driver.Device().TapXY(pc.Ctx, d.CenterX, d.CenterY)
}

// ReadNth implements readNth{index, attribute, as}: reads from the
// cached descriptor rather than re-resolving a live element.
func ReadNth(pc *Context, args map[string]any) error {
	idx := int(numOr(args, "index", 0))
	if idx < 0 || idx >= len(pc.Cache.Elements) {
		return scripterr.NotFoundf("no cached element at index %d", idx)
	}
	d := pc.Cache.Elements[idx]
	attr := strOr(args, "attribute", "label")
	var val string
	switch attr {
	case "label":
		val = d.Label
	case "value":
		val = d.Value
	case "identifier":
		val = d.Identifier
	case "index":
		val = strconv.Itoa(d.Index)
	default:
		return scripterr.Invalid("unknown read attribute %q", attr)
	}
	pc.Store.SetVar(resultKey(args, "value"), val)
	return nil
}
