package primitive

import (
	"fmt"

	"github.com/awantoch/uiscript/scripterr"
	"github.com/awantoch/uiscript/selector"
)

func pickerSelector(index int) string {
	return fmt.Sprintf("pickerWheel[%d]", index)
}

// SetPicker implements setPicker{index, value, timeout}: adjusts the nth
// picker wheel to the textual value.
func SetPicker(pc *Context, args map[string]any) error {
	index := int(numOr(args, "index", 0))
	value, err := str(args, "value")
	if err != nil {
		return err
	}
	app, err := resolveApp(pc)
	if err != nil {
		return err
	}
	el, ok, findErr := selector.FindOne(pc.Ctx, app, selector.ClassChain, pickerSelector(index))
	if findErr != nil {
		return scripterr.Wrap(scripterr.Unknown, findErr, "resolving picker wheel %d", index)
	}
	if !ok {
		return scripterr.NotFoundf("picker wheel %d not found", index)
	}
	if err := el.AdjustPickerTo(pc.Ctx, value); err != nil {
		return scripterr.Wrap(scripterr.Unknown, err, "adjusting picker wheel %d", index)
	}
	return nil
}

// GetPicker implements getPicker{index, as}.
func GetPicker(pc *Context, args map[string]any) error {
	index := int(numOr(args, "index", 0))
	app, err := resolveApp(pc)
	if err != nil {
		return err
	}
	el, ok, findErr := selector.FindOne(pc.Ctx, app, selector.ClassChain, pickerSelector(index))
	if findErr != nil {
		return scripterr.Wrap(scripterr.Unknown, findErr, "resolving picker wheel %d", index)
	}
	if !ok {
		return scripterr.NotFoundf("picker wheel %d not found", index)
	}
	val, readErr := el.Value(pc.Ctx)
	if readErr != nil {
		return scripterr.Wrap(scripterr.Unknown, readErr, "reading picker wheel %d", index)
	}
	pc.Store.SetVar(resultKey(args, "value"), val)
	return nil
}
