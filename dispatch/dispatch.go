// Package dispatch implements the Step Dispatcher (C6, spec.md §4.3): a
// static mapping from an action name to a primitive.Handler, plus the
// lookup half of the pre-handler contract (reject missing action, reject
// unknown actions). Interpolating the argument tree is done by the engine
// (engine.runOne) before it calls the handler returned here.
package dispatch

import (
	"github.com/awantoch/uiscript/primitive"
	"github.com/awantoch/uiscript/scripterr"
)

// Table is the static action -> handler mapping (spec.md §9: "a single
// closed mapping from action name to a handler with a uniform
// signature"). Control-flow actions (if/while/repeat/forEach/try/break/
// stop/return) are NOT here — they need access to a step's nested
// sub-step sequences, which only the engine's control-flow evaluator sees
// (model.Step fields, not the Args map handlers receive).
var Table = map[string]primitive.Handler{
	"launch":    primitive.Launch,
	"terminate": primitive.Terminate,
	"activate":  primitive.Activate,
	"isRunning": primitive.IsRunning,

	"click":         primitive.Click,
	"tap":           primitive.Click,
	"wait":          primitive.Wait,
	"waitDisappear": primitive.WaitDisappear,
	"read":          primitive.Read,
	"exists":        primitive.Exists,
	"getRect":       primitive.GetRect,
	"clear":         primitive.Clear,
	"pasteText":     primitive.PasteText,

	"findElements":  primitive.FindElements,
	"countElements": primitive.CountElements,
	"clickNth":      primitive.ClickNth,
	"readNth":       primitive.ReadNth,

	"handleAlert":  primitive.HandleAlert,
	"dismissAlert": primitive.DismissAlert,
	"acceptAlert":  primitive.AcceptAlert,

	"setPicker": primitive.SetPicker,
	"getPicker": primitive.GetPicker,

	"tapXY":        primitive.TapXY,
	"doubleTapXY":  primitive.DoubleTapXY,
	"longPressXY":  primitive.LongPressXY,
	"swipe":        primitive.Swipe,
	"swipeElement": primitive.SwipeElement,
	"scroll":       primitive.Scroll,
	"pinch":        primitive.Pinch,

	"type": primitive.Type,

	"sleep":      primitive.SleepAction,
	"screenshot": primitive.Screenshot,
	"home":       primitive.Home,
	"lock":       primitive.Lock,
	"unlock":     primitive.Unlock,
	"log":        primitive.Log,

	"set":       primitive.Set,
	"getVar":    primitive.GetVar,
	"increment": primitive.Increment,
	"decrement": primitive.Decrement,
	"concat":    primitive.Concat,
	"math":      primitive.Math,

	"parseDate":  primitive.ParseDate,
	"formatDate": primitive.FormatDate,

	"assert":           primitive.AssertCondition,
	"assertExists":     primitive.AssertExists,
	"assertNotExists":  primitive.AssertNotExists,
	"assertText":       primitive.AssertText,

	"clickText":  primitive.ClickText,
	"waitText":   primitive.WaitText,
	"findText":   primitive.FindText,
	"readScreen": primitive.ReadScreen,
	"readRegion": primitive.ReadRegion,
	"clickImage": primitive.ClickImage,
	"waitImage":  primitive.WaitImage,
}

// Lookup resolves an action name to its handler. The dispatcher's
// contract (spec.md §4.3): missing action is InvalidArgument, unknown
// action is InvalidArgument naming the action.
func Lookup(action string) (primitive.Handler, error) {
	if action == "" {
		return nil, scripterr.Invalid("missing required field %q", "action")
	}
	h, ok := Table[action]
	if !ok {
		return nil, scripterr.Invalid("unknown action %q", action)
	}
	return h, nil
}
