package primitive

import (
	"strings"

	"github.com/awantoch/uiscript/scripterr"
	"github.com/awantoch/uiscript/selector"
)

// AssertCondition implements assert{condition, ..., message?}: delegates
// condition evaluation to the control package's Evaluate (wired into
// Evaluator by engine's init in engine/engine.go), so it just re-runs the
// same lookup every if/while uses and turns a false result into
// AssertionFailed.
//
// Evaluator is injected by the engine at startup to avoid an import cycle
// between primitive (leaf handlers) and the control-flow engine that
// already depends on primitive.Context.
var Evaluator func(pc *Context, args map[string]any) (bool, error)

func assertCondition(pc *Context, args map[string]any, defaultMessage string) error {
	if Evaluator == nil {
		return scripterr.Invalid("no condition evaluator configured")
	}
	ok, err := Evaluator(pc, args)
	if err != nil {
		return err
	}
	if !ok {
		message := strOr(args, "message", defaultMessage)
		return scripterr.AssertionFailedf("%s", message)
	}
	return nil
}

// AssertCondition implements the generic assert primitive.
func AssertCondition(pc *Context, args map[string]any) error {
	return assertCondition(pc, args, "assertion failed")
}

// AssertExists implements assertExists{selector, selectorType, timeout, message?}.
func AssertExists(pc *Context, args map[string]any) error {
	merged := map[string]any{}
	for k, v := range args {
		merged[k] = v
	}
	merged["condition"] = "exists"
	return assertCondition(pc, merged, "element not found")
}

// AssertNotExists implements assertNotExists{selector, selectorType, timeout, message?}.
func AssertNotExists(pc *Context, args map[string]any) error {
	merged := map[string]any{}
	for k, v := range args {
		merged[k] = v
	}
	merged["condition"] = "notExists"
	return assertCondition(pc, merged, "element unexpectedly found")
}

// AssertText implements assertText{selector, expected?|contains?, message?}.
func AssertText(pc *Context, args map[string]any) error {
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
		return scripterr.AssertionFailedf("%s", strOr(args, "message", "element not found"))
	}
	label, _ := el.Label(pc.Ctx)
	if expected, ok := args["expected"].(string); ok {
		if label != expected {
			return scripterr.AssertionFailedf("%s", strOr(args, "message", "expected \""+expected+"\", got \""+label+"\""))
		}
		return nil
	}
	if contains, ok := args["contains"].(string); ok {
		if !strings.Contains(label, contains) {
			return scripterr.AssertionFailedf("%s", strOr(args, "message", "expected text containing \""+contains+"\", got \""+label+"\""))
		}
		return nil
	}
	return scripterr.Invalid("assertText requires \"expected\" or \"contains\"")
}
