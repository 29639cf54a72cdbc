// Package control implements the closed Condition set evaluable by
// if/while/assert* (spec.md §4.5): exists, notExists, visible,
// waitExists, textVisible, textNotVisible, equals, notEquals, contains,
// greaterThan, lessThan, true, false.
package control

import (
	"strconv"
	"strings"
	"time"

	"github.com/awantoch/uiscript/primitive"
	"github.com/awantoch/uiscript/scripterr"
	"github.com/awantoch/uiscript/selector"
	"github.com/awantoch/uiscript/store"
)

// pollInterval mirrors primitive's deadline-loop cadence (spec.md §5).
const pollInterval = 100 * time.Millisecond

func elementExists(pc *primitive.Context, args map[string]any) (bool, error) {
	sel, ok := args["selector"].(string)
	if !ok {
		return false, scripterr.Invalid("condition requires %q", "selector")
	}
	kind := selector.ParseKind(strValue(args, "selectorType"))
	app, ok2, err := pc.CurrentApp()
	if err != nil {
		return false, scripterr.Wrap(scripterr.Unknown, err, "resolving current app")
	}
	if !ok2 {
		return false, nil
	}
	el, ok3, findErr := selector.FindOne(pc.Ctx, app, kind, sel)
	if findErr != nil || !ok3 {
		return false, nil
	}
	return el.Exists(pc.Ctx), nil
}

func elementHittable(pc *primitive.Context, args map[string]any) (bool, error) {
	exists, err := elementExists(pc, args)
	if err != nil || !exists {
		return false, err
	}
	sel := args["selector"].(string)
	kind := selector.ParseKind(strValue(args, "selectorType"))
	app, _, _ := pc.CurrentApp()
	el, ok, _ := selector.FindOne(pc.Ctx, app, kind, sel)
	if !ok {
		return false, nil
	}
	return el.IsHittable(pc.Ctx), nil
}

func strValue(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func floatValue(args map[string]any, key string) (float64, bool) {
	v, ok := args[key].(float64)
	return v, ok
}

// Evaluate is the single entry point if/while/assert* all call. It is
// wired into primitive.Evaluator at process start (see engine.init) so
// the assert* primitives can reuse it without an import cycle.
func Evaluate(pc *primitive.Context, args map[string]any) (bool, error) {
	condition, ok := args["condition"].(string)
	if !ok {
		return false, scripterr.Invalid("missing required field %q", "condition")
	}
	switch condition {
	case "exists":
		return elementExists(pc, args)
	case "notExists":
		exists, err := elementExists(pc, args)
		return !exists, err
	case "visible":
		return elementHittable(pc, args)
	case "waitExists":
		timeout := 10 * time.Second
		if f, ok := floatValue(args, "timeout"); ok && f > 0 {
			timeout = time.Duration(f * float64(time.Second))
		}
		deadline := primitive.Now().Add(timeout)
		for {
			if exists, _ := elementExists(pc, args); exists {
				return true, nil
			}
			if primitive.Now().After(deadline) {
				return false, nil
			}
			primitive.Sleep(pollInterval)
		}
	case "textVisible", "textNotVisible":
		text := strValue(args, "text")
		img, err := pc.Driver.Device().CaptureScreenshot(pc.Ctx)
		if err != nil {
			return false, scripterr.Wrap(scripterr.Unknown, err, "capturing screen")
		}
		_, found, visErr := pc.Vision.FindText(pc.Ctx, img, text)
		if visErr != nil {
			return false, scripterr.Wrap(scripterr.Unknown, visErr, "running OCR")
		}
		if condition == "textVisible" {
			return found, nil
		}
		return !found, nil
	case "equals", "notEquals", "contains":
		key, ok := args["key"].(string)
		if !ok {
			return false, scripterr.Invalid("condition %q requires %q", condition, "key")
		}
		value := strValue(args, "value")
		current, _ := pc.Store.GetResult(key)
		switch condition {
		case "equals":
			return current == value, nil
		case "notEquals":
			return current != value, nil
		default:
			return strings.Contains(current, value), nil
		}
	case "greaterThan", "lessThan":
		key, ok := args["key"].(string)
		if !ok {
			return false, scripterr.Invalid("condition %q requires %q", condition, "key")
		}
		v, found := pc.Store.GetVar(key)
		if !found {
			return false, nil
		}
		current, isNum := v.(float64)
		if !isNum {
			return false, scripterr.Invalid("variable %q is not numeric", key)
		}
		threshold, _ := floatValue(args, "value")
		if condition == "greaterThan" {
			return current > threshold, nil
		}
		return current < threshold, nil
	case "true", "false":
		key, ok := args["key"].(string)
		if !ok {
			return false, scripterr.Invalid("condition %q requires %q", condition, "key")
		}
		v, found := pc.Store.GetVar(key)
		truthy := found && isTruthy(v)
		if condition == "true" {
			return truthy, nil
		}
		return !truthy, nil
	default:
		return false, scripterr.Invalid("unknown condition %q", condition)
	}
}

func isTruthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		if b, err := strconv.ParseBool(x); err == nil {
			return b
		}
		return x != "" && x != store.CoerceString(false)
	case float64:
		return x != 0
	default:
		return v != nil
	}
}
