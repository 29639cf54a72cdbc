package primitive

import (
	"math"
	"strings"

	"github.com/awantoch/uiscript/scripterr"
	"github.com/awantoch/uiscript/store"
)

// Set implements set{key, value, target=variables}.
func Set(pc *Context, args map[string]any) error {
	key, err := str(args, "key")
	if err != nil {
		return err
	}
	value := args["value"]
	target := strOr(args, "target", "variables")
	switch target {
	case "variables":
		pc.Store.SetVar(key, value)
	case "results":
		pc.Store.SetResult(key, store.CoerceString(value))
	default:
		return scripterr.Invalid("unknown set target %q", target)
	}
	return nil
}

// GetVar implements getVar{key, as}.
func GetVar(pc *Context, args map[string]any) error {
	key, err := str(args, "key")
	if err != nil {
		return err
	}
	val, ok := pc.Store.GetVar(key)
	if !ok {
		return scripterr.NotFoundf("variable %q not set", key)
	}
	pc.Store.SetVar(resultKey(args, key), val)
	return nil
}

func numericVar(pc *Context, key string) (float64, error) {
	v, ok := pc.Store.GetVar(key)
	if !ok {
		return 0, scripterr.NotFoundf("variable %q not set", key)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, scripterr.Invalid("variable %q is not numeric", key)
	}
	return f, nil
}

// Increment implements increment{key, by=1}.
func Increment(pc *Context, args map[string]any) error {
	key, err := str(args, "key")
	if err != nil {
		return err
	}
	cur, numErr := numericVar(pc, key)
	if numErr != nil {
		if scripterr.KindOf(numErr) == scripterr.NotFound {
			cur = 0
		} else {
			return numErr
		}
	}
	pc.Store.SetVar(key, cur+numOr(args, "by", 1))
	return nil
}

// Decrement implements decrement{key, by=1}.
func Decrement(pc *Context, args map[string]any) error {
	key, err := str(args, "key")
	if err != nil {
		return err
	}
	cur, numErr := numericVar(pc, key)
	if numErr != nil {
		if scripterr.KindOf(numErr) == scripterr.NotFound {
			cur = 0
		} else {
			return numErr
		}
	}
	pc.Store.SetVar(key, cur-numOr(args, "by", 1))
	return nil
}

// Concat implements concat{values[], separator="", as}: each value is
// coerced to its canonical string form (already interpolated by the
// dispatcher when it was a string reference).
func Concat(pc *Context, args map[string]any) error {
	raw, ok := args["values"].([]any)
	if !ok {
		return scripterr.Invalid("missing required field %q", "values")
	}
	sep := strOr(args, "separator", "")
	parts := make([]string, len(raw))
	for i, v := range raw {
		parts[i] = store.CoerceString(v)
	}
	pc.Store.SetVar(resultKey(args, "concat"), strings.Join(parts, sep))
	return nil
}

func operand(pc *Context, args map[string]any, key string) (float64, error) {
	if varName, ok := args[key+"Var"].(string); ok {
		return numericVar(pc, varName)
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

// Math implements math{operation, a|aVar, b|bVar, as}: divide-by-zero is
// an error; unary ops ignore b (spec.md §4.4).
func Math(pc *Context, args map[string]any) error {
	op, err := str(args, "operation")
	if err != nil {
		return err
	}
	a, err := operand(pc, args, "a")
	if err != nil {
		return err
	}

	var result float64
	switch op {
	case "round":
		result = math.Round(a)
	case "floor":
		result = math.Floor(a)
	case "ceil":
		result = math.Ceil(a)
	case "abs":
		result = math.Abs(a)
	case "add", "subtract", "multiply", "divide", "mod", "min", "max":
		b, bErr := operand(pc, args, "b")
		if bErr != nil {
			return bErr
		}
		switch op {
		case "add":
			result = a + b
		case "subtract":
			result = a - b
		case "multiply":
			result = a * b
		case "divide":
			if b == 0 {
				return scripterr.DivideByZerof("division by zero")
			}
			result = a / b
		case "mod":
			if b == 0 {
				return scripterr.DivideByZerof("modulo by zero")
			}
			result = math.Mod(a, b)
		case "min":
			result = math.Min(a, b)
		case "max":
			result = math.Max(a, b)
		}
	default:
		return scripterr.Invalid("unknown math operation %q", op)
	}

	pc.Store.SetVar(resultKey(args, "result"), result)
	return nil
}
