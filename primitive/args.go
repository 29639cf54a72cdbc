package primitive

import (
	"fmt"
	"time"

	"github.com/awantoch/uiscript/scripterr"
	"github.com/awantoch/uiscript/selector"
)

// str reads a required string field.
func str(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", scripterr.Invalid("missing required field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", scripterr.Invalid("field %q must be a string", key)
	}
	return s, nil
}

// strOr reads an optional string field, defaulting when absent.
func strOr(args map[string]any, key, def string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// numOr reads an optional numeric field, defaulting when absent.
func numOr(args map[string]any, key string, def float64) float64 {
	if v, ok := args[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return def
}

// boolOr reads an optional boolean field, defaulting when absent.
func boolOr(args map[string]any, key string, def bool) bool {
	if v, ok := args[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// timeoutOr reads the universal "timeout" field (seconds), defaulting to
// def seconds when absent or zero (spec.md §4.4: "Default timeout = 10s
// unless otherwise noted").
func timeoutOr(args map[string]any, def float64) time.Duration {
	seconds := numOr(args, "timeout", def)
	if seconds <= 0 {
		seconds = def
	}
	return time.Duration(seconds * float64(time.Second))
}

// selectorArgs extracts the common {selector, selectorType} pair shared
// by single- and multi-element actions (spec.md §4.4).
func selectorArgs(args map[string]any) (string, selector.Kind, error) {
	sel, err := str(args, "selector")
	if err != nil {
		return "", "", err
	}
	return sel, selector.ParseKind(strOr(args, "selectorType", "")), nil
}

// resultKey reads "as", the common result-key field most primitives
// accept, falling back to def.
func resultKey(args map[string]any, def string) string {
	return strOr(args, "as", def)
}

// strSliceOr reads an optional array-of-strings field, defaulting to nil
// when absent or malformed (readScreen/readRegion's "formats" filter).
func strSliceOr(args map[string]any, key string) []string {
	v, ok := args[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func fmtErrf(format string, a ...any) error { return fmt.Errorf(format, a...) }
