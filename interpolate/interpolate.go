// Package interpolate implements the Interpolator (C5, spec.md §4.2):
// substitution of ${name} references inside strings, and recursively inside
// step argument trees, using the Value Store. A closed ${name} grammar
// rather than a general template language, so this is a purpose-built
// scanner instead of text/template.
package interpolate

import (
	"strings"

	"github.com/awantoch/uiscript/store"
)

// Lookup resolves a single name to its string form, as the Value Store does
// (variables first, falling back to results; missing substitutes empty).
type Lookup func(name string) (string, bool)

// FromStore builds a Lookup backed by a ValueStore.
func FromStore(vs *store.ValueStore) Lookup {
	return func(name string) (string, bool) {
		if v, ok := vs.GetVar(name); ok {
			return store.CoerceString(v), true
		}
		return "", false
	}
}

// String scans s left to right and replaces every ${name} reference.
// Missing names substitute the empty string, never an error — interpolation
// never fails (spec.md §4.2).
func String(s string, lookup Lookup) string {
	if !strings.Contains(s, "${") {
		return s
	}
	var b strings.Builder
	i := 0
	for i < len(s) {
		start := strings.Index(s[i:], "${")
		if start < 0 {
			b.WriteString(s[i:])
			break
		}
		start += i
		b.WriteString(s[i:start])
		end := strings.IndexByte(s[start+2:], '}')
		if end < 0 {
			b.WriteString(s[start:])
			break
		}
		end += start + 2
		name := s[start+2 : end]
		if val, ok := lookup(name); ok {
			b.WriteString(val)
		}
		i = end + 1
	}
	return b.String()
}

// Tree walks an already-decoded JSON-like value (string, []any, map[string]any,
// or scalar) and interpolates every string it finds, recursing into ordered
// sequences and keyed records; other scalars pass through unchanged
// (spec.md §4.2).
func Tree(v any, lookup Lookup) any {
	switch x := v.(type) {
	case string:
		return String(x, lookup)
	case []any:
		out := make([]any, len(x))
		for i, elem := range x {
			out[i] = Tree(elem, lookup)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, elem := range x {
			out[k] = Tree(elem, lookup)
		}
		return out
	default:
		return v
	}
}

// Args interpolates an entire step argument map, the form the dispatcher
// hands primitives after resolving a step (spec.md §4.3).
func Args(args map[string]any, lookup Lookup) map[string]any {
	out := Tree(args, lookup)
	if m, ok := out.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}
