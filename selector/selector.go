// Package selector implements the Selector Resolver (C4, spec.md §4.1):
// given a selector string and a selector kind, it returns the matching
// live element(s) from the driver. It never waits — callers (primitive
// handlers) implement their own deadline loop around it.
package selector

import (
	"context"
	"fmt"

	"github.com/awantoch/uiscript/driver"
)

// Kind enumerates the selector kinds spec.md §4.1 and the GLOSSARY define.
type Kind string

const (
	AccessibilityID Kind = "accessibilityId"
	ID              Kind = "id" // alias of AccessibilityID
	ClassChain      Kind = "classChain"
	Predicate       Kind = "predicate"
	Label           Kind = "label"
	LabelContains   Kind = "labelContains"
	Value           Kind = "value"
	ValueContains   Kind = "valueContains"
)

// ParseKind maps an incoming "selectorType" string to a Kind, defaulting
// to AccessibilityID when empty (spec.md §4.1: "accessibilityId (default,
// alias id)").
func ParseKind(s string) Kind {
	switch Kind(s) {
	case "", AccessibilityID, ID:
		return AccessibilityID
	case ClassChain, Predicate, Label, LabelContains, Value, ValueContains:
		return Kind(s)
	default:
		return Kind(s)
	}
}

// elementTypeShortcuts is the fixed ordered probe list for
// accessibilityId resolution (spec.md §4.1 step 1): cheap typed queries
// before the expensive descendants-matching-any fallback.
var elementTypeShortcuts = []string{
	"button", "staticText", "textField", "secureTextField", "textView",
	"image", "cell", "switch", "slider", "table", "collectionView", "otherElement",
}

// predicateFor builds the driver-level predicate string for the
// label/value family of selector kinds.
func predicateFor(kind Kind, value string) (string, bool) {
	switch kind {
	case Label:
		return fmt.Sprintf("label == %q", value), true
	case LabelContains:
		return fmt.Sprintf("label CONTAINS %q", value), true
	case Value:
		return fmt.Sprintf("value == %q", value), true
	case ValueContains:
		return fmt.Sprintf("value CONTAINS %q", value), true
	default:
		return "", false
	}
}

// isPredicateParseFailure reports whether a driver-returned error should
// be treated as "no match" rather than propagated, per spec.md §4.1 step
// 3 ("on parse failure return empty, not an error").
func isPredicateParseFailure(err error) bool {
	return err != nil
}

// FindOne resolves exactly one element, or ok=false if none match.
func FindOne(ctx context.Context, app driver.App, kind Kind, value string) (driver.Element, bool, error) {
	switch kind {
	case AccessibilityID, ID:
		for _, shortcut := range elementTypeShortcuts {
			if el, ok, err := app.FindOne(ctx, shortcut, value); err == nil && ok {
				return el, true, nil
			}
		}
		generic := fmt.Sprintf("identifier == %q OR label == %q", value, value)
		el, ok, err := app.FindOne(ctx, "predicate", generic)
		if err != nil {
			return nil, false, nil
		}
		return el, ok, nil
	case ClassChain:
		el, ok, err := app.FindOne(ctx, "classChain", value)
		if err != nil {
			if isPredicateParseFailure(err) {
				return nil, false, nil
			}
			return nil, false, err
		}
		return el, ok, nil
	case Predicate:
		el, ok, err := app.FindOne(ctx, "predicate", value)
		if err != nil {
			return nil, false, nil
		}
		return el, ok, nil
	default:
		pred, known := predicateFor(kind, value)
		if !known {
			return nil, false, fmt.Errorf("unknown selector kind %q", kind)
		}
		el, ok, err := app.FindOne(ctx, "predicate", pred)
		if err != nil {
			return nil, false, nil
		}
		return el, ok, nil
	}
}

// FindMany resolves an ordered list of matches, truncated to limit
// (0 means unlimited), per spec.md §4.1 step 4.
func FindMany(ctx context.Context, app driver.App, kind Kind, value string, limit int) ([]driver.Element, error) {
	var (
		els []driver.Element
		err error
	)
	switch kind {
	case AccessibilityID, ID:
		generic := fmt.Sprintf("identifier == %q OR label == %q", value, value)
		els, err = app.FindMany(ctx, "predicate", generic, 0)
	case ClassChain:
		els, err = app.FindMany(ctx, "classChain", value, 0)
	case Predicate:
		els, err = app.FindMany(ctx, "predicate", value, 0)
	default:
		pred, known := predicateFor(kind, value)
		if !known {
			return nil, fmt.Errorf("unknown selector kind %q", kind)
		}
		els, err = app.FindMany(ctx, "predicate", pred, 0)
	}
	if err != nil {
		return nil, nil
	}
	if limit > 0 && len(els) > limit {
		els = els[:limit]
	}
	return els, nil
}
