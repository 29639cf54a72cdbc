package primitive

import (
	"context"
	"time"

	"github.com/awantoch/uiscript/driver"
)

// alertSearchOrder gathers candidate buttons in the fixed search order
// spec.md §4.4 defines for handleAlert: "springboard buttons ->
// springboard alerts[0].buttons -> current app buttons -> current app
// alerts[0].buttons -> current app sheets[0].buttons".
func alertSearchOrder(ctx context.Context, d driver.Driver, currentBundle string) []driver.Element {
	var candidates []driver.Element
	if sb, err := d.Springboard(ctx); err == nil {
		if btns, err := sb.Buttons(ctx); err == nil {
			candidates = append(candidates, btns...)
		}
		if btns, err := sb.AlertButtons(ctx); err == nil {
			candidates = append(candidates, btns...)
		}
	}
	app, ok, err := d.ActiveApp(ctx)
	if !ok || err != nil {
		if currentBundle != "" {
			if a, aerr := d.AppByBundle(ctx, currentBundle); aerr == nil {
				app, ok = a, true
			}
		}
	}
	if ok && app != nil {
		if btns, err := app.Buttons(ctx); err == nil {
			candidates = append(candidates, btns...)
		}
		if btns, err := app.AlertButtons(ctx); err == nil {
			candidates = append(candidates, btns...)
		}
		if btns, err := app.SheetButtons(ctx); err == nil {
			candidates = append(candidates, btns...)
		}
	}
	return candidates
}

func tapFirstHittable(ctx context.Context, els []driver.Element, match func(driver.Element) bool) bool {
	for _, el := range els {
		if !el.IsHittable(ctx) {
			continue
		}
		if match != nil && !match(el) {
			continue
		}
		if el.Tap(ctx) == nil {
			return true
		}
	}
	return false
}

func labelIn(ctx context.Context, el driver.Element, labels []string) bool {
	label, err := el.Label(ctx)
	if err != nil {
		return false
	}
	for _, want := range labels {
		if label == want {
			return true
		}
	}
	return false
}

// HandleAlert implements handleAlert{button, timeout=3, retries=1,
// optional?}: taps the first hittable match for the named button label
// across the search order, sleeping 300ms after a tap (spec.md §4.4).
func HandleAlert(pc *Context, args map[string]any) error {
	button, err := str(args, "button")
	if err != nil {
		return err
	}
	timeout := timeoutOr(args, 3)
	retries := int(numOr(args, "retries", 1))

	deadline := Now().Add(timeout)
	for attempt := 0; attempt <= retries; attempt++ {
		candidates := alertSearchOrder(pc.Ctx, pc.Driver, pc.CurrentBundleID)
		if tapFirstHittable(pc.Ctx, candidates, func(el driver.Element) bool {
			return labelIn(pc.Ctx, el, []string{button})
		}) {
			Sleep(300 * time.Millisecond)
			return nil
		}
		if Now().After(deadline) {
			return nil
		}
		Sleep(pollInterval)
	}
	return nil
}

var dismissLabels = []string{"Cancel", "No", "Don't Allow", "Not Now", "Later", "Dismiss", "Close"}
var acceptLabels = []string{"OK", "Allow", "Yes", "Accept", "Continue", "Open", "Allow Full Access", "Allow While Using App"}

func tryLabels(pc *Context, timeout time.Duration, labels []string) {
	deadline := Now().Add(timeout)
	for {
		candidates := alertSearchOrder(pc.Ctx, pc.Driver, pc.CurrentBundleID)
		for _, want := range labels {
			if tapFirstHittable(pc.Ctx, candidates, func(el driver.Element) bool {
				return labelIn(pc.Ctx, el, []string{want})
			}) {
				Sleep(300 * time.Millisecond)
				return
			}
		}
		if Now().After(deadline) {
			return
		}
		Sleep(pollInterval)
	}
}

// DismissAlert implements dismissAlert{timeout=2}: returns success even
// when no alert is found (non-error), per spec.md §4.4.
func DismissAlert(pc *Context, args map[string]any) error {
	tryLabels(pc, timeoutOr(args, 2), dismissLabels)
	return nil
}

// AcceptAlert implements acceptAlert{timeout=2}.
func AcceptAlert(pc *Context, args map[string]any) error {
	tryLabels(pc, timeoutOr(args, 2), acceptLabels)
	return nil
}
