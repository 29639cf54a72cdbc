package primitive

import (
	"time"

	"github.com/awantoch/uiscript/driver"
	"github.com/awantoch/uiscript/scripterr"
	"github.com/awantoch/uiscript/store"
)

// pollInterval is the busy-wait interval for deadline loops (spec.md §5:
// "primitives that must wait ... busy-wait with a 100ms sleep between
// probes").
const pollInterval = 100 * time.Millisecond

// Launch implements launch{bundleId, arguments?, environment?, wait=true,
// timeout=30, retries=1, retryDelay=2} (spec.md §4.4).
func Launch(pc *Context, args map[string]any) error {
	bundleID, err := str(args, "bundleId")
	if err != nil {
		return err
	}
	wait := boolOr(args, "wait", true)
	timeout := timeoutOr(args, 30)
	retries := int(numOr(args, "retries", 1))
	retryDelay := numOr(args, "retryDelay", 2)

	var opts driver.LaunchOptions
	if raw, ok := args["arguments"].([]any); ok {
		for _, a := range raw {
			if s, ok := a.(string); ok {
				opts.Arguments = append(opts.Arguments, s)
			}
		}
	}
	if raw, ok := args["environment"].(map[string]any); ok {
		opts.Environment = map[string]string{}
		for k, v := range raw {
			opts.Environment[k] = store.CoerceString(v)
		}
	}

	app, appErr := pc.Driver.AppByBundle(pc.Ctx, bundleID)
	if appErr != nil {
		return scripterr.Wrap(scripterr.Unknown, appErr, "resolving app %s", bundleID)
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		lastErr = app.Launch(pc.Ctx, opts)
		if lastErr == nil {
			break
		}
		if attempt < retries {
			Sleep(time.Duration(retryDelay) * time.Second)
		}
	}
	if lastErr != nil {
		return scripterr.Wrap(scripterr.Timeout, lastErr, "launch %s failed after %d attempts", bundleID, retries+1)
	}

	pc.CurrentBundleID = bundleID

	if wait {
		deadline := Now().Add(timeout)
		for {
			state, stateErr := app.State(pc.Ctx)
			if stateErr == nil && state == driver.AppStateForeground {
				break
			}
			if Now().After(deadline) {
				return scripterr.Timeoutf("app %s did not reach foreground within %s", bundleID, timeout)
			}
			Sleep(pollInterval)
		}
	}

	state, _ := app.State(pc.Ctx)
	pc.Store.SetVar("_appBundleId", bundleID)
	pc.Store.SetVar("_appState", string(state))
	return nil
}

// Terminate implements terminate{bundleId, timeout=5}: returns success
// even if the app does not fully quit within the grace window (spec.md
// §4.4 — termination is best-effort, never a hard failure).
func Terminate(pc *Context, args map[string]any) error {
	bundleID, err := str(args, "bundleId")
	if err != nil {
		return err
	}
	app, appErr := pc.Driver.AppByBundle(pc.Ctx, bundleID)
	if appErr != nil {
		return nil
	}
	_ = app.Terminate(pc.Ctx)
	return nil
}

// Activate implements activate{bundleId}: brings the app to foreground
// and sets it as current.
func Activate(pc *Context, args map[string]any) error {
	bundleID, err := str(args, "bundleId")
	if err != nil {
		return err
	}
	app, appErr := pc.Driver.AppByBundle(pc.Ctx, bundleID)
	if appErr != nil {
		return scripterr.Wrap(scripterr.Unknown, appErr, "resolving app %s", bundleID)
	}
	if err := app.Activate(pc.Ctx); err != nil {
		return scripterr.Wrap(scripterr.Unknown, err, "activating %s", bundleID)
	}
	pc.CurrentBundleID = bundleID
	return nil
}

// IsRunning implements isRunning{bundleId, as}: writes "true"/"false".
func IsRunning(pc *Context, args map[string]any) error {
	bundleID, err := str(args, "bundleId")
	if err != nil {
		return err
	}
	as := resultKey(args, "isRunning")
	app, appErr := pc.Driver.AppByBundle(pc.Ctx, bundleID)
	if appErr != nil {
		pc.Store.SetVar(as, false)
		return nil
	}
	state, stateErr := app.State(pc.Ctx)
	running := stateErr == nil && state != driver.AppStateNotRunning
	pc.Store.SetVar(as, running)
	return nil
}
