// Package primitive implements the ~50 Primitive Handlers (C7, spec.md
// §4.4): the leaf actions a Step Dispatcher routes to. Each handler gets a
// Context bundling the UI Driver Facade, Vision Facade, and the
// per-execution Value Store / Signal State / Element Cache, and an
// already-interpolated argument map.
package primitive

import (
	"context"
	"time"

	"github.com/awantoch/uiscript/driver"
	"github.com/awantoch/uiscript/model"
	"github.com/awantoch/uiscript/store"
	"github.com/awantoch/uiscript/vision"
)

// Sleep is overridable by tests so deadline loops don't make real tests
// slow; production code leaves it as time.Sleep.
var Sleep = time.Sleep

// Now is overridable by tests for deterministic date primitives;
// production code leaves it as time.Now.
var Now = time.Now

// Context is the per-step execution environment a handler runs in.
type Context struct {
	Ctx     context.Context
	Driver  driver.Driver
	Vision  vision.Vision
	Store   *store.ValueStore
	Signals *store.SignalState
	Cache   *store.ElementCache

	// CurrentBundleID is the bundle id of the app lifecycle primitives
	// most recently launched/activated (spec.md reserved "_appBundleId").
	// Handlers that need "the current app" resolve it through
	// CurrentApp rather than caching an App handle.
	CurrentBundleID string

	// Emit lets a handler push a Step Event directly onto the run's
	// sink, for event shapes (log, screenshot) that only the primitive
	// itself has enough information to construct. Wired by engine.Execute;
	// nil in contexts built outside a full run (e.g. ad-hoc unit tests),
	// where handlers must treat a nil Emit as "no sink attached" and skip.
	Emit func(model.StepEvent)
}

// emit is a nil-safe wrapper so handlers don't need a guard at every
// call site.
func (pc *Context) emit(ev model.StepEvent) {
	if pc.Emit != nil {
		pc.Emit(ev)
	}
}

// CurrentApp resolves the app lifecycle primitives should act on: the
// driver's active app if one is foregrounded, else the app last recorded
// by launch/activate (spec.md §9: "keep per-execution but re-fetch each
// step; never cache element handles across steps").
func (pc *Context) CurrentApp() (driver.App, bool, error) {
	if app, ok, err := pc.Driver.ActiveApp(pc.Ctx); err == nil && ok {
		return app, true, nil
	}
	if pc.CurrentBundleID == "" {
		return nil, false, nil
	}
	app, err := pc.Driver.AppByBundle(pc.Ctx, pc.CurrentBundleID)
	if err != nil {
		return nil, false, err
	}
	return app, true, nil
}

// Handler is the uniform signature every primitive implements (spec.md
// §9: "a single closed mapping from action name to a handler with a
// uniform signature"). args is the step's already-interpolated argument
// tree (spec.md §4.2); handlers write their output directly into
// pc.Store.
type Handler func(pc *Context, args map[string]any) error
