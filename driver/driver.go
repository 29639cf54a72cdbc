// Package driver declares the UI Driver Facade (C1, spec.md §4.7): the
// narrow capability surface the interpreter depends on for element
// discovery, interaction, coordinate gestures, and device buttons. The
// interpreter never talks to a host UI-test runtime directly — only
// through these interfaces — so a fake implementation can stand in for
// tests (driver/fakedriver) and a real implementation can wrap whatever
// native automation facility a host provides.
package driver

import (
	"context"
	"time"
)

// AppState mirrors the coarse foreground/background states a host app can
// report (spec.md §4.4 launch/isRunning).
type AppState string

const (
	AppStateUnknown    AppState = "unknown"
	AppStateNotRunning AppState = "notRunning"
	AppStateBackground AppState = "background"
	AppStateForeground AppState = "foreground"
)

// Rect is an element's frame in screen points (spec.md §3 getRect).
type Rect struct {
	X, Y, Width, Height float64
}

// Image is a captured screenshot, in pixel space, handed to the Vision
// Facade for OCR/template matching (spec.md §4.7).
type Image struct {
	PNG    []byte
	Width  int
	Height int
}

// LaunchOptions carries the optional fields of the launch primitive
// (spec.md §4.4).
type LaunchOptions struct {
	Arguments   []string
	Environment map[string]string
}

// Element is a single live UI element handle. Handles are never cached
// across steps (spec.md §9: "never cache element handles across steps");
// callers re-resolve via Selector Resolver each time one is needed.
type Element interface {
	Exists(ctx context.Context) bool
	IsHittable(ctx context.Context) bool
	Label(ctx context.Context) (string, error)
	Value(ctx context.Context) (string, error)
	Identifier(ctx context.Context) (string, error)
	PlaceholderValue(ctx context.Context) (string, error)
	Frame(ctx context.Context) (Rect, error)

	Tap(ctx context.Context) error
	DoubleTap(ctx context.Context) error
	PressForDuration(ctx context.Context, d time.Duration) error
	TypeText(ctx context.Context, text string) error
	AdjustPickerTo(ctx context.Context, value string) error
}

// App is a handle to one application under automation (spec.md §4.7
// "handle.launch/terminate/activate/state").
type App interface {
	BundleID() string
	Launch(ctx context.Context, opts LaunchOptions) error
	Terminate(ctx context.Context) error
	Activate(ctx context.Context) error
	State(ctx context.Context) (AppState, error)

	// FindOne/FindMany implement the query kinds the Selector Resolver
	// builds (spec.md §4.1): accessibilityId, classChain, predicate, and
	// the label/value family reduce to a predicate string by the time
	// they reach the driver.
	FindOne(ctx context.Context, kind, selector string) (Element, bool, error)
	FindMany(ctx context.Context, kind, selector string, limit int) ([]Element, error)

	// Buttons returns the app's currently visible alert/sheet buttons, in
	// the search order handleAlert/dismissAlert/acceptAlert iterate
	// (spec.md §4.4).
	Buttons(ctx context.Context) ([]Element, error)
	AlertButtons(ctx context.Context) ([]Element, error)
	SheetButtons(ctx context.Context) ([]Element, error)
}

// Device is the shared, app-independent surface: coordinate gestures and
// physical/virtual buttons (spec.md §4.7).
type Device interface {
	TapXY(ctx context.Context, x, y float64) error
	DoubleTapXY(ctx context.Context, x, y float64) error
	LongPressXY(ctx context.Context, x, y float64, duration time.Duration) error
	PressThenDragTo(ctx context.Context, fromX, fromY, toX, toY float64, duration time.Duration) error

	PressHome(ctx context.Context) error
	Lock(ctx context.Context) error
	Unlock(ctx context.Context) error
	CaptureScreenshot(ctx context.Context) (Image, error)
	SetPasteboard(ctx context.Context, text string) error
}

// Driver is the full facade a process exposes once: the Springboard app
// (for system alerts), app lookup, and the shared device surface
// (spec.md §9: "keep per-execution but re-fetch each step").
type Driver interface {
	Springboard(ctx context.Context) (App, error)
	ActiveApp(ctx context.Context) (App, bool, error)
	AppByBundle(ctx context.Context, bundleID string) (App, error)
	Device() Device
}
