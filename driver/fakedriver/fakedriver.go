// Package fakedriver is an in-memory driver.Driver used by engine and
// primitive tests in place of a real host UI-test runtime. Modeled on the
// in-memory lookup-map mocks in the retrieved pack (e.g. SharedCode-sop's
// redis.mockRedis): a plain struct holding Go maps and slices, no
// goroutines, no real I/O.
package fakedriver

import (
	"context"
	"fmt"
	"time"

	"github.com/awantoch/uiscript/driver"
)

// Elem is a scriptable fake element: tests set its fields directly, and
// its Tap/TypeText mutate shared Script state the way a real element
// would mutate on-screen UI.
type Elem struct {
	LabelV            string
	ValueV             string
	IdentifierV        string
	PlaceholderValueV string
	FrameV             driver.Rect
	ExistsV            bool
	HittableV          bool

	// OnTap, if set, runs when Tap is called — tests use it to model a
	// screen transition (e.g. a label flips after a button tap).
	OnTap func()
}

func (e *Elem) Exists(ctx context.Context) bool     { return e.ExistsV }
func (e *Elem) IsHittable(ctx context.Context) bool { return e.HittableV }
func (e *Elem) Label(ctx context.Context) (string, error)            { return e.LabelV, nil }
func (e *Elem) Value(ctx context.Context) (string, error)            { return e.ValueV, nil }
func (e *Elem) Identifier(ctx context.Context) (string, error)       { return e.IdentifierV, nil }
func (e *Elem) PlaceholderValue(ctx context.Context) (string, error) { return e.PlaceholderValueV, nil }
func (e *Elem) Frame(ctx context.Context) (driver.Rect, error)       { return e.FrameV, nil }

func (e *Elem) Tap(ctx context.Context) error {
	if !e.HittableV {
		return fmt.Errorf("element not hittable")
	}
	if e.OnTap != nil {
		e.OnTap()
	}
	return nil
}

func (e *Elem) DoubleTap(ctx context.Context) error { return e.Tap(ctx) }

func (e *Elem) PressForDuration(ctx context.Context, d time.Duration) error {
	return e.Tap(ctx)
}

func (e *Elem) TypeText(ctx context.Context, text string) error {
	e.ValueV += text
	return nil
}

func (e *Elem) AdjustPickerTo(ctx context.Context, value string) error {
	e.ValueV = value
	return nil
}

// App is a scriptable fake App: its element set is keyed by
// "<kind>:<selector>" so tests can register exactly the lookups a
// scenario needs.
type App struct {
	Bundle string

	StateV   driver.AppState
	launched bool

	Elements     map[string]*Elem
	AlertBtns    []Element
	SheetBtns    []Element
	NormalBtns   []Element
}

// Element is an alias kept local to avoid an import cycle in doc
// comments; tests build the slice from *Elem values.
type Element = driver.Element

func NewApp(bundle string) *App {
	return &App{Bundle: bundle, StateV: driver.AppStateNotRunning, Elements: map[string]*Elem{}}
}

func (a *App) BundleID() string { return a.Bundle }

func (a *App) Launch(ctx context.Context, opts driver.LaunchOptions) error {
	a.launched = true
	a.StateV = driver.AppStateForeground
	return nil
}

func (a *App) Terminate(ctx context.Context) error {
	a.launched = false
	a.StateV = driver.AppStateNotRunning
	return nil
}

func (a *App) Activate(ctx context.Context) error {
	a.StateV = driver.AppStateForeground
	return nil
}

func (a *App) State(ctx context.Context) (driver.AppState, error) { return a.StateV, nil }

// Register associates a selector kind+value with a fake element, the way
// a test arranges fixtures before driving a script.
func (a *App) Register(kind, selector string, e *Elem) {
	a.Elements[kind+":"+selector] = e
}

func (a *App) FindOne(ctx context.Context, kind, selector string) (driver.Element, bool, error) {
	e, ok := a.Elements[kind+":"+selector]
	if !ok || !e.ExistsV {
		return nil, false, nil
	}
	return e, true, nil
}

func (a *App) FindMany(ctx context.Context, kind, selector string, limit int) ([]driver.Element, error) {
	e, ok, _ := a.FindOne(ctx, kind, selector)
	if !ok {
		return nil, nil
	}
	return []driver.Element{e}, nil
}

func (a *App) Buttons(ctx context.Context) ([]driver.Element, error)      { return a.NormalBtns, nil }
func (a *App) AlertButtons(ctx context.Context) ([]driver.Element, error) { return a.AlertBtns, nil }
func (a *App) SheetButtons(ctx context.Context) ([]driver.Element, error) { return a.SheetBtns, nil }

// Device is a scriptable fake Device: every call is recorded so tests can
// assert on the gesture sequence, and CaptureScreenshot returns whatever
// image a test pre-loads.
type Device struct {
	Taps        []driver.Rect
	Pasteboard  string
	HomePressed int
	Locked      bool
	ScreenshotV driver.Image
}

func (d *Device) TapXY(ctx context.Context, x, y float64) error {
	d.Taps = append(d.Taps, driver.Rect{X: x, Y: y})
	return nil
}
func (d *Device) DoubleTapXY(ctx context.Context, x, y float64) error { return d.TapXY(ctx, x, y) }
func (d *Device) LongPressXY(ctx context.Context, x, y float64, duration time.Duration) error {
	return d.TapXY(ctx, x, y)
}
func (d *Device) PressThenDragTo(ctx context.Context, fromX, fromY, toX, toY float64, duration time.Duration) error {
	d.Taps = append(d.Taps, driver.Rect{X: fromX, Y: fromY}, driver.Rect{X: toX, Y: toY})
	return nil
}
func (d *Device) PressHome(ctx context.Context) error { d.HomePressed++; return nil }
func (d *Device) Lock(ctx context.Context) error      { d.Locked = true; return nil }
func (d *Device) Unlock(ctx context.Context) error     { d.Locked = false; return nil }
func (d *Device) CaptureScreenshot(ctx context.Context) (driver.Image, error) {
	return d.ScreenshotV, nil
}
func (d *Device) SetPasteboard(ctx context.Context, text string) error {
	d.Pasteboard = text
	return nil
}

// Driver is the top-level fake: one Springboard app, a set of bundle-keyed
// apps, and one shared Device.
type Driver struct {
	SpringboardApp *App
	Apps           map[string]*App
	active         *App
	DeviceV        *Device
}

func New() *Driver {
	return &Driver{
		SpringboardApp: NewApp("com.apple.springboard"),
		Apps:           map[string]*App{},
		DeviceV:        &Device{},
	}
}

// WithApp registers a fake app and makes it the active app.
func (d *Driver) WithApp(a *App) *Driver {
	d.Apps[a.Bundle] = a
	d.active = a
	return d
}

func (d *Driver) Springboard(ctx context.Context) (driver.App, error) { return d.SpringboardApp, nil }

func (d *Driver) ActiveApp(ctx context.Context) (driver.App, bool, error) {
	if d.active == nil {
		return nil, false, nil
	}
	return d.active, true, nil
}

func (d *Driver) AppByBundle(ctx context.Context, bundleID string) (driver.App, error) {
	a, ok := d.Apps[bundleID]
	if !ok {
		a = NewApp(bundleID)
		d.Apps[bundleID] = a
	}
	d.active = a
	return a, nil
}

func (d *Driver) Device() driver.Device { return d.DeviceV }

var _ driver.Driver = (*Driver)(nil)
