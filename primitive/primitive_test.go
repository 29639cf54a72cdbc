package primitive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/awantoch/uiscript/driver/fakedriver"
	"github.com/awantoch/uiscript/store"
	"github.com/awantoch/uiscript/vision/fakevision"
)

func newTestContext() (*Context, *fakedriver.Driver) {
	d := fakedriver.New()
	pc := &Context{
		Ctx:     context.Background(),
		Driver:  d,
		Vision:  fakevision.New(),
		Store:   store.New(nil),
		Signals: &store.SignalState{},
		Cache:   &store.ElementCache{},
	}
	return pc, d
}

func TestClick_TapsHittableElement(t *testing.T) {
	pc, d := newTestContext()
	app := fakedriver.NewApp("com.example.app")
	tapped := false
	app.Register("button", "Go", &fakedriver.Elem{ExistsV: true, HittableV: true, OnTap: func() { tapped = true }})
	d.WithApp(app)

	err := Click(pc, map[string]any{"selector": "Go"})
	require.NoError(t, err)
	require.True(t, tapped)
}

func TestClick_NotHittableIsNotInteractable(t *testing.T) {
	pc, d := newTestContext()
	app := fakedriver.NewApp("com.example.app")
	app.Register("button", "Go", &fakedriver.Elem{ExistsV: true, HittableV: false})
	d.WithApp(app)

	err := Click(pc, map[string]any{"selector": "Go"})
	require.Error(t, err)
}

func TestClick_MissingElementIsNotFound(t *testing.T) {
	pc, d := newTestContext()
	d.WithApp(fakedriver.NewApp("com.example.app"))

	err := Click(pc, map[string]any{"selector": "Ghost"})
	require.Error(t, err)
}

func TestMath_MultiplyWritesResult(t *testing.T) {
	pc, _ := newTestContext()
	pc.Store.SetVar("n", 3.0)

	err := Math(pc, map[string]any{"operation": "multiply", "aVar": "n", "b": 4.0, "as": "p"})
	require.NoError(t, err)
	v, ok := pc.Store.GetVar("p")
	require.True(t, ok)
	require.Equal(t, 12.0, v)
	require.Equal(t, "12", pc.Store.Results["p"])
}

func TestMath_DivideByZeroFails(t *testing.T) {
	pc, _ := newTestContext()
	err := Math(pc, map[string]any{"operation": "divide", "a": 1.0, "b": 0.0, "as": "x"})
	require.Error(t, err)
	_, ok := pc.Store.GetVar("x")
	require.False(t, ok)
}

func TestSetAndGetVar(t *testing.T) {
	pc, _ := newTestContext()
	require.NoError(t, Set(pc, map[string]any{"key": "n", "value": 3.0}))
	require.NoError(t, GetVar(pc, map[string]any{"key": "n", "as": "copy"}))
	v, ok := pc.Store.GetVar("copy")
	require.True(t, ok)
	require.Equal(t, 3.0, v)
}

func TestConcat_JoinsInterpolatedValues(t *testing.T) {
	pc, _ := newTestContext()
	err := Concat(pc, map[string]any{"values": []any{"a", "b", 1.0}, "separator": "-", "as": "joined"})
	require.NoError(t, err)
	v, _ := pc.Store.GetVar("joined")
	require.Equal(t, "a-b-1", v)
}

func TestParseDateFormatDate_RoundTrip(t *testing.T) {
	pc, _ := newTestContext()
	format := "yyyy-MM-dd"
	require.NoError(t, ParseDate(pc, map[string]any{"input": "2024-03-05", "formats": []any{format}, "as": "d"}))
	ts, ok := pc.Store.GetVar("d_timestamp")
	require.True(t, ok)

	require.NoError(t, FormatDate(pc, map[string]any{"format": format, "timestamp": ts, "as": "out"}))
	out, _ := pc.Store.GetVar("out")
	require.Equal(t, "2024-03-05", out)
}

func TestHandleAlert_NoAlertStillSucceeds(t *testing.T) {
	pc, d := newTestContext()
	d.WithApp(fakedriver.NewApp("com.example.app"))
	Sleep = func(d time.Duration) {}
	defer func() { Sleep = time.Sleep }()

	err := HandleAlert(pc, map[string]any{"button": "Allow", "timeout": 0.0, "retries": 0.0})
	require.NoError(t, err)
}
