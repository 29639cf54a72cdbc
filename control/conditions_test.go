package control

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/awantoch/uiscript/driver/fakedriver"
	"github.com/awantoch/uiscript/primitive"
	"github.com/awantoch/uiscript/store"
	"github.com/awantoch/uiscript/vision/fakevision"
)

func newTestContext() (*primitive.Context, *fakedriver.Driver) {
	d := fakedriver.New()
	pc := &primitive.Context{
		Ctx:     context.Background(),
		Driver:  d,
		Vision:  fakevision.New(),
		Store:   store.New(nil),
		Signals: &store.SignalState{},
		Cache:   &store.ElementCache{},
	}
	return pc, d
}

func TestEvaluate_Exists(t *testing.T) {
	pc, d := newTestContext()
	app := fakedriver.NewApp("com.example.app")
	app.Register("button", "Go", &fakedriver.Elem{ExistsV: true})
	d.WithApp(app)

	ok, err := Evaluate(pc, map[string]any{"condition": "exists", "selector": "Go"})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEvaluate_EqualsComparesResults(t *testing.T) {
	pc, _ := newTestContext()
	pc.Store.SetVar("status", "OK")
	ok, err := Evaluate(pc, map[string]any{"condition": "equals", "key": "status", "value": "OK"})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEvaluate_GreaterThanComparesVariables(t *testing.T) {
	pc, _ := newTestContext()
	pc.Store.SetVar("n", 5.0)
	ok, err := Evaluate(pc, map[string]any{"condition": "greaterThan", "key": "n", "value": 3.0})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEvaluate_TrueRecognizesStringBooleans(t *testing.T) {
	pc, _ := newTestContext()
	pc.Store.SetVar("flag", "true")
	ok, err := Evaluate(pc, map[string]any{"condition": "true", "key": "flag"})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEvaluate_UnknownConditionIsInvalid(t *testing.T) {
	pc, _ := newTestContext()
	_, err := Evaluate(pc, map[string]any{"condition": "bogus"})
	require.Error(t, err)
}
