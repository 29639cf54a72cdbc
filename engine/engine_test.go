package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/awantoch/uiscript/driver/fakedriver"
	"github.com/awantoch/uiscript/event"
	"github.com/awantoch/uiscript/model"
	"github.com/awantoch/uiscript/primitive"
	"github.com/awantoch/uiscript/vision/fakevision"
)

func noSleep(t *testing.T) {
	orig := primitive.Sleep
	primitive.Sleep = func(time.Duration) {}
	t.Cleanup(func() { primitive.Sleep = orig })
}

// S1 — happy click: launch, wait, click flips a label, read observes it.
func TestExecute_S1_HappyClick(t *testing.T) {
	noSleep(t)
	d := fakedriver.New()
	app := fakedriver.NewApp("com.example.app")
	status := &fakedriver.Elem{ExistsV: true, LabelV: "Waiting"}
	app.Register("staticText", "Main", &fakedriver.Elem{ExistsV: true})
	app.Register("button", "Go", &fakedriver.Elem{ExistsV: true, HittableV: true, OnTap: func() { status.LabelV = "OK" }})
	app.Register("staticText", "Status", status)
	d.WithApp(app)

	script := model.Script{Steps: []model.Step{
		{Action: "launch", Args: map[string]any{"bundleId": "com.example.app"}},
		{Action: "wait", Args: map[string]any{"selector": "Main", "timeout": 5.0}},
		{Action: "click", Args: map[string]any{"selector": "Go"}},
		{Action: "read", Args: map[string]any{"selector": "Status"}, As: "st"},
	}}

	result := Execute(context.Background(), d, fakevision.New(), script, event.NopSink{})
	require.True(t, result.Success)
	require.Equal(t, "OK", result.Results["st"])
}

// S2 — optional alert: handleAlert with no alert present is optional and
// succeeds; only the second step's UI effect is observed.
func TestExecute_S2_OptionalAlert(t *testing.T) {
	noSleep(t)
	d := fakedriver.New()
	app := fakedriver.NewApp("com.example.app")
	tapped := false
	app.Register("button", "Next", &fakedriver.Elem{ExistsV: true, HittableV: true, OnTap: func() { tapped = true }})
	d.WithApp(app)

	script := model.Script{Steps: []model.Step{
		{Action: "handleAlert", Optional: true, Timeout: 1, Args: map[string]any{"button": "Allow"}},
		{Action: "click", Args: map[string]any{"selector": "Next"}},
	}}

	result := Execute(context.Background(), d, fakevision.New(), script, event.NopSink{})
	require.True(t, result.Success)
	require.True(t, tapped)
}

// S3 — interpolation + math.
func TestExecute_S3_InterpolationAndMath(t *testing.T) {
	noSleep(t)
	d := fakedriver.New()
	sink := &event.RecordingSink{}

	script := model.Script{Steps: []model.Step{
		{Action: "set", Args: map[string]any{"key": "n", "value": 3.0}},
		{Action: "math", Args: map[string]any{"operation": "multiply", "aVar": "n", "b": 4.0, "as": "p"}},
		{Action: "log", Args: map[string]any{"message": "product=${p}"}},
	}}

	result := Execute(context.Background(), d, fakevision.New(), script, sink)
	require.True(t, result.Success)
	require.Equal(t, 12.0, result.Variables["p"])
	require.Equal(t, "12", result.Results["p"])

	foundLogEvent := false
	for _, ev := range sink.Snapshot() {
		if ev.Type == "log" && ev.Message == "product=12" {
			foundLogEvent = true
		}
	}
	require.True(t, foundLogEvent)
}

// S5 — assertion failure with propagation.
func TestExecute_S5_AssertionFailure(t *testing.T) {
	noSleep(t)
	d := fakedriver.New()
	d.WithApp(fakedriver.NewApp("com.example.app"))

	script := model.Script{Steps: []model.Step{
		{Action: "assertExists", Args: map[string]any{"selector": "Ghost", "timeout": 0.2, "message": "no ghost"}},
	}}

	result := Execute(context.Background(), d, fakevision.New(), script, event.NopSink{})
	require.False(t, result.Success)
	require.Equal(t, "no ghost", result.Error)
	require.Equal(t, "assertExists", result.FailedAction)
	require.NotNil(t, result.StoppedAt)
	require.Equal(t, 0, *result.StoppedAt)
}

// S6 — try/catch/finally: try fails, catch runs, finally runs, overall
// success with _error set; without propagateError the script succeeds.
func TestExecute_S6_TryCatchFinally(t *testing.T) {
	noSleep(t)
	d := fakedriver.New()
	d.WithApp(fakedriver.NewApp("com.example.app"))

	script := model.Script{Steps: []model.Step{
		{
			Action: "try",
			Try: []model.Step{
				{Action: "assertExists", Args: map[string]any{"selector": "Ghost", "timeout": 0.0}},
			},
			Catch: []model.Step{
				{Action: "set", Args: map[string]any{"key": "caught", "value": true}},
			},
			Finally: []model.Step{
				{Action: "set", Args: map[string]any{"key": "cleanedUp", "value": true}},
			},
		},
	}}

	result := Execute(context.Background(), d, fakevision.New(), script, event.NopSink{})
	require.True(t, result.Success)
	require.NotEmpty(t, result.Variables["_error"])
	require.Equal(t, true, result.Variables["caught"])
	require.Equal(t, true, result.Variables["cleanedUp"])
}

func TestExecute_EmptyStepsIsTrivialSuccess(t *testing.T) {
	d := fakedriver.New()
	result := Execute(context.Background(), d, fakevision.New(), model.Script{}, event.NopSink{})
	require.True(t, result.Success)
	require.Nil(t, result.StoppedAt)
}

func TestExecute_BreakAtTopLevel(t *testing.T) {
	noSleep(t)
	d := fakedriver.New()
	script := model.Script{Steps: []model.Step{
		{Action: "set", Args: map[string]any{"key": "a", "value": 1.0}},
		{Action: "break"},
		{Action: "set", Args: map[string]any{"key": "b", "value": 2.0}},
	}}
	result := Execute(context.Background(), d, fakevision.New(), script, event.NopSink{})
	require.True(t, result.Success)
	require.True(t, result.Break)
	require.NotNil(t, result.StoppedAt)
	require.Equal(t, 1, *result.StoppedAt)
	require.Equal(t, 1.0, result.Variables["a"])
	require.Nil(t, result.Variables["b"])
}

func TestExecute_RepeatZeroTimesIsNoop(t *testing.T) {
	d := fakedriver.New()
	script := model.Script{Steps: []model.Step{
		{Action: "repeat", Args: map[string]any{"times": 0.0}, Do: []model.Step{
			{Action: "set", Args: map[string]any{"key": "x", "value": 1.0}},
		}},
	}}
	result := Execute(context.Background(), d, fakevision.New(), script, event.NopSink{})
	require.True(t, result.Success)
	require.Nil(t, result.Variables["x"])
}
