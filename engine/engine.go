// Package engine implements the Control-Flow Engine and the Executor /
// Event Emitter (C8 + C9, spec.md §4.5, §4.6): the top-level loop over a
// script's steps, if/while/repeat/forEach/try/break/stop/return, and
// Terminal Result assembly. The two are one package because control-flow
// constructs recurse into the very same step-running logic the top-level
// loop uses — there is no clean seam between "run a step list" and
// "evaluate a control-flow step", so splitting them would just add an
// import cycle.
package engine

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/awantoch/uiscript/control"
	"github.com/awantoch/uiscript/dispatch"
	"github.com/awantoch/uiscript/driver"
	"github.com/awantoch/uiscript/event"
	"github.com/awantoch/uiscript/interpolate"
	"github.com/awantoch/uiscript/metrics"
	"github.com/awantoch/uiscript/model"
	"github.com/awantoch/uiscript/primitive"
	"github.com/awantoch/uiscript/scripterr"
	"github.com/awantoch/uiscript/store"
	"github.com/awantoch/uiscript/vision"
)

var tracer = otel.Tracer("github.com/awantoch/uiscript/engine")

func init() {
	// Wires the condition evaluator into the primitive package so assert*
	// primitives can reuse if/while's Evaluate without primitive importing
	// control (spec.md §4.4 assert contracts, §4.5 Conditions).
	primitive.Evaluator = control.Evaluate
}

// runState carries the mutable bookkeeping one Execute call threads
// through every recursive runSteps call.
type runState struct {
	pc   *primitive.Context
	sink event.Sink
	seq  int

	failure      *scripterr.Error
	failedAction string
	failedStepID string
}

func (rs *runState) nextIndex() int {
	i := rs.seq
	rs.seq++
	return i
}

func (rs *runState) emit(ev model.StepEvent) {
	ev.TimestampMS = primitive.Now().UnixMilli()
	rs.sink.Emit(ev)
}

// outcome reports how a steps slice finished: normally, by an
// unrecovered failure, by shouldStop, or by shouldBreak reaching this
// level unconsumed. position is this slice's 0-based index of the step
// that produced the non-normal outcome (meaningful to the top-level
// caller for the Terminal Result's stoppedAt).
type outcome struct {
	failed   bool
	stopped  bool
	broke    bool
	position int
}

// Execute runs a script to completion and returns its Terminal Result
// (spec.md §4.6).
func Execute(ctx context.Context, d driver.Driver, v vision.Vision, script model.Script, sink event.Sink) model.TerminalResult {
	ctx, span := tracer.Start(ctx, "script.execute", trace.WithAttributes(attribute.Int("steps", len(script.Steps))))
	defer span.End()

	start := primitive.Now()
	pc := &primitive.Context{
		Ctx:     ctx,
		Driver:  d,
		Vision:  v,
		Store:   store.New(script.Variables),
		Signals: &store.SignalState{},
		Cache:   &store.ElementCache{},
	}

	if len(script.Steps) == 0 {
		// Empty step list short-circuits to a trivial success result; no
		// events required (spec.md §4.6, §8).
		return model.TerminalResult{
			Success:    true,
			Results:    pc.Store.Results,
			Variables:  pc.Store.Variables,
			DurationMS: primitive.Now().Sub(start).Milliseconds(),
		}
	}

	rs := &runState{pc: pc, sink: sink}
	pc.Emit = rs.emit
	rs.emit(model.StepEvent{Type: "start", TotalSteps: len(script.Steps)})

	out := rs.runSteps(script.Steps)
	duration := primitive.Now().Sub(start).Milliseconds()

	result := model.TerminalResult{
		Results:    pc.Store.Results,
		Variables:  pc.Store.Variables,
		DurationMS: duration,
	}

	switch {
	case out.failed:
		result.Success = false
		result.Error = rs.failure.Message
		result.FailedAction = rs.failedAction
		result.FailedStepID = rs.failedStepID
		stopped := out.position
		result.StoppedAt = &stopped
		rs.emit(model.StepEvent{Type: "done", DurationMS: duration, Success: boolPtr(false), Error: rs.failure.Message, StoppedAt: &stopped})
	case out.stopped:
		result.Success = false
		stopped := out.position
		result.StoppedAt = &stopped
		result.Error = "script stopped"
		rs.emit(model.StepEvent{Type: "done", DurationMS: duration, Success: boolPtr(false), StoppedAt: &stopped})
	case out.broke:
		result.Success = true
		result.Break = true
		stopped := out.position
		result.StoppedAt = &stopped
		rs.emit(model.StepEvent{Type: "done", DurationMS: duration, Success: boolPtr(true), StoppedAt: &stopped})
	default:
		result.Success = true
		rs.emit(model.StepEvent{Type: "done", DurationMS: duration, Success: boolPtr(true)})
	}
	if !result.Success {
		span.SetStatus(codes.Error, result.Error)
	}
	return result
}

func boolPtr(b bool) *bool { return &b }

// runSteps runs one ordered sequence of sub-steps — the top-level script
// body, or the then/else/do/try/catch/finally of a control-flow step —
// emitting step_start/step_complete around every one, in order (spec.md
// §4.6, §8 invariant 4).
func (rs *runState) runSteps(steps []model.Step) outcome {
	for i, step := range steps {
		if rs.pc.Signals.ShouldStop {
			return outcome{stopped: true, position: i}
		}

		idx := rs.nextIndex()
		rs.emit(model.StepEvent{Type: "step_start", Index: idx, Action: step.Action, StepID: step.ID})

		stepCtx, stepSpan := tracer.Start(rs.pc.Ctx, "script.step", trace.WithAttributes(attribute.String("action", step.Action), attribute.Int("index", idx)))
		savedCtx := rs.pc.Ctx
		rs.pc.Ctx = stepCtx

		stepStart := primitive.Now()
		err := rs.runOne(step)
		duration := primitive.Now().Sub(stepStart).Milliseconds()

		rs.pc.Ctx = savedCtx
		if err != nil {
			stepSpan.SetStatus(codes.Error, err.Message)
		}
		stepSpan.End()

		success := err == nil
		completeEvt := model.StepEvent{
			Type: "step_complete", Index: idx, Action: step.Action, StepID: step.ID,
			DurationMS: duration, Success: &success,
		}
		if err != nil {
			completeEvt.Error = err.Message
		}
		rs.emit(completeEvt)

		if err != nil {
			if step.Optional {
				continue
			}
			rs.failure = err
			rs.failedAction = step.Action
			rs.failedStepID = step.ID
			return outcome{failed: true, position: i}
		}

		if rs.pc.Signals.ShouldStop {
			return outcome{stopped: true, position: i}
		}
		if rs.pc.Signals.ShouldBreak {
			return outcome{broke: true, position: i}
		}
	}
	return outcome{}
}

// runOne executes a single step: either a control-flow construct handled
// directly by this package, or an ordinary primitive resolved through the
// Step Dispatcher (spec.md §4.3, §4.5).
func (rs *runState) runOne(step model.Step) *scripterr.Error {
	switch step.Action {
	case "if":
		return rs.runIf(step)
	case "while":
		return rs.runWhile(step)
	case "repeat":
		return rs.runRepeat(step)
	case "forEach":
		return rs.runForEach(step)
	case "try":
		return rs.runTry(step)
	case "break":
		rs.pc.Signals.ShouldBreak = true
		return nil
	case "stop":
		rs.pc.Signals.ShouldStop = true
		return nil
	case "return":
		if v, ok := step.Args["value"]; ok {
			rs.pc.Store.SetVar("_returnValue", interpolate.Tree(v, interpolate.FromStore(rs.pc.Store)))
		}
		rs.pc.Signals.ShouldBreak = true
		return nil
	default:
		handler, lookupErr := dispatch.Lookup(step.Action)
		if lookupErr != nil {
			return scripterr.From(lookupErr)
		}
		resolved := rs.resolvedArgs(step)
		start := primitive.Now()
		hErr := handler(rs.pc, resolved)
		metrics.ObservePrimitive(step.Action, primitive.Now().Sub(start).Seconds(), hErr == nil)
		if hErr != nil {
			return scripterr.From(hErr)
		}
		rs.emitResult(step.Action, resolved)
		return nil
	}
}

// emitResult emits the "result" Step Event (spec.md §3: "result (key,
// value)") for any primitive that wrote a named value through the
// universal "as" argument. screenshot/log construct their own, more
// specific event instead (spec.md §4.4), so they're excluded here.
func (rs *runState) emitResult(action string, resolved map[string]any) {
	if action == "screenshot" || action == "log" {
		return
	}
	as, ok := resolved["as"].(string)
	if !ok || as == "" {
		return
	}
	value, ok := rs.pc.Store.Results[as]
	if !ok {
		return
	}
	rs.emit(model.StepEvent{Type: "result", Key: as, Value: value})
}
