package engine

import (
	"time"

	"github.com/awantoch/uiscript/control"
	"github.com/awantoch/uiscript/interpolate"
	"github.com/awantoch/uiscript/model"
	"github.com/awantoch/uiscript/primitive"
	"github.com/awantoch/uiscript/scripterr"
)

// resolvedArgs interpolates a step's Args, with the universal "as" and
// "timeout" fields (promoted out of Args by model.Step) put back in so
// handlers and control-flow constructs can read them like any other field.
func (rs *runState) resolvedArgs(step model.Step) map[string]any {
	args := make(map[string]any, len(step.Args)+2)
	for k, v := range step.Args {
		args[k] = v
	}
	if step.As != "" {
		args["as"] = step.As
	}
	if step.Timeout != 0 {
		args["timeout"] = step.Timeout
	}
	return interpolate.Args(args, interpolate.FromStore(rs.pc.Store))
}

// propagate turns a sub-steps outcome into this step's return value: a
// failure is re-raised (rs.failure is already populated by runSteps);
// stopped/broke need no action here since they live on the shared Signal
// State and the enclosing runSteps loop observes them after this step
// returns (spec.md §9: "a first-class one-shot Break/Stop Signal observed
// at loop boundaries and sub-step boundaries").
func (rs *runState) propagate(out outcome) *scripterr.Error {
	if out.failed {
		return rs.failure
	}
	return nil
}

// runIf implements if{condition, ..., then[], else[]} (spec.md §4.5).
func (rs *runState) runIf(step model.Step) *scripterr.Error {
	args := rs.resolvedArgs(step)
	ok, evalErr := control.Evaluate(rs.pc, args)
	if evalErr != nil {
		return scripterr.From(evalErr)
	}
	branch := step.Else
	if ok {
		branch = step.Then
	}
	if len(branch) == 0 {
		return nil
	}
	return rs.propagate(rs.runSteps(branch))
}

// runWhile implements while{condition, ..., do[], maxIterations=100,
// interval=0.1} (spec.md §4.5).
func (rs *runState) runWhile(step model.Step) *scripterr.Error {
	args := rs.resolvedArgs(step)
	maxIterations := int(numVal(args, "maxIterations", 100))
	interval := time.Duration(numVal(args, "interval", 0.1) * float64(time.Second))

	for iteration := 0; iteration < maxIterations; iteration++ {
		ok, evalErr := control.Evaluate(rs.pc, rs.resolvedArgs(step))
		if evalErr != nil {
			return scripterr.From(evalErr)
		}
		if !ok {
			break
		}
		rs.pc.Store.SetVar("_iteration", float64(iteration))

		out := rs.runSteps(step.Do)
		if out.failed {
			return rs.failure
		}
		if out.stopped {
			return nil
		}
		if out.broke {
			rs.pc.Signals.ClearBreak()
			break
		}
		primitive.Sleep(interval)
	}
	return nil
}

// runRepeat implements repeat{times, do[]} (spec.md §4.5).
func (rs *runState) runRepeat(step model.Step) *scripterr.Error {
	args := rs.resolvedArgs(step)
	times := int(numVal(args, "times", 0))

	for i := 0; i < times; i++ {
		rs.pc.Store.SetVar("_iteration", float64(i))
		rs.pc.Store.SetVar("_index", float64(i))

		out := rs.runSteps(step.Do)
		if out.failed {
			return rs.failure
		}
		if out.stopped {
			return nil
		}
		if out.broke {
			rs.pc.Signals.ClearBreak()
			break
		}
	}
	return nil
}

// runForEach implements forEach{items|elements, as|itemVar="item",
// indexAs|indexVar="index", limit?, do[]} (spec.md §4.4, §4.5): spreads
// each record's fields as item_<key>.
func (rs *runState) runForEach(step model.Step) *scripterr.Error {
	args := rs.resolvedArgs(step)

	ref, ok := args["items"].(string)
	if !ok {
		ref, ok = args["elements"].(string)
	}
	if !ok {
		return scripterr.Invalid("forEach requires %q or %q", "items", "elements")
	}
	val, found := rs.pc.Store.GetVar(ref)
	if !found {
		return scripterr.NotFoundf("variable %q not set", ref)
	}
	list, ok := val.([]any)
	if !ok {
		return scripterr.Invalid("variable %q is not an ordered sequence", ref)
	}
	if limit := int(numVal(args, "limit", 0)); limit > 0 && len(list) > limit {
		list = list[:limit]
	}

	itemVar := strVal(args, "as", strVal(args, "itemVar", "item"))
	indexVar := strVal(args, "indexAs", strVal(args, "indexVar", "index"))

	for i, item := range list {
		rs.pc.Store.SetVar(indexVar, float64(i))
		rs.pc.Store.SetVar("_iteration", float64(i))
		rs.pc.Store.SetVar("_index", float64(i))
		if record, ok := item.(map[string]any); ok {
			for k, v := range record {
				rs.pc.Store.SetVar(itemVar+"_"+k, v)
			}
		} else {
			rs.pc.Store.SetVar(itemVar, item)
		}

		out := rs.runSteps(step.Do)
		if out.failed {
			return rs.failure
		}
		if out.stopped {
			return nil
		}
		if out.broke {
			rs.pc.Signals.ClearBreak()
			break
		}
	}
	return nil
}

// runTry implements try{try[]|do[], catch[]?, finally[]?,
// propagateError?=false} (spec.md §4.5): on try failure, exposes _error,
// runs catch (errors swallowed), then always runs finally (errors
// swallowed); returns the try outcome only if propagateError is true. A
// stop signal inside the try body bypasses catch/finally and propagates
// immediately — stop means abort the whole script, which takes priority
// over any script-level cleanup construct.
func (rs *runState) runTry(step model.Step) *scripterr.Error {
	body := step.Try
	if len(body) == 0 {
		body = step.Do
	}
	args := rs.resolvedArgs(step)
	propagateError := boolVal(args, "propagateError", false)

	out := rs.runSteps(body)
	if out.stopped {
		return nil
	}

	if out.failed {
		failure := rs.failure
		failedAction := rs.failedAction
		failedStepID := rs.failedStepID
		rs.pc.Store.SetVar("_error", failure.Message)
		rs.failure = nil

		if len(step.Catch) > 0 {
			rs.runSteps(step.Catch)
			rs.failure = nil
		}
		if len(step.Finally) > 0 {
			rs.runSteps(step.Finally)
			rs.failure = nil
		}
		if propagateError {
			rs.failure = failure
			rs.failedAction = failedAction
			rs.failedStepID = failedStepID
			return failure
		}
		return nil
	}

	if len(step.Finally) > 0 {
		rs.runSteps(step.Finally)
		rs.failure = nil
	}
	return nil
}

func numVal(args map[string]any, key string, def float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return def
}

func strVal(args map[string]any, key, def string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return def
}

func boolVal(args map[string]any, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return def
}
