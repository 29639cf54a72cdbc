// Package model defines the wire types the interpreter consumes and
// produces: the Step/Script a client submits, and the Terminal Result and
// Step Event it emits back (spec.md §3, §6).
package model

import "encoding/json"

// Step is one element of a script. Action-specific fields live in Args;
// the universal fields (action, optional, timeout, id, as, and the
// control-flow nesting keys) are promoted to named fields so the dispatcher
// and control-flow engine don't have to dig through a raw map for them.
type Step struct {
	Action   string          `json:"action"`
	Optional bool            `json:"optional,omitempty"`
	Timeout  float64         `json:"timeout,omitempty"`
	ID       string          `json:"id,omitempty"`
	As       string          `json:"as,omitempty"`

	Then    []Step `json:"then,omitempty"`
	Else    []Step `json:"else,omitempty"`
	Do      []Step `json:"do,omitempty"`
	Try     []Step `json:"try,omitempty"`
	Catch   []Step `json:"catch,omitempty"`
	Finally []Step `json:"finally,omitempty"`

	// Args holds every action-specific field, keyed exactly as received.
	// The dispatcher interpolates this tree once at dispatch entry
	// (spec.md §4.2) before handing it to the primitive handler.
	Args map[string]any `json:"-"`
}

// rawStep mirrors Step's JSON shape but captures the full object so Args can
// be reconstructed from whatever fields aren't already named above.
type rawStep struct {
	Action   string          `json:"action"`
	Optional bool            `json:"optional,omitempty"`
	Timeout  float64         `json:"timeout,omitempty"`
	ID       string          `json:"id,omitempty"`
	As       string          `json:"as,omitempty"`
	Then     []Step          `json:"then,omitempty"`
	Else     []Step          `json:"else,omitempty"`
	Do       []Step          `json:"do,omitempty"`
	Try      []Step          `json:"try,omitempty"`
	Catch    []Step          `json:"catch,omitempty"`
	Finally  []Step          `json:"finally,omitempty"`
}

var namedFields = map[string]bool{
	"action": true, "optional": true, "timeout": true, "id": true, "as": true,
	"then": true, "else": true, "do": true, "try": true, "catch": true, "finally": true,
}

// UnmarshalJSON decodes the named universal fields into their struct fields
// and everything else into Args.
func (s *Step) UnmarshalJSON(data []byte) error {
	var raw rawStep
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	args := make(map[string]any, len(generic))
	for k, v := range generic {
		if namedFields[k] {
			continue
		}
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return err
		}
		args[k] = val
	}
	*s = Step{
		Action:   raw.Action,
		Optional: raw.Optional,
		Timeout:  raw.Timeout,
		ID:       raw.ID,
		As:       raw.As,
		Then:     raw.Then,
		Else:     raw.Else,
		Do:       raw.Do,
		Try:      raw.Try,
		Catch:    raw.Catch,
		Finally:  raw.Finally,
		Args:     args,
	}
	return nil
}

// MarshalJSON re-flattens Args alongside the named fields so a Step survives
// a decode/encode round trip (used by the YAML convenience CLI path).
func (s Step) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Args)+11)
	for k, v := range s.Args {
		out[k] = v
	}
	out["action"] = s.Action
	if s.Optional {
		out["optional"] = s.Optional
	}
	if s.Timeout != 0 {
		out["timeout"] = s.Timeout
	}
	if s.ID != "" {
		out["id"] = s.ID
	}
	if s.As != "" {
		out["as"] = s.As
	}
	if len(s.Then) > 0 {
		out["then"] = s.Then
	}
	if len(s.Else) > 0 {
		out["else"] = s.Else
	}
	if len(s.Do) > 0 {
		out["do"] = s.Do
	}
	if len(s.Try) > 0 {
		out["try"] = s.Try
	}
	if len(s.Catch) > 0 {
		out["catch"] = s.Catch
	}
	if len(s.Finally) > 0 {
		out["finally"] = s.Finally
	}
	return json.Marshal(out)
}

// Script is the body of POST /script and POST /script/stream (spec.md §6).
type Script struct {
	Steps     []Step         `json:"steps"`
	Variables map[string]any `json:"variables,omitempty"`
}

// TerminalResult is the final JSON object returned by the Executor
// (spec.md §3, §7).
type TerminalResult struct {
	Success      bool              `json:"success"`
	Results      map[string]string `json:"results"`
	Variables    map[string]any    `json:"variables"`
	StoppedAt    *int              `json:"stoppedAt"`
	Error        string            `json:"error,omitempty"`
	FailedAction string            `json:"failedAction,omitempty"`
	FailedStepID string            `json:"failedStepId,omitempty"`
	DurationMS   int64             `json:"duration_ms"`
	Break        bool              `json:"break,omitempty"`
}

// StepEvent is one element of the Server-Sent-Events stream (spec.md §3, §6).
type StepEvent struct {
	Type        string `json:"type"`
	TimestampMS int64  `json:"timestamp_ms"`

	// start
	TotalSteps int `json:"totalSteps,omitempty"`

	// step_start / step_complete
	Index      int    `json:"index,omitempty"`
	Action     string `json:"action,omitempty"`
	StepID     string `json:"stepId,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"`
	Success    *bool  `json:"success,omitempty"`
	Error      string `json:"error,omitempty"`

	// log
	Level   string `json:"level,omitempty"`
	Message string `json:"message,omitempty"`

	// result
	Key   string `json:"key,omitempty"`
	Value string `json:"value,omitempty"`

	// screenshot
	Size int `json:"size,omitempty"`

	// done / complete
	StoppedAt *int `json:"stoppedAt,omitempty"`
}
