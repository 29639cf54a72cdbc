package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStepUnmarshal_ActionAndArgs(t *testing.T) {
	var s Step
	err := json.Unmarshal([]byte(`{"action":"click","selector":"Go","optional":true,"timeout":5}`), &s)
	require.NoError(t, err)
	require.Equal(t, "click", s.Action)
	require.True(t, s.Optional)
	require.Equal(t, 5.0, s.Timeout)
	require.Equal(t, "Go", s.Args["selector"])
}

func TestStepUnmarshal_ControlFlowNesting(t *testing.T) {
	var s Step
	err := json.Unmarshal([]byte(`{
		"action":"if","condition":"exists","selector":"X",
		"then":[{"action":"log","message":"yes"}],
		"else":[{"action":"log","message":"no"}]
	}`), &s)
	require.NoError(t, err)
	require.Equal(t, "if", s.Action)
	require.Len(t, s.Then, 1)
	require.Len(t, s.Else, 1)
	require.Equal(t, "log", s.Then[0].Action)
	require.Equal(t, "exists", s.Args["condition"])
}

func TestStepMarshalRoundTrip(t *testing.T) {
	var s Step
	require.NoError(t, json.Unmarshal([]byte(`{"action":"set","key":"n","value":3,"as":"out"}`), &s))
	data, err := json.Marshal(s)
	require.NoError(t, err)
	var back Step
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, s.Action, back.Action)
	require.Equal(t, s.As, back.As)
	require.Equal(t, s.Args["key"], back.Args["key"])
}

func TestScriptUnmarshal_EmptySteps(t *testing.T) {
	var s Script
	require.NoError(t, json.Unmarshal([]byte(`{"steps":[]}`), &s))
	require.Empty(t, s.Steps)
}
