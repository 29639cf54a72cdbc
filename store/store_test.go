package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetVar_MirrorsCanonicalString(t *testing.T) {
	vs := New(nil)
	vs.SetVar("n", 12.0)
	require.Equal(t, 12.0, vs.Variables["n"])
	require.Equal(t, "12", vs.Results["n"])

	vs.SetVar("ok", true)
	require.Equal(t, "true", vs.Results["ok"])

	vs.SetVar("bad", false)
	require.Equal(t, "false", vs.Results["bad"])

	vs.SetVar("missing", nil)
	require.Equal(t, "", vs.Results["missing"])
}

func TestGetVar_FallsBackToResults(t *testing.T) {
	vs := New(nil)
	vs.SetResult("k", "v")
	val, ok := vs.GetVar("k")
	require.True(t, ok)
	require.Equal(t, "v", val)
}

func TestNew_SeedsInitialVariables(t *testing.T) {
	vs := New(map[string]any{"a": 1.0})
	v, ok := vs.GetVar("a")
	require.True(t, ok)
	require.Equal(t, 1.0, v)
}

func TestCoerceString_ShortestRoundTrip(t *testing.T) {
	require.Equal(t, "3.14", CoerceString(3.14))
	require.Equal(t, "12", CoerceString(12.0))
}
