package dispatch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookup_MissingActionIsInvalid(t *testing.T) {
	_, err := Lookup("")
	require.Error(t, err)
}

func TestLookup_UnknownActionNamesIt(t *testing.T) {
	_, err := Lookup("doSomethingMadeUp")
	require.ErrorContains(t, err, "doSomethingMadeUp")
}

func TestLookup_KnownActionResolves(t *testing.T) {
	h, err := Lookup("click")
	require.NoError(t, err)
	require.NotNil(t, h)
}
