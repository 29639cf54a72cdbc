package selector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/awantoch/uiscript/driver/fakedriver"
)

func TestFindOne_AccessibilityIdProbesShortcutsFirst(t *testing.T) {
	app := fakedriver.NewApp("com.example.app")
	el := &fakedriver.Elem{ExistsV: true, HittableV: true, LabelV: "Go"}
	app.Register("button", "Go", el)

	found, ok, err := FindOne(context.Background(), app, AccessibilityID, "Go")
	require.NoError(t, err)
	require.True(t, ok)
	require.Same(t, el, found)
}

func TestFindOne_AccessibilityIdFallsBackToGenericPredicate(t *testing.T) {
	app := fakedriver.NewApp("com.example.app")
	el := &fakedriver.Elem{ExistsV: true, HittableV: true, IdentifierV: "submit"}
	app.Register("predicate", `identifier == "submit" OR label == "submit"`, el)

	found, ok, err := FindOne(context.Background(), app, ID, "submit")
	require.NoError(t, err)
	require.True(t, ok)
	require.Same(t, el, found)
}

func TestFindOne_MissingReturnsNotOkNoError(t *testing.T) {
	app := fakedriver.NewApp("com.example.app")
	_, ok, err := FindOne(context.Background(), app, Label, "Nope")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFindMany_TruncatesToLimit(t *testing.T) {
	app := fakedriver.NewApp("com.example.app")
	el := &fakedriver.Elem{ExistsV: true}
	app.Register("predicate", `label == "X"`, el)

	els, err := FindMany(context.Background(), app, Label, "X", 1)
	require.NoError(t, err)
	require.Len(t, els, 1)
}

func TestParseKind_DefaultsToAccessibilityId(t *testing.T) {
	require.Equal(t, AccessibilityID, ParseKind(""))
	require.Equal(t, AccessibilityID, ParseKind("id"))
	require.Equal(t, Kind("labelContains"), ParseKind("labelContains"))
}
