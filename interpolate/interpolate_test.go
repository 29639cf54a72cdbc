package interpolate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/awantoch/uiscript/store"
)

func TestString_Substitutes(t *testing.T) {
	vs := store.New(nil)
	vs.SetVar("p", 12.0)
	got := String("product=${p}", FromStore(vs))
	require.Equal(t, "product=12", got)
}

func TestString_MissingNameIsEmpty(t *testing.T) {
	vs := store.New(nil)
	got := String("x=${missing}y", FromStore(vs))
	require.Equal(t, "x=y", got)
}

func TestString_UnterminatedReferencePassesThrough(t *testing.T) {
	vs := store.New(nil)
	got := String("x=${nope", FromStore(vs))
	require.Equal(t, "x=${nope", got)
}

func TestTree_RecursesIntoNestedStructures(t *testing.T) {
	vs := store.New(nil)
	vs.SetVar("name", "Go")
	in := map[string]any{
		"message": "hi ${name}",
		"list":    []any{"${name}", 1.0, map[string]any{"k": "${name}!"}},
	}
	out := Tree(in, FromStore(vs)).(map[string]any)
	require.Equal(t, "hi Go", out["message"])
	list := out["list"].([]any)
	require.Equal(t, "Go", list[0])
	require.Equal(t, 1.0, list[1])
	nested := list[2].(map[string]any)
	require.Equal(t, "Go!", nested["k"])
}
