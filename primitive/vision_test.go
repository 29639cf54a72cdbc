package primitive

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/awantoch/uiscript/driver"
	"github.com/awantoch/uiscript/vision/fakevision"
)

func TestReadScreen_FormatsFilterKeepsOnlyMatchingWords(t *testing.T) {
	pc, d := newTestContext()
	img := driver.Image{PNG: []byte("screen-1")}
	d.DeviceV.ScreenshotV = img
	pc.Vision.(*fakevision.Vision).Transcript[string(img.PNG)] = "Welcome user@example.com back 12345"

	err := ReadScreen(pc, map[string]any{"as": "screen", "formats": []any{"*@*.*"}})
	require.NoError(t, err)
	text, ok := pc.Store.GetVar("screen")
	require.True(t, ok)
	require.Equal(t, "user@example.com", text)
}

func TestReadScreen_NoFormatsReturnsFullTranscript(t *testing.T) {
	pc, d := newTestContext()
	img := driver.Image{PNG: []byte("screen-2")}
	d.DeviceV.ScreenshotV = img
	pc.Vision.(*fakevision.Vision).Transcript[string(img.PNG)] = "Welcome  back  user@example.com"

	require.NoError(t, ReadScreen(pc, map[string]any{"as": "screen"}))
	text, ok := pc.Store.GetVar("screen")
	require.True(t, ok)
	require.Equal(t, "Welcome back user@example.com", text)
}
