package primitive

import (
	"encoding/base64"
	"time"

	"github.com/awantoch/uiscript/logger"
	"github.com/awantoch/uiscript/model"
	"github.com/awantoch/uiscript/scripterr"
)

// SleepAction implements sleep{duration|timeout=1}. Named with an
// "Action" suffix to avoid colliding with the package's Sleep hook.
func SleepAction(pc *Context, args map[string]any) error {
	seconds := numOr(args, "duration", numOr(args, "timeout", 1))
	Sleep(time.Duration(seconds * float64(time.Second)))
	return nil
}

// Screenshot implements screenshot{as, includeInResults?=false}: stores the
// base64 encoding of the driver's PNG capture as a variable under "as",
// and also under results only when includeInResults is true. The "full"
// field is not read: the image is always the PNG capture, with no JPEG
// re-encoding.
func Screenshot(pc *Context, args map[string]any) error {
	img, err := pc.Driver.Device().CaptureScreenshot(pc.Ctx)
	if err != nil {
		return scripterr.Wrap(scripterr.Unknown, err, "capturing screenshot")
	}
	encoded := base64.StdEncoding.EncodeToString(img.PNG)
	as := resultKey(args, "screenshot")
	pc.Store.Variables[as] = encoded
	if boolOr(args, "includeInResults", false) {
		pc.Store.SetResult(as, encoded)
	}
	pc.Store.SetVar(as+"_size", len(img.PNG))
	pc.emit(model.StepEvent{Type: "screenshot", Key: as, Size: len(img.PNG)})
	return nil
}

// Home implements home: presses the Home button.
func Home(pc *Context, args map[string]any) error {
	if err := pc.Driver.Device().PressHome(pc.Ctx); err != nil {
		return scripterr.Wrap(scripterr.Unknown, err, "pressing home")
	}
	return nil
}

// Lock implements lock.
func Lock(pc *Context, args map[string]any) error {
	if err := pc.Driver.Device().Lock(pc.Ctx); err != nil {
		return scripterr.Wrap(scripterr.Unknown, err, "locking device")
	}
	return nil
}

// Unlock implements unlock.
func Unlock(pc *Context, args map[string]any) error {
	if err := pc.Driver.Device().Unlock(pc.Ctx); err != nil {
		return scripterr.Wrap(scripterr.Unknown, err, "unlocking device")
	}
	return nil
}

// Log implements log{level, message}: writes to the user-facing log
// stream and emits a matching "log" Step Event carrying the same
// level/message (spec.md §3 StepEvent, §4.4).
func Log(pc *Context, args map[string]any) error {
	level := strOr(args, "level", "info")
	message := strOr(args, "message", "")
	logger.User("[%s] %s", level, message)
	pc.emit(model.StepEvent{Type: "log", Level: level, Message: message})
	return nil
}
