package http

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/awantoch/uiscript/driver/fakedriver"
	"github.com/awantoch/uiscript/vision/fakevision"
)

func testServer() *Server {
	d := fakedriver.New()
	d.WithApp(fakedriver.NewApp("com.example.app"))
	return &Server{Driver: d, Vision: fakevision.New()}
}

func TestHandleScript_MissingStepsIs400(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest("POST", "/script", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	srv.NewMux().ServeHTTP(rec, req)
	require.Equal(t, 400, rec.Code)
	require.JSONEq(t, `{"error":"'steps' array is required"}`, rec.Body.String())
}

func TestHandleScript_NonDictStepIs400(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest("POST", "/script", bytes.NewBufferString(`{"steps":["not a dict"]}`))
	rec := httptest.NewRecorder()
	srv.NewMux().ServeHTTP(rec, req)
	require.Equal(t, 400, rec.Code)
	require.JSONEq(t, `{"error":"Each step must be a dictionary"}`, rec.Body.String())
}

func TestHandleScript_EmptyStepsIsSuccess(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest("POST", "/script", bytes.NewBufferString(`{"steps":[]}`))
	rec := httptest.NewRecorder()
	srv.NewMux().ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), `"success":true`)
}

func TestHandleScript_RunsStepsAndReturnsResult(t *testing.T) {
	srv := testServer()
	body := `{"steps":[{"action":"set","key":"n","value":3}]}`
	req := httptest.NewRequest("POST", "/script", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	srv.NewMux().ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), `"n":"3"`)
}

func TestHandleScriptStream_EmitsSSEFramesThenTerminalResult(t *testing.T) {
	srv := testServer()
	body := `{"steps":[{"action":"set","key":"n","value":3}]}`
	req := httptest.NewRequest("POST", "/script/stream", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	srv.NewMux().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	require.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	require.NotEmpty(t, rec.Header().Get("X-Stream-Id"))

	out := rec.Body.String()
	require.True(t, strings.Contains(out, `"type":"start"`))
	require.True(t, strings.Contains(out, `"type":"step_start"`))
	require.True(t, strings.Contains(out, `"type":"step_complete"`))
	require.True(t, strings.Contains(out, `"success":true`))
	frames := strings.Split(strings.TrimSpace(out), "\n\n")
	last := strings.TrimPrefix(frames[len(frames)-1], "data: ")
	require.Contains(t, last, `"results"`)
}

func TestHandleScript_MethodNotAllowed(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest("GET", "/script", nil)
	rec := httptest.NewRecorder()
	srv.NewMux().ServeHTTP(rec, req)
	require.Equal(t, 405, rec.Code)
}
