package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteHTTPError_WritesErrorShape(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteHTTPError(rec, "'steps' array is required", 400)
	require.Equal(t, 400, rec.Code)
	require.JSONEq(t, `{"error":"'steps' array is required"}`, rec.Body.String())
}

func TestWriteHTTPJSON_WritesBody(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteHTTPJSON(rec, map[string]any{"success": true}))
	require.JSONEq(t, `{"success":true}`, rec.Body.String())
}
