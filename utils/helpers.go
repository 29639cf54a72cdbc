// Package utils holds small standalone helpers shared by the HTTP layer:
// JSON marshaling with error handling and a standardized HTTP JSON
// error/response writer (see DESIGN.md for what was trimmed and why).
package utils

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/awantoch/uiscript/constants"
)

// JSONResult represents the result of a JSON marshal operation.
type JSONResult struct {
	Data []byte
	Err  error
}

// MarshalJSON marshals data to JSON with error handling.
func MarshalJSON(v any) JSONResult {
	data, err := json.Marshal(v)
	return JSONResult{Data: data, Err: err}
}

// HTTPErrorResponse is the standardized HTTP error response shape.
type HTTPErrorResponse struct {
	Error string `json:"error"`
}

// WriteHTTPError writes {"error": message} with the given status code —
// the malformed-body error contract spec.md §6 requires verbatim.
func WriteHTTPError(w http.ResponseWriter, message string, code int) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(code)

	result := MarshalJSON(HTTPErrorResponse{Error: message})
	if result.Err == nil {
		w.Write(result.Data)
		return
	}
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeText)
	fmt.Fprintf(w, "error: %s", message)
}

// WriteHTTPJSON writes a 200 JSON response with proper headers.
func WriteHTTPJSON(w http.ResponseWriter, v any) error {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	result := MarshalJSON(v)
	if result.Err != nil {
		WriteHTTPError(w, "failed to encode response", http.StatusInternalServerError)
		return result.Err
	}
	_, err := w.Write(result.Data)
	return err
}
