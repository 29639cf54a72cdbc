// Package constants collects the small fixed vocabularies shared across the
// interpreter: HTTP plumbing, environment variables, and the reserved
// variable names the runtime writes into every execution's Value Store.
package constants

// HTTP headers and content types used by the script endpoints.
const (
	HeaderContentType = "Content-Type"
	HeaderRequestID   = "X-Request-Id"

	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain"
	ContentTypeSSE  = "text/event-stream"
)

// Environment variable names. EnvDebug is read by the logger at startup;
// EnvConfigPath is not read by any package (the config path comes from the
// --config flag).
const (
	EnvDebug      = "UISCRIPT_DEBUG"
	EnvConfigPath = "UISCRIPT_CONFIG"
)

// Reserved variable names written by the runtime. Scripts SHOULD NOT use
// these as their own variable names (spec.md §6).
const (
	VarIteration   = "_iteration"
	VarIndex       = "_index"
	VarError       = "_error"
	VarReturnValue = "_returnValue"
	VarAppBundleID = "_appBundleId"
	VarAppState    = "_appState"
)

// Default per-step timeout in seconds, used whenever a primitive doesn't
// document its own default (spec.md §4.4).
const DefaultTimeoutSeconds = 10.0

// Default poll interval for deadline loops (spec.md §5).
const PollInterval = 100 // milliseconds

// Default poll interval for OCR/template based deadline loops (spec.md §5).
const VisionPollInterval = 200 // milliseconds
