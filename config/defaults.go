package config

// Default process configuration, used when no config file is supplied or
// a loaded file omits a field.
const (
	DefaultHost     = "0.0.0.0"
	DefaultPort     = 8080
	DefaultLogLevel = "info"

	// DefaultStepTimeoutSeconds has the same value as
	// constants.DefaultTimeoutSeconds; it only fills the config field of
	// the same name, which primitives do not read.
	DefaultStepTimeoutSeconds = 10.0

	DefaultAlertTimeoutSeconds = 5.0
)
