// Package config loads and validates the process-level configuration: the
// HTTP listen address, log level, tracing exporter, and two default-timeout
// fields: a small JSON config with embedded-schema validation. The timeout
// fields are loaded and validated here only; the primitive handlers use
// their own per-action defaults and do not read them.
package config

import (
	"encoding/json"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON string

// HTTPConfig controls the listen address of POST /script and
// POST /script/stream.
type HTTPConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`
}

// LogConfig controls the internal (zap-backed) log stream's verbosity.
type LogConfig struct {
	Level string `json:"level,omitempty"`
}

// TracingConfig controls the OpenTelemetry exporter the executor's spans
// are sent to (spec.md §9 tracing, added by this expansion).
type TracingConfig struct {
	Exporter    string `json:"exporter,omitempty"`
	Endpoint    string `json:"endpoint,omitempty"`
	ServiceName string `json:"serviceName,omitempty"`
}

// Config is the top-level process configuration.
type Config struct {
	HTTP *HTTPConfig `json:"http,omitempty"`
	Log  *LogConfig  `json:"log,omitempty"`

	// DefaultStepTimeoutSeconds is a configured default step timeout. No
	// primitive reads it; each primitive applies its own built-in default
	// when a step has no "timeout".
	DefaultStepTimeoutSeconds float64 `json:"defaultStepTimeoutSeconds,omitempty"`

	// DefaultAlertTimeoutSeconds is a configured default alert timeout.
	// handleAlert/dismissAlert/acceptAlert do not read it; they use their
	// own built-in defaults (3s, 2s, 2s).
	DefaultAlertTimeoutSeconds float64 `json:"defaultAlertTimeoutSeconds,omitempty"`

	Tracing *TracingConfig `json:"tracing,omitempty"`
}

// Default returns the configuration used when no config file is supplied.
func Default() *Config {
	return &Config{
		HTTP:                       &HTTPConfig{Host: DefaultHost, Port: DefaultPort},
		Log:                        &LogConfig{Level: DefaultLogLevel},
		DefaultStepTimeoutSeconds:  DefaultStepTimeoutSeconds,
		DefaultAlertTimeoutSeconds: DefaultAlertTimeoutSeconds,
	}
}

// ValidateConfig validates raw config JSON against the embedded schema.
func ValidateConfig(raw []byte) error {
	schema, err := jsonschema.CompileString("uiscript.config.schema.json", schemaJSON)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	return schema.Validate(doc)
}

// LoadConfig reads and validates a JSON config file at path, filling in
// defaults for anything the file omits.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	if err := ValidateConfig(raw); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, err
	}
	if cfg.HTTP == nil {
		cfg.HTTP = &HTTPConfig{Host: DefaultHost, Port: DefaultPort}
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = DefaultPort
	}
	if cfg.Log == nil {
		cfg.Log = &LogConfig{Level: DefaultLogLevel}
	}
	if cfg.DefaultStepTimeoutSeconds == 0 {
		cfg.DefaultStepTimeoutSeconds = DefaultStepTimeoutSeconds
	}
	if cfg.DefaultAlertTimeoutSeconds == 0 {
		cfg.DefaultAlertTimeoutSeconds = DefaultAlertTimeoutSeconds
	}
	return cfg, nil
}

// Validate sanity-checks a Config beyond what the JSON Schema can express.
func (c *Config) Validate() error {
	if c.HTTP != nil && (c.HTTP.Port < 0 || c.HTTP.Port > 65535) {
		return fmt.Errorf("config: http.port out of range: %d", c.HTTP.Port)
	}
	if c.DefaultStepTimeoutSeconds < 0 {
		return fmt.Errorf("config: defaultStepTimeoutSeconds must be nonnegative")
	}
	if c.DefaultAlertTimeoutSeconds < 0 {
		return fmt.Errorf("config: defaultAlertTimeoutSeconds must be nonnegative")
	}
	return nil
}

// Addr returns the "host:port" string StartServer listens on.
func (c *Config) Addr() string {
	host, port := DefaultHost, DefaultPort
	if c.HTTP != nil {
		if c.HTTP.Host != "" {
			host = c.HTTP.Host
		}
		if c.HTTP.Port != 0 {
			port = c.HTTP.Port
		}
	}
	return fmt.Sprintf("%s:%d", host, port)
}
