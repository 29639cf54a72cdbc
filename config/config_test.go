package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault_FillsEveryField(t *testing.T) {
	cfg := Default()
	require.Equal(t, DefaultHost, cfg.HTTP.Host)
	require.Equal(t, DefaultPort, cfg.HTTP.Port)
	require.Equal(t, DefaultLogLevel, cfg.Log.Level)
	require.Equal(t, DefaultStepTimeoutSeconds, cfg.DefaultStepTimeoutSeconds)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"http":{"host":"127.0.0.1","port":9090},"defaultStepTimeoutSeconds":20}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", cfg.HTTP.Host)
	require.Equal(t, 9090, cfg.HTTP.Port)
	require.Equal(t, 20.0, cfg.DefaultStepTimeoutSeconds)
	require.Equal(t, DefaultAlertTimeoutSeconds, cfg.DefaultAlertTimeoutSeconds)
	require.Equal(t, "127.0.0.1:9090", cfg.Addr())
}

func TestLoadConfig_RejectsBadPort(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"http":{"port":99999}}`), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestAddr_DefaultsWhenHTTPNil(t *testing.T) {
	cfg := &Config{}
	require.Equal(t, "0.0.0.0:8080", cfg.Addr())
}
