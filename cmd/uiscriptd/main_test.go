package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/awantoch/uiscript/logger"
)

func captureOutput(f func()) string {
	orig := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	logger.SetUserOutput(w)
	f()
	w.Close()
	var buf bytes.Buffer
	buf.ReadFrom(r)
	os.Stdout = orig
	logger.SetUserOutput(orig)
	return buf.String()
}

func TestRunCmd_ExecutesScriptAndPrintsResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps:\n  - action: set\n    key: n\n    value: 3\n"), 0o644))

	out := captureOutput(func() {
		rootCmd := NewRootCmd()
		rootCmd.SetArgs([]string{"run", path})
		require.NoError(t, rootCmd.Execute())
	})

	require.Contains(t, out, `"success": true`)
	require.Contains(t, out, `"n": "3"`)
}

func TestRunCmd_MissingFileExits(t *testing.T) {
	origExit := exit
	var code int
	exit = func(c int) { code = c }
	defer func() { exit = origExit }()

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"run", "/nonexistent/script.yaml"})
	captureOutput(func() {
		require.NoError(t, rootCmd.Execute())
	})
	require.Equal(t, 1, code)
}

func TestServeCmd_RejectsBadAddr(t *testing.T) {
	origExit := exit
	var code int
	exit = func(c int) { code = c }
	defer func() { exit = origExit }()

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"serve", "--addr", "not-a-valid-addr"})
	captureOutput(func() {
		require.NoError(t, rootCmd.Execute())
	})
	require.Equal(t, 1, code)
}
