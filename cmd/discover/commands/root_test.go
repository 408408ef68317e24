package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "warn", true)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "source", "hardcoded")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"source":"hardcoded"`)
}

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "debug", false)
	require.NoError(t, err)

	logger.Debug("probing")
	assert.Contains(t, buf.String(), "probing")
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	_, err := newLogger(&bytes.Buffer{}, "loud", false)
	assert.Error(t, err)
}

func TestRunWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "discover.json5")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{include_hardcoded: false}"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{
		"run",
		"--config", cfgPath,
		"--output-dir", dir,
		"--run-id", "cli",
		"--log-level", "error",
	})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	// No source toggles are set, so the run succeeds with an empty report.
	assert.Contains(t, out.String(), "Discovery complete: 0 URLs")
	assert.Contains(t, out.String(), "discovery_cli.csv")

	out.Reset()
	rootCmd.SetArgs([]string{"validate", "--input", filepath.Join(dir, "cli", "discovery_cli.json")})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.True(t, strings.HasPrefix(out.String(), "OK: 0 entries valid"))
}
