// ABOUTME: Tests for logger construction.
// ABOUTME: Checks file output, level parsing, and which records reach the console.

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/harper/promptlib/internal/config"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "promptlib.log")

	log, closer, err := New(config.LogConfig{Level: "info", File: path, MaxSize: 1})
	require.NoError(t, err)

	log.Info("prompt created", zap.String("id", "abc"))
	log.Debug("hidden")
	_ = log.Sync()
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"msg":"prompt created"`)
	assert.Contains(t, out, `"id":"abc"`)
	assert.NotContains(t, out, "hidden")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, _, err := New(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestNewWithoutFile(t *testing.T) {
	log, closer, err := New(config.LogConfig{Level: "debug"})
	require.NoError(t, err)
	assert.NotNil(t, log)
	assert.NoError(t, closer.Close())
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	log := Writer(&buf, zapcore.WarnLevel)

	log.Info("skipped")
	log.Warn("persist failed")

	assert.False(t, strings.Contains(buf.String(), "skipped"))
	assert.Contains(t, buf.String(), "persist failed")
}

type syncBuffer struct {
	bytes.Buffer
}

func (*syncBuffer) Sync() error { return nil }

func TestConsoleSkipsWarningsByDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "promptlib.log")
	var console syncBuffer

	log, closer, err := build(config.LogConfig{Level: "info", File: path}, &console)
	require.NoError(t, err)

	log.Warn("persist failed")
	log.Error("storage unusable")
	_ = log.Sync()
	require.NoError(t, closer.Close())

	assert.NotContains(t, console.String(), "persist failed")
	assert.Contains(t, console.String(), "storage unusable")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "persist failed")
}

func TestConsoleLevelConfigurable(t *testing.T) {
	var console syncBuffer

	log, _, err := build(config.LogConfig{Level: "info", Console: "warn"}, &console)
	require.NoError(t, err)
	log.Warn("persist failed")
	assert.Contains(t, console.String(), "persist failed")

	_, _, err = build(config.LogConfig{Level: "info", Console: "shout"}, &console)
	assert.Error(t, err)
}
