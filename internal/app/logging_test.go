package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/termhost/internal/config"
)

func TestNewLogger_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "termhost.log")
	l, err := NewLogger(config.LogConfig{Level: "info", OutputPaths: []string{path}})
	require.NoError(t, err)

	l.Component("session").Info("spawned", zap.Int("pid", 42))
	l.Debug("hidden")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"level":"info"`)
	assert.Contains(t, out, `"logger":"session"`)
	assert.Contains(t, out, `"message":"spawned"`)
	assert.Contains(t, out, `"pid":42`)
	assert.NotContains(t, out, "hidden")
}

func TestNewLogger_DevelopmentConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.log")
	l, err := NewLogger(config.LogConfig{Level: "debug", Development: true, OutputPaths: []string{path}})
	require.NoError(t, err)

	l.Debug("details")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "details")
	assert.NotContains(t, string(data), `"message"`)
}

func TestNewLogger_SetLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.log")
	l, err := NewLogger(config.LogConfig{Level: "warn", OutputPaths: []string{path}})
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, l.Level())

	l.Info("before")
	l.SetLevel(zapcore.InfoLevel)
	l.Info("after")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "before")
	assert.Contains(t, string(data), "after")
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestNewNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Error("dropped")
	assert.NotNil(t, l.Component("x"))
}
