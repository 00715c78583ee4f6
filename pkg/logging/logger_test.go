package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/helmcode/actionplan/pkg/config"
)

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "svc"}, zapcore.AddSync(&buf))

	logger.Debug("hidden")
	logger.Named("store").Info("saved", zap.String("id", "abc"))
	require.NoError(t, logger.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "svc.store", entry["logger"])
	assert.Equal(t, "saved", entry["msg"])
	assert.Equal(t, "abc", entry["id"])
}

func TestConsoleLoggerColorsLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.LoggerConfig{
		Level:  "debug",
		Format: "console",
		Colors: config.ColorConfig{Info: "green"},
	}
	logger := New(cfg, zapcore.AddSync(&buf))
	logger.Info("hello")
	logger.Warn("plain")
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.Contains(t, out, "\x1b[32mINFO\x1b[0m")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "hello")
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LoggerConfig{Level: "loud", Format: "json"}, zapcore.AddSync(&buf))
	logger.Debug("no")
	logger.Info("yes")
	require.NoError(t, logger.Sync())
	assert.NotContains(t, buf.String(), `"no"`)
	assert.Contains(t, buf.String(), `"yes"`)
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actionplan.log")
	var buf bytes.Buffer
	logger := New(config.LoggerConfig{Level: "info", Format: "console", LogFile: path, MaxSize: 1}, zapcore.AddSync(&buf))
	logger.Info("to file")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to file"`)
}

func TestFileOnlyLoggerSkipsConsole(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	path := filepath.Join(t.TempDir(), "wizard.log")
	stderr := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w
	t.Cleanup(func() { os.Stderr = stderr })

	InitializeFileOnly(config.LoggerConfig{Level: "info", Format: "console", LogFile: path, MaxSize: 1})
	GetLogger().Warn("fallback used")
	Sync()
	require.NoError(t, w.Close())
	os.Stderr = stderr

	var console bytes.Buffer
	_, err = console.ReadFrom(r)
	require.NoError(t, err)
	assert.Empty(t, console.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"fallback used"`)
}

func TestFileOnlyWithoutFileIsNop(t *testing.T) {
	logger := NewFileOnly(config.LoggerConfig{Level: "debug"})
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestGlobalLogger(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	assert.NotNil(t, GetLogger())

	var first, second bytes.Buffer
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.AddSync(&first))
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.AddSync(&second))

	GetLogger().Info("once")
	Sync()
	assert.Contains(t, first.String(), "once")
	assert.Empty(t, second.String())
}
