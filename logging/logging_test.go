package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"silent", slog.Level(1000)},
		{"none", slog.Level(1000)},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.level))
		})
	}
}

func TestLogLevelFlag_Set(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantError bool
		wantValue string
		wantSet   bool
	}{
		{name: "debug", value: "debug", wantValue: "debug", wantSet: true},
		{name: "warning", value: "warning", wantValue: "warning", wantSet: true},
		{name: "silent", value: "silent", wantValue: "silent", wantSet: true},
		{name: "invalid keeps default", value: "loud", wantError: true, wantValue: "info"},
		{name: "empty keeps default", value: "", wantError: true, wantValue: "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := &logLevelFlag{value: "info"}

			err := flag.Set(tt.value)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantValue, flag.String())
			assert.Equal(t, tt.wantSet, flag.IsSet())
		})
	}
}

func TestLogLevelFlag_Type(t *testing.T) {
	flag := &logLevelFlag{value: "info"}
	assert.Equal(t, "one of [debug|info|warning|error|silent]", flag.Type())
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("warning", &buf)

	logger.Info("hidden message")
	logger.Warn("visible message", "app", "web")

	out := buf.String()
	assert.NotContains(t, out, "hidden message")
	assert.Contains(t, out, "visible message")
	assert.Contains(t, out, "app=web")
}

func TestInitLogging_WritesToFile(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	logFile := filepath.Join(t.TempDir(), "logs", "deploy.log")

	logger, closeFn, err := InitLogging("info", logFile)
	require.NoError(t, err)

	logger.Info("Deployment starting", "app", "shop")
	require.NoError(t, closeFn())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Deployment starting")
	assert.Contains(t, string(content), "app=shop")
}
