package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug":   log.DebugLevel,
		"INFO":    log.InfoLevel,
		"warn":    log.WarnLevel,
		"error":   log.ErrorLevel,
		"fatal":   log.FatalLevel,
		"verbose": log.WarnLevel,
		"":        log.WarnLevel,
	}
	for input, expected := range tests {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, expected, parseLogLevel(input))
		})
	}
}

func TestConfigure_LevelPrecedence(t *testing.T) {
	t.Setenv("GREENTHUMB_LOG_LEVEL", "error")

	require.NoError(t, Configure("debug", "", false))
	assert.Equal(t, log.DebugLevel, Logger.GetLevel())

	require.NoError(t, Configure("", "", false))
	assert.Equal(t, log.ErrorLevel, Logger.GetLevel())

	require.NoError(t, Configure("debug", "", true))
	assert.Equal(t, log.WarnLevel, Logger.GetLevel(), "test mode pins the level")
}

func TestConfigure_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "greenthumb.log")
	require.NoError(t, Configure("info", path, false))
	defer func() { _ = Configure("", "", false) }()

	Info("history saved", "entry", "01J")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "history saved")
	assert.Contains(t, string(data), "entry=01J")
}

func TestNewStyledLogger_FollowsGlobalLevel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Configure("info", "", false))
	SetOutput(&buf)
	defer func() { _ = Configure("", "", false) }()

	component := NewStyledLogger("Speech")
	assert.Equal(t, log.InfoLevel, component.GetLevel())

	component.Debug("hidden")
	component.Info("listening", "lang", "en-US")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "Speech")
	assert.Contains(t, buf.String(), "listening")
}
