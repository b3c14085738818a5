package logging

import (
	"bytes"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"":         zerolog.InfoLevel,
		"info":     zerolog.InfoLevel,
		" DEBUG ":  zerolog.DebugLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"disabled": zerolog.Disabled,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Init(Config{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Str("file", "a.java").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"file":"a.java"`)
}

func TestInitAutoUsesJSONWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Init(Config{}, &buf)
	require.NoError(t, err)

	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"message":"hello"`)
}

func TestInitConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Init(Config{Format: "console"}, &buf)
	require.NoError(t, err)

	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestInitRejectsBadConfig(t *testing.T) {
	_, err := Init(Config{Level: "nope"}, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = Init(Config{Format: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestIsTerminal(t *testing.T) {
	old := isTerminalFn
	t.Cleanup(func() { isTerminalFn = old })

	isTerminalFn = func(int) bool { return true }
	assert.True(t, IsTerminal(os.Stderr))
	assert.False(t, IsTerminal(&bytes.Buffer{}))

	isTerminalFn = func(int) bool { return false }
	assert.False(t, IsTerminal(os.Stderr))
}

func TestValidFormat(t *testing.T) {
	assert.True(t, ValidFormat("auto"))
	assert.True(t, ValidFormat("Console"))
	assert.False(t, ValidFormat("xml"))
}
