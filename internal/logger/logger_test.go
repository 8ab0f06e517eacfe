package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_WritesPlainTextToBuffers(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info")

	l.Debug("hidden")
	l.Info("scenario loaded", "scenario", "abc", "error", errors.New("boom"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "scenario loaded")
	assert.Contains(t, out, "scenario=abc")
	assert.Contains(t, out, "boom")
	assert.NotContains(t, out, "\x1b[")
}
