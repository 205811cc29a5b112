package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Component: "storefront-api", Level: "debug", Output: &buf})

	l.Debug("hello", "user_id", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "storefront-api", entry["component"])
	assert.EqualValues(t, 7, entry["user_id"])
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "warn", Output: &buf})

	l.Info("dropped")
	assert.Zero(t, buf.Len())

	l.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestFromCtx(t *testing.T) {
	assert.Same(t, slog.Default(), FromCtx(context.Background()))

	l := Discard()
	assert.Same(t, l, FromCtx(WithCtx(context.Background(), l)))
}
