package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"backoffice/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, logging.ParseLevel(in), in)
	}
}

func TestNewWithWriter_FiltersByLevelAndWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := logging.NewWithWriter(&buf, "warn")

	l.Info("dropped")
	l.Warn("kept", "order_id", "42")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "42", entry["order_id"])
	assert.NotContains(t, buf.String(), "dropped")
}

func TestContextRoundTrip(t *testing.T) {
	assert.Same(t, slog.Default(), logging.FromContext(context.Background()))

	l := logging.NewWithWriter(&bytes.Buffer{}, "info")
	ctx := logging.IntoContext(context.Background(), l)
	assert.Same(t, l, logging.FromContext(ctx))
}
