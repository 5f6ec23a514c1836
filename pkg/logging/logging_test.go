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

func TestNew_LevelVarFilters(t *testing.T) {
	var buf bytes.Buffer
	log, lv := New(&buf, slog.LevelWarn)

	log.Info("hidden")
	log.Warn("shown", "container", "main")
	lv.Set(slog.LevelDebug)
	log.Debug("now shown")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "main", rec["container"])
	assert.Equal(t, "WARN", rec["level"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestDefaultAndDiscard(t *testing.T) {
	assert.Same(t, Default(), Default())
	SetLevel(slog.LevelError)
	assert.False(t, Default().Enabled(context.Background(), slog.LevelWarn))
	SetLevel(slog.LevelInfo)
	assert.False(t, Discard().Enabled(context.Background(), slog.LevelError))
}
