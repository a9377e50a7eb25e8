package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceHandler(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		from       slog.Level
		wantSource bool
	}{
		{"info below warn threshold", slog.LevelInfo, slog.LevelWarn, false},
		{"warn at threshold", slog.LevelWarn, slog.LevelWarn, true},
		{"error above threshold", slog.LevelError, slog.LevelWarn, true},
		{"debug with debug threshold", slog.LevelDebug, slog.LevelDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			l := slog.New(NewSourceHandler(base, tt.from))

			l.Log(context.Background(), tt.level, "test message")

			assert.Equal(t, tt.wantSource, strings.Contains(buf.String(), "source="), buf.String())
		})
	}
}

func TestSourceHandler_KeepsAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)
	l := slog.New(NewSourceHandler(base, slog.LevelError)).With("user_id", 7).WithGroup("request")

	l.Info("rated", "movie_id", 3)

	out := buf.String()
	assert.NotContains(t, out, "source=")
	assert.Contains(t, out, "user_id=7")
	assert.Contains(t, out, "request.movie_id=3")
}

func TestSourceHandler_Enabled(t *testing.T) {
	base := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	h := NewSourceHandler(base, slog.LevelError)

	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}
