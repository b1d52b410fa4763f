package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlogLogger_WritesLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	ctx := context.Background()

	l.Debug(ctx, "dbg")
	l.Info(ctx, "hello", "key", "value")
	l.Warn(ctx, "careful")
	l.Error(ctx, "boom")

	out := buf.String()
	assert.Contains(t, out, "dbg")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "key=value")
	assert.Contains(t, out, "careful")
	assert.Contains(t, out, "boom")
}

func TestSlogLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	child := l.With("component", "syncer")
	child.Info(context.Background(), "pass complete")

	assert.Contains(t, buf.String(), "component=syncer")
}
