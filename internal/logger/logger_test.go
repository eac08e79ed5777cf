package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorTextHandlerPrefixesLevel(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewColorTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log.Warn("threshold crossed", "pid", 42)

	out := buf.String()
	assert.Contains(t, out, "\033[33mWARN\033[0m")
	assert.Contains(t, out, "threshold crossed")
	assert.Contains(t, out, "pid=42")
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := multiHandler{
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, nil),
	}
	log := slog.New(h)
	log.Info("hello")

	assert.Contains(t, a.String(), "hello")
	assert.Contains(t, b.String(), "hello")
}

func TestMultiHandlerRespectsLevels(t *testing.T) {
	var quiet, chatty bytes.Buffer
	h := multiHandler{
		slog.NewTextHandler(&quiet, &slog.HandlerOptions{Level: slog.LevelError}),
		slog.NewTextHandler(&chatty, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}
	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))

	slog.New(h).Debug("noisy detail")
	assert.Empty(t, quiet.String())
	assert.Contains(t, chatty.String(), "noisy detail")
}

func TestSetupReturnsUsableLogger(t *testing.T) {
	log := Setup(Options{Verbose: true})
	assert.NotNil(t, log)
	assert.True(t, log.Enabled(context.Background(), slog.LevelDebug))
}
