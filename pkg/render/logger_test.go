package render

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"strings"
	"testing"
)

func TestLoggerDefaultIsSilent(t *testing.T) {
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should be disabled")
	}
}

func TestSetLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	r, err := NewRenderer(Config{Width: 8, Height: 8, FOV: math.Pi / 2, Near: -1})
	if err != nil {
		t.Fatal(err)
	}
	r.Draw(Triangle{
		{X: -5, Y: -5, Z: -10},
		{X: 5, Y: -5, Z: -10},
		{X: 0, Y: 5, Z: -10},
	}, NewSolidTexture(ColorRed))
	r.Clear(nil)

	out := buf.String()
	if !strings.Contains(out, "renderer created") {
		t.Errorf("missing creation log in %q", out)
	}
	if !strings.Contains(out, "frame done") || !strings.Contains(out, "triangles=1") {
		t.Errorf("missing frame stats in %q", out)
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should restore the silent logger")
	}
}
