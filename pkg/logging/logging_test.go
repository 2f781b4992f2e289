package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_ContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, true, slog.LevelInfo)

	ctx := AppendCtx(context.Background(), slog.String("name", "ctl"))
	ctx = AppendCtx(ctx, slog.Group("build", slog.String("git", "abc123")))
	log.InfoContext(ctx, "decoded", "frames", 3)
	log.DebugContext(ctx, "hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "decoded", rec["msg"])
	assert.Equal(t, "ctl", rec["name"])
	assert.Equal(t, float64(3), rec["frames"])
	assert.Equal(t, map[string]any{"git": "abc123"}, rec["build"])
}

func TestLogger_WithKeepsContext(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, false, slog.LevelDebug).With("format", "gif").WithGroup("frame")

	ctx := AppendCtx(context.Background(), slog.String("file", "a.gif"))
	log.DebugContext(ctx, "skipped", "index", 2)

	out := buf.String()
	assert.Contains(t, out, "format=gif")
	assert.Contains(t, out, "frame.index=2")
	assert.Contains(t, out, "file=a.gif")
}

func TestFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctl.log")
	w := FileWriter(path, 1, 1)
	Logger(w, false, slog.LevelInfo).Info("hello")
	require.NoError(t, w.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "msg=hello")
}
