package cmd

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	fcolor "github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	fcolor.NoColor = true
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    image.Point
		wantErr bool
	}{
		{"", image.Point{}, false},
		{"320x240", image.Pt(320, 240), false},
		{"64X64", image.Pt(64, 64), false},
		{"64", image.Point{}, true},
		{"ax2", image.Point{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSize(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func writeGIF(t *testing.T, dir string) string {
	t.Helper()
	pal := color.Palette{color.Black, color.White}
	g := &gif.GIF{LoopCount: 0}
	for i := range 2 {
		pm := image.NewPaletted(image.Rect(0, 0, 2, 2), pal)
		for j := range pm.Pix {
			pm.Pix[j] = uint8(i)
		}
		g.Image = append(g.Image, pm)
		g.Delay = append(g.Delay, 5)
	}
	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, g))
	path := filepath.Join(dir, "anim.gif")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	root := NewRoot(context.Background(), "test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	path := writeGIF(t, dir)

	t.Run("Sniff", func(t *testing.T) {
		out := run(t, "sniff", path)
		assert.Contains(t, out, "GIF")
		assert.Contains(t, out, "image/gif")
		assert.Contains(t, out, "com.compuserve.gif")
	})
	t.Run("Decode", func(t *testing.T) {
		frames := filepath.Join(dir, "frames")
		out := run(t, "decode", "--file", path, "--dump", frames)
		assert.Contains(t, out, "frames: 2")
		assert.Contains(t, out, "loop: 0")
		entries, err := os.ReadDir(frames)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})
	t.Run("Convert", func(t *testing.T) {
		dst := filepath.Join(dir, "anim.png")
		run(t, "convert", "--file", path, "--format", "png", "--out", dst)
		data, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Contains(t, string(data), "acTL")
	})
	t.Run("Base64", func(t *testing.T) {
		out := run(t, "base64", "encode", path)
		assert.Contains(t, out, "data:image/gif;base64,")

		uri := filepath.Join(dir, "anim.txt")
		require.NoError(t, os.WriteFile(uri, []byte(out), 0644))
		back := filepath.Join(dir, "back.gif")
		run(t, "base64", "decode", uri, "--out", back)
		orig, _ := os.ReadFile(path)
		got, err := os.ReadFile(back)
		require.NoError(t, err)
		assert.Equal(t, orig, got)
	})
}
