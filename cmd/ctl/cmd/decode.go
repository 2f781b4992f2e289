package cmd

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jpfielding/animcodec.go/pkg/codec"
	"github.com/jpfielding/animcodec.go/pkg/util"
	"github.com/spf13/cobra"
)

// NewDecodeCmd decodes an image and prints its frame structure.
func NewDecodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "decode an image into frames",
		Long:  "Decodes a still or animated image and prints frame count, loop count, per-frame durations and the flattened animation tick.",
		RunE: func(cmd *cobra.Command, args []string) error {
			filePath, _ := cmd.Flags().GetString("file")
			thumb, _ := cmd.Flags().GetString("thumb")
			scale, _ := cmd.Flags().GetFloat64("scale")
			dump, _ := cmd.Flags().GetString("dump")

			data, err := readInput(ctx, inputArg(filePath, args))
			if err != nil {
				return err
			}
			box, err := parseSize(thumb)
			if err != nil {
				return err
			}

			img, ok := codec.NewDecoder(codecConfig(cmd)).Decode(data, scale, codec.DecodeOptions{ThumbnailSize: box})
			if !ok {
				return fmt.Errorf("unable to decode %d bytes", len(data))
			}
			printImage(cmd, img)

			if dump == "" {
				return nil
			}
			return dumpFrames(ctx, dump, util.Md5ThenHex(data)[:8], img)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("file", "f", "", "image path, http(s) URL or - for stdin")
	pf.String("thumb", "", "thumbnail box WxH in points")
	pf.Float64("scale", 1, "display scale factor")
	pf.String("dump", "", "directory to write each frame to as PNG")
	return cmd
}

func printImage(cmd *cobra.Command, img *codec.Image) {
	w := cmd.OutOrStdout()
	key := color.New(color.FgCyan).SprintFunc()
	b := img.First().Bounds()
	fmt.Fprintf(w, "%s %s\n", key("format:"), img.Format)
	fmt.Fprintf(w, "%s %dx%d @%gx\n", key("size:"), b.Dx(), b.Dy(), img.Scale)
	fmt.Fprintf(w, "%s %s\n", key("orientation:"), img.Orientation)
	if !img.Animated() {
		fmt.Fprintf(w, "%s 1\n", key("frames:"))
		return
	}
	frames := img.FrameList()
	fmt.Fprintf(w, "%s %d\n", key("frames:"), len(frames))
	fmt.Fprintf(w, "%s %d\n", key("loop:"), img.LoopCount)
	for i, f := range frames {
		fmt.Fprintf(w, "  %3d  %v\n", i, f.Duration)
	}
	fmt.Fprintf(w, "%s %d x %v = %v\n", key("flattened:"), len(img.Animation.Images), img.Animation.Tick(), img.Animation.Duration)
}

func dumpFrames(ctx context.Context, dir, prefix string, img *codec.Image) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	images := []image.Image{img.First()}
	if img.Animated() {
		images = images[:0]
		for _, f := range img.FrameList() {
			images = append(images, f.Image)
		}
	}
	for i, m := range images {
		var buf bytes.Buffer
		if err := png.Encode(&buf, m); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%03d.png", prefix, i))
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return err
		}
		slog.DebugContext(ctx, "wrote frame", "frame", i, "path", path)
	}
	return nil
}

// parseSize reads "WxH"; empty means no box.
func parseSize(s string) (image.Point, error) {
	if s == "" {
		return image.Point{}, nil
	}
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return image.Point{}, fmt.Errorf("size %q: expected WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return image.Point{}, fmt.Errorf("size %q: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return image.Point{}, fmt.Errorf("size %q: %w", s, err)
	}
	return image.Pt(w, h), nil
}
