package codec

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"time"

	"github.com/jpfielding/animcodec.go/pkg/frame"
	"github.com/jpfielding/animcodec.go/pkg/imgfmt"
	"github.com/jpfielding/animcodec.go/pkg/props"
)

const (
	// minFrameDelay is the smallest delay taken at face value; anything
	// shorter is a "use the default" sentinel in the container.
	minFrameDelay = 11 * time.Millisecond
	// defaultFrameDelay replaces delays below minFrameDelay.
	defaultFrameDelay = 100 * time.Millisecond
	// largeAnimation is the flattened image count above which decode warns.
	largeAnimation = 1 << 14
)

// DecodeOptions tunes a single Decode call.
type DecodeOptions struct {
	// ScaleFactor overrides the scale argument when positive.
	ScaleFactor float64
	// ThumbnailSize is the box (in points) to fit the image into. Zero
	// decodes at full size.
	ThumbnailSize image.Point
}

// Decoder turns container bytes into an Image.
type Decoder struct {
	cfg   Config
	table props.Table
	log   *slog.Logger
}

// NewDecoder creates a Decoder for cfg.
func NewDecoder(cfg Config) *Decoder {
	return &Decoder{
		cfg:   cfg,
		table: props.NewTable(cfg.Capabilities.SupportsAnimatedWebP),
		log:   cfg.logger(),
	}
}

// Decode decodes data. The boolean is false when data is empty, cannot be
// opened, or no frame could be decoded; Decode never panics on bad input.
func (d *Decoder) Decode(data []byte, scale float64, opts DecodeOptions) (*Image, bool) {
	if len(data) == 0 {
		return nil, false
	}
	if opts.ScaleFactor > 0 {
		scale = opts.ScaleFactor
	}
	scale = math.Max(1, scale)
	box := image.Pt(
		int(math.Round(float64(opts.ThumbnailSize.X)*scale)),
		int(math.Round(float64(opts.ThumbnailSize.Y)*scale)),
	)

	format := imgfmt.Detect(data)
	log := d.log.With("format", format.String())

	switch format {
	case imgfmt.SVG:
		return d.decodeSVG(data, box, scale, log)
	case imgfmt.PDF:
		return d.decodePDF(data, box, scale, log)
	}

	if format != imgfmt.Undefined && !d.cfg.Capabilities.CanDecode(format) {
		log.Debug("container type not decodable")
		return nil, false
	}
	if d.cfg.Platform == nil {
		return nil, false
	}
	src, err := d.cfg.Platform.Open(data, format)
	if err != nil {
		log.Debug("unable to open image source", "error", err)
		return nil, false
	}

	count := src.Count()
	if !d.multiFrame(format) || count <= 1 {
		img, orient, err := d.frameImage(src, 0, box)
		if err != nil {
			log.Debug("unable to decode image", "error", err)
			return nil, false
		}
		return &Image{Format: format, Still: img, Scale: scale, Orientation: orient}, true
	}

	keys, _ := d.table.Lookup(format)
	frames := make([]frame.Frame, 0, count)
	for i := range count {
		fp, err := src.FrameProperties(i)
		var img image.Image
		if err == nil {
			img, _, err = d.decodeFrame(src, i, fp, box)
		} else {
			err = fmt.Errorf("frame %d properties: %w", i, err)
		}
		if err != nil {
			if d.cfg.FramePolicy == FailOnBadFrame {
				log.Warn("frame decode failed, discarding animation", "frame", i, "error", err)
				return nil, false
			}
			log.Debug("skipping undecodable frame", "frame", i, "error", err)
			continue
		}
		frames = append(frames, frame.Frame{Image: img, Duration: frameDelay(fp, keys)})
	}
	if len(frames) == 0 {
		log.Debug("no decodable frames", "count", count)
		return nil, false
	}

	if n := frame.FlattenedLen(frames); n > largeAnimation {
		log.Warn("large flattened animation", "frames", len(frames), "images", n)
	}
	return &Image{
		Format:    format,
		Frames:    frames,
		Animation: frame.Flatten(frames),
		LoopCount: keys.ContainerLoopCount(src.Properties()),
		Scale:     scale,
	}, true
}

// multiFrame reports whether frames past the first are decoded for format.
// GIF and PNG always qualify, HEIC/HEIF only when explicitly allowed and
// WebP only when the table carries it.
func (d *Decoder) multiFrame(format imgfmt.Format) bool {
	if !d.table.Animatable(format) {
		return false
	}
	switch format {
	case imgfmt.HEIC, imgfmt.HEIF:
		return d.cfg.Capabilities.AllowMultiFrameHEIC
	}
	return true
}

func frameDelay(fp props.Properties, keys props.Keys) time.Duration {
	delay, ok := keys.FrameDelay(fp)
	if !ok || delay < minFrameDelay {
		return defaultFrameDelay
	}
	return delay
}

// frameImage decodes frame i at full size, or as a thumbnail when its
// natural size does not fit box. Thumbnails have their orientation applied,
// so the returned orientation is up for them.
func (d *Decoder) frameImage(src Source, i int, box image.Point) (image.Image, imgfmt.Orientation, error) {
	fp, err := src.FrameProperties(i)
	if err != nil {
		return nil, imgfmt.OrientationUp, fmt.Errorf("frame %d properties: %w", i, err)
	}
	return d.decodeFrame(src, i, fp, box)
}

// decodeFrame is frameImage with the frame's properties already fetched.
func (d *Decoder) decodeFrame(src Source, i int, fp props.Properties, box image.Point) (image.Image, imgfmt.Orientation, error) {
	orient := imgfmt.OrientationUp
	if e, ok := fp.Int(props.Orientation); ok {
		orient = imgfmt.ExifOrientation(e).Orientation()
	}
	w, _ := fp.Int(props.PixelWidth)
	h, _ := fp.Int(props.PixelHeight)

	opts := ImageOptions{}
	if w > 0 && h > 0 && !FitsWithin(w, h, box) {
		opts = ImageOptions{
			Thumbnail:      true,
			MaxPixelSize:   ThumbnailPixelSize(w, h, box),
			ApplyTransform: true,
		}
		orient = imgfmt.OrientationUp
	}
	img, err := src.Image(i, opts)
	if err != nil {
		return nil, orient, fmt.Errorf("frame %d: %w", i, err)
	}
	if img == nil {
		return nil, orient, fmt.Errorf("frame %d: no image", i)
	}
	return img, orient, nil
}

func (d *Decoder) decodeSVG(data []byte, box image.Point, scale float64, log *slog.Logger) (*Image, bool) {
	if d.cfg.SVG == nil {
		log.Debug("no svg bridge configured")
		return nil, false
	}
	img, err := d.cfg.SVG.Decode(data, box)
	if err != nil || img == nil {
		log.Debug("svg decode failed", "error", err)
		return nil, false
	}
	return &Image{Format: imgfmt.SVG, Still: img, Scale: scale}, true
}

func (d *Decoder) decodePDF(data []byte, box image.Point, scale float64, log *slog.Logger) (*Image, bool) {
	if d.cfg.PDF == nil {
		log.Debug("no pdf rasterizer configured")
		return nil, false
	}
	page, err := d.cfg.PDF.PageBox(data, 0)
	if err != nil || page.Dx() <= 0 || page.Dy() <= 0 {
		log.Debug("pdf page box unavailable", "error", err)
		return nil, false
	}
	size, m := PDFTransform(page, box, scale)
	img, err := d.cfg.PDF.Rasterize(data, 0, size, m)
	if err != nil || img == nil {
		log.Debug("pdf rasterize failed", "error", err)
		return nil, false
	}
	return &Image{Format: imgfmt.PDF, Still: img, Scale: scale}, true
}
