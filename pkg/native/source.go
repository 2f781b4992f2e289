package native

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/jpfielding/animcodec.go/pkg/codec"
	"github.com/jpfielding/animcodec.go/pkg/imgfmt"
	"github.com/jpfielding/animcodec.go/pkg/props"
)

// source implements codec.Source over a parsed container. Frames are
// produced on demand by decode.
type source struct {
	format    imgfmt.Format
	container props.Properties
	frames    []props.Properties
	decode    func(i int) (image.Image, error)
}

func (s *source) Count() int                   { return len(s.frames) }
func (s *source) Properties() props.Properties { return s.container }

func (s *source) FrameProperties(i int) (props.Properties, error) {
	if i < 0 || i >= len(s.frames) {
		return nil, fmt.Errorf("%w: %d of %d", ErrFrameIndex, i, len(s.frames))
	}
	return s.frames[i], nil
}

func (s *source) Image(i int, opts codec.ImageOptions) (img image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("%s frame %d: decoder panic: %v", s.format, i, r)
		}
	}()
	fp, err := s.FrameProperties(i)
	if err != nil {
		return nil, err
	}
	img, err = s.decode(i)
	if err != nil {
		return nil, err
	}
	if opts.ApplyTransform {
		if e, ok := fp.Int(props.Orientation); ok {
			img = orient(img, imgfmt.ExifOrientation(e))
		}
	}
	if opts.Thumbnail {
		img = downscale(img, opts.MaxPixelSize)
	}
	return img, nil
}

// stillSource wraps a single-image container. Images whose header declares
// an oversized canvas are refused before decoding.
func stillSource(format imgfmt.Format, cfg image.Config, orientation imgfmt.ExifOrientation, decode func() (image.Image, error)) *source {
	fp := imageProperties(cfg)
	if orientation != 0 {
		fp[props.Orientation] = int(orientation)
	}
	return &source{
		format:    format,
		container: props.Properties{props.FrameCount: 1},
		frames:    []props.Properties{fp},
		decode: func(int) (image.Image, error) {
			if err := checkCanvas(cfg.Width, cfg.Height); err != nil {
				return nil, err
			}
			return decode()
		},
	}
}

func imageProperties(cfg image.Config) props.Properties {
	return props.Properties{
		props.PixelWidth:  cfg.Width,
		props.PixelHeight: cfg.Height,
		props.HasAlpha:    modelHasAlpha(cfg.ColorModel),
	}
}

func modelHasAlpha(m color.Model) bool {
	if p, ok := m.(color.Palette); ok {
		for _, c := range p {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return true
			}
		}
		return false
	}
	switch m {
	case nil, color.GrayModel, color.Gray16Model, color.YCbCrModel, color.CMYKModel:
		return false
	}
	return true
}

// frameProperties builds the per-frame dictionary of an animated container.
func frameProperties(width, height int, alpha bool, dict props.Properties) props.Properties {
	fp := props.Properties{
		props.PixelWidth:  width,
		props.PixelHeight: height,
		props.HasAlpha:    alpha,
	}
	for k, v := range dict {
		fp[k] = v
	}
	return fp
}

// keyTable names the animation keys this package reads and writes.
var keyTable = props.NewTable(true)

func formatKeys(f imgfmt.Format) props.Keys {
	k, _ := keyTable.Lookup(f)
	return k
}

// delayDictionary records a frame delay in f's dictionary. The clamped
// delay replaces anything shorter than floor with 100ms; the unclamped delay
// is the raw container value.
func delayDictionary(f imgfmt.Format, delay, floor time.Duration) props.Properties {
	k := formatKeys(f)
	clamped := delay
	if clamped < floor {
		clamped = 100 * time.Millisecond
	}
	return props.Properties{k.Dictionary: props.Properties{
		k.Delay:          clamped.Seconds(),
		k.UnclampedDelay: delay.Seconds(),
	}}
}
