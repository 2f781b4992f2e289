package codec

import (
	"log/slog"

	"github.com/jpfielding/animcodec.go/pkg/imgfmt"
	"github.com/jpfielding/animcodec.go/pkg/props"
)

// EncodeOptions tunes a single Encode call.
type EncodeOptions struct {
	// Quality is the lossy compression quality in (0, 1]. Zero means 1.
	Quality float64
}

func (o EncodeOptions) quality() float64 {
	if o.Quality <= 0 || o.Quality > 1 {
		return 1
	}
	return o.Quality
}

// Encoder writes an Image into a container.
type Encoder struct {
	cfg   Config
	table props.Table
	log   *slog.Logger
}

// NewEncoder creates an Encoder for cfg.
func NewEncoder(cfg Config) *Encoder {
	return &Encoder{
		cfg:   cfg,
		table: props.NewTable(cfg.Capabilities.SupportsAnimatedWebP),
		log:   cfg.logger(),
	}
}

// DefaultFormat picks PNG for images with alpha and JPEG otherwise.
func DefaultFormat(img *Image) imgfmt.Format {
	if HasAlpha(img.First()) {
		return imgfmt.PNG
	}
	return imgfmt.JPEG
}

// Encode writes img as format. Undefined picks PNG or JPEG by alpha. The
// boolean is false when there is nothing to encode, the container type is
// not encodable, or the writer fails.
func (e *Encoder) Encode(img *Image, format imgfmt.Format, opts EncodeOptions) ([]byte, bool) {
	if img == nil || img.First() == nil {
		return nil, false
	}
	if format == imgfmt.Undefined {
		format = DefaultFormat(img)
	}
	log := e.log.With("format", format.String())

	if format == imgfmt.SVG {
		if e.cfg.SVG == nil {
			log.Debug("no svg bridge configured")
			return nil, false
		}
		out, err := e.cfg.SVG.Encode(img.First())
		if err != nil || len(out) == 0 {
			log.Debug("svg encode failed", "error", err)
			return nil, false
		}
		return out, true
	}

	ct := format.ContainerType()
	if !e.cfg.Capabilities.CanEncode(format) || e.cfg.Platform == nil {
		log.Debug("container type not encodable", "container", ct)
		return nil, false
	}

	frames := img.FrameList()
	keys, animatable := e.table.Lookup(format)
	if !animatable || len(frames) <= 1 {
		dst, err := e.cfg.Platform.Create(ct, 1)
		if err != nil {
			log.Debug("unable to create destination", "error", err)
			return nil, false
		}
		if err := dst.Add(img.First(), e.imageProperties(img, opts)); err != nil {
			log.Debug("unable to add image", "error", err)
			return nil, false
		}
		return e.finalize(dst, log)
	}

	dst, err := e.cfg.Platform.Create(ct, len(frames))
	if err != nil {
		log.Debug("unable to create destination", "error", err)
		return nil, false
	}
	container := props.Properties{}
	keys.SetLoopCount(container, img.LoopCount)
	dst.SetProperties(container)
	for i, f := range frames {
		p := e.imageProperties(img, opts)
		keys.SetDelay(p, f.Duration)
		if err := dst.Add(f.Image, p); err != nil {
			log.Debug("unable to add frame", "frame", i, "error", err)
			return nil, false
		}
	}
	return e.finalize(dst, log)
}

func (e *Encoder) imageProperties(img *Image, opts EncodeOptions) props.Properties {
	return props.Properties{
		props.LossyCompressionQuality: opts.quality(),
		props.EmbedThumbnail:          false,
		props.Orientation:             int(img.Orientation.Exif()),
	}
}

func (e *Encoder) finalize(dst Destination, log *slog.Logger) ([]byte, bool) {
	out, err := dst.Finalize()
	if err != nil || len(out) == 0 {
		log.Debug("finalize failed", "error", err)
		return nil, false
	}
	return out, true
}
