package codec

import (
	"log/slog"

	"github.com/jpfielding/animcodec.go/pkg/imgfmt"
)

// FramePolicy decides what happens when one frame of an animation fails to decode.
type FramePolicy int

const (
	// SkipBadFrames drops frames that fail to decode and keeps the rest.
	SkipBadFrames FramePolicy = iota
	// FailOnBadFrame discards the whole animation.
	FailOnBadFrame
)

func (p FramePolicy) String() string {
	if p == FailOnBadFrame {
		return "fail"
	}
	return "skip"
}

// Capabilities is an immutable snapshot of what the host can decode and
// encode. It is computed once and passed in; nothing here is queried lazily.
type Capabilities struct {
	Decodable map[imgfmt.ContainerType]bool
	Encodable map[imgfmt.ContainerType]bool
	// AllowMultiFrameHEIC enables HEIC/HEIF image sequences, which are
	// expensive to decode.
	AllowMultiFrameHEIC bool
	// SupportsAnimatedWebP enables animated WebP decode and encode.
	SupportsAnimatedWebP bool
}

// CanDecode reports whether f's container type is decodable.
func (c Capabilities) CanDecode(f imgfmt.Format) bool {
	return c.Decodable[f.ContainerType()]
}

// CanEncode reports whether f's container type is encodable.
func (c Capabilities) CanEncode(f imgfmt.Format) bool {
	return c.Encodable[f.ContainerType()]
}

// Config wires a Decoder or Encoder to its collaborators.
type Config struct {
	Platform     Platform
	Capabilities Capabilities
	SVG          SVGBridge     // optional
	PDF          PDFRasterizer // optional
	Logger       *slog.Logger  // defaults to slog.Default()
	FramePolicy  FramePolicy
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
