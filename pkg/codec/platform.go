package codec

import (
	"image"

	"github.com/jpfielding/animcodec.go/pkg/imgfmt"
	"github.com/jpfielding/animcodec.go/pkg/props"
	"golang.org/x/image/math/f64"
)

// ImageOptions controls how a Source materializes one frame.
type ImageOptions struct {
	// Thumbnail requests a downscaled image whose longer side is at most
	// MaxPixelSize. The thumbnail is always regenerated from the full frame,
	// never taken from an embedded preview.
	Thumbnail    bool
	MaxPixelSize int
	// ApplyTransform bakes the frame's orientation into the pixels.
	ApplyTransform bool
}

// Source is an opened container that yields frames and their properties.
type Source interface {
	// Count returns the number of frames in the container.
	Count() int
	// Properties returns container-level properties.
	Properties() props.Properties
	// FrameProperties returns properties of frame i (size, orientation,
	// format dictionary with delays).
	FrameProperties(i int) (props.Properties, error)
	// Image decodes frame i.
	Image(i int, opts ImageOptions) (image.Image, error)
}

// Destination accumulates frames and writes a container.
type Destination interface {
	// SetProperties sets container-level properties (loop count).
	SetProperties(p props.Properties)
	// Add appends a frame with its per-image properties.
	Add(img image.Image, p props.Properties) error
	// Finalize writes the container and returns its bytes.
	Finalize() ([]byte, error)
}

// Platform opens sources and creates destinations for container types.
type Platform interface {
	Open(data []byte, format imgfmt.Format) (Source, error)
	Create(ct imgfmt.ContainerType, count int) (Destination, error)
}

// SVGBridge renders and produces SVG documents.
type SVGBridge interface {
	// Decode rasterizes an SVG document. A zero size means the document's
	// intrinsic size.
	Decode(data []byte, size image.Point) (image.Image, error)
	Encode(img image.Image) ([]byte, error)
}

// PageBox is a PDF page rectangle in points, origin at the bottom left.
type PageBox struct {
	Min, Max f64.Vec2
}

// Dx returns the page width in points.
func (b PageBox) Dx() float64 { return b.Max[0] - b.Min[0] }

// Dy returns the page height in points.
func (b PageBox) Dy() float64 { return b.Max[1] - b.Min[1] }

// PDFRasterizer renders PDF pages.
type PDFRasterizer interface {
	PageBox(data []byte, page int) (PageBox, error)
	// Rasterize draws page into a bitmap of the given size, mapping page
	// space to bitmap space with m.
	Rasterize(data []byte, page int, size image.Point, m f64.Aff3) (image.Image, error)
}
