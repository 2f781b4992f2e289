// Package native binds the codec's decoder and encoder capabilities to Go
// image libraries: image/gif, image/png (with APNG framing), image/jpeg,
// golang.org/x/image/{webp,tiff}, nativewebp, gen2brain/webp and
// gen2brain/heic.
package native

import (
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/jpfielding/animcodec.go/pkg/codec"
	"github.com/jpfielding/animcodec.go/pkg/imgfmt"
)

var (
	ErrUnsupported = errors.New("native: unsupported container")
	ErrNoFrames    = errors.New("native: no frames")
	ErrFrameIndex  = errors.New("native: frame index out of range")
	ErrTruncated   = errors.New("native: data truncated")
)

// opener parses a container without decoding pixels where possible.
type opener func(data []byte) (*source, error)

// writer serializes the frames accumulated by a destination.
type writer struct {
	encode func(d *destination) ([]byte, error)
	// orients reports whether the container records orientation itself;
	// otherwise orientation is baked into the pixels before writing.
	orients bool
}

var openers = map[imgfmt.Format]opener{
	imgfmt.GIF:  openGIF,
	imgfmt.PNG:  openPNG,
	imgfmt.JPEG: openJPEG,
	imgfmt.TIFF: openTIFF,
	imgfmt.WebP: openWebP,
	imgfmt.HEIC: openHEIC,
	imgfmt.HEIF: openHEIC,
}

var writers = map[imgfmt.ContainerType]writer{
	imgfmt.ContainerGIF:  {encode: encodeGIF},
	imgfmt.ContainerPNG:  {encode: encodePNG},
	imgfmt.ContainerJPEG: {encode: encodeJPEG, orients: true},
	imgfmt.ContainerTIFF: {encode: encodeTIFF},
	imgfmt.ContainerWebP: {encode: encodeWebP},
}

// Platform implements codec.Platform.
type Platform struct{}

// Open parses data as format. Undefined formats are rejected.
func (Platform) Open(data []byte, format imgfmt.Format) (codec.Source, error) {
	open, ok := openers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, format)
	}
	src, err := open(data)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", format, err)
	}
	return src, nil
}

// Create returns a destination writing ct with room for count frames.
func (Platform) Create(ct imgfmt.ContainerType, count int) (codec.Destination, error) {
	w, ok := writers[ct]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, ct)
	}
	if count < 1 {
		return nil, fmt.Errorf("create %s: %w", ct, ErrNoFrames)
	}
	return &destination{ct: ct, count: count, w: w}, nil
}

var (
	capsOnce sync.Once
	caps     codec.Capabilities
)

// Capabilities returns the container types this package decodes and
// encodes. The snapshot is computed once; each call returns a copy.
func Capabilities() codec.Capabilities {
	capsOnce.Do(func() {
		caps = codec.Capabilities{
			Decodable:            map[imgfmt.ContainerType]bool{},
			Encodable:            map[imgfmt.ContainerType]bool{},
			SupportsAnimatedWebP: true,
		}
		for f := range openers {
			caps.Decodable[f.ContainerType()] = true
		}
		for ct := range writers {
			caps.Encodable[ct] = true
		}
	})
	c := caps
	c.Decodable = maps.Clone(caps.Decodable)
	c.Encodable = maps.Clone(caps.Encodable)
	return c
}

// Config returns a codec configuration backed by this package, with the
// embedded-raster SVG bridge.
func Config() codec.Config {
	return codec.Config{
		Platform:     Platform{},
		Capabilities: Capabilities(),
		SVG:          SVGBridge{},
	}
}
