package codec

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/jpfielding/animcodec.go/pkg/imgfmt"
	"github.com/jpfielding/animcodec.go/pkg/props"
	"golang.org/x/image/math/f64"
)

var errFake = errors.New("fake failure")

type fakeFrame struct {
	width, height int
	props         props.Properties
	err           error
}

type fakeSource struct {
	container props.Properties
	frames    []fakeFrame
	requests  []ImageOptions
	images    []image.Image
	// propsCalls counts FrameProperties lookups per frame index.
	propsCalls map[int]int
}

func (s *fakeSource) Count() int                   { return len(s.frames) }
func (s *fakeSource) Properties() props.Properties { return s.container }

func (s *fakeSource) FrameProperties(i int) (props.Properties, error) {
	if s.propsCalls == nil {
		s.propsCalls = map[int]int{}
	}
	s.propsCalls[i]++
	if i < 0 || i >= len(s.frames) {
		return nil, fmt.Errorf("frame %d out of range", i)
	}
	f := s.frames[i]
	p := props.Properties{props.PixelWidth: f.width, props.PixelHeight: f.height}
	for k, v := range f.props {
		p[k] = v
	}
	return p, nil
}

func (s *fakeSource) Image(i int, opts ImageOptions) (image.Image, error) {
	s.requests = append(s.requests, opts)
	f := s.frames[i]
	if f.err != nil {
		return nil, f.err
	}
	size := image.Pt(f.width, f.height)
	if opts.Thumbnail {
		size = ScaledSize(f.width, f.height, opts.MaxPixelSize)
	}
	img := image.NewRGBA(image.Rectangle{Max: size})
	s.images = append(s.images, img)
	return img, nil
}

type fakeDestination struct {
	ct          imgfmt.ContainerType
	count       int
	container   props.Properties
	images      []image.Image
	props       []props.Properties
	addErr      error
	finalizeErr error
}

func (d *fakeDestination) SetProperties(p props.Properties) { d.container = p }

func (d *fakeDestination) Add(img image.Image, p props.Properties) error {
	if d.addErr != nil {
		return d.addErr
	}
	d.images = append(d.images, img)
	d.props = append(d.props, p)
	return nil
}

func (d *fakeDestination) Finalize() ([]byte, error) {
	if d.finalizeErr != nil {
		return nil, d.finalizeErr
	}
	return []byte(fmt.Sprintf("%s:%d", d.ct, len(d.images))), nil
}

type fakePlatform struct {
	src         *fakeSource
	openErr     error
	opened      imgfmt.Format
	dst         *fakeDestination
	createErr   error
	finalizeErr error
}

func (p *fakePlatform) Open(data []byte, format imgfmt.Format) (Source, error) {
	p.opened = format
	if p.openErr != nil {
		return nil, p.openErr
	}
	if p.src == nil {
		return nil, errFake
	}
	return p.src, nil
}

func (p *fakePlatform) Create(ct imgfmt.ContainerType, count int) (Destination, error) {
	if p.createErr != nil {
		return nil, p.createErr
	}
	p.dst = &fakeDestination{ct: ct, count: count, finalizeErr: p.finalizeErr}
	return p.dst, nil
}

type fakeSVG struct {
	size    image.Point
	encoded image.Image
}

func (s *fakeSVG) Decode(data []byte, size image.Point) (image.Image, error) {
	s.size = size
	return image.NewRGBA(image.Rect(0, 0, 10, 10)), nil
}

func (s *fakeSVG) Encode(img image.Image) ([]byte, error) {
	s.encoded = img
	return []byte("<svg></svg>"), nil
}

type fakePDF struct {
	box  PageBox
	size image.Point
	m    f64.Aff3
}

func (p *fakePDF) PageBox(data []byte, page int) (PageBox, error) { return p.box, nil }

func (p *fakePDF) Rasterize(data []byte, page int, size image.Point, m f64.Aff3) (image.Image, error) {
	p.size, p.m = size, m
	return image.NewRGBA(image.Rectangle{Max: size}), nil
}

func allCapabilities() Capabilities {
	c := Capabilities{
		Decodable:            map[imgfmt.ContainerType]bool{},
		Encodable:            map[imgfmt.ContainerType]bool{},
		SupportsAnimatedWebP: true,
	}
	for _, f := range imgfmt.Formats {
		c.Decodable[f.ContainerType()] = true
		c.Encodable[f.ContainerType()] = true
	}
	return c
}

func delayProps(dict string, seconds float64) props.Properties {
	return props.Properties{dict: props.Properties{"UnclampedDelayTime": seconds}}
}

func opaque(w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	return img
}

func translucent(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 10})
	return img
}

var (
	gifBytes  = []byte("GIF89a....")
	pngBytes  = []byte("\x89PNG\r\n\x1a\n....")
	jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0}
	webpBytes = []byte("RIFF\x00\x00\x00\x00WEBPVP8X")
	heicBytes = []byte("\x00\x00\x00\x18ftypheic....")
)
