package native

import (
	"fmt"
	"image"
	"image/draw"
	"time"
)

type disposal int

const (
	disposeNone disposal = iota
	disposeBackground
	disposePrevious
)

// rawFrame describes a sub-rectangle frame of an animation before it is
// composited onto the canvas.
type rawFrame struct {
	bounds  image.Rectangle
	dispose disposal
	over    bool // alpha-blend onto the canvas instead of replacing
	delay   time.Duration
}

// maxCanvasPixels bounds the canvas an animation header may declare.
const maxCanvasPixels = 1 << 26

// checkCanvas rejects empty canvases and ones too large to allocate.
func checkCanvas(width, height int) error {
	if width <= 0 || height <= 0 ||
		width > maxCanvasPixels || height > maxCanvasPixels ||
		width*height > maxCanvasPixels {
		return fmt.Errorf("%w: canvas %dx%d", ErrUnsupported, width, height)
	}
	return nil
}

// compositor renders frames onto a canvas in order, caching each full
// canvas. A frame that fails to decode, or lies outside the canvas, leaves
// the canvas untouched and reports its error; later frames still render.
type compositor struct {
	rect   image.Rectangle
	canvas *image.NRGBA // allocated on first render
	frames []rawFrame
	decode func(i int) (image.Image, error)
	next   int
	out    []image.Image
	errs   []error
}

func newCompositor(width, height int, frames []rawFrame, decode func(i int) (image.Image, error)) (*compositor, error) {
	if err := checkCanvas(width, height); err != nil {
		return nil, err
	}
	return &compositor{
		rect:   image.Rect(0, 0, width, height),
		frames: frames,
		decode: decode,
		out:    make([]image.Image, len(frames)),
		errs:   make([]error, len(frames)),
	}, nil
}

func (c *compositor) frame(i int) (image.Image, error) {
	if i < 0 || i >= len(c.frames) {
		return nil, ErrFrameIndex
	}
	for c.next <= i {
		c.render(c.next)
		c.next++
	}
	return c.out[i], c.errs[i]
}

func (c *compositor) render(i int) {
	f := c.frames[i]
	if f.bounds.Empty() || !f.bounds.In(c.rect) {
		c.errs[i] = fmt.Errorf("%w: frame %d bounds %v outside canvas %v", ErrUnsupported, i, f.bounds, c.rect)
		return
	}
	img, err := c.decode(i)
	if err != nil {
		c.errs[i] = err
		return
	}

	if c.canvas == nil {
		c.canvas = image.NewNRGBA(c.rect)
	}
	var previous *image.NRGBA
	if f.dispose == disposePrevious {
		previous = cloneNRGBA(c.canvas)
	}

	op := draw.Src
	if f.over {
		op = draw.Over
	}
	r := f.bounds.Intersect(c.canvas.Bounds())
	draw.Draw(c.canvas, r, img, img.Bounds().Min.Add(r.Min.Sub(f.bounds.Min)), op)
	c.out[i] = cloneNRGBA(c.canvas)

	switch f.dispose {
	case disposeBackground:
		draw.Draw(c.canvas, r, image.Transparent, image.Point{}, draw.Src)
	case disposePrevious:
		c.canvas = previous
	}
}

func cloneNRGBA(m *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(m.Rect)
	copy(out.Pix, m.Pix)
	return out
}
