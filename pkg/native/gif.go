package native

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"time"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/jpfielding/animcodec.go/pkg/imgfmt"
	"github.com/jpfielding/animcodec.go/pkg/props"
)

// gifMinDelay is the shortest GIF delay browsers honour; shorter clamped
// delays become 100ms.
const gifMinDelay = 20 * time.Millisecond

func openGIF(data []byte) (*source, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gif: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, ErrNoFrames
	}

	width, height := g.Config.Width, g.Config.Height
	if width == 0 || height == 0 {
		b := g.Image[0].Bounds()
		width, height = b.Max.X, b.Max.Y
	}

	container := props.Properties{props.FrameCount: len(g.Image)}
	if g.LoopCount >= 0 {
		// -1 means the NETSCAPE2.0 extension is absent
		formatKeys(imgfmt.GIF).SetLoopCount(container, g.LoopCount)
	}

	raws := make([]rawFrame, len(g.Image))
	frames := make([]props.Properties, len(g.Image))
	for i, pm := range g.Image {
		raw := rawFrame{bounds: pm.Bounds(), over: true}
		if i < len(g.Delay) {
			raw.delay = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
		if i < len(g.Disposal) {
			switch g.Disposal[i] {
			case gif.DisposalBackground:
				raw.dispose = disposeBackground
			case gif.DisposalPrevious:
				raw.dispose = disposePrevious
			}
		}
		raws[i] = raw
		frames[i] = frameProperties(width, height, modelHasAlpha(pm.Palette),
			delayDictionary(imgfmt.GIF, raw.delay, gifMinDelay))
	}

	comp, err := newCompositor(width, height, raws, func(i int) (image.Image, error) {
		return g.Image[i], nil
	})
	if err != nil {
		return nil, fmt.Errorf("gif: %w", err)
	}
	return &source{
		format:    imgfmt.GIF,
		container: container,
		frames:    frames,
		decode:    comp.frame,
	}, nil
}

func encodeGIF(d *destination) ([]byte, error) {
	keys := formatKeys(imgfmt.GIF)
	g := &gif.GIF{LoopCount: -1}
	if n, ok := d.container.Dict(keys.Dictionary).Int(keys.LoopCount); ok {
		g.LoopCount = n
	}
	q := quantize.MedianCutQuantizer{}
	for _, f := range d.frames {
		pm := toPaletted(f.img, q)
		g.Image = append(g.Image, pm)
		delay, _ := f.props.Dict(keys.Dictionary).Seconds(keys.Delay)
		g.Delay = append(g.Delay, int((delay+5*time.Millisecond)/(10*time.Millisecond)))
		g.Disposal = append(g.Disposal, gif.DisposalNone)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		return nil, fmt.Errorf("gif: %w", err)
	}
	return buf.Bytes(), nil
}

func toPaletted(img image.Image, q draw.Quantizer) *image.Paletted {
	if pm, ok := img.(*image.Paletted); ok {
		return pm
	}
	b := img.Bounds()
	palette := q.Quantize(make(color.Palette, 0, 256), img)
	pm := image.NewPaletted(b, palette)
	draw.FloydSteinberg.Draw(pm, b, img, b.Min)
	return pm
}
