package native

import (
	"fmt"
	"image"

	"github.com/jpfielding/animcodec.go/pkg/imgfmt"
	"github.com/jpfielding/animcodec.go/pkg/props"
)

type destFrame struct {
	img   image.Image
	props props.Properties
}

// destination implements codec.Destination by buffering frames until
// Finalize hands them to the container writer.
type destination struct {
	ct        imgfmt.ContainerType
	count     int
	w         writer
	container props.Properties
	frames    []destFrame
	done      bool
}

func (d *destination) SetProperties(p props.Properties) {
	d.container = p
}

func (d *destination) Add(img image.Image, p props.Properties) error {
	if d.done {
		return fmt.Errorf("%s: destination already finalized", d.ct)
	}
	if len(d.frames) >= d.count {
		return fmt.Errorf("%w: %s holds %d frames", ErrFrameIndex, d.ct, d.count)
	}
	if img == nil {
		return fmt.Errorf("%s: nil image", d.ct)
	}
	if p == nil {
		p = props.Properties{}
	}
	if !d.w.orients {
		if e, ok := p.Int(props.Orientation); ok && imgfmt.ExifOrientation(e) != imgfmt.ExifUp {
			img = orient(img, imgfmt.ExifOrientation(e))
		}
	}
	d.frames = append(d.frames, destFrame{img: img, props: p})
	return nil
}

func (d *destination) Finalize() ([]byte, error) {
	if d.done {
		return nil, fmt.Errorf("%s: destination already finalized", d.ct)
	}
	if len(d.frames) == 0 {
		return nil, fmt.Errorf("%s: %w", d.ct, ErrNoFrames)
	}
	d.done = true
	return d.w.encode(d)
}

// quality returns the lossy quality of frame i in (0, 1].
func (d *destination) quality(i int) float64 {
	q, ok := d.frames[i].props.Float(props.LossyCompressionQuality)
	if !ok || q <= 0 || q > 1 {
		return 1
	}
	return q
}
