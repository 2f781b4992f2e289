// Package codec decodes image containers into stills or timed frame
// sequences and encodes them back, using a Platform for the per-frame pixel
// work.
package codec

import (
	"image"

	"github.com/jpfielding/animcodec.go/pkg/frame"
	"github.com/jpfielding/animcodec.go/pkg/imgfmt"
)

// Image is the result of a decode and the input of an encode. Exactly one
// of Still, Frames or Animation carries the pixels; a decoded animation sets
// both Frames and its flattened Animation.
type Image struct {
	Format      imgfmt.Format
	Still       image.Image
	Frames      []frame.Frame
	Animation   frame.Animation
	LoopCount   int // 0 loops forever
	Scale       float64
	Orientation imgfmt.Orientation
}

// FrameList returns the explicit frame list, unflattening Animation when
// Frames is not set. A still yields a single zero-duration frame.
func (img *Image) FrameList() []frame.Frame {
	switch {
	case len(img.Frames) > 0:
		return img.Frames
	case len(img.Animation.Images) > 0:
		return frame.Unflatten(img.Animation)
	case img.Still != nil:
		return []frame.Frame{{Image: img.Still}}
	}
	return nil
}

// First returns the still or the first frame's bitmap.
func (img *Image) First() image.Image {
	if img.Still != nil {
		return img.Still
	}
	if len(img.Frames) > 0 {
		return img.Frames[0].Image
	}
	if len(img.Animation.Images) > 0 {
		return img.Animation.Images[0]
	}
	return nil
}

// Animated reports whether the image has more than one frame.
func (img *Image) Animated() bool {
	return len(img.FrameList()) > 1
}

// HasAlpha reports whether m may contain non-opaque pixels.
func HasAlpha(m image.Image) bool {
	if m == nil {
		return false
	}
	if o, ok := m.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := m.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}
