package codec

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"
)

// FitsWithin reports whether a w x h image needs no downscale for box.
// A zero box means no thumbnail was requested.
func FitsWithin(w, h int, box image.Point) bool {
	if box.X <= 0 || box.Y <= 0 {
		return true
	}
	return w <= box.X && h <= box.Y
}

// ThumbnailPixelSize returns the max-pixel-size (longer output side) that
// fits a w x h source into box without letterboxing. A source relatively
// wider than the box is constrained by width, otherwise by height.
func ThumbnailPixelSize(w, h int, box image.Point) int {
	if w <= 0 || h <= 0 || box.X <= 0 || box.Y <= 0 {
		return 0
	}
	sourceRatio := float64(w) / float64(h)
	targetRatio := float64(box.X) / float64(box.Y)
	tw, th := float64(box.X), float64(box.Y)

	var px float64
	if sourceRatio > targetRatio {
		px = math.Max(tw, tw/sourceRatio)
	} else {
		px = math.Max(th, th*sourceRatio)
	}
	return int(math.Ceil(px))
}

// ScaledSize returns the size of a w x h image scaled so its longer side is
// maxPixelSize. It never upscales.
func ScaledSize(w, h, maxPixelSize int) image.Point {
	longer := max(w, h)
	if maxPixelSize <= 0 || longer <= maxPixelSize {
		return image.Pt(w, h)
	}
	f := float64(maxPixelSize) / float64(longer)
	return image.Pt(
		max(1, int(math.Round(float64(w)*f))),
		max(1, int(math.Round(float64(h)*f))),
	)
}

// PDFTransform computes the bitmap size and the page-to-bitmap transform for
// rendering page at scale, shrunk to fit box (in pixels) when one is given.
// The transform flips the y axis since PDF space grows upward.
func PDFTransform(page PageBox, box image.Point, scale float64) (image.Point, f64.Aff3) {
	scale = math.Max(1, scale)
	pw, ph := page.Dx()*scale, page.Dy()*scale
	size := image.Pt(int(math.Ceil(pw)), int(math.Ceil(ph)))

	if !FitsWithin(size.X, size.Y, box) {
		px := ThumbnailPixelSize(size.X, size.Y, box)
		size = ScaledSize(size.X, size.Y, px)
		scale *= float64(size.X) / pw
	}

	m := f64.Aff3{
		scale, 0, -scale * page.Min[0],
		0, -scale, scale * page.Max[1],
	}
	return size, m
}
