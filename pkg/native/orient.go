package native

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
	"github.com/jpfielding/animcodec.go/pkg/codec"
	"github.com/jpfielding/animcodec.go/pkg/imgfmt"
	"golang.org/x/image/draw"
)

var rotateBounds = &transform.RotationOptions{ResizeBounds: true}

// orient returns img with EXIF orientation e applied, so the result displays
// upright without metadata.
func orient(img image.Image, e imgfmt.ExifOrientation) image.Image {
	switch e {
	case imgfmt.ExifUpMirrored:
		return transform.FlipH(img)
	case imgfmt.ExifDown:
		return transform.Rotate(img, 180, nil)
	case imgfmt.ExifDownMirrored:
		return transform.FlipV(img)
	case imgfmt.ExifLeftMirrored:
		return transform.FlipH(transform.Rotate(img, 90, rotateBounds))
	case imgfmt.ExifRight:
		return transform.Rotate(img, 90, rotateBounds)
	case imgfmt.ExifRightMirrored:
		return transform.FlipV(transform.Rotate(img, 90, rotateBounds))
	case imgfmt.ExifLeft:
		return transform.Rotate(img, 270, rotateBounds)
	}
	return img
}

// downscale shrinks img so its longer side is maxPixelSize. Images already
// within the limit are returned unchanged.
func downscale(img image.Image, maxPixelSize int) image.Image {
	b := img.Bounds()
	if maxPixelSize <= 0 || max(b.Dx(), b.Dy()) <= maxPixelSize {
		return img
	}
	size := codec.ScaledSize(b.Dx(), b.Dy(), maxPixelSize)
	dst := image.NewNRGBA(image.Rectangle{Max: size})
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
