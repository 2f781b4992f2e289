package native

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	"github.com/jpfielding/animcodec.go/pkg/imgfmt"
	"github.com/jpfielding/animcodec.go/pkg/props"
)

func openJPEG(data []byte) (*source, error) {
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("jpeg: %w", err)
	}
	return stillSource(imgfmt.JPEG, cfg, jpegOrientation(data), func() (image.Image, error) {
		return jpeg.Decode(bytes.NewReader(data))
	}), nil
}

func encodeJPEG(d *destination) ([]byte, error) {
	f := d.frames[0]
	quality := int(math.Round(d.quality(0) * 100))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, f.img, &jpeg.Options{Quality: max(1, min(quality, 100))}); err != nil {
		return nil, fmt.Errorf("jpeg: %w", err)
	}
	o, _ := f.props.Int(props.Orientation)
	return withOrientation(buf.Bytes(), imgfmt.ExifOrientation(o)), nil
}
