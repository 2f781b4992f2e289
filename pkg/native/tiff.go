package native

import (
	"bytes"
	"fmt"
	"image"

	"github.com/jpfielding/animcodec.go/pkg/imgfmt"
	"golang.org/x/image/tiff"
)

func openTIFF(data []byte) (*source, error) {
	cfg, err := tiff.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("tiff: %w", err)
	}
	return stillSource(imgfmt.TIFF, cfg, tiffOrientation(data), func() (image.Image, error) {
		return tiff.Decode(bytes.NewReader(data))
	}), nil
}

func encodeTIFF(d *destination) ([]byte, error) {
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, d.frames[0].img, &tiff.Options{Compression: tiff.Deflate, Predictor: true}); err != nil {
		return nil, fmt.Errorf("tiff: %w", err)
	}
	return buf.Bytes(), nil
}
