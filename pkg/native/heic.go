package native

import (
	"bytes"
	"fmt"
	"image"

	"github.com/gen2brain/heic"
	"github.com/jpfielding/animcodec.go/pkg/imgfmt"
)

// openHEIC decodes the primary image of a HEIC/HEIF file. Image sequences
// are exposed as their primary image only.
func openHEIC(data []byte) (*source, error) {
	cfg, err := heic.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("heic: %w", err)
	}
	return stillSource(imgfmt.Detect(data), cfg, 0, func() (image.Image, error) {
		return heic.Decode(bytes.NewReader(data))
	}), nil
}
