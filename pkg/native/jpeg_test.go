package native

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/jpeg"
	"testing"

	"github.com/jpfielding/animcodec.go/pkg/codec"
	"github.com/jpfielding/animcodec.go/pkg/imgfmt"
	"github.com/jpfielding/animcodec.go/pkg/props"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJPEG_Orientation(t *testing.T) {
	dst, err := Platform{}.Create(imgfmt.ContainerJPEG, 1)
	require.NoError(t, err)
	require.NoError(t, dst.Add(solid(4, 2, red), props.Properties{
		props.Orientation:             int(imgfmt.ExifRight),
		props.LossyCompressionQuality: 0.9,
	}))
	out, err := dst.Finalize()
	require.NoError(t, err)

	assert.Equal(t, imgfmt.ExifRight, jpegOrientation(out))
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Width, "jpeg keeps pixels and records orientation")

	src, err := Platform{}.Open(out, imgfmt.JPEG)
	require.NoError(t, err)
	fp, err := src.FrameProperties(0)
	require.NoError(t, err)
	o, ok := fp.Int(props.Orientation)
	require.True(t, ok)
	assert.Equal(t, int(imgfmt.ExifRight), o)

	upright, err := src.Image(0, codec.ImageOptions{ApplyTransform: true})
	require.NoError(t, err)
	assert.Equal(t, 2, upright.Bounds().Dx())
	assert.Equal(t, 4, upright.Bounds().Dy())
}

func TestJPEG_DecodeThroughCodec(t *testing.T) {
	img := &codec.Image{Still: solid(8, 4, green), Orientation: imgfmt.OrientationLeft}
	out, ok := codec.NewEncoder(Config()).Encode(img, imgfmt.Undefined, codec.EncodeOptions{Quality: 0.8})
	require.True(t, ok)
	require.Equal(t, imgfmt.JPEG, imgfmt.Detect(out), "opaque images default to jpeg")

	back, ok := codec.NewDecoder(Config()).Decode(out, 1, codec.DecodeOptions{})
	require.True(t, ok)
	assert.Equal(t, imgfmt.OrientationLeft, back.Orientation)
	assert.Equal(t, 8, back.Still.Bounds().Dx())

	thumb, ok := codec.NewDecoder(Config()).Decode(out, 1, codec.DecodeOptions{ThumbnailSize: image.Pt(2, 4)})
	require.True(t, ok)
	assert.Equal(t, imgfmt.OrientationUp, thumb.Orientation, "thumbnails are transformed")
	assert.LessOrEqual(t, thumb.Still.Bounds().Dx(), 4)
}

func TestWithOrientation(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(2, 2, blue), nil))
	plain := buf.Bytes()

	assert.Equal(t, plain, withOrientation(plain, imgfmt.ExifUp))
	assert.Equal(t, imgfmt.ExifOrientation(0), jpegOrientation(plain))

	tagged := withOrientation(plain, imgfmt.ExifDownMirrored)
	assert.Equal(t, imgfmt.ExifDownMirrored, jpegOrientation(tagged))
	_, err := jpeg.Decode(bytes.NewReader(tagged))
	assert.NoError(t, err)
}

func TestTIFFOrientation(t *testing.T) {
	le := make([]byte, 26)
	copy(le, "II")
	binary.LittleEndian.PutUint16(le[2:], 42)
	binary.LittleEndian.PutUint32(le[4:], 8)
	binary.LittleEndian.PutUint16(le[8:], 1)
	binary.LittleEndian.PutUint16(le[10:], tiffTagOrientation)
	binary.LittleEndian.PutUint16(le[12:], tiffTypeShort)
	binary.LittleEndian.PutUint32(le[14:], 1)
	binary.LittleEndian.PutUint16(le[18:], 3)

	tests := []struct {
		name string
		data []byte
		want imgfmt.ExifOrientation
	}{
		{"LittleEndian", le, imgfmt.ExifDown},
		{"BigEndian", exifSegment(imgfmt.ExifRightMirrored)[4+len(exifHeader):], imgfmt.ExifRightMirrored},
		{"Short", []byte("II*"), 0},
		{"BadMagic", []byte("XX\x2a\x00\x08\x00\x00\x00"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tiffOrientation(tt.data))
		})
	}
}

func TestTIFF_BakesOrientation(t *testing.T) {
	dst, err := Platform{}.Create(imgfmt.ContainerTIFF, 1)
	require.NoError(t, err)
	require.NoError(t, dst.Add(solid(4, 2, red), props.Properties{props.Orientation: int(imgfmt.ExifLeft)}))
	out, err := dst.Finalize()
	require.NoError(t, err)

	src, err := Platform{}.Open(out, imgfmt.TIFF)
	require.NoError(t, err)
	img, err := src.Image(0, codec.ImageOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())
	assertColor(t, red, img, 1, 3)
}
