package imgfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrientationBijection(t *testing.T) {
	seen := map[ExifOrientation]bool{}
	for o := OrientationUp; o <= OrientationRightMirrored; o++ {
		e := o.Exif()
		assert.False(t, seen[e], "duplicate exif value %d", e)
		seen[e] = true
		assert.Equal(t, o, e.Orientation(), o.String())
	}
	assert.Len(t, seen, 8)
}

func TestExifOrientation_Unmapped(t *testing.T) {
	assert.Equal(t, OrientationUp, ExifOrientation(0).Orientation())
	assert.Equal(t, OrientationUp, ExifOrientation(9).Orientation())
	assert.Equal(t, ExifRight, OrientationRight.Exif())
	assert.Equal(t, ExifLeft, OrientationLeft.Exif())
}
