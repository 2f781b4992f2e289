package imgfmt

// Orientation is the in-memory orientation of a decoded bitmap.
type Orientation int

const (
	OrientationUp Orientation = iota
	OrientationDown
	OrientationLeft
	OrientationRight
	OrientationUpMirrored
	OrientationDownMirrored
	OrientationLeftMirrored
	OrientationRightMirrored
)

// ExifOrientation is the TIFF/EXIF orientation tag value (1-8).
type ExifOrientation uint16

const (
	ExifUp            ExifOrientation = 1
	ExifUpMirrored    ExifOrientation = 2
	ExifDown          ExifOrientation = 3
	ExifDownMirrored  ExifOrientation = 4
	ExifLeftMirrored  ExifOrientation = 5
	ExifRight         ExifOrientation = 6
	ExifRightMirrored ExifOrientation = 7
	ExifLeft          ExifOrientation = 8
)

var toExif = map[Orientation]ExifOrientation{
	OrientationUp:            ExifUp,
	OrientationUpMirrored:    ExifUpMirrored,
	OrientationDown:          ExifDown,
	OrientationDownMirrored:  ExifDownMirrored,
	OrientationLeftMirrored:  ExifLeftMirrored,
	OrientationRight:         ExifRight,
	OrientationRightMirrored: ExifRightMirrored,
	OrientationLeft:          ExifLeft,
}

// Exif returns the EXIF tag value for o.
func (o Orientation) Exif() ExifOrientation {
	if e, ok := toExif[o]; ok {
		return e
	}
	return ExifUp
}

// Orientation returns the bitmap orientation for e; values outside 1-8 map to up.
func (e ExifOrientation) Orientation() Orientation {
	for o, v := range toExif {
		if v == e {
			return o
		}
	}
	return OrientationUp
}

func (o Orientation) String() string {
	switch o {
	case OrientationUp:
		return "up"
	case OrientationDown:
		return "down"
	case OrientationLeft:
		return "left"
	case OrientationRight:
		return "right"
	case OrientationUpMirrored:
		return "upMirrored"
	case OrientationDownMirrored:
		return "downMirrored"
	case OrientationLeftMirrored:
		return "leftMirrored"
	case OrientationRightMirrored:
		return "rightMirrored"
	}
	return "up"
}
