package native

import (
	"bytes"
	"encoding/binary"

	"github.com/jpfielding/animcodec.go/pkg/imgfmt"
)

const (
	tiffTagOrientation = 0x0112
	tiffTypeShort      = 3

	markerSOI  = 0xD8
	markerSOS  = 0xDA
	markerEOI  = 0xD9
	markerAPP1 = 0xE1
)

var exifHeader = []byte("Exif\x00\x00")

// jpegOrientation finds the EXIF orientation in a JPEG's APP1 segment.
// Zero means none was found.
func jpegOrientation(data []byte) imgfmt.ExifOrientation {
	if len(data) < 4 || data[0] != 0xFF || data[1] != markerSOI {
		return 0
	}
	pos := 2
	for pos+4 <= len(data) {
		if data[pos] != 0xFF {
			return 0
		}
		marker := data[pos+1]
		if marker == 0xFF {
			pos++ // fill byte
			continue
		}
		if marker == markerSOS || marker == markerEOI {
			return 0
		}
		length := int(binary.BigEndian.Uint16(data[pos+2 : pos+4]))
		if length < 2 || pos+2+length > len(data) {
			return 0
		}
		segment := data[pos+4 : pos+2+length]
		if marker == markerAPP1 && bytes.HasPrefix(segment, exifHeader) {
			return tiffOrientation(segment[len(exifHeader):])
		}
		pos += 2 + length
	}
	return 0
}

// tiffOrientation reads the orientation tag from IFD0 of a TIFF structure.
func tiffOrientation(data []byte) imgfmt.ExifOrientation {
	if len(data) < 8 {
		return 0
	}
	var order binary.ByteOrder
	switch string(data[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return 0
	}
	if order.Uint16(data[2:4]) != 42 {
		return 0
	}
	ifd := int(order.Uint32(data[4:8]))
	if ifd+2 > len(data) {
		return 0
	}
	entries := int(order.Uint16(data[ifd : ifd+2]))
	for i := range entries {
		off := ifd + 2 + i*12
		if off+12 > len(data) {
			return 0
		}
		if order.Uint16(data[off:off+2]) != tiffTagOrientation {
			continue
		}
		if order.Uint16(data[off+2:off+4]) != tiffTypeShort {
			return 0
		}
		v := imgfmt.ExifOrientation(order.Uint16(data[off+8 : off+10]))
		if v < imgfmt.ExifUp || v > imgfmt.ExifLeft {
			return 0
		}
		return v
	}
	return 0
}

// exifSegment builds a minimal big-endian APP1 segment carrying only the
// orientation tag.
func exifSegment(o imgfmt.ExifOrientation) []byte {
	var tiff bytes.Buffer
	tiff.WriteString("MM")
	binary.Write(&tiff, binary.BigEndian, uint16(42))
	binary.Write(&tiff, binary.BigEndian, uint32(8)) // IFD0 offset
	binary.Write(&tiff, binary.BigEndian, uint16(1)) // entry count
	binary.Write(&tiff, binary.BigEndian, uint16(tiffTagOrientation))
	binary.Write(&tiff, binary.BigEndian, uint16(tiffTypeShort))
	binary.Write(&tiff, binary.BigEndian, uint32(1))
	binary.Write(&tiff, binary.BigEndian, uint16(o))
	binary.Write(&tiff, binary.BigEndian, uint16(0))
	binary.Write(&tiff, binary.BigEndian, uint32(0)) // no next IFD

	payload := append(append([]byte{}, exifHeader...), tiff.Bytes()...)
	seg := []byte{0xFF, markerAPP1, 0, 0}
	binary.BigEndian.PutUint16(seg[2:], uint16(len(payload)+2))
	return append(seg, payload...)
}

// withOrientation inserts an EXIF orientation segment after the SOI marker.
func withOrientation(jpegData []byte, o imgfmt.ExifOrientation) []byte {
	if o == imgfmt.ExifUp || o == 0 || len(jpegData) < 2 {
		return jpegData
	}
	seg := exifSegment(o)
	out := make([]byte, 0, len(jpegData)+len(seg))
	out = append(out, jpegData[:2]...)
	out = append(out, seg...)
	return append(out, jpegData[2:]...)
}
