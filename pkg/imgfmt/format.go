// Package imgfmt classifies image containers by their leading bytes and maps
// formats to container type identifiers, MIME types and file extensions.
package imgfmt

import (
	"bytes"
	"strings"
)

// Format is a closed set of image container formats.
type Format int

const (
	Undefined Format = iota
	JPEG
	PNG
	GIF
	TIFF
	WebP
	HEIC
	HEIF
	PDF
	SVG
)

// Formats lists every defined format except Undefined.
var Formats = []Format{JPEG, PNG, GIF, TIFF, WebP, HEIC, HEIF, PDF, SVG}

var formatNames = map[Format]string{
	Undefined: "undefined",
	JPEG:      "jpeg",
	PNG:       "png",
	GIF:       "gif",
	TIFF:      "tiff",
	WebP:      "webp",
	HEIC:      "heic",
	HEIF:      "heif",
	PDF:       "pdf",
	SVG:       "svg",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return formatNames[Undefined]
}

// ParseFormat resolves a format name (case-insensitive, "jpg" and "tif" accepted).
func ParseFormat(name string) Format {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	switch name {
	case "jpg":
		return JPEG
	case "tif":
		return TIFF
	}
	for f, n := range formatNames {
		if n == name {
			return f
		}
	}
	return Undefined
}

var (
	riffMagic = []byte("RIFF")
	webpMagic = []byte("WEBP")
	pdfMagic  = []byte("PDF")
	svgClose  = []byte("</svg>")

	heicBrands = []string{"ftypheic", "ftypheix", "ftyphevc", "ftyphevx"}
	heifBrands = []string{"ftypmif1", "ftypmsf1"}
)

// svgTailWindow bounds how far from the end Detect looks for a closing svg tag.
const svgTailWindow = 100

// Detect identifies the container format from the leading bytes of data.
// Unrecognized or empty input yields Undefined.
func Detect(data []byte) Format {
	if len(data) == 0 {
		return Undefined
	}
	switch data[0] {
	case 0xFF:
		return JPEG
	case 0x89:
		return PNG
	case 0x47:
		return GIF
	case 0x49, 0x4D:
		return TIFF
	case 0x52:
		// RIFF....WEBP
		if len(data) >= 12 && bytes.HasPrefix(data, riffMagic) && bytes.Equal(data[8:12], webpMagic) {
			return WebP
		}
	case 0x00:
		if len(data) >= 12 {
			brand := string(data[4:12])
			for _, b := range heicBrands {
				if brand == b {
					return HEIC
				}
			}
			for _, b := range heifBrands {
				if brand == b {
					return HEIF
				}
			}
		}
	case 0x25:
		// %PDF
		if len(data) >= 4 && bytes.Equal(data[1:4], pdfMagic) {
			return PDF
		}
	case 0x3C:
		// SVG has no fixed signature, look for the closing tag near the end.
		tail := data
		if len(tail) > svgTailWindow {
			tail = tail[len(tail)-svgTailWindow:]
		}
		if bytes.LastIndex(tail, svgClose) >= 0 {
			return SVG
		}
	}
	return Undefined
}
