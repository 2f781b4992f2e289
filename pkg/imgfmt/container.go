package imgfmt

import (
	"mime"
	"strings"
)

// ContainerType is a uniform type identifier naming an image container.
type ContainerType string

const (
	ContainerImage ContainerType = "public.image"
	ContainerJPEG  ContainerType = "public.jpeg"
	ContainerPNG   ContainerType = "public.png"
	ContainerGIF   ContainerType = "com.compuserve.gif"
	ContainerTIFF  ContainerType = "public.tiff"
	ContainerWebP  ContainerType = "org.webmproject.webp"
	ContainerHEIC  ContainerType = "public.heic"
	ContainerHEIF  ContainerType = "public.heif"
	ContainerPDF   ContainerType = "com.adobe.pdf"
	ContainerSVG   ContainerType = "public.svg-image"
)

// MIMEOctetStream is returned whenever no better MIME type is known.
const MIMEOctetStream = "application/octet-stream"

type formatInfo struct {
	container ContainerType
	mime      string
	ext       string
}

var formatTable = map[Format]formatInfo{
	JPEG: {ContainerJPEG, "image/jpeg", "jpg"},
	PNG:  {ContainerPNG, "image/png", "png"},
	GIF:  {ContainerGIF, "image/gif", "gif"},
	TIFF: {ContainerTIFF, "image/tiff", "tiff"},
	WebP: {ContainerWebP, "image/webp", "webp"},
	HEIC: {ContainerHEIC, "image/heic", "heic"},
	HEIF: {ContainerHEIF, "image/heif", "heif"},
	PDF:  {ContainerPDF, "application/pdf", "pdf"},
	SVG:  {ContainerSVG, "image/svg+xml", "svg"},
}

// ContainerType returns the container type identifier for f, or
// ContainerImage for Undefined.
func (f Format) ContainerType() ContainerType {
	if info, ok := formatTable[f]; ok {
		return info.container
	}
	return ContainerImage
}

// FormatForContainerType is the inverse of Format.ContainerType. Unknown
// identifiers map to Undefined.
func FormatForContainerType(ct ContainerType) Format {
	for f, info := range formatTable {
		if info.container == ct {
			return f
		}
	}
	return Undefined
}

// MIMEType returns the MIME type for f, or application/octet-stream.
func (f Format) MIMEType() string {
	if info, ok := formatTable[f]; ok {
		return info.mime
	}
	return MIMEOctetStream
}

// Extension returns the preferred file extension (without dot), empty for Undefined.
func (f Format) Extension() string {
	return formatTable[f].ext
}

// MIMETypeForExtension resolves a file extension ("png", ".png") through the
// system MIME registry, falling back to the known image formats.
func MIMETypeForExtension(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if ext == "" {
		return MIMEOctetStream
	}
	if t := mime.TypeByExtension("." + ext); t != "" {
		if mt, _, err := mime.ParseMediaType(t); err == nil {
			return mt
		}
		return t
	}
	if f := ParseFormat(ext); f != Undefined {
		return f.MIMEType()
	}
	return MIMEOctetStream
}
