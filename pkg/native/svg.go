package native

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/jpfielding/animcodec.go/pkg/codec"
	"github.com/jpfielding/animcodec.go/pkg/imgfmt"
)

var errNoRaster = errors.New("svg: no embedded raster image")

// SVGBridge implements codec.SVGBridge for documents that wrap a single
// raster in an <image> element with a data URI. Vector content is not
// rendered.
type SVGBridge struct{}

type svgImage struct {
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
	Href   string `xml:"href,attr"`
}

type svgDocument struct {
	XMLName   xml.Name `xml:"svg"`
	Namespace string   `xml:"xmlns,attr"`
	Width     int      `xml:"width,attr"`
	Height    int      `xml:"height,attr"`
	ViewBox   string   `xml:"viewBox,attr"`
	Image     svgImage `xml:"image"`
}

// Encode embeds img as PNG inside an SVG document of the same size.
func (SVGBridge) Encode(img image.Image) ([]byte, error) {
	var raster bytes.Buffer
	if err := png.Encode(&raster, img); err != nil {
		return nil, fmt.Errorf("svg: %w", err)
	}
	uri, ok := imgfmt.Base64Encode(raster.Bytes())
	if !ok {
		return nil, errNoRaster
	}
	b := img.Bounds()
	doc := svgDocument{
		Namespace: "http://www.w3.org/2000/svg",
		Width:     b.Dx(),
		Height:    b.Dy(),
		ViewBox:   fmt.Sprintf("0 0 %d %d", b.Dx(), b.Dy()),
		Image:     svgImage{Width: b.Dx(), Height: b.Dy(), Href: uri},
	}
	var out bytes.Buffer
	out.WriteString(xml.Header)
	if err := xml.NewEncoder(&out).Encode(doc); err != nil {
		return nil, fmt.Errorf("svg: %w", err)
	}
	out.WriteString("\n")
	return out.Bytes(), nil
}

// Decode extracts the first embedded raster and fits it into size when
// size is non-zero.
func (SVGBridge) Decode(data []byte, size image.Point) (image.Image, error) {
	href, err := firstImageHref(data)
	if err != nil {
		return nil, err
	}
	raster, ok := imgfmt.Base64Decode(href)
	if !ok {
		return nil, errNoRaster
	}

	var img image.Image
	switch f := imgfmt.Detect(raster); f {
	case imgfmt.PNG:
		img, err = png.Decode(bytes.NewReader(raster))
	case imgfmt.JPEG:
		img, err = jpeg.Decode(bytes.NewReader(raster))
	default:
		return nil, fmt.Errorf("svg: %w: embedded %s", ErrUnsupported, f)
	}
	if err != nil {
		return nil, fmt.Errorf("svg: %w", err)
	}

	b := img.Bounds()
	if codec.FitsWithin(b.Dx(), b.Dy(), size) {
		return img, nil
	}
	return downscale(img, codec.ThumbnailPixelSize(b.Dx(), b.Dy(), size)), nil
}

// firstImageHref returns the href (or xlink:href) of the first <image>.
func firstImageHref(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return "", errNoRaster
		}
		if err != nil {
			return "", fmt.Errorf("svg: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "image" {
			continue
		}
		for _, a := range se.Attr {
			if a.Name.Local == "href" {
				return a.Value, nil
			}
		}
	}
}
