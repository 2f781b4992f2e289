package native

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image"
	"image/draw"
	"image/png"
	"math"
	"time"

	"github.com/jpfielding/animcodec.go/pkg/imgfmt"
	"github.com/jpfielding/animcodec.go/pkg/props"
)

const pngSignature = "\x89PNG\r\n\x1a\n"

// APNG fcTL dispose and blend operations.
const (
	apngDisposeNone       = 0
	apngDisposeBackground = 1
	apngDisposePrevious   = 2
	apngBlendOver         = 1
	fcTLSize              = 26
)

// apngMinDelay mirrors the minimum delay below which the clamped delay
// falls back to 100ms.
const apngMinDelay = 11 * time.Millisecond

type pngChunk struct {
	typ  string
	data []byte
}

// readPNGChunks splits a PNG stream into chunks. CRCs are not verified.
func readPNGChunks(data []byte) ([]pngChunk, error) {
	if !bytes.HasPrefix(data, []byte(pngSignature)) {
		return nil, fmt.Errorf("png: bad signature")
	}
	var chunks []pngChunk
	pos := len(pngSignature)
	for pos+8 <= len(data) {
		n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		typ := string(data[pos+4 : pos+8])
		end := pos + 8 + n
		if n < 0 || end+4 > len(data) {
			return nil, fmt.Errorf("png: chunk %q: %w", typ, ErrTruncated)
		}
		chunks = append(chunks, pngChunk{typ: typ, data: data[pos+8 : end]})
		pos = end + 4
		if typ == "IEND" {
			break
		}
	}
	if len(chunks) == 0 || chunks[0].typ != "IHDR" || len(chunks[0].data) != 13 {
		return nil, fmt.Errorf("png: missing IHDR")
	}
	return chunks, nil
}

func writePNGChunk(buf *bytes.Buffer, typ string, data []byte) {
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[:4], uint32(len(data)))
	copy(hdr[4:], typ)
	buf.Write(hdr[:])
	buf.Write(data)
	crc := crc32.NewIEEE()
	crc.Write(hdr[4:])
	crc.Write(data)
	binary.Write(buf, binary.BigEndian, crc.Sum32())
}

// apngFrame is one fcTL and the image data chunks that follow it.
type apngFrame struct {
	raw   rawFrame
	idats [][]byte
}

// sharedPNGChunks are copied into every reconstructed frame.
var sharedPNGChunks = map[string]bool{
	"PLTE": true, "tRNS": true, "gAMA": true, "cHRM": true,
	"sRGB": true, "iCCP": true, "sBIT": true,
}

func openPNG(data []byte) (*source, error) {
	chunks, err := readPNGChunks(data)
	if err != nil {
		return nil, err
	}
	ihdr := chunks[0].data

	var (
		animated bool
		plays    int
		shared   []pngChunk
		frames   []*apngFrame
		current  *apngFrame
		seenData bool
		alpha    = ihdr[9] == 4 || ihdr[9] == 6
	)
	for _, c := range chunks[1:] {
		switch {
		case c.typ == "acTL" && len(c.data) >= 8:
			animated = true
			plays = int(binary.BigEndian.Uint32(c.data[4:8]))
		case c.typ == "fcTL" && len(c.data) >= fcTLSize:
			current = &apngFrame{raw: parseFCTL(c.data)}
			if len(frames) == 0 && current.raw.dispose == disposePrevious {
				current.raw.dispose = disposeBackground
			}
			frames = append(frames, current)
		case c.typ == "IDAT":
			seenData = true
			if current != nil {
				current.idats = append(current.idats, c.data)
			}
		case c.typ == "fdAT" && len(c.data) > 4:
			seenData = true
			if current != nil {
				current.idats = append(current.idats, c.data[4:])
			}
		case sharedPNGChunks[c.typ] && !seenData:
			if c.typ == "tRNS" {
				alpha = true
			}
			shared = append(shared, c)
		}
	}

	if !animated || len(frames) == 0 {
		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("png: %w", err)
		}
		return stillSource(imgfmt.PNG, cfg, 0, func() (image.Image, error) {
			return png.Decode(bytes.NewReader(data))
		}), nil
	}

	width := int(binary.BigEndian.Uint32(ihdr[0:4]))
	height := int(binary.BigEndian.Uint32(ihdr[4:8]))
	keys := formatKeys(imgfmt.PNG)
	container := props.Properties{props.FrameCount: len(frames)}
	keys.SetLoopCount(container, plays)

	raws := make([]rawFrame, len(frames))
	fps := make([]props.Properties, len(frames))
	for i, f := range frames {
		raws[i] = f.raw
		fps[i] = frameProperties(width, height, alpha, delayDictionary(imgfmt.PNG, f.raw.delay, apngMinDelay))
	}
	comp, err := newCompositor(width, height, raws, func(i int) (image.Image, error) {
		f := frames[i]
		if len(f.idats) == 0 {
			return nil, fmt.Errorf("png: frame %d: %w", i, ErrNoFrames)
		}
		return png.Decode(bytes.NewReader(framePNG(ihdr, shared, f)))
	})
	if err != nil {
		return nil, fmt.Errorf("png: %w", err)
	}
	return &source{
		format:    imgfmt.PNG,
		container: container,
		frames:    fps,
		decode:    comp.frame,
	}, nil
}

func parseFCTL(b []byte) rawFrame {
	w := int(binary.BigEndian.Uint32(b[4:8]))
	h := int(binary.BigEndian.Uint32(b[8:12]))
	x := int(binary.BigEndian.Uint32(b[12:16]))
	y := int(binary.BigEndian.Uint32(b[16:20]))
	num := binary.BigEndian.Uint16(b[20:22])
	den := binary.BigEndian.Uint16(b[22:24])
	if den == 0 {
		den = 100
	}
	raw := rawFrame{
		bounds: image.Rect(x, y, x+w, y+h),
		delay:  time.Duration(num) * time.Second / time.Duration(den),
		over:   b[25] == apngBlendOver,
	}
	switch b[24] {
	case apngDisposeBackground:
		raw.dispose = disposeBackground
	case apngDisposePrevious:
		raw.dispose = disposePrevious
	}
	return raw
}

// framePNG rebuilds a standalone PNG for one animation frame.
func framePNG(ihdr []byte, shared []pngChunk, f *apngFrame) []byte {
	var buf bytes.Buffer
	buf.WriteString(pngSignature)
	hdr := append([]byte{}, ihdr...)
	binary.BigEndian.PutUint32(hdr[0:4], uint32(f.raw.bounds.Dx()))
	binary.BigEndian.PutUint32(hdr[4:8], uint32(f.raw.bounds.Dy()))
	writePNGChunk(&buf, "IHDR", hdr)
	for _, c := range shared {
		writePNGChunk(&buf, c.typ, c.data)
	}
	for _, d := range f.idats {
		writePNGChunk(&buf, "IDAT", d)
	}
	writePNGChunk(&buf, "IEND", nil)
	return buf.Bytes()
}

func encodePNG(d *destination) ([]byte, error) {
	if len(d.frames) == 1 {
		var buf bytes.Buffer
		if err := png.Encode(&buf, d.frames[0].img); err != nil {
			return nil, fmt.Errorf("png: %w", err)
		}
		return buf.Bytes(), nil
	}
	return encodeAPNG(d)
}

// encodeAPNG writes every frame as a full-canvas RGBA frame with
// dispose none and blend source.
func encodeAPNG(d *destination) ([]byte, error) {
	keys := formatKeys(imgfmt.PNG)
	plays, _ := d.container.Dict(keys.Dictionary).Int(keys.LoopCount)
	canvas := d.frames[0].img.Bounds()
	canvas = canvas.Sub(canvas.Min)

	var out bytes.Buffer
	out.WriteString(pngSignature)
	var seq uint32
	for i, f := range d.frames {
		nrgba := image.NewNRGBA(canvas)
		draw.Draw(nrgba, canvas, f.img, f.img.Bounds().Min, draw.Src)
		var enc bytes.Buffer
		if err := png.Encode(&enc, nrgba); err != nil {
			return nil, fmt.Errorf("png: frame %d: %w", i, err)
		}
		chunks, err := readPNGChunks(enc.Bytes())
		if err != nil {
			return nil, fmt.Errorf("png: frame %d: %w", i, err)
		}
		if i == 0 {
			writePNGChunk(&out, "IHDR", chunks[0].data)
			actl := make([]byte, 8)
			binary.BigEndian.PutUint32(actl[0:4], uint32(len(d.frames)))
			binary.BigEndian.PutUint32(actl[4:8], uint32(max(plays, 0)))
			writePNGChunk(&out, "acTL", actl)
		}

		delay, _ := f.props.Dict(keys.Dictionary).Seconds(keys.Delay)
		writePNGChunk(&out, "fcTL", fctl(seq, canvas, delay))
		seq++
		for _, c := range chunks {
			if c.typ != "IDAT" {
				continue
			}
			if i == 0 {
				writePNGChunk(&out, "IDAT", c.data)
				continue
			}
			fdat := make([]byte, 4+len(c.data))
			binary.BigEndian.PutUint32(fdat[:4], seq)
			copy(fdat[4:], c.data)
			writePNGChunk(&out, "fdAT", fdat)
			seq++
		}
	}
	writePNGChunk(&out, "IEND", nil)
	return out.Bytes(), nil
}

func fctl(seq uint32, r image.Rectangle, delay time.Duration) []byte {
	b := make([]byte, fcTLSize)
	binary.BigEndian.PutUint32(b[0:4], seq)
	binary.BigEndian.PutUint32(b[4:8], uint32(r.Dx()))
	binary.BigEndian.PutUint32(b[8:12], uint32(r.Dy()))
	num, den := delay.Milliseconds(), int64(1000)
	if num > math.MaxUint16 {
		num, den = int64(math.Round(delay.Seconds()*100)), 100
	}
	binary.BigEndian.PutUint16(b[20:22], uint16(min(num, math.MaxUint16)))
	binary.BigEndian.PutUint16(b[22:24], uint16(den))
	b[24] = apngDisposeNone
	b[25] = 0 // blend source
	return b
}
