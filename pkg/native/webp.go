package native

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"time"

	"github.com/HugoSmits86/nativewebp"
	gwebp "github.com/gen2brain/webp"
	"github.com/jpfielding/animcodec.go/pkg/imgfmt"
	"github.com/jpfielding/animcodec.go/pkg/props"
	"golang.org/x/image/webp"
)

// VP8X flag bits.
const (
	webpFlagAnimation = 1 << 1
	webpFlagEXIF      = 1 << 3
	webpFlagAlpha     = 1 << 4
)

// ANMF flag bits.
const (
	anmfDisposeBackground = 1 << 0
	anmfNoBlend           = 1 << 1
	anmfHeaderSize        = 16
)

const webpMinDelay = 11 * time.Millisecond

type riffChunk struct {
	fourCC string
	data   []byte
}

// readRIFFChunks returns the chunks following a RIFF/WEBP header, or the
// sub-chunks of an ANMF payload when header is false.
func readRIFFChunks(data []byte, header bool) ([]riffChunk, error) {
	pos := 0
	if header {
		if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
			return nil, fmt.Errorf("webp: bad RIFF header")
		}
		if n := int(binary.LittleEndian.Uint32(data[4:8])) + 8; n < len(data) {
			data = data[:n]
		}
		pos = 12
	}
	var chunks []riffChunk
	for pos+8 <= len(data) {
		n := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		end := pos + 8 + n
		if n < 0 || end > len(data) {
			return nil, fmt.Errorf("webp: chunk %q: %w", data[pos:pos+4], ErrTruncated)
		}
		chunks = append(chunks, riffChunk{fourCC: string(data[pos : pos+4]), data: data[pos+8 : end]})
		pos = end + n&1
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("webp: %w", ErrNoFrames)
	}
	return chunks, nil
}

func writeRIFFChunk(buf *bytes.Buffer, fourCC string, data []byte) {
	buf.WriteString(fourCC)
	binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
	if len(data)&1 == 1 {
		buf.WriteByte(0)
	}
}

func uint24(b []byte) int {
	return int(b[0]) | int(b[1])<<8 | int(b[2])<<16
}

func putUint24(b []byte, v int) {
	b[0], b[1], b[2] = byte(v), byte(v>>8), byte(v>>16)
}

func openWebP(data []byte) (*source, error) {
	chunks, err := readRIFFChunks(data, true)
	if err != nil {
		return nil, err
	}
	first := chunks[0]
	if first.fourCC != "VP8X" || len(first.data) < 10 || first.data[0]&webpFlagAnimation == 0 {
		cfg, err := webp.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("webp: %w", err)
		}
		return stillSource(imgfmt.WebP, cfg, webpOrientation(chunks), func() (image.Image, error) {
			return webp.Decode(bytes.NewReader(data))
		}), nil
	}

	width := uint24(first.data[4:7]) + 1
	height := uint24(first.data[7:10]) + 1
	alpha := first.data[0]&webpFlagAlpha != 0
	keys := formatKeys(imgfmt.WebP)
	container := props.Properties{}

	var (
		raws   []rawFrame
		bodies [][]riffChunk
		fps    []props.Properties
	)
	for _, c := range chunks[1:] {
		switch c.fourCC {
		case "ANIM":
			if len(c.data) >= 6 {
				keys.SetLoopCount(container, int(binary.LittleEndian.Uint16(c.data[4:6])))
			}
		case "ANMF":
			if len(c.data) < anmfHeaderSize {
				return nil, fmt.Errorf("webp: ANMF: %w", ErrTruncated)
			}
			x, y := uint24(c.data[0:3])*2, uint24(c.data[3:6])*2
			w, h := uint24(c.data[6:9])+1, uint24(c.data[9:12])+1
			flags := c.data[15]
			raw := rawFrame{
				bounds: image.Rect(x, y, x+w, y+h),
				delay:  time.Duration(uint24(c.data[12:15])) * time.Millisecond,
				over:   flags&anmfNoBlend == 0,
			}
			if flags&anmfDisposeBackground != 0 {
				raw.dispose = disposeBackground
			}
			sub, err := readRIFFChunks(c.data[anmfHeaderSize:], false)
			if err != nil {
				// keep the slot; the frame reports the error when decoded
				sub = nil
			}
			raws = append(raws, raw)
			bodies = append(bodies, sub)
			fps = append(fps, frameProperties(width, height, alpha, delayDictionary(imgfmt.WebP, raw.delay, webpMinDelay)))
		}
	}
	if len(raws) == 0 {
		return nil, fmt.Errorf("webp: %w", ErrNoFrames)
	}
	container[props.FrameCount] = len(raws)

	comp, err := newCompositor(width, height, raws, func(i int) (image.Image, error) {
		if bodies[i] == nil {
			return nil, fmt.Errorf("webp: frame %d: %w", i, ErrTruncated)
		}
		img, err := webp.Decode(bytes.NewReader(frameWebP(raws[i].bounds, bodies[i])))
		if err != nil {
			return nil, fmt.Errorf("webp: frame %d: %w", i, err)
		}
		return img, nil
	})
	if err != nil {
		return nil, fmt.Errorf("webp: %w", err)
	}
	return &source{
		format:    imgfmt.WebP,
		container: container,
		frames:    fps,
		decode:    comp.frame,
	}, nil
}

// frameWebP wraps the bitstream chunks of one ANMF frame as a standalone
// WebP file. Frames with an ALPH chunk need the extended layout.
func frameWebP(r image.Rectangle, body []riffChunk) []byte {
	var payload bytes.Buffer
	payload.WriteString("WEBP")
	var alph bool
	for _, c := range body {
		if c.fourCC == "ALPH" {
			alph = true
		}
	}
	if alph {
		vp8x := make([]byte, 10)
		vp8x[0] = webpFlagAlpha
		putUint24(vp8x[4:7], r.Dx()-1)
		putUint24(vp8x[7:10], r.Dy()-1)
		writeRIFFChunk(&payload, "VP8X", vp8x)
	}
	for _, c := range body {
		switch c.fourCC {
		case "ALPH", "VP8 ", "VP8L":
			writeRIFFChunk(&payload, c.fourCC, c.data)
		}
	}
	var out bytes.Buffer
	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(payload.Len()))
	out.Write(payload.Bytes())
	return out.Bytes()
}

func webpOrientation(chunks []riffChunk) imgfmt.ExifOrientation {
	if chunks[0].fourCC != "VP8X" || len(chunks[0].data) < 1 || chunks[0].data[0]&webpFlagEXIF == 0 {
		return 0
	}
	for _, c := range chunks {
		if c.fourCC == "EXIF" {
			return tiffOrientation(bytes.TrimPrefix(c.data, exifHeader))
		}
	}
	return 0
}

// encodeWebP writes lossless WebP unless a single frame asks for a quality
// below 1; several frames become a lossless animation.
func encodeWebP(d *destination) ([]byte, error) {
	var buf bytes.Buffer
	if len(d.frames) == 1 {
		if q := d.quality(0); q < 1 {
			opts := gwebp.Options{Quality: int(q * 100)}
			if err := gwebp.Encode(&buf, d.frames[0].img, opts); err != nil {
				return nil, fmt.Errorf("webp: %w", err)
			}
			return buf.Bytes(), nil
		}
		if err := nativewebp.Encode(&buf, d.frames[0].img, nil); err != nil {
			return nil, fmt.Errorf("webp: %w", err)
		}
		return buf.Bytes(), nil
	}

	keys := formatKeys(imgfmt.WebP)
	loops, _ := d.container.Dict(keys.Dictionary).Int(keys.LoopCount)
	ani := &nativewebp.Animation{
		LoopCount: uint16(min(max(loops, 0), 0xffff)),
	}
	for _, f := range d.frames {
		delay, _ := f.props.Dict(keys.Dictionary).Seconds(keys.Delay)
		ani.Images = append(ani.Images, f.img)
		ani.Durations = append(ani.Durations, uint(delay.Milliseconds()))
		ani.Disposals = append(ani.Disposals, 0)
	}
	if err := nativewebp.EncodeAll(&buf, ani, nil); err != nil {
		return nil, fmt.Errorf("webp: %w", err)
	}
	return buf.Bytes(), nil
}
