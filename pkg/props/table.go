package props

import (
	"time"

	"github.com/jpfielding/animcodec.go/pkg/imgfmt"
)

// Format dictionary names.
const (
	GIFDictionary   = "{GIF}"
	PNGDictionary   = "{PNG}"
	HEICSDictionary = "{HEICS}"
	WebPDictionary  = "{WebP}"
)

// Keys inside the GIF dictionary.
const (
	GIFDelayTime          = "DelayTime"
	GIFUnclampedDelayTime = "UnclampedDelayTime"
	GIFLoopCount          = "LoopCount"
)

// Keys inside the PNG dictionary (APNG).
const (
	APNGDelayTime          = "DelayTime"
	APNGUnclampedDelayTime = "UnclampedDelayTime"
	APNGLoopCount          = "LoopCount"
)

// Keys inside the HEICS dictionary (HEIC and HEIF image sequences).
const (
	HEICSDelayTime          = "DelayTime"
	HEICSUnclampedDelayTime = "UnclampedDelayTime"
	HEICSLoopCount          = "LoopCount"
)

// Keys inside the WebP dictionary.
const (
	WebPDelayTime          = "DelayTime"
	WebPUnclampedDelayTime = "UnclampedDelayTime"
	WebPLoopCount          = "LoopCount"
)

// Keys names the property keys an animated format uses for timing metadata.
type Keys struct {
	Dictionary       string
	Delay            string
	UnclampedDelay   string
	LoopCount        string
	DefaultLoopCount int
}

// Table maps formats to their animation keys. Formats without an entry are
// always treated as single-frame.
type Table struct {
	entries map[imgfmt.Format]Keys
}

// NewTable builds the key table. The WebP entry only exists when the host
// can decode animated WebP.
func NewTable(supportsAnimatedWebP bool) Table {
	heics := Keys{
		Dictionary:     HEICSDictionary,
		Delay:          HEICSDelayTime,
		UnclampedDelay: HEICSUnclampedDelayTime,
		LoopCount:      HEICSLoopCount,
	}
	entries := map[imgfmt.Format]Keys{
		imgfmt.GIF: {
			Dictionary:       GIFDictionary,
			Delay:            GIFDelayTime,
			UnclampedDelay:   GIFUnclampedDelayTime,
			LoopCount:        GIFLoopCount,
			DefaultLoopCount: 1,
		},
		imgfmt.PNG: {
			Dictionary:     PNGDictionary,
			Delay:          APNGDelayTime,
			UnclampedDelay: APNGUnclampedDelayTime,
			LoopCount:      APNGLoopCount,
		},
		imgfmt.HEIC: heics,
		imgfmt.HEIF: heics,
	}
	if supportsAnimatedWebP {
		entries[imgfmt.WebP] = Keys{
			Dictionary:     WebPDictionary,
			Delay:          WebPDelayTime,
			UnclampedDelay: WebPUnclampedDelayTime,
			LoopCount:      WebPLoopCount,
		}
	}
	return Table{entries: entries}
}

// Lookup returns the keys for f.
func (t Table) Lookup(f imgfmt.Format) (Keys, bool) {
	k, ok := t.entries[f]
	return k, ok
}

// Animatable reports whether f has animation keys.
func (t Table) Animatable(f imgfmt.Format) bool {
	_, ok := t.entries[f]
	return ok
}

// DictionaryKey returns the format dictionary name for f.
func (t Table) DictionaryKey(f imgfmt.Format) (string, bool) {
	k, ok := t.entries[f]
	return k.Dictionary, ok
}

// DelayKey returns the clamped delay key for f.
func (t Table) DelayKey(f imgfmt.Format) (string, bool) {
	k, ok := t.entries[f]
	return k.Delay, ok
}

// UnclampedDelayKey returns the unclamped delay key for f.
func (t Table) UnclampedDelayKey(f imgfmt.Format) (string, bool) {
	k, ok := t.entries[f]
	return k.UnclampedDelay, ok
}

// LoopCountKey returns the loop count key for f.
func (t Table) LoopCountKey(f imgfmt.Format) (string, bool) {
	k, ok := t.entries[f]
	return k.LoopCount, ok
}

// DefaultLoopCount returns the loop count assumed when a container omits
// it: 1 for GIF, 0 (forever) otherwise.
func (t Table) DefaultLoopCount(f imgfmt.Format) int {
	return t.entries[f].DefaultLoopCount
}

// FrameDelay reads a frame's delay from its properties, preferring the
// unclamped value.
func (k Keys) FrameDelay(frame Properties) (time.Duration, bool) {
	d := frame.Dict(k.Dictionary)
	if d == nil {
		return 0, false
	}
	if v, ok := d.Seconds(k.UnclampedDelay); ok {
		return v, true
	}
	return d.Seconds(k.Delay)
}

// ContainerLoopCount reads the loop count from container-level properties,
// falling back to DefaultLoopCount.
func (k Keys) ContainerLoopCount(container Properties) int {
	if d := container.Dict(k.Dictionary); d != nil {
		if n, ok := d.Int(k.LoopCount); ok && n >= 0 {
			return n
		}
	}
	return k.DefaultLoopCount
}

// SetDelay stores a frame delay in seconds under the format dictionary.
func (k Keys) SetDelay(frame Properties, d time.Duration) {
	frame.Nest(k.Dictionary)[k.Delay] = d.Seconds()
}

// SetLoopCount stores the loop count under the format dictionary.
func (k Keys) SetLoopCount(container Properties, n int) {
	container.Nest(k.Dictionary)[k.LoopCount] = n
}
