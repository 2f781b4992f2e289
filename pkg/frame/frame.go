// Package frame converts between explicit-duration frame lists and the
// flattened uniform-tick representation used for animated bitmaps.
package frame

import (
	"image"
	"reflect"
	"time"
)

// DefaultTick replaces a zero or negative per-tick duration.
const DefaultTick = 100 * time.Millisecond

// Frame is a bitmap and how long it stays on screen before advancing.
// The image is shared with whoever decoded it, not owned by the Frame.
type Frame struct {
	Image    image.Image
	Duration time.Duration
}

// Animation is the flattened form: every tick lasts Duration/len(Images) and
// a bitmap is repeated across consecutive ticks to stay on screen longer.
type Animation struct {
	Images   []image.Image
	Duration time.Duration // total playback time
}

// Tick returns the uniform per-tick duration, zero for an empty animation.
func (a Animation) Tick() time.Duration {
	if len(a.Images) == 0 {
		return 0
	}
	return a.Duration / time.Duration(len(a.Images))
}

// TotalDuration sums the durations of frames.
func TotalDuration(frames []Frame) time.Duration {
	var total time.Duration
	for _, f := range frames {
		total += f.Duration
	}
	return total
}

// Durations returns the per-frame durations in order.
func Durations(frames []Frame) []time.Duration {
	out := make([]time.Duration, len(frames))
	for i, f := range frames {
		out[i] = f.Duration
	}
	return out
}

// SameImage reports whether a and b are the same bitmap. Images whose
// dynamic type is not comparable are never considered the same.
func SameImage(a, b image.Image) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
