package frame

import (
	"image"
	"time"
)

// GCD returns the greatest common divisor of a and b, with GCD(0, x) == x.
func GCD(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Flatten expands frames into a uniform-tick animation. Durations are
// truncated to whole milliseconds, the tick is their GCD and each bitmap is
// repeated duration/tick times (at least once). The total duration is kept.
//
// Flatten and Unflatten are only approximately inverse: sub-millisecond
// precision is lost, and consecutive frames sharing one bitmap merge.
//
// The expansion is not capped. Coprime delays such as 11ms, 12ms and 65535s
// yield tens of millions of image references; FlattenedLen reports the
// count up front.
func Flatten(frames []Frame) Animation {
	if len(frames) == 0 {
		return Animation{}
	}

	ms := make([]int64, len(frames))
	var g, total int64
	for i, f := range frames {
		ms[i] = max(f.Duration.Milliseconds(), 0)
		g = GCD(g, ms[i])
		total += ms[i]
	}

	images := make([]image.Image, 0, len(frames))
	for i, f := range frames {
		repeat := int64(1)
		if g != 0 {
			repeat = max(ms[i]/g, 1)
		}
		for range repeat {
			images = append(images, f.Image)
		}
	}
	return Animation{
		Images:   images,
		Duration: time.Duration(total) * time.Millisecond,
	}
}

// FlattenedLen returns the number of images Flatten would produce.
func FlattenedLen(frames []Frame) int64 {
	var g int64
	for _, f := range frames {
		g = GCD(g, max(f.Duration.Milliseconds(), 0))
	}
	var n int64
	for _, f := range frames {
		if g == 0 {
			n++
			continue
		}
		n += max(max(f.Duration.Milliseconds(), 0)/g, 1)
	}
	return n
}

// Unflatten merges runs of the same consecutive bitmap into single frames.
// Each run lasts tick*runLength, where the tick is the animation's average
// duration per image, or DefaultTick if that average is not positive.
func Unflatten(a Animation) []Frame {
	if len(a.Images) == 0 {
		return nil
	}
	tick := a.Tick()
	if tick <= 0 {
		tick = DefaultTick
	}

	var frames []Frame
	start := 0
	for i := 1; i <= len(a.Images); i++ {
		if i < len(a.Images) && SameImage(a.Images[i], a.Images[start]) {
			continue
		}
		frames = append(frames, Frame{
			Image:    a.Images[start],
			Duration: tick * time.Duration(i-start),
		})
		start = i
	}
	return frames
}
