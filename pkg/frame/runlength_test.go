package frame

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBitmap() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 2, 2))
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func TestGCD(t *testing.T) {
	tests := []struct {
		a, b, want int64
	}{
		{0, 0, 0},
		{0, 7, 7},
		{7, 0, 7},
		{100, 200, 100},
		{120, 80, 40},
		{17, 5, 1},
		{-12, 8, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GCD(tt.a, tt.b), "GCD(%d, %d)", tt.a, tt.b)
	}
}

func TestFlatten(t *testing.T) {
	a, b, c := newBitmap(), newBitmap(), newBitmap()

	t.Run("Empty", func(t *testing.T) {
		anim := Flatten(nil)
		assert.Empty(t, anim.Images)
		assert.Zero(t, anim.Tick())
	})

	t.Run("SingleFrame", func(t *testing.T) {
		anim := Flatten([]Frame{{Image: a, Duration: ms(100)}})
		require.Len(t, anim.Images, 1)
		assert.Same(t, a, anim.Images[0])
		assert.Equal(t, ms(100), anim.Tick())
	})

	t.Run("GCDExpansion", func(t *testing.T) {
		anim := Flatten([]Frame{
			{Image: a, Duration: ms(100)},
			{Image: b, Duration: ms(200)},
			{Image: c, Duration: ms(100)},
		})
		require.Len(t, anim.Images, 4)
		assert.Same(t, a, anim.Images[0])
		assert.Same(t, b, anim.Images[1])
		assert.Same(t, b, anim.Images[2])
		assert.Same(t, c, anim.Images[3])
		assert.Equal(t, ms(100), anim.Tick())
		assert.Equal(t, ms(400), anim.Duration)
	})

	t.Run("TruncatesToMilliseconds", func(t *testing.T) {
		anim := Flatten([]Frame{
			{Image: a, Duration: ms(30) + 900*time.Microsecond},
			{Image: b, Duration: ms(60)},
		})
		require.Len(t, anim.Images, 3)
		assert.Equal(t, ms(30), anim.Tick())
	})

	t.Run("AllZero", func(t *testing.T) {
		anim := Flatten([]Frame{{Image: a}, {Image: b}})
		assert.Len(t, anim.Images, 2, "every frame appears at least once")
		assert.Zero(t, anim.Duration)
	})

	t.Run("ZeroAmongNonZero", func(t *testing.T) {
		anim := Flatten([]Frame{{Image: a, Duration: ms(50)}, {Image: b}})
		require.Len(t, anim.Images, 2)
		assert.Same(t, b, anim.Images[1])
	})
}

func TestUnflatten(t *testing.T) {
	a, b, c := newBitmap(), newBitmap(), newBitmap()

	t.Run("Empty", func(t *testing.T) {
		assert.Empty(t, Unflatten(Animation{}))
	})

	t.Run("SingleImage", func(t *testing.T) {
		frames := Unflatten(Animation{Images: []image.Image{a}, Duration: ms(100)})
		require.Len(t, frames, 1)
		assert.Same(t, a, frames[0].Image)
		assert.Equal(t, ms(100), frames[0].Duration)
	})

	t.Run("FinalRunFlushed", func(t *testing.T) {
		frames := Unflatten(Animation{Images: []image.Image{a, b, c, c, c}, Duration: ms(500)})
		require.Len(t, frames, 3)
		assert.Same(t, c, frames[2].Image)
		assert.Equal(t, []time.Duration{ms(100), ms(100), ms(300)}, Durations(frames))
	})

	t.Run("AllSame", func(t *testing.T) {
		frames := Unflatten(Animation{Images: []image.Image{a, a, a}, Duration: ms(300)})
		require.Len(t, frames, 1)
		assert.Equal(t, ms(300), frames[0].Duration)
	})

	t.Run("ZeroDurationUsesDefault", func(t *testing.T) {
		frames := Unflatten(Animation{Images: []image.Image{a, b, b}})
		require.Len(t, frames, 2)
		assert.Equal(t, DefaultTick, frames[0].Duration)
		assert.Equal(t, 2*DefaultTick, frames[1].Duration)
	})

	t.Run("NegativeDurationUsesDefault", func(t *testing.T) {
		frames := Unflatten(Animation{Images: []image.Image{a}, Duration: -time.Second})
		require.Len(t, frames, 1)
		assert.Equal(t, DefaultTick, frames[0].Duration)
	})

	t.Run("NonRepeatingAlternation", func(t *testing.T) {
		frames := Unflatten(Animation{Images: []image.Image{a, b, a}, Duration: ms(300)})
		assert.Len(t, frames, 3)
	})
}

func TestFlattenUnflattenRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		durations []time.Duration
	}{
		{"Aligned", []time.Duration{ms(100), ms(200), ms(100)}},
		{"Uniform", []time.Duration{ms(40), ms(40), ms(40), ms(40)}},
		{"Single", []time.Duration{ms(70)}},
		{"CoPrime", []time.Duration{ms(30), ms(70)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frames := make([]Frame, len(tt.durations))
			for i, d := range tt.durations {
				frames[i] = Frame{Image: newBitmap(), Duration: d}
			}
			got := Unflatten(Flatten(frames))
			require.Len(t, got, len(frames))
			assert.Equal(t, tt.durations, Durations(got))
			for i := range got {
				assert.Same(t, frames[i].Image, got[i].Image)
			}
		})
	}
}

func TestSameImage(t *testing.T) {
	a, b := newBitmap(), newBitmap()
	assert.True(t, SameImage(a, a))
	assert.False(t, SameImage(a, b))
	assert.False(t, SameImage(a, nil))
	assert.True(t, SameImage(nil, nil))
	assert.False(t, SameImage(uncomparable{}, uncomparable{}))
}

// uncomparable is an image.Image whose dynamic type cannot be compared with ==.
type uncomparable struct {
	*image.Uniform
	tags []string
}

func TestTotalDuration(t *testing.T) {
	frames := []Frame{{Duration: ms(10)}, {Duration: ms(20)}}
	assert.Equal(t, ms(30), TotalDuration(frames))
}

func TestFlattenedLen(t *testing.T) {
	a := newBitmap()
	tests := []struct {
		name   string
		delays []int
		want   int64
	}{
		{"Empty", nil, 0},
		{"Uniform", []int{100, 100, 100}, 3},
		{"GCD", []int{100, 200, 100}, 4},
		{"AllZero", []int{0, 0}, 2},
		{"ZeroAmongOthers", []int{0, 50}, 2},
		{"Coprime", []int{11, 12}, 23},
		{"LongCoprime", []int{11, 12, 65535000}, 65535023},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var frames []Frame
			for _, d := range tt.delays {
				frames = append(frames, Frame{Image: a, Duration: ms(d)})
			}
			assert.Equal(t, tt.want, FlattenedLen(frames))
			if tt.want < 1000 {
				assert.Len(t, Flatten(frames).Images, int(tt.want))
			}
		})
	}
}
