// Package props holds the property dictionaries exchanged with container
// decoders and encoders, and the per-format table of animation keys.
package props

import (
	"math"
	"time"
)

// Properties is a container or frame property dictionary. Nested format
// dictionaries are stored as Properties under their dictionary key.
type Properties map[string]any

// Image-level keys shared by every format.
const (
	PixelWidth              = "PixelWidth"
	PixelHeight             = "PixelHeight"
	HasAlpha                = "HasAlpha"
	Orientation             = "Orientation"
	LossyCompressionQuality = "LossyCompressionQuality"
	EmbedThumbnail          = "EmbedThumbnail"
	FrameCount              = "FrameCount"
)

// Dict returns the nested dictionary stored under key, or nil.
func (p Properties) Dict(key string) Properties {
	switch d := p[key].(type) {
	case Properties:
		return d
	case map[string]any:
		return d
	}
	return nil
}

// Float returns a numeric value as float64.
func (p Properties) Float(key string) (float64, bool) {
	switch v := p[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	}
	return 0, false
}

// Int returns a numeric value truncated to int.
func (p Properties) Int(key string) (int, bool) {
	v, ok := p.Float(key)
	return int(v), ok
}

// Bool returns a boolean value; missing keys are false.
func (p Properties) Bool(key string) bool {
	b, _ := p[key].(bool)
	return b
}

// Seconds returns a value in seconds as a time.Duration.
func (p Properties) Seconds(key string) (time.Duration, bool) {
	v, ok := p.Float(key)
	if !ok {
		return 0, false
	}
	return time.Duration(math.Round(v * float64(time.Second))), true
}

// Nest returns a dictionary holding p under key, creating it if needed.
func (p Properties) Nest(key string) Properties {
	if d := p.Dict(key); d != nil {
		return d
	}
	d := Properties{}
	p[key] = d
	return d
}
