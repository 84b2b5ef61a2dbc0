package indicator

import (
	"fmt"
	"image/color"
	"math"
)

// DefaultMaxPixels bounds a single offscreen buffer (about 64 MiB of RGBA).
const DefaultMaxPixels = 4096 * 4096

// Config holds the immutable rendering parameters of an Indicator.
type Config struct {
	SkyColor          color.Color
	EarthColor        color.Color
	PitchLadderColor  color.Color // horizon line and climb rungs
	GroundLadderColor color.Color // screen-space rungs and chevron
	AircraftColor     color.Color

	PitchLadderWidth  float64
	GroundLadderWidth float64
	AircraftWidth     float64

	// TotalVisiblePitchDegrees is the pitch range spanning the full viewport
	// height. 90 shows 45 degrees nose-up to 45 degrees nose-down.
	TotalVisiblePitchDegrees float64

	// MaxPixels caps width*height of each buffer. Zero disables the cap.
	MaxPixels int
}

// DefaultConfig returns the stock instrument colours and proportions.
func DefaultConfig() Config {
	return Config{
		SkyColor:                 color.NRGBA{0x36, 0xB4, 0xDD, 0xFF},
		EarthColor:               color.NRGBA{0x86, 0x5B, 0x4B, 0xFF},
		PitchLadderColor:         color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF},
		GroundLadderColor:        color.NRGBA{0xFF, 0xFF, 0xFF, 0x80},
		AircraftColor:            color.NRGBA{0xE8, 0xD4, 0xBB, 0xFF},
		PitchLadderWidth:         3,
		GroundLadderWidth:        3,
		AircraftWidth:            5,
		TotalVisiblePitchDegrees: 90,
		MaxPixels:                DefaultMaxPixels,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	colors := []struct {
		name string
		c    color.Color
	}{
		{"sky", c.SkyColor},
		{"earth", c.EarthColor},
		{"pitch ladder", c.PitchLadderColor},
		{"ground ladder", c.GroundLadderColor},
		{"aircraft", c.AircraftColor},
	}
	for _, col := range colors {
		if col.c == nil {
			return fmt.Errorf("%w: %s color is nil", ErrInvalidConfig, col.name)
		}
	}

	widths := []struct {
		name string
		w    float64
	}{
		{"pitch ladder", c.PitchLadderWidth},
		{"ground ladder", c.GroundLadderWidth},
		{"aircraft", c.AircraftWidth},
	}
	for _, w := range widths {
		if w.w <= 0 || math.IsNaN(w.w) || math.IsInf(w.w, 0) {
			return fmt.Errorf("%w: %s width %v", ErrInvalidConfig, w.name, w.w)
		}
	}

	if c.TotalVisiblePitchDegrees <= 0 || math.IsNaN(c.TotalVisiblePitchDegrees) || math.IsInf(c.TotalVisiblePitchDegrees, 0) {
		return fmt.Errorf("%w: total visible pitch %v degrees", ErrInvalidConfig, c.TotalVisiblePitchDegrees)
	}
	if c.MaxPixels < 0 {
		return fmt.Errorf("%w: max pixels %d", ErrInvalidConfig, c.MaxPixels)
	}
	return nil
}
