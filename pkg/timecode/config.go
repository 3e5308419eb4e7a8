// Package timecode synthesizes a biphase-encoded, LTC-like timecode track.
//
// The frame layout is a simplified 71-bit format, not SMPTE 12M:
//
//	frames(6) seconds(6) minutes(6) hours(5) user(32, zero) sync(16)
//
// Every function in this package is pure. Buffers returned to the caller are
// never retained.
package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FrameRate is a video frame rate in frames per second.
type FrameRate float64

// Supported frame rates.
const (
	FPS24   FrameRate = 24
	FPS25   FrameRate = 25
	FPS2997 FrameRate = 29.97
	FPS30   FrameRate = 30
	FPS50   FrameRate = 50
	FPS5994 FrameRate = 59.94
	FPS60   FrameRate = 60
)

// StandardFrameRates lists the rates accepted by ParseFrameRate.
var StandardFrameRates = []FrameRate{FPS24, FPS25, FPS2997, FPS30, FPS50, FPS5994, FPS60}

// ParseFrameRate parses one of the standard rates ("24", "25", "29.97", "30",
// "50", "59.94", "60").
func ParseFrameRate(s string) (FrameRate, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: frame rate %q: %w", ErrInvalidConfiguration, s, err)
	}
	for _, r := range StandardFrameRates {
		if FrameRate(v) == r {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: unsupported frame rate %q", ErrInvalidConfiguration, s)
}

// Base returns the integer frames-per-second divisor, floor(rate).
func (r FrameRate) Base() int {
	return int(math.Floor(float64(r)))
}

// DropCapable reports whether drop-frame counting applies to this rate.
func (r FrameRate) DropCapable() bool {
	return r == FPS2997 || r == FPS5994
}

func (r FrameRate) String() string {
	return strconv.FormatFloat(float64(r), 'f', -1, 64)
}

// SignalShape selects how biphase symbols are rendered into samples.
type SignalShape int

const (
	// ShapeSine multiplies the symbol steps by a 1 kHz sine carrier.
	ShapeSine SignalShape = iota
	// ShapeSquare renders the symbol steps as a plain ±1 waveform.
	ShapeSquare
	// ShapeModulated is an amplitude-modulated carrier. It currently renders
	// identically to ShapeSine.
	ShapeModulated
)

var shapeNames = map[SignalShape]string{
	ShapeSine:      "sine",
	ShapeSquare:    "square",
	ShapeModulated: "modulated",
}

// ParseSignalShape parses "sine", "square" or "modulated".
func ParseSignalShape(s string) (SignalShape, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for shape, n := range shapeNames {
		if n == name {
			return shape, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown signal shape %q", ErrInvalidConfiguration, s)
}

func (s SignalShape) String() string {
	if n, ok := shapeNames[s]; ok {
		return n
	}
	return fmt.Sprintf("SignalShape(%d)", int(s))
}

// Config holds the parameters of one synthesis run. It is passed by value and
// never modified by this package.
type Config struct {
	FrameRate FrameRate
	DropFrame bool
	Shape     SignalShape
	Volume    float64 // 0..1, applied after peak normalization
}

// DefaultConfig returns 30 fps, non-drop, sine, half volume.
func DefaultConfig() Config {
	return Config{
		FrameRate: FPS30,
		DropFrame: false,
		Shape:     ShapeSine,
		Volume:    0.5,
	}
}

// Validate checks the fields that do not depend on duration or sample rate.
// Any positive frame rate is accepted here; rates whose frame numbers do not
// fit six bits fail later with ErrArithmeticOverflow.
func (c Config) Validate() error {
	if !(c.FrameRate > 0) || math.IsInf(float64(c.FrameRate), 0) {
		return fmt.Errorf("%w: frame rate must be positive, got %v", ErrInvalidConfiguration, float64(c.FrameRate))
	}
	if _, ok := shapeNames[c.Shape]; !ok {
		return fmt.Errorf("%w: unknown signal shape %d", ErrInvalidConfiguration, int(c.Shape))
	}
	if !(c.Volume >= 0 && c.Volume <= 1) {
		return fmt.Errorf("%w: volume must be within [0,1], got %v", ErrInvalidConfiguration, c.Volume)
	}
	return nil
}

// dropActive reports whether the drop-frame adjustment is applied.
func (c Config) dropActive() bool {
	return c.DropFrame && c.FrameRate.DropCapable()
}
