// Package audio holds the channel downmix and the PCM conversions used when
// pairing a reference channel with a timecode track.
package audio

import (
	"errors"
	"fmt"
)

// Output bit depths for integer PCM.
const (
	BitDepth16 = 16
	BitDepth24 = 24
	BitDepth32 = 32

	DefaultBitDepth = BitDepth16
)

// ErrUnsupportedBitDepth is returned for bit depths other than 16, 24 and 32.
var ErrUnsupportedBitDepth = errors.New("unsupported bit depth")

// ValidateBitDepth reports whether bitDepth can be written.
func ValidateBitDepth(bitDepth int) error {
	switch bitDepth {
	case BitDepth16, BitDepth24, BitDepth32:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
}

// FullScale is the largest positive integer sample at bitDepth, e.g. 32767
// for 16-bit PCM.
func FullScale(bitDepth int) int {
	return 1<<(bitDepth-1) - 1
}

// Source is decoded audio, one slice per channel, samples within [-1,1].
// It is produced by a decoder and only read by this package.
type Source struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float64
}

// NumChannels returns the channel count.
func (s *Source) NumChannels() int {
	return len(s.Channels)
}

// Frames returns the number of samples per channel.
func (s *Source) Frames() int {
	if len(s.Channels) == 0 {
		return 0
	}
	return len(s.Channels[0])
}

// DurationMs returns the length of the source in milliseconds.
func (s *Source) DurationMs() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(s.Frames()) * 1000 / float64(s.SampleRate)
}
