package audio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// LEToPCMInt16 converts raw little-endian bytes to int16 samples. A trailing
// odd byte is ignored.
func LEToPCMInt16(b []byte) []int16 {
	out := make([]int16, len(b)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(b[2*i:]))
	}
	return out
}

// PCMInt16ToInts widens int16 samples.
func PCMInt16ToInts(samples []int16) []int {
	out := make([]int, len(samples))
	for i, v := range samples {
		out[i] = int(v)
	}
	return out
}

// Deinterleave splits interleaved integer PCM into per-channel float slices in
// [-1,1], dividing by 2^(bitDepth-1). A trailing partial frame is dropped.
func Deinterleave(samples []int, channels, bitDepth int) ([][]float64, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count %d", channels)
	}
	if bitDepth < 8 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	div := float64(int64(1) << (bitDepth - 1))
	frames := len(samples) / channels
	out := make([][]float64, channels)
	for c := range out {
		out[c] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			out[c][i] = float64(samples[i*channels+c]) / div
		}
	}
	return out, nil
}

// Quantize converts a [-1,1] sample to integer PCM at bitDepth, clipping first
// and rounding to nearest. At 16 bits full scale is 32767.
func Quantize(v float64, bitDepth int) int {
	return int(math.Round(clip(v) * float64(FullScale(bitDepth))))
}

// QuantizeInterleaved quantizes equal-length channels into one interleaved
// integer buffer.
func QuantizeInterleaved(channels [][]float64, bitDepth int) ([]int, error) {
	if err := ValidateBitDepth(bitDepth); err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		return nil, nil
	}

	frames := len(channels[0])
	for c, ch := range channels {
		if len(ch) != frames {
			return nil, fmt.Errorf("%w: channel %d has %d samples, want %d", ErrLengthMismatch, c, len(ch), frames)
		}
	}

	out := make([]int, frames*len(channels))
	for i := 0; i < frames; i++ {
		for c, ch := range channels {
			out[i*len(channels)+c] = Quantize(ch[i], bitDepth)
		}
	}
	return out, nil
}
