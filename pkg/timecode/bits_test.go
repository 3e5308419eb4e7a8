package timecode_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raikerian/go-ltc-stamp/pkg/timecode"
)

const syncWordBits = "0011111111111101"

func TestEncodeFrame_FirstFrame(t *testing.T) {
	bits, err := timecode.EncodeFrame(0, timecode.DefaultConfig())
	require.NoError(t, err)

	s := bits.String()
	assert.Len(t, s, timecode.BitsPerFrame)
	assert.Equal(t, 71, timecode.BitsPerFrame)
	assert.True(t, strings.HasSuffix(s, syncWordBits))
	assert.Equal(t, strings.Repeat("0", 55)+syncWordBits, s)
}

func TestPackFields_Layout(t *testing.T) {
	bits, err := timecode.PackFields(timecode.Fields{Hours: 23, Minutes: 59, Seconds: 58, Frames: 29})
	require.NoError(t, err)

	s := bits.String()
	assert.Equal(t, "011101", s[0:6], "frames")
	assert.Equal(t, "111010", s[6:12], "seconds")
	assert.Equal(t, "111011", s[12:18], "minutes")
	assert.Equal(t, "10111", s[18:23], "hours")
	assert.Equal(t, strings.Repeat("0", 32), s[23:55], "user bits")
	assert.Equal(t, syncWordBits, s[55:], "sync word")
}

func TestEncodeFrame_AlwaysSeventyOneBits(t *testing.T) {
	for _, rate := range timecode.StandardFrameRates {
		cfg := timecode.Config{FrameRate: rate, DropFrame: true, Volume: 1}
		for _, f := range []int{0, 1, 59, 1799, 17982, 107892, 2589407} {
			bits, err := timecode.EncodeFrame(f, cfg)
			require.NoError(t, err, "rate %v frame %d", rate, f)
			s := bits.String()
			assert.Len(t, s, 71)
			assert.True(t, strings.HasSuffix(s, syncWordBits))
			for _, b := range bits {
				assert.LessOrEqual(t, b, uint8(1))
			}
		}
	}
}

func TestPackFields_Overflow(t *testing.T) {
	tests := map[string]timecode.Fields{
		"frames_64":        {Frames: 64},
		"seconds_64":       {Seconds: 64},
		"minutes_64":       {Minutes: 64},
		"hours_32":         {Hours: 32},
		"negative_frames":  {Frames: -1},
		"negative_hours":   {Hours: -3},
	}

	for name, fields := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := timecode.PackFields(fields)
			assert.ErrorIs(t, err, timecode.ErrArithmeticOverflow)
		})
	}

	_, err := timecode.PackFields(timecode.Fields{Hours: 31, Minutes: 63, Seconds: 63, Frames: 63})
	assert.NoError(t, err, "maximum values fit their widths")
}

func TestEncodeFrame_RateTooHighOverflows(t *testing.T) {
	cfg := timecode.Config{FrameRate: 100, Volume: 1}

	_, err := timecode.EncodeFrame(63, cfg)
	require.NoError(t, err)

	_, err = timecode.EncodeFrame(64, cfg)
	assert.ErrorIs(t, err, timecode.ErrArithmeticOverflow)
}
