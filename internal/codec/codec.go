// Package codec reads source recordings and writes converted files. It is the
// only package that touches the filesystem or external decoders.
package codec

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Raikerian/go-ltc-stamp/pkg/audio"
)

var (
	// ErrUnsupportedFormat is returned for files no decoder accepts.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrNotIntegerPCM is returned by WAVDecoder for WAV files holding float or
	// compressed data. It wraps ErrUnsupportedFormat.
	ErrNotIntegerPCM = fmt.Errorf("%w: WAV data is not integer PCM", ErrUnsupportedFormat)

	// ErrUnsupportedChannels is returned for sources with no channels or more
	// than two.
	ErrUnsupportedChannels = errors.New("unsupported channel count")
)

// MaxChannels is the largest channel count a source may have.
const MaxChannels = 2

// Extensions accepted by the default decoder.
var (
	WAVExtensions    = []string{".wav", ".wave"}
	FFmpegExtensions = []string{".mp3", ".aac", ".ogg", ".flac", ".m4a"}
)

// Decoder loads a recording into per-channel float samples.
type Decoder interface {
	Decode(ctx context.Context, path string) (*audio.Source, error)
}

// Encoder writes equal-length channels as integer PCM.
type Encoder interface {
	Encode(path string, sampleRate, bitDepth int, channels [][]float64) error
}

// Supported reports whether path has an extension the default decoder reads.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(WAVExtensions, ext) || slices.Contains(FFmpegExtensions, ext)
}

func checkChannels(path string, n int) error {
	if n < 1 || n > MaxChannels {
		return fmt.Errorf("%w: %s has %d channels", ErrUnsupportedChannels, path, n)
	}
	return nil
}
