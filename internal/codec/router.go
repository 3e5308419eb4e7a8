package codec

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/Raikerian/go-ltc-stamp/pkg/audio"
)

// RoutingDecoder picks a decoder by file extension.
type RoutingDecoder struct {
	logger *zap.Logger
	wav    Decoder
	ffmpeg Decoder
}

// NewRoutingDecoder creates a RoutingDecoder from its two backends.
func NewRoutingDecoder(logger *zap.Logger, wav, ffmpeg Decoder) *RoutingDecoder {
	return &RoutingDecoder{logger: logger, wav: wav, ffmpeg: ffmpeg}
}

// Decode dispatches path to the WAV or ffmpeg backend. WAV files the WAV
// backend cannot read as integer PCM, such as IEEE float, go to ffmpeg.
func (r *RoutingDecoder) Decode(ctx context.Context, path string) (*audio.Source, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch {
	case slices.Contains(WAVExtensions, ext):
		r.logger.Debug("Using WAV decoder", zap.String("path", path))
		src, err := r.wav.Decode(ctx, path)
		if errors.Is(err, ErrNotIntegerPCM) {
			r.logger.Debug("WAV is not integer PCM, using ffmpeg decoder", zap.String("path", path), zap.Error(err))
			return r.ffmpeg.Decode(ctx, path)
		}
		return src, err
	case slices.Contains(FFmpegExtensions, ext):
		r.logger.Debug("Using ffmpeg decoder", zap.String("path", path))
		return r.ffmpeg.Decode(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
