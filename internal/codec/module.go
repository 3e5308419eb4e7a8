package codec

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the Decoder and Encoder collaborators.
var Module = fx.Module("codec",
	fx.Provide(
		NewDecoder,
		NewEncoder,
	),
)

// NewDecoder builds the default extension-routed decoder.
func NewDecoder(logger *zap.Logger) Decoder {
	return NewRoutingDecoder(logger, NewWAVDecoder(), NewFFmpegDecoder(logger))
}

// NewEncoder builds the default WAV encoder.
func NewEncoder() Encoder {
	return NewWAVEncoder()
}
