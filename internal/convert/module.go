package convert

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Raikerian/go-ltc-stamp/internal/config"
)

const defaultTrackCacheSize = 16

// Module provides the conversion service and its track cache.
var Module = fx.Module("convert",
	fx.Provide(
		NewTrackCacheProvider,
		NewService,
	),
)

// NewTrackCacheProvider creates a TrackCache with config-derived size.
func NewTrackCacheProvider(cfg *config.Config, logger *zap.Logger) (*TrackCache, error) {
	size := cfg.Cache.TimecodeTracks
	if size <= 0 {
		logger.Warn("Timecode track cache size is not configured or is invalid, defaulting",
			zap.Int("configuredSize", size),
			zap.Int("defaultSize", defaultTrackCacheSize))
		size = defaultTrackCacheSize
	}
	logger.Debug("Creating TrackCache", zap.Int("size", size))

	return NewTrackCache(size)
}
