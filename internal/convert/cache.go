package convert

import (
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Raikerian/go-ltc-stamp/pkg/timecode"
)

// TrackKey identifies a synthesized timecode track.
type TrackKey struct {
	DurationMs float64
	SampleRate int
	Config     timecode.Config
}

// TrackCache holds recently synthesized timecode tracks. Batches of takes
// with the same length and settings reuse one synthesis.
type TrackCache struct {
	*lru.Cache[TrackKey, []float64]
}

// NewTrackCache creates a new TrackCache with the given size.
func NewTrackCache(size int) (*TrackCache, error) {
	lruCache, err := lru.New[TrackKey, []float64](size)
	if err != nil {
		return nil, err
	}

	return &TrackCache{
		Cache: lruCache,
	}, nil
}

// Add stores a copy of track.
func (tc *TrackCache) Add(key TrackKey, track []float64) {
	tc.Cache.Add(key, slices.Clone(track))
}

// Get returns a copy of the cached track, which the caller owns.
func (tc *TrackCache) Get(key TrackKey) ([]float64, bool) {
	track, ok := tc.Cache.Get(key)
	if !ok {
		return nil, false
	}
	return slices.Clone(track), true
}
