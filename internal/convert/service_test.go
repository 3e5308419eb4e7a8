package convert

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/Raikerian/go-ltc-stamp/internal/codec"
	"github.com/Raikerian/go-ltc-stamp/internal/codec/codecmock"
	"github.com/Raikerian/go-ltc-stamp/internal/config"
	"github.com/Raikerian/go-ltc-stamp/pkg/audio"
	"github.com/Raikerian/go-ltc-stamp/pkg/timecode"
)

var fixedNow = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func toneSource(sampleRate, frames, channels int) *audio.Source {
	src := &audio.Source{SampleRate: sampleRate, BitDepth: 16}
	for c := 0; c < channels; c++ {
		ch := make([]float64, frames)
		for i := range ch {
			ch[i] = 0.4 * math.Sin(2*math.Pi*float64(220*(c+1))*float64(i)/float64(sampleRate))
		}
		src.Channels = append(src.Channels, ch)
	}
	return src
}

type testService struct {
	*Service
	decoder *codecmock.Decoder
	encoder *codecmock.Encoder
}

func createTestService(t *testing.T, mutate func(*config.Config)) testService {
	t.Helper()

	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	cache, err := NewTrackCache(4)
	require.NoError(t, err)

	dec := &codecmock.Decoder{}
	enc := &codecmock.Encoder{}
	svc, err := NewService(ServiceParams{
		Logger:  zaptest.NewLogger(t),
		Cfg:     cfg,
		Decoder: dec,
		Encoder: enc,
		Cache:   cache,
	})
	require.NoError(t, err)
	svc.now = func() time.Time { return fixedNow }

	return testService{Service: svc, decoder: dec, encoder: enc}
}

func peak(buf []float64) float64 { return audio.Peak(buf) }

func TestNewService_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Timecode.FrameRate = "23.976"

	_, err := NewService(ServiceParams{Logger: zap.NewNop(), Cfg: cfg})
	assert.ErrorIs(t, err, timecode.ErrInvalidConfiguration)
}

func TestService_ProcessStereo(t *testing.T) {
	svc := createTestService(t, nil)

	out, err := svc.Process(toneSource(48000, 48000, 2), nil)
	require.NoError(t, err)

	require.Len(t, out.Channels, 2)
	assert.Len(t, out.Channels[0], 48000)
	assert.Len(t, out.Channels[1], 48000)
	assert.InDelta(t, 0.5, peak(out.Channels[1]), 1e-9, "timecode is normalized to the configured volume")
	assert.LessOrEqual(t, peak(out.Channels[0]), 1.0)
	assert.Equal(t, timecode.FPS30, out.FrameRate)
	require.NotNil(t, out.Mixdown)
	assert.Equal(t, audio.ProfileEqualPower, out.Mixdown.Profile)
	assert.False(t, out.CacheHit)
}

func TestService_ProcessWeightedSum(t *testing.T) {
	svc := createTestService(t, func(cfg *config.Config) { cfg.Mixdown.Profile = "weighted_sum" })

	src := toneSource(8000, 8000, 2)
	out, err := svc.Process(src, nil)
	require.NoError(t, err)

	require.Len(t, out.Mixdown.Channels, 1)
	assert.InDelta(t, peak(src.Channels[0]), peak(out.Channels[0]), 1e-12)
}

func TestService_ProcessMono(t *testing.T) {
	svc := createTestService(t, nil)

	src := toneSource(8000, 4000, 1)
	out, err := svc.Process(src, nil)
	require.NoError(t, err)

	assert.Nil(t, out.Mixdown)
	assert.Equal(t, src.Channels[0], out.Channels[0])
	assert.Len(t, out.Channels[1], 4000)
}

func TestService_ProcessErrors(t *testing.T) {
	svc := createTestService(t, nil)

	_, err := svc.Process(toneSource(48000, 100, 3), nil)
	assert.ErrorIs(t, err, codec.ErrUnsupportedChannels)

	// 5 ms holds no frame at 30 fps.
	_, err = svc.Process(toneSource(48000, 240, 2), nil)
	assert.ErrorIs(t, err, timecode.ErrInvalidConfiguration)

	src := toneSource(48000, 480, 2)
	src.Channels[1] = src.Channels[1][:100]
	_, err = svc.Process(src, nil)
	assert.ErrorIs(t, err, audio.ErrLengthMismatch)
}

func TestService_ProcessUsesCache(t *testing.T) {
	svc := createTestService(t, nil)

	first, err := svc.Process(toneSource(8000, 8000, 2), nil)
	require.NoError(t, err)
	second, err := svc.Process(toneSource(8000, 8000, 2), nil)
	require.NoError(t, err)

	assert.False(t, first.CacheHit)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Channels[1], second.Channels[1])

	second.Channels[1][0] = 42
	third, err := svc.Process(toneSource(8000, 8000, 2), nil)
	require.NoError(t, err)
	assert.NotEqual(t, 42.0, third.Channels[1][0])
}

func TestService_Convert(t *testing.T) {
	svc := createTestService(t, nil)

	const input = "/recordings/take1.mp3"
	const output = "/recordings/take1_processed_20240102_030405.wav"

	svc.decoder.On("Decode", mock.Anything, input).Return(toneSource(48000, 48000, 2), nil)
	svc.encoder.On("Encode", output, 48000, 16, mock.MatchedBy(func(ch [][]float64) bool {
		return len(ch) == 2 && len(ch[0]) == 48000 && len(ch[1]) == 48000
	})).Return(nil)

	var percents []int
	var stages []string
	reporter := timecode.ProgressFunc(func(p int, stage string) {
		percents = append(percents, p)
		stages = append(stages, stage)
	})

	res, err := svc.Convert(context.Background(), input, reporter)
	require.NoError(t, err)

	assert.Equal(t, input, res.Input)
	assert.Equal(t, output, res.Output)
	assert.Empty(t, res.MixdownOutput)
	assert.Equal(t, 48000, res.SampleRate)
	assert.Equal(t, 2, res.Channels)
	assert.Equal(t, 48000, res.Frames)
	assert.Equal(t, timecode.FPS30, res.FrameRate)

	for i := 1; i < len(percents); i++ {
		assert.GreaterOrEqual(t, percents[i], percents[i-1])
	}
	assert.Equal(t, 10, percents[0])
	assert.Equal(t, 100, percents[len(percents)-1])
	for _, stage := range []string{StageLoading, StageChannels, StageTimecode, StageMerging, StageSaving, StageDone} {
		assert.Contains(t, stages, stage)
	}

	svc.decoder.AssertExpectations(t)
	svc.encoder.AssertExpectations(t)
}

func TestService_ConvertSavesMixdown(t *testing.T) {
	svc := createTestService(t, func(cfg *config.Config) {
		cfg.Mixdown.SaveMixdown = true
		cfg.Output.Directory = "/out"
		cfg.Output.BitDepth = 24
	})

	svc.decoder.On("Decode", mock.Anything, "in/take2.wav").Return(toneSource(8000, 8000, 2), nil)
	svc.encoder.On("Encode", "/out/take2_processed_20240102_030405.wav", 8000, 24, mock.Anything).Return(nil)
	svc.encoder.On("Encode", "/out/take2_mixed_20240102_030405.wav", 8000, 24, mock.MatchedBy(func(ch [][]float64) bool {
		return len(ch) == 2 && peak(ch[1]) == 0
	})).Return(nil)

	res, err := svc.Convert(context.Background(), "in/take2.wav", nil)
	require.NoError(t, err)
	assert.Equal(t, "/out/take2_mixed_20240102_030405.wav", res.MixdownOutput)

	svc.encoder.AssertExpectations(t)
}

func TestService_ConvertErrors(t *testing.T) {
	t.Run("decode", func(t *testing.T) {
		svc := createTestService(t, nil)
		svc.decoder.On("Decode", mock.Anything, "bad.wav").Return(nil, codec.ErrUnsupportedFormat)

		_, err := svc.Convert(context.Background(), "bad.wav", nil)
		assert.ErrorIs(t, err, codec.ErrUnsupportedFormat)
		svc.encoder.AssertNotCalled(t, "Encode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("encode", func(t *testing.T) {
		svc := createTestService(t, nil)
		diskFull := errors.New("no space left on device")
		svc.decoder.On("Decode", mock.Anything, "a.wav").Return(toneSource(8000, 8000, 1), nil)
		svc.encoder.On("Encode", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(diskFull)

		_, err := svc.Convert(context.Background(), "a.wav", nil)
		assert.ErrorIs(t, err, diskFull)
	})

	t.Run("too_short", func(t *testing.T) {
		svc := createTestService(t, nil)
		svc.decoder.On("Decode", mock.Anything, "blip.wav").Return(toneSource(48000, 100, 2), nil)

		_, err := svc.Convert(context.Background(), "blip.wav", nil)
		assert.ErrorIs(t, err, timecode.ErrInvalidConfiguration)
		svc.encoder.AssertNotCalled(t, "Encode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_ConvertAll(t *testing.T) {
	svc := createTestService(t, nil)
	svc.decoder.On("Decode", mock.Anything, "good.wav").Return(toneSource(8000, 8000, 2), nil)
	svc.decoder.On("Decode", mock.Anything, "bad.wav").Return(nil, codec.ErrUnsupportedFormat)
	svc.encoder.On("Encode", mock.Anything, 8000, 16, mock.Anything).Return(nil)

	results, err := svc.ConvertAll(context.Background(), []string{"bad.wav", "good.wav"}, nil)
	assert.ErrorIs(t, err, codec.ErrUnsupportedFormat)
	require.Len(t, results, 1)
	assert.Equal(t, "good.wav", results[0].Input)
}

func TestService_ConvertAllCancelled(t *testing.T) {
	svc := createTestService(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := svc.ConvertAll(ctx, []string{"a.wav", "b.wav"}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
	svc.decoder.AssertNotCalled(t, "Decode", mock.Anything, mock.Anything)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "/a/b/song_processed_20240102_030405.wav", OutputPath("/a/b/song.flac", "", "processed", fixedNow))
	assert.Equal(t, "/out/song.v2_ltc_20240102_030405.wav", OutputPath("/a/song.v2.wav", "/out", "ltc", fixedNow))
}

func TestModule(t *testing.T) {
	app := fxtest.New(t,
		fx.Supply(config.Default(), zap.NewNop()),
		fx.Provide(
			func() codec.Decoder { return &codecmock.Decoder{} },
			func() codec.Encoder { return &codecmock.Encoder{} },
		),
		Module,
		fx.Invoke(func(svc *Service, cache *TrackCache) {
			assert.NotNil(t, svc)
			assert.NotNil(t, cache)
			assert.Equal(t, timecode.DefaultConfig(), svc.TimecodeConfig())
		}),
	)

	app.RequireStart()
	app.RequireStop()
}
