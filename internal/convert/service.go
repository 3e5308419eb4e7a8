// Package convert pairs a source recording's reference channel with a
// synthesized timecode track and writes the result as a stereo file.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Raikerian/go-ltc-stamp/internal/codec"
	"github.com/Raikerian/go-ltc-stamp/internal/config"
	"github.com/Raikerian/go-ltc-stamp/pkg/audio"
	"github.com/Raikerian/go-ltc-stamp/pkg/timecode"
)

const timestampLayout = "20060102_150405"

// Output is the in-memory result of processing one source.
type Output struct {
	// Channels holds the reference audio (0) and the timecode track (1).
	Channels  [][]float64
	Mixdown   *audio.Mixdown // nil for mono sources
	FrameRate timecode.FrameRate
	CacheHit  bool
}

// Result describes one converted file.
type Result struct {
	Input         string
	Output        string
	MixdownOutput string
	SampleRate    int
	Channels      int
	Frames        int
	FrameRate     timecode.FrameRate
	CacheHit      bool
	Elapsed       time.Duration
}

// Service runs conversions. It holds no per-conversion state; the cache is
// the only thing shared between calls.
type Service struct {
	logger   *zap.Logger
	cfg      *config.Config
	timecode timecode.Config
	profile  audio.DownmixProfile
	decoder  codec.Decoder
	encoder  codec.Encoder
	cache    *TrackCache
	now      func() time.Time
}

// ServiceParams holds the dependencies of NewService.
type ServiceParams struct {
	fx.In
	Logger  *zap.Logger
	Cfg     *config.Config
	Decoder codec.Decoder
	Encoder codec.Encoder
	Cache   *TrackCache `optional:"true"`
}

// NewService creates a Service from validated configuration.
func NewService(params ServiceParams) (*Service, error) {
	if err := params.Cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	tc, err := params.Cfg.TimecodeConfig()
	if err != nil {
		return nil, err
	}
	profile, err := params.Cfg.DownmixProfile()
	if err != nil {
		return nil, err
	}

	return &Service{
		logger:   params.Logger,
		cfg:      params.Cfg,
		timecode: tc,
		profile:  profile,
		decoder:  params.Decoder,
		encoder:  params.Encoder,
		cache:    params.Cache,
		now:      time.Now,
	}, nil
}

// TimecodeConfig returns the timecode settings in effect.
func (s *Service) TimecodeConfig() timecode.Config {
	return s.timecode
}

// Process downmixes src to a reference channel, synthesizes the timecode
// track for its duration and aligns the two. It does no I/O.
func (s *Service) Process(src *audio.Source, reporter timecode.ProgressReporter) (*Output, error) {
	rep := timecode.Monotonic(Tee(reporter))

	rep.Report(progressChannel, StageChannels)
	var (
		reference []float64
		mixdown   *audio.Mixdown
	)
	switch src.NumChannels() {
	case 1:
		reference = src.Channels[0]
	case 2:
		m, err := audio.Downmix(s.profile, src.Channels[0], src.Channels[1])
		if err != nil {
			return nil, err
		}
		mixdown = &m
		reference = m.Reference()
	default:
		return nil, fmt.Errorf("%w: %d", codec.ErrUnsupportedChannels, src.NumChannels())
	}

	rep.Report(progressTC, StageTimecode)
	track, hit, err := s.track(src.DurationMs(), src.SampleRate, band(rep, progressTC, progressMerge, StageTimecode))
	if err != nil {
		return nil, err
	}

	rep.Report(progressMerge, StageMerging)
	if len(track) != len(reference) {
		s.logger.Debug("Aligning timecode track to reference",
			zap.Int("track_samples", len(track)),
			zap.Int("reference_samples", len(reference)))
	}

	return &Output{
		Channels:  audio.Pair(reference, track),
		Mixdown:   mixdown,
		FrameRate: s.timecode.FrameRate,
		CacheHit:  hit,
	}, nil
}

func (s *Service) track(durationMs float64, sampleRate int, reporter timecode.ProgressReporter) ([]float64, bool, error) {
	key := TrackKey{DurationMs: durationMs, SampleRate: sampleRate, Config: s.timecode}
	if s.cache != nil {
		if track, ok := s.cache.Get(key); ok {
			return track, true, nil
		}
	}

	track, err := timecode.Synthesize(durationMs, sampleRate, s.timecode, timecode.WithProgress(reporter))
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		s.cache.Add(key, track)
	}
	return track, false, nil
}

// Convert decodes path, processes it and writes the paired file. On error no
// output file is left behind.
func (s *Service) Convert(ctx context.Context, path string, reporter timecode.ProgressReporter) (*Result, error) {
	start := time.Now()
	logger := s.logger.With(zap.String("path", path))
	rep := timecode.Monotonic(Tee(&logReporter{logger: logger}, reporter))

	rep.Report(progressLoading, StageLoading)
	src, err := s.decoder.Decode(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	logger.Info("Loaded source",
		zap.Int("sample_rate", src.SampleRate),
		zap.Int("channels", src.NumChannels()),
		zap.Int("bit_depth", src.BitDepth),
		zap.Float64("duration_ms", src.DurationMs()))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := s.Process(src, rep)
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", path, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep.Report(progressSave, StageSaving)
	stamp := s.now()
	result := &Result{
		Input:      path,
		Output:     OutputPath(path, s.cfg.Output.Directory, s.cfg.Output.Suffix, stamp),
		SampleRate: src.SampleRate,
		Channels:   src.NumChannels(),
		Frames:     len(out.Channels[0]),
		FrameRate:  out.FrameRate,
		CacheHit:   out.CacheHit,
	}

	if err := s.encoder.Encode(result.Output, src.SampleRate, s.cfg.Output.BitDepth, out.Channels); err != nil {
		return nil, fmt.Errorf("encode %s: %w", result.Output, err)
	}

	if s.cfg.Mixdown.SaveMixdown && out.Mixdown != nil {
		result.MixdownOutput = OutputPath(path, s.cfg.Output.Directory, "mixed", stamp)
		if err := s.encoder.Encode(result.MixdownOutput, src.SampleRate, s.cfg.Output.BitDepth, out.Mixdown.Channels); err != nil {
			if rmErr := os.Remove(result.Output); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				logger.Warn("Failed to remove output", zap.String("output", result.Output), zap.Error(rmErr))
			}
			return nil, fmt.Errorf("encode %s: %w", result.MixdownOutput, err)
		}
	}

	rep.Report(progressDone, StageDone)
	result.Elapsed = time.Since(start)
	logger.Info("Conversion finished",
		zap.String("output", result.Output),
		zap.Stringer("frame_rate", result.FrameRate),
		zap.Bool("cache_hit", result.CacheHit),
		zap.Duration("elapsed", result.Elapsed))

	return result, nil
}

// ConvertAll converts each path in order. A failing file does not stop the
// batch; its error is joined into the returned error. Cancelling ctx stops
// before the next file.
func (s *Service) ConvertAll(ctx context.Context, paths []string, reporter timecode.ProgressReporter) ([]*Result, error) {
	var (
		results []*Result
		errs    []error
	)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		res, err := s.Convert(ctx, path, reporter)
		if err != nil {
			s.logger.Error("Conversion failed", zap.String("path", path), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}

	return results, errors.Join(errs...)
}

// OutputPath builds <dir>/<base>_<suffix>_<timestamp>.wav. An empty dir means
// the input's directory.
func OutputPath(input, dir, suffix string, stamp time.Time) string {
	if dir == "" {
		dir = filepath.Dir(input)
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, fmt.Sprintf("%s_%s_%s.wav", base, suffix, stamp.Format(timestampLayout)))
}
