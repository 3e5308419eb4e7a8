package codec

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"

	"go.uber.org/zap"

	"github.com/Raikerian/go-ltc-stamp/pkg/audio"
)

// runFunc executes an external command and returns its stdout.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// FFmpegDecoder decodes compressed containers by probing the stream with
// ffprobe and piping 16-bit little-endian PCM out of ffmpeg at the source's
// own rate and channel count.
type FFmpegDecoder struct {
	logger  *zap.Logger
	ffmpeg  string
	ffprobe string
	run     runFunc
}

// NewFFmpegDecoder creates an FFmpegDecoder using ffmpeg and ffprobe from PATH.
func NewFFmpegDecoder(logger *zap.Logger) *FFmpegDecoder {
	return &FFmpegDecoder{
		logger:  logger,
		ffmpeg:  "ffmpeg",
		ffprobe: "ffprobe",
		run:     runCommand,
	}
}

type probeResult struct {
	Streams []struct {
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
}

// Decode runs ffprobe then ffmpeg on path.
func (d *FFmpegDecoder) Decode(ctx context.Context, path string) (*audio.Source, error) {
	sampleRate, channels, err := d.probe(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := checkChannels(path, channels); err != nil {
		return nil, err
	}

	d.logger.Debug("Decoding with ffmpeg",
		zap.String("path", path),
		zap.Int("sample_rate", sampleRate),
		zap.Int("channels", channels))

	out, err := d.run(ctx, d.ffmpeg,
		"-i", path,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(sampleRate),
		"-ac", strconv.Itoa(channels),
		"-loglevel", "error",
		"pipe:1",
	)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg decode %s: %w", path, err)
	}

	samples, err := audio.Deinterleave(audio.PCMInt16ToInts(audio.LEToPCMInt16(out)), channels, audio.BitDepth16)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg decode %s: %w", path, err)
	}

	return &audio.Source{
		SampleRate: sampleRate,
		BitDepth:   audio.BitDepth16,
		Channels:   samples,
	}, nil
}

func (d *FFmpegDecoder) probe(ctx context.Context, path string) (int, int, error) {
	out, err := d.run(ctx, d.ffprobe,
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=sample_rate,channels",
		"-of", "json",
		path,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var res probeResult
	if err := json.Unmarshal(out, &res); err != nil {
		return 0, 0, fmt.Errorf("ffprobe %s: parse output: %w", path, err)
	}
	if len(res.Streams) == 0 {
		return 0, 0, fmt.Errorf("%w: %s has no audio stream", ErrUnsupportedFormat, path)
	}

	stream := res.Streams[0]
	sampleRate, err := strconv.Atoi(stream.SampleRate)
	if err != nil || sampleRate <= 0 {
		return 0, 0, fmt.Errorf("%w: %s reports sample rate %q", ErrUnsupportedFormat, path, stream.SampleRate)
	}

	return sampleRate, stream.Channels, nil
}
