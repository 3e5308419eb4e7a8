package codec

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeRun struct {
	probe    string
	pcm      []byte
	probeErr error
	calls    [][]string
}

func (f *fakeRun) run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if name == "ffprobe" {
		return []byte(f.probe), f.probeErr
	}
	return f.pcm, nil
}

func pcm16(samples ...int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

func newTestFFmpegDecoder(t *testing.T, f *fakeRun) *FFmpegDecoder {
	d := NewFFmpegDecoder(zaptest.NewLogger(t))
	d.run = f.run
	return d
}

func TestFFmpegDecoder_Stereo(t *testing.T) {
	f := &fakeRun{
		probe: `{"streams":[{"sample_rate":"44100","channels":2}]}`,
		pcm:   pcm16(16384, -16384, 0, 8192),
	}

	src, err := newTestFFmpegDecoder(t, f).Decode(context.Background(), "song.mp3")
	require.NoError(t, err)

	assert.Equal(t, 44100, src.SampleRate)
	assert.Equal(t, 16, src.BitDepth)
	assert.Equal(t, [][]float64{{0.5, 0}, {-0.5, 0.25}}, src.Channels)

	require.Len(t, f.calls, 2)
	assert.Equal(t, "ffprobe", f.calls[0][0])
	assert.Equal(t, "ffmpeg", f.calls[1][0])
	assert.Contains(t, f.calls[1], "44100")
	assert.Equal(t, "pipe:1", f.calls[1][len(f.calls[1])-1])
}

func TestFFmpegDecoder_Errors(t *testing.T) {
	tests := map[string]struct {
		run    *fakeRun
		target error
	}{
		"ffprobe_fails": {run: &fakeRun{probeErr: errors.New("exit status 1")}},
		"bad_json":      {run: &fakeRun{probe: "{"}},
		"no_stream":     {run: &fakeRun{probe: `{"streams":[]}`}, target: ErrUnsupportedFormat},
		"bad_rate":      {run: &fakeRun{probe: `{"streams":[{"sample_rate":"N/A","channels":2}]}`}, target: ErrUnsupportedFormat},
		"surround":      {run: &fakeRun{probe: `{"streams":[{"sample_rate":"48000","channels":6}]}`}, target: ErrUnsupportedChannels},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := newTestFFmpegDecoder(t, tt.run).Decode(context.Background(), "in.flac")
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}
