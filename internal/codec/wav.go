package codec

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/Raikerian/go-ltc-stamp/pkg/audio"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE

	// extensibleFmtSize is the size of a WAVE_FORMAT_EXTENSIBLE fmt chunk.
	extensibleFmtSize = 40
)

// WAVDecoder reads integer PCM WAV files, including WAVE_FORMAT_EXTENSIBLE
// files whose sub-format is PCM.
type WAVDecoder struct{}

// NewWAVDecoder creates a WAVDecoder.
func NewWAVDecoder() *WAVDecoder {
	return &WAVDecoder{}
}

// Decode reads the whole file into memory.
func (d *WAVDecoder) Decode(ctx context.Context, path string) (*audio.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s is not a valid WAV file", ErrUnsupportedFormat, path)
	}
	format := dec.WavAudioFormat
	if format == wavFormatExtensible {
		if format, err = extensibleSubFormat(f); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrUnsupportedFormat, path, err)
		}
	}
	if format != wavFormatPCM {
		return nil, fmt.Errorf("%w: %s uses format %d", ErrNotIntegerPCM, path, format)
	}
	if err := audio.ValidateBitDepth(int(dec.BitDepth)); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnsupportedFormat, path, err)
	}

	channels := int(dec.NumChans)
	if err := checkChannels(path, channels); err != nil {
		return nil, err
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	samples, err := audio.Deinterleave(buf.Data, channels, int(dec.BitDepth))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return &audio.Source{
		SampleRate: int(dec.SampleRate),
		BitDepth:   int(dec.BitDepth),
		Channels:   samples,
	}, nil
}

// extensibleSubFormat returns the format code held in the first two bytes of
// the sub-format GUID of a WAVE_FORMAT_EXTENSIBLE fmt chunk.
func extensibleSubFormat(r io.ReaderAt) (uint16, error) {
	var header [12]byte
	if _, err := r.ReadAt(header[:], 0); err != nil {
		return 0, fmt.Errorf("read RIFF header: %w", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return 0, errors.New("not a RIFF WAVE file")
	}

	offset := int64(len(header))
	for {
		var chunk [8]byte
		if _, err := r.ReadAt(chunk[:], offset); err != nil {
			return 0, fmt.Errorf("fmt chunk not found: %w", err)
		}
		size := int64(binary.LittleEndian.Uint32(chunk[4:8]))

		if string(chunk[0:4]) == "fmt " {
			if size < extensibleFmtSize {
				return 0, fmt.Errorf("extensible fmt chunk has %d bytes, want %d", size, extensibleFmtSize)
			}
			var body [extensibleFmtSize]byte
			if _, err := r.ReadAt(body[:], offset+8); err != nil {
				return 0, fmt.Errorf("read fmt chunk: %w", err)
			}
			return binary.LittleEndian.Uint16(body[24:26]), nil
		}

		// Chunks are padded to an even size.
		offset += 8 + size + size&1
	}
}

// WAVEncoder writes integer PCM WAV files at 16, 24 or 32 bits.
type WAVEncoder struct{}

// NewWAVEncoder creates a WAVEncoder.
func NewWAVEncoder() *WAVEncoder {
	return &WAVEncoder{}
}

// Encode quantizes channels and writes them interleaved to path. A partially
// written file is removed on error.
func (e *WAVEncoder) Encode(path string, sampleRate, bitDepth int, channels [][]float64) (err error) {
	if sampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	if err := checkChannels(path, len(channels)); err != nil {
		return err
	}

	data, err := audio.QuantizeInterleaved(channels, bitDepth)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			err = errors.Join(err, removeIfExists(path))
		}
	}()

	enc := wav.NewEncoder(f, sampleRate, bitDepth, len(channels), wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: len(channels),
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", path, err)
	}

	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
