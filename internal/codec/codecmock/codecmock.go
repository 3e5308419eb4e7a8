// Package codecmock provides testify mocks of the codec collaborators.
package codecmock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Raikerian/go-ltc-stamp/pkg/audio"
)

// Decoder is a mock codec.Decoder.
type Decoder struct {
	mock.Mock
}

// Decode records the call and returns the configured source and error.
func (m *Decoder) Decode(ctx context.Context, path string) (*audio.Source, error) {
	args := m.Called(ctx, path)
	src, _ := args.Get(0).(*audio.Source)
	return src, args.Error(1)
}

// Encoder is a mock codec.Encoder.
type Encoder struct {
	mock.Mock
}

// Encode records the call and returns the configured error.
func (m *Encoder) Encode(path string, sampleRate, bitDepth int, channels [][]float64) error {
	return m.Called(path, sampleRate, bitDepth, channels).Error(0)
}
