package timecode

import "errors"

var (
	// ErrInvalidConfiguration is returned when a duration, sample rate or Config
	// cannot produce at least one frame of at least one sample.
	ErrInvalidConfiguration = errors.New("invalid timecode configuration")

	// ErrArithmeticOverflow is returned when a timecode field does not fit the
	// fixed width reserved for it in the frame bit layout.
	ErrArithmeticOverflow = errors.New("timecode field overflows its bit width")

	// ErrInvalidSymbol is returned by BiphaseDecode for a symbol pair that is
	// neither [+1,-1] nor [-1,+1].
	ErrInvalidSymbol = errors.New("invalid biphase symbol pair")
)
