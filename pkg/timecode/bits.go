package timecode

import (
	"fmt"
	"strings"
)

// Frame layout, in transmission order.
const (
	FramesWidth  = 6
	SecondsWidth = 6
	MinutesWidth = 6
	HoursWidth   = 5
	UserWidth    = 32
	SyncWidth    = 16

	// BitsPerFrame is the fixed length of every BitSequence.
	BitsPerFrame = FramesWidth + SecondsWidth + MinutesWidth + HoursWidth + UserWidth + SyncWidth

	// SyncWord is 0011111111111101, sent most significant bit first.
	SyncWord uint16 = 0x3FFD
)

// BitSequence holds the 71 bits of one frame, each element 0 or 1.
type BitSequence [BitsPerFrame]uint8

// String renders the sequence as binary digits.
func (b BitSequence) String() string {
	var sb strings.Builder
	sb.Grow(BitsPerFrame)
	for _, bit := range b {
		sb.WriteByte('0' + bit)
	}
	return sb.String()
}

// bitWriter packs unsigned fields MSB first into a BitSequence.
type bitWriter struct {
	seq *BitSequence
	pos int
}

func (w *bitWriter) put(name string, value, width int) error {
	if value < 0 || value >= 1<<width {
		return fmt.Errorf("%w: %s=%d does not fit %d bits", ErrArithmeticOverflow, name, value, width)
	}
	for i := width - 1; i >= 0; i-- {
		w.seq[w.pos] = uint8((value >> i) & 1)
		w.pos++
	}
	return nil
}

// PackFields builds the bit sequence for f. Values that do not fit their
// field return ErrArithmeticOverflow; nothing is truncated.
func PackFields(f Fields) (BitSequence, error) {
	var seq BitSequence
	w := bitWriter{seq: &seq}

	fields := []struct {
		name  string
		value int
		width int
	}{
		{"frames", f.Frames, FramesWidth},
		{"seconds", f.Seconds, SecondsWidth},
		{"minutes", f.Minutes, MinutesWidth},
		{"hours", f.Hours, HoursWidth},
		{"user", 0, UserWidth},
		{"sync", int(SyncWord), SyncWidth},
	}
	for _, field := range fields {
		if err := w.put(field.name, field.value, field.width); err != nil {
			return BitSequence{}, err
		}
	}

	return seq, nil
}

// EncodeFrame returns the bit sequence of frame index f.
func EncodeFrame(f int, cfg Config) (BitSequence, error) {
	seq, err := PackFields(FieldsForFrame(f, cfg))
	if err != nil {
		return BitSequence{}, fmt.Errorf("frame %d: %w", f, err)
	}
	return seq, nil
}
