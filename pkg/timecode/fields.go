package timecode

import "fmt"

// Fields is the decomposed timecode of one frame.
type Fields struct {
	Hours   int
	Minutes int
	Seconds int
	Frames  int
}

// String formats the fields as HH:MM:SS:FF.
func (f Fields) String() string {
	return fmt.Sprintf("%02d:%02d:%02d:%02d", f.Hours, f.Minutes, f.Seconds, f.Frames)
}

// DroppedFrames returns 2*m - 2*(m/10) for m elapsed minutes. The increment is
// zero at every tenth minute.
func DroppedFrames(totalMinutes int) int {
	return 2*totalMinutes - 2*(totalMinutes/10)
}

// AdjustFrameIndex applies the drop-frame adjustment to frame index f.
//
// The dropped count is added to the index, not subtracted. Decoders built for
// conventional SMPTE drop-frame will read these labels ahead of wall clock.
func AdjustFrameIndex(f int, cfg Config) int {
	if !cfg.dropActive() {
		return f
	}
	totalMinutes := f / (cfg.FrameRate.Base() * 60)
	return f + DroppedFrames(totalMinutes)
}

// FieldsForFrame derives the timecode fields of frame index f, using floor(rate)
// as the frames-per-second divisor.
func FieldsForFrame(f int, cfg Config) Fields {
	fps := cfg.FrameRate.Base()
	actual := AdjustFrameIndex(f, cfg)

	return Fields{
		Hours:   (actual / (fps * 3600)) % 24,
		Minutes: (actual / (fps * 60)) % 60,
		Seconds: (actual / fps) % 60,
		Frames:  actual % fps,
	}
}
