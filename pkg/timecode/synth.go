package timecode

import (
	"fmt"
	"math"
)

// CarrierFrequency is the sine carrier used by ShapeSine and ShapeModulated.
const CarrierFrequency = 1000.0 // Hz

// Layout describes how a synthesis run divides its buffer.
type Layout struct {
	TotalFrames     int
	TotalSamples    int
	SamplesPerFrame int
	SamplesPerBit   int
	FrameDuration   float64 // seconds
}

// PlanLayout computes the buffer layout for a run without rendering it.
func PlanLayout(durationMs float64, sampleRate int, cfg Config) (Layout, error) {
	if !(durationMs > 0) || math.IsInf(durationMs, 0) {
		return Layout{}, fmt.Errorf("%w: duration must be positive, got %v ms", ErrInvalidConfiguration, durationMs)
	}
	if sampleRate <= 0 {
		return Layout{}, fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidConfiguration, sampleRate)
	}
	if err := cfg.Validate(); err != nil {
		return Layout{}, err
	}

	durationS := durationMs / 1000
	totalFrames := floorCount(durationMs * float64(cfg.FrameRate) / 1000)
	if totalFrames <= 0 {
		return Layout{}, fmt.Errorf("%w: %v ms holds no frame at %v fps", ErrInvalidConfiguration, durationMs, cfg.FrameRate)
	}

	totalSamples := floorCount(float64(sampleRate) * durationMs / 1000)
	samplesPerFrame := totalSamples / totalFrames
	if samplesPerFrame <= 0 {
		return Layout{}, fmt.Errorf("%w: %d Hz is too low for %v fps", ErrInvalidConfiguration, sampleRate, cfg.FrameRate)
	}

	return Layout{
		TotalFrames:     totalFrames,
		TotalSamples:    totalSamples,
		SamplesPerFrame: samplesPerFrame,
		SamplesPerBit:   max(1, samplesPerFrame/SymbolsPerFrame),
		FrameDuration:   durationS / float64(totalFrames),
	}, nil
}

// floorCount floors x, treating a value within rounding error of an integer as
// that integer. A duration computed as n*1000/rate then maps back to n.
func floorCount(x float64) int {
	if r := math.Round(x); math.Abs(x-r) <= 1e-12*math.Max(1, math.Abs(x)) {
		return int(r)
	}
	return int(math.Floor(x))
}

// Synthesize renders a mono timecode track of floor(sampleRate*durationMs/1000)
// samples, one biphase frame per video frame, peak-normalized and scaled by
// cfg.Volume. On error no buffer is returned.
func Synthesize(durationMs float64, sampleRate int, cfg Config, opts ...Option) ([]float64, error) {
	o := options{progress: nopReporter{}}
	for _, opt := range opts {
		opt(&o)
	}

	layout, err := PlanLayout(durationMs, sampleRate, cfg)
	if err != nil {
		return nil, err
	}

	var carrier []float64
	if cfg.Shape != ShapeSquare {
		carrier = sineCarrier(layout.SamplesPerFrame, layout.FrameDuration)
	}

	output := make([]float64, layout.TotalSamples)
	frame := make([]float64, layout.SamplesPerFrame)
	step := max(1, layout.TotalFrames/100)

	o.progress.Report(0, StageEncoding)
	for f := 0; f < layout.TotalFrames; f++ {
		bits, err := EncodeFrame(f, cfg)
		if err != nil {
			return nil, err
		}
		renderFrame(frame, BiphaseEncode(bits), layout.SamplesPerBit, carrier)

		start := f * layout.SamplesPerFrame
		if start >= len(output) {
			break
		}
		copy(output[start:], frame)

		if (f+1)%step == 0 {
			o.progress.Report((f+1)*90/layout.TotalFrames, StageEncoding)
		}
	}

	o.progress.Report(90, StageNormalizing)
	normalize(output, cfg.Volume)
	o.progress.Report(100, StageDone)

	return output, nil
}

// sineCarrier samples a CarrierFrequency sine at n points spanning
// [0, frameDuration).
func sineCarrier(n int, frameDuration float64) []float64 {
	carrier := make([]float64, n)
	dt := frameDuration / float64(n)
	for k := range carrier {
		carrier[k] = math.Sin(2 * math.Pi * CarrierFrequency * float64(k) * dt)
	}
	return carrier
}

// renderFrame writes one frame into dst, each symbol repeated samplesPerBit
// times and optionally multiplied by carrier. Samples past the rendered
// symbols are zero.
func renderFrame(dst []float64, symbols SymbolSequence, samplesPerBit int, carrier []float64) {
	n := min(len(dst), SymbolsPerFrame*samplesPerBit)
	if carrier != nil {
		n = min(n, len(carrier))
	}
	for i := 0; i < n; i++ {
		v := float64(symbols[i/samplesPerBit])
		if carrier != nil {
			v *= carrier[i]
		}
		dst[i] = v
	}
	clear(dst[n:])
}

// normalize scales buf so its peak magnitude equals volume. A silent buffer
// is left untouched.
func normalize(buf []float64, volume float64) {
	peak := 0.0
	for _, v := range buf {
		peak = max(peak, math.Abs(v))
	}
	if peak == 0 {
		return
	}
	for i := range buf {
		buf[i] = buf[i] / peak * volume
	}
}
