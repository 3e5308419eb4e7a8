package timecode

// Synthesis stage labels.
const (
	StageEncoding    = "encoding frames"
	StageNormalizing = "normalizing"
	StageDone        = "done"
)

// ProgressReporter receives advisory progress updates. percent is in [0,100].
type ProgressReporter interface {
	Report(percent int, stage string)
}

// ProgressFunc adapts a function to ProgressReporter.
type ProgressFunc func(percent int, stage string)

// Report calls f.
func (f ProgressFunc) Report(percent int, stage string) { f(percent, stage) }

type nopReporter struct{}

func (nopReporter) Report(int, string) {}

// monotonic drops updates that would move progress backwards or repeat the
// last percentage with the same stage.
type monotonic struct {
	next      ProgressReporter
	last      int
	lastStage string
	started   bool
}

// Monotonic wraps r so it only ever sees increasing percentages clamped to
// [0,100].
func Monotonic(r ProgressReporter) ProgressReporter {
	if r == nil {
		return nopReporter{}
	}
	if m, ok := r.(*monotonic); ok {
		return m
	}
	return &monotonic{next: r}
}

func (m *monotonic) Report(percent int, stage string) {
	percent = max(0, min(100, percent))
	if m.started && (percent < m.last || (percent == m.last && stage == m.lastStage)) {
		return
	}
	m.started = true
	m.last, m.lastStage = percent, stage
	m.next.Report(percent, stage)
}

// Option configures Synthesize.
type Option func(*options)

type options struct {
	progress ProgressReporter
}

// WithProgress sends synthesis progress to r.
func WithProgress(r ProgressReporter) Option {
	return func(o *options) {
		o.progress = Monotonic(r)
	}
}
