package convert

import (
	"go.uber.org/zap"

	"github.com/Raikerian/go-ltc-stamp/pkg/timecode"
)

// Conversion stages and the percentage each one starts at.
const (
	StageLoading    = "loading audio file"
	StageChannels   = "processing audio channels"
	StageTimecode   = "generating timecode"
	StageMerging    = "merging channels"
	StageSaving     = "saving file"
	StageDone       = "conversion complete"
	progressLoading = 10
	progressChannel = 30
	progressTC      = 50
	progressMerge   = 70
	progressSave    = 90
	progressDone    = 100
)

type teeReporter []timecode.ProgressReporter

func (t teeReporter) Report(percent int, stage string) {
	for _, r := range t {
		r.Report(percent, stage)
	}
}

// Tee fans progress out to every non-nil reporter.
func Tee(reporters ...timecode.ProgressReporter) timecode.ProgressReporter {
	var out teeReporter
	for _, r := range reporters {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// band maps a 0..100 sub-progress into [lo, hi] of the parent, labelling
// every update with stage.
func band(parent timecode.ProgressReporter, lo, hi int, stage string) timecode.ProgressReporter {
	return timecode.ProgressFunc(func(percent int, _ string) {
		parent.Report(lo+percent*(hi-lo)/100, stage)
	})
}

// logReporter logs each stage change once.
type logReporter struct {
	logger *zap.Logger
	stage  string
}

func (l *logReporter) Report(percent int, stage string) {
	if stage == l.stage {
		return
	}
	l.stage = stage
	l.logger.Info(stage, zap.Int("percent", percent))
}
