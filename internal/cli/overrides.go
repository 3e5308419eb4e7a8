package cli

import (
	"github.com/spf13/cobra"

	"github.com/Raikerian/go-ltc-stamp/internal/config"
)

// overrides holds flag values that replace configuration file settings when
// the flag is set explicitly.
type overrides struct {
	logLevel    string
	frameRate   string
	dropFrame   bool
	signal      string
	volume      float64
	profile     string
	bitDepth    int
	outputDir   string
	suffix      string
	saveMixdown bool
}

func (o *overrides) timecodeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.frameRate, "fps", "30", "frame rate: 24, 25, 29.97, 30, 50, 59.94 or 60")
	f.BoolVar(&o.dropFrame, "drop-frame", false, "use drop-frame counting (29.97 and 59.94 only)")
	f.StringVar(&o.signal, "signal", "sine", "signal shape: sine, square or modulated")
	f.Float64Var(&o.volume, "volume", 0.5, "timecode volume, 0 to 1")
}

func (o *overrides) outputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.profile, "profile", "equal_power", "downmix profile: equal_power or weighted_sum")
	f.IntVar(&o.bitDepth, "bit-depth", 16, "output bit depth: 16, 24 or 32")
	f.StringVarP(&o.outputDir, "output-dir", "o", "", "output directory (default: next to each input)")
	f.StringVar(&o.suffix, "suffix", "processed", "output file name suffix")
	f.BoolVar(&o.saveMixdown, "save-mixdown", false, "also write the stereo downmix as <name>_mixed_<time>.wav")
}

// override returns a config.Override that copies every explicitly set flag.
func (o *overrides) override(cmd *cobra.Command) config.Override {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	return func(cfg *config.Config) {
		if changed("log-level") {
			cfg.LogLevel = o.logLevel
		}
		if changed("fps") {
			cfg.Timecode.FrameRate = o.frameRate
		}
		if changed("drop-frame") {
			cfg.Timecode.DropFrame = o.dropFrame
		}
		if changed("signal") {
			cfg.Timecode.SignalShape = o.signal
		}
		if changed("volume") {
			cfg.Timecode.Volume = o.volume
		}
		if changed("profile") {
			cfg.Mixdown.Profile = o.profile
		}
		if changed("bit-depth") {
			cfg.Output.BitDepth = o.bitDepth
		}
		if changed("output-dir") {
			cfg.Output.Directory = o.outputDir
		}
		if changed("suffix") {
			cfg.Output.Suffix = o.suffix
		}
		if changed("save-mixdown") {
			cfg.Mixdown.SaveMixdown = o.saveMixdown
		}
	}
}
