package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Raikerian/go-ltc-stamp/internal/app"
	"github.com/Raikerian/go-ltc-stamp/internal/codec"
	"github.com/Raikerian/go-ltc-stamp/internal/config"
	"github.com/Raikerian/go-ltc-stamp/internal/convert"
	"github.com/Raikerian/go-ltc-stamp/internal/infrastructure"
	"github.com/Raikerian/go-ltc-stamp/pkg/timecode"
)

func newConvertCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert FILE...",
		Short: "Write <name>_processed_<time>.wav with the reference audio left and timecode right",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if !codec.Supported(path) {
					return fmt.Errorf("%w: %s", codec.ErrUnsupportedFormat, filepath.Base(path))
				}
			}

			application := app.New(
				config.Module(config.Path(opts.configPath), opts.overrides.override(cmd)),
				infrastructure.LoggerModule,
				codec.Module,
				convert.Module,
				fx.WithLogger(infrastructure.NewFxLoggerAdapter),
			)

			results, err := application.Convert(cmd.Context(), args, newStageReporter(cmd.ErrOrStderr()))
			for _, res := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%v fps)\n", res.Input, res.Output, res.FrameRate)
				if res.MixdownOutput != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (mixdown)\n", res.Input, res.MixdownOutput)
				}
			}
			return err
		},
	}

	opts.overrides.timecodeFlags(cmd)
	opts.overrides.outputFlags(cmd)

	return cmd
}

// newStageReporter prints one line per stage change.
func newStageReporter(w io.Writer) timecode.ProgressReporter {
	last := ""
	return timecode.ProgressFunc(func(percent int, stage string) {
		if stage == last {
			return
		}
		last = stage
		fmt.Fprintf(w, "[%3d%%] %s\n", percent, stage)
	})
}
