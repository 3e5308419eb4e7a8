package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Raikerian/go-ltc-stamp/internal/config"
	"github.com/Raikerian/go-ltc-stamp/pkg/timecode"
)

func newBitsCommand(opts *rootOptions) *cobra.Command {
	var frame int

	cmd := &cobra.Command{
		Use:   "bits",
		Short: "Print the timecode fields, bits and biphase symbols of one frame",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if frame < 0 {
				return fmt.Errorf("frame index must not be negative, got %d", frame)
			}

			cfg, err := config.LoadConfig(config.Path(opts.configPath), opts.overrides.override(cmd))
			if err != nil {
				return err
			}
			tc, err := cfg.TimecodeConfig()
			if err != nil {
				return err
			}

			bits, err := timecode.EncodeFrame(frame, tc)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "frame:    %d (%v fps, drop=%t)\n", frame, tc.FrameRate, tc.DropFrame)
			fmt.Fprintf(w, "timecode: %s\n", timecode.FieldsForFrame(frame, tc))
			fmt.Fprintf(w, "bits:     %s\n", bits)
			fmt.Fprintf(w, "biphase:  %s\n", formatSymbols(timecode.BiphaseEncode(bits)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&frame, "frame", "f", 0, "frame index")
	opts.overrides.timecodeFlags(cmd)

	return cmd
}

func formatSymbols(symbols timecode.SymbolSequence) string {
	var sb strings.Builder
	for i, s := range symbols {
		if i > 0 && i%2 == 0 {
			sb.WriteByte(' ')
		}
		if s == timecode.High {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}
