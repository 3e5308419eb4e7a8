// Package cli defines the ltcstamp command tree.
package cli

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	overrides  overrides
}

// NewRootCommand builds the ltcstamp command.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "ltcstamp",
		Short:         "Embed a timecode track into an audio recording",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML configuration file")
	pf.StringVar(&opts.overrides.logLevel, "log-level", "info", "log level: debug, info, warn or error")

	cmd.AddCommand(
		newConvertCommand(opts),
		newBitsCommand(opts),
		newVersionCommand(),
	)

	return cmd
}
