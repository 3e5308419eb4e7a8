package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AppVersion is the version of the application, set at build time with
// -ldflags "-X github.com/Raikerian/go-ltc-stamp/internal/cli.AppVersion=...".
var AppVersion = "dev"

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the ltcstamp version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ltcstamp %s\n", AppVersion)
		},
	}
}
