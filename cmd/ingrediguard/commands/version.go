package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ingrediguard/internal/version"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "ingrediguard", version.String())
		},
	}
}
