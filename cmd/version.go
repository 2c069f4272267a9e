package cmd

import (
	"fmt"

	"github.com/shiroyk/crumb/lib"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%v\n crumb %v/%v\n", lib.Banner, lib.Version, lib.CommitSHA)
		},
	}
}
