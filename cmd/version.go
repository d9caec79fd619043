/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/fulmenhq/dfrecon/pkg/buildinfo"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show dfrecon version",
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}
	cmd.Flags().Bool("extended", false, "Show detailed build information")
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	out := cmd.OutOrStdout()
	info := buildinfo.Current()

	if !extended {
		_, err := fmt.Fprintf(out, "dfrecon %s\n", info.Version)
		return err
	}

	_, err := fmt.Fprintf(out, "dfrecon %s\nModule: %s\nGo: %s\nPlatform: %s\n",
		info.Version, info.ModuleVersion, info.GoVersion, info.Platform)
	return err
}
