package cmd

import (
	"fmt"

	"github.com/fulmenhq/dfrecon/internal/pipeline"
	"github.com/fulmenhq/dfrecon/pkg/config"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a manifest is well-formed and every item classifies",
		Args:  cobra.NoArgs,
		RunE:  runValidate,
	}
	cmd.Flags().StringP("input", "p", config.Default().Input, "Manifest to validate")
	return cmd
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	doc, err := pipeline.NewRunner().Validate(cfg.Input)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: OK (%d items)\n", cfg.Input, doc.Len())
	return err
}
