package cmd

import (
	"fmt"

	"github.com/fulmenhq/dfrecon/internal/pipeline"
	"github.com/fulmenhq/dfrecon/pkg/report"
	"github.com/spf13/cobra"
)

func newDiffCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show how the manifest and the key tree differ without writing anything",
		Args:  cobra.NoArgs,
		RunE:  runDiff,
	}
	addManifestFlags(cmd)
	return cmd
}

func runDiff(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	opts := pipelineOptions(cfg)
	out, err := pipeline.NewRunner().Diff(opts)
	if err != nil {
		return err
	}
	if err := report.Write(cmd.OutOrStdout(), out.Report(opts), format); err != nil {
		return err
	}
	if cfg.FailOnStale && out.Result.HasStale() {
		return fmt.Errorf("%w: %d resource(s)", pipeline.ErrStaleEntries, len(out.Result.ToRemove))
	}
	return nil
}
