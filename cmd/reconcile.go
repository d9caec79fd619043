package cmd

import (
	"errors"

	"github.com/fulmenhq/dfrecon/internal/pipeline"
	"github.com/fulmenhq/dfrecon/pkg/config"
	"github.com/fulmenhq/dfrecon/pkg/logger"
	"github.com/fulmenhq/dfrecon/pkg/report"
	"github.com/spf13/cobra"
)

func newReconcileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Append on-disk keys missing from the manifest and write the result",
		Long: `Reconcile reads the manifest, scans the key tree and writes a copy of the
manifest with one DATA_ITEM appended for every key found on disk but not
declared. Declared keys that are missing on disk are reported, never removed.`,
		Args: cobra.NoArgs,
		RunE: runReconcile,
	}
	addManifestFlags(cmd)
	cmd.Flags().StringP("output", "o", config.Default().Output, "Where to write the updated manifest")
	cmd.Flags().Bool("dry-run", false, "Report what would change without writing the manifest")
	return cmd
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// dry_run may come from the flag, DFRECON_DRY_RUN or the config file.
	logger.SetDryRun(cfg.DryRun)
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	opts := pipelineOptions(cfg)
	out, runErr := pipeline.NewRunner().Run(opts)
	if runErr != nil && !errors.Is(runErr, pipeline.ErrStaleEntries) {
		return runErr
	}
	if err := report.Write(cmd.OutOrStdout(), out.Report(opts), format); err != nil {
		return err
	}
	return runErr
}
