package cmd

import (
	"github.com/fulmenhq/dfrecon/internal/pipeline"
	"github.com/fulmenhq/dfrecon/pkg/config"
	"github.com/fulmenhq/dfrecon/pkg/scanner"
	"github.com/spf13/cobra"
)

// addManifestFlags registers the flags shared by reconcile and diff.
func addManifestFlags(cmd *cobra.Command) {
	defaults := config.Default()
	cmd.Flags().StringP("input", "p", defaults.Input, "Manifest to read")
	cmd.Flags().StringP("root", "r", defaults.Root, "Root of the tenant/type/resource tree")
	cmd.Flags().String("format", defaults.Format, "Report format (text|json|yaml|toml|html)")
	cmd.Flags().Bool("fail-on-stale", defaults.FailOnStale, "Exit non-zero when declared resources are missing on disk")
	cmd.Flags().StringSlice("exclude", defaults.Scan.Exclude, "Glob patterns (relative to root) to skip while scanning")
	cmd.Flags().String("ignore-file", defaults.Scan.IgnoreFile, "Gitignore-style file under root listing paths to skip")
	cmd.Flags().Bool("respect-gitignore", defaults.Scan.RespectGitignore, "Also skip paths matched by .gitignore files under root")
}

// loadConfig resolves settings for cmd from its flags, the environment and
// the config file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	return config.Load(config.LoadOptions{
		ConfigFile: file,
		Flags:      cmd.Flags(),
	})
}

func pipelineOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		Input:       cfg.Input,
		Root:        cfg.Root,
		Output:      cfg.Output,
		DryRun:      cfg.DryRun,
		FailOnStale: cfg.FailOnStale,
		Scan: scanner.Options{
			Exclude:          cfg.Scan.Exclude,
			IgnoreFile:       cfg.Scan.IgnoreFile,
			RespectGitignore: cfg.Scan.RespectGitignore,
		},
	}
}
