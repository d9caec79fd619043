/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/fulmenhq/dfrecon/pkg/buildinfo"
	"github.com/fulmenhq/dfrecon/pkg/exitcode"
	"github.com/fulmenhq/dfrecon/pkg/logger"
	"github.com/spf13/cobra"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dfrecon",
		Short: "Reconcile a DATA_FETCH manifest against a key tree",
		Long: `dfrecon keeps a DATA_FETCH XML manifest in step with the key files
stored under a tenant/type/resource directory tree.

Examples:
   dfrecon reconcile            # Append on-disk keys missing from the manifest
   dfrecon diff --format json   # Show the differences without writing
   dfrecon validate -p m.xml    # Check that a manifest can be read and classified
   dfrecon version --extended   # Show build information`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Add global flags
	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().String("config", "", "Config file (default .dfrecon.yaml in the working directory)")

	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("dfrecon {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
// This is called from init() for production and can be called explicitly in tests.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(newReconcileCommand())
	cmd.AddCommand(newDiffCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newVersionCommand())
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		os.Exit(exitCodeFor(err))
	}
}

func init() {
	registerSubcommands(rootCmd)
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	config := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "dfrecon",
	}

	if err := logger.Initialize(config); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Failed to initialize logger:", err)
		os.Exit(exitcode.ConfigError)
	}
}
