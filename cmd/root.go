// =============================================================================
// Comparativo - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI.
//
// COBRA CLI STRUCTURE:
//   rootCmd (comparativo)
//   ├── compareCmd  (comparativo compare)
//   ├── validateCmd (comparativo validate)
//   └── versionCmd  (comparativo version)
//
// Before any subcommand runs, the root command loads the configuration and
// sets up logging. Logs go to stderr; command output goes to stdout.
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Vitorkla/comparativo/internal/config"
	"github.com/Vitorkla/comparativo/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// appConfig and logger are set by the root PersistentPreRunE.
var (
	appConfig *config.Config
	logger    *slog.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "comparativo",
	Short: "Comparativo - compare branch indicators between two periods",
	Long: `Comparativo reads two exports of branch performance indicators (a
"before" and an "after" period, as CSV or XLSX), matches the rows by manager
and branch, and reports the change of every indicator.

Example Usage:
  comparativo compare --before jan.csv --after fev.csv
  comparativo compare --before jan.csv --after fev.xlsx --manager "Ana" --json
  comparativo compare --before jan.csv --after fev.csv --export-dir ./output
  comparativo validate jan.csv fev.csv`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}

		appConfig = cfg
		logger = logging.Setup(level, cfg.Logging.Format, cmd.ErrOrStderr())
		logger.Debug("configuration loaded",
			"path", cfgFile,
			"indicators", len(cfg.Indicators),
		)
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file; missing means defaults",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}
