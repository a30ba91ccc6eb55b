// =============================================================================
// Comparativo - Compare Command
// =============================================================================
//
// This file defines the 'compare' command, which runs a whole session from
// the command line.
//
// COMMAND USAGE:
//   comparativo compare --before FILE --after FILE [flags]
//
// FLAGS:
//   --manager     : Show only this manager
//   --branch      : Show only this branch (exact text)
//   --indicators  : Comma separated indicators to show (default: all)
//   --sort        : Sort the table by "branch" or an indicator name
//   --desc        : Sort descending
//   --json        : Print the chart and table views as JSON
//   --xlsx        : Write the table to this workbook path
//   --export-dir  : Write the table to a generated workbook in this directory
//
// PROCESSING PIPELINE:
//   1. Upload the before and after files into a new session
//   2. Process the comparison
//   3. Apply filters and sort to both views
//   4. Print the views, then export if asked
//
// =============================================================================

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Vitorkla/comparativo/internal/dashboard"
	"github.com/Vitorkla/comparativo/internal/export"
	"github.com/Vitorkla/comparativo/internal/query"
	"github.com/Vitorkla/comparativo/internal/types"
)

// compareOptions holds the flags of the compare command.
type compareOptions struct {
	before     string
	after      string
	manager    string
	branch     string
	indicators []string
	sortBy     string
	desc       bool
	jsonOutput bool
	xlsxPath   string
	exportDir  string
}

var compareOpts compareOptions

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two period files",
	Long: `The compare command reads the "before" and "after" files, matches their
rows by manager and branch, and prints one line per entity with the change of
every selected indicator, followed by a summary.

Rows without a counterpart in the "after" file are left out. Numbers use the
Brazilian format (1.234,56).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(cmd, compareOpts)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	f := compareCmd.Flags()
	f.StringVar(&compareOpts.before, "before", "", "File of the earlier period (.csv or .xlsx)")
	f.StringVar(&compareOpts.after, "after", "", "File of the later period (.csv or .xlsx)")
	f.StringVar(&compareOpts.manager, "manager", "", "Show only this manager")
	f.StringVar(&compareOpts.branch, "branch", "", "Show only this branch")
	f.StringSliceVar(&compareOpts.indicators, "indicators", nil, "Indicators to show (default: all)")
	f.StringVar(&compareOpts.sortBy, "sort", "", `Sort the table by "branch" or an indicator name`)
	f.BoolVar(&compareOpts.desc, "desc", false, "Sort descending")
	f.BoolVar(&compareOpts.jsonOutput, "json", false, "Print JSON instead of a table")
	f.StringVar(&compareOpts.xlsxPath, "xlsx", "", "Write the table to this .xlsx file")
	f.StringVar(&compareOpts.exportDir, "export-dir", "", "Write the table to a generated .xlsx file in this directory")

	compareCmd.MarkFlagRequired("before")
	compareCmd.MarkFlagRequired("after")
	compareCmd.MarkFlagsMutuallyExclusive("xlsx", "export-dir")
}

// compareResult is the JSON document printed with --json.
type compareResult struct {
	SessionID string              `json:"session_id"`
	Chart     dashboard.ChartView `json:"chart"`
	Table     dashboard.TableView `json:"table"`
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runCompare(cmd *cobra.Command, opts compareOptions) error {
	session := dashboard.NewSession(appConfig, logger)

	// =========================================================================
	// STEP 1-2: UPLOAD AND PROCESS
	// =========================================================================

	if err := session.UploadFile(dashboard.Before, opts.before); err != nil {
		return fmt.Errorf("before file: %w", err)
	}
	if err := session.UploadFile(dashboard.After, opts.after); err != nil {
		return fmt.Errorf("after file: %w", err)
	}
	if err := session.Process(); err != nil {
		return err
	}

	// =========================================================================
	// STEP 3: FILTERS AND SORT
	// =========================================================================

	filter, err := buildFilter(opts, appConfig.Indicators)
	if err != nil {
		return err
	}
	chart := session.SetChartFilter(filter)
	table := session.SetTableFilter(filter)

	if opts.sortBy != "" {
		column, err := sortColumn(opts.sortBy, filter, appConfig.Indicators)
		if err != nil {
			return err
		}
		table = session.ToggleSort(column)
		if opts.desc {
			table = session.ToggleSort(column)
		}
	}

	// =========================================================================
	// STEP 4: OUTPUT
	// =========================================================================

	out := cmd.OutOrStdout()
	if opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(compareResult{SessionID: session.ID, Chart: chart, Table: table}); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	} else {
		if err := renderTable(out, table, appConfig.Columns.Manager, appConfig.IsMonetary); err != nil {
			return err
		}
		fmt.Fprintln(out)
		renderSummary(out, chart.Summary, appConfig.IsMonetary)
	}

	switch {
	case opts.xlsxPath != "":
		if err := export.Save(opts.xlsxPath, session.Report()); err != nil {
			return err
		}
		logger.Info("report exported", "path", opts.xlsxPath)
	case opts.exportDir != "":
		if _, err := session.Export(opts.exportDir); err != nil {
			return err
		}
	}

	return nil
}

// buildFilter turns the filter flags into a FilterState, rejecting unknown
// indicator names.
func buildFilter(opts compareOptions, declared []string) (types.FilterState, error) {
	if len(opts.indicators) == 0 {
		f := types.NewFilterState(declared)
		f.Manager = opts.manager
		f.Branch = opts.branch
		return f, nil
	}

	known := types.NewFilterState(declared)
	for _, name := range opts.indicators {
		if !known.IsActive(name) {
			return types.FilterState{}, fmt.Errorf("unknown indicator %q", name)
		}
	}

	f := types.NewFilterState(opts.indicators)
	f.Manager = opts.manager
	f.Branch = opts.branch
	return f, nil
}

// sortColumn maps the --sort value to a table sort column. It must be
// "branch" or an indicator shown by the table filter.
func sortColumn(name string, filter types.FilterState, declared []string) (string, error) {
	if name == types.SortColumnBranch {
		return types.SortColumnBranch, nil
	}

	for _, indicator := range query.ActiveIndicators(filter, declared) {
		if indicator == name {
			return types.IndicatorSortKey(name), nil
		}
	}

	if types.NewFilterState(declared).IsActive(name) {
		return "", fmt.Errorf("sort indicator %q is not shown", name)
	}
	return "", fmt.Errorf("unknown sort column %q", name)
}
