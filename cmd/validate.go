// =============================================================================
// Comparativo - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which decodes input files and
// reports whether each one would be accepted as a period upload.
//
// COMMAND USAGE:
//   comparativo validate FILE [FILE...]
//
// OUTPUT:
//   ✓ jan.csv: 120 rows
//       ! jan.csv: row 7, field 'Agência': blank identity value
//   ✗ fev.csv: missing required columns: Associados
//
// Files are checked concurrently. The command fails if any file is rejected;
// warnings (blank identities, duplicate entities) do not fail it.
//
// =============================================================================

package cmd

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/Vitorkla/comparativo/internal/dashboard"
	"github.com/Vitorkla/comparativo/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE...",
	Short: "Check that input files can be compared",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// validateResult is the outcome of one file.
type validateResult struct {
	index  int
	path   string
	rows   int
	issues []*validation.Issue
	err    error
}

func runValidate(cmd *cobra.Command, paths []string) error {
	var wg sync.WaitGroup
	results := make(chan validateResult, len(paths))

	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()

			session := dashboard.NewSession(appConfig, logger)
			res := validateResult{index: i, path: path}
			if res.err = session.UploadFile(dashboard.Before, path); res.err == nil {
				res.rows = len(session.Dataset(dashboard.Before).Rows)
				res.issues = session.Issues(dashboard.Before)
			}
			results <- res
		}(i, path)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]validateResult, len(paths))
	for res := range results {
		ordered[res.index] = res
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, res := range ordered {
		if res.err != nil {
			failed++
			fmt.Fprintf(out, "  ✗ %s: %v\n", res.path, res.err)
			continue
		}
		fmt.Fprintf(out, "  ✓ %s: %d rows\n", res.path, res.rows)
		for _, issue := range res.issues {
			fmt.Fprintf(out, "      ! %s\n", issue.Error())
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed validation", failed, len(paths))
	}
	return nil
}
