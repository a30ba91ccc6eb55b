// =============================================================================
// Comparativo - Main Entry Point
// =============================================================================
//
// This is the main entry point for the comparativo CLI. It delegates command
// execution to the cmd package.
//
// USAGE:
//   comparativo compare   - Compare two period files and print the result
//   comparativo validate  - Check input files without comparing them
//   comparativo version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : pipeline stages and the dashboard session
//   - pkg/       : shared file utilities
//
// =============================================================================

package main

import (
	"github.com/Vitorkla/comparativo/cmd"
)

func main() {
	cmd.Execute()
}
