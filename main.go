// =============================================================================
// Donation Stats - Main Entry Point
// =============================================================================
//
// USAGE:
//   donation-stats process   - Build the donation reports from a page snapshot
//   donation-stats version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Extraction, normalization and reporting
//   - pkg/       : Shared file management utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/donation-stats/cmd"
)

func main() {
	cmd.Execute()
}
