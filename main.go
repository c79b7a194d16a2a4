// =============================================================================
// Contract Generator - Main Entry Point
// =============================================================================
//
// Entry point for the contractgen CLI. Initializes the Cobra framework and
// delegates command execution to the cmd package.
//
// USAGE:
//   contractgen generate    - Run a full generation pass over a settlement
//   contractgen validate    - Check a settlement against the required columns
//   contractgen version     - Display the application version
//
// ARCHITECTURE:
//   cmd/       : CLI command definitions (Cobra)
//   internal/  : core pipeline (decode, validate, normalize, render, bundle)
//   pkg/       : shared utilities (logging, file delivery)
//
// =============================================================================

package main

import (
	"github.com/cmslivestock/contractgen/cmd"
)

func main() {
	cmd.Execute()
}
