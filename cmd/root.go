// =============================================================================
// Contract Generator - Root Command
// =============================================================================
//
// Defines the root command for the Cobra CLI. Command tree:
//
//   contractgen
//   ├── generate   full pass: decode -> validate -> render -> bundle
//   ├── validate   decode + schema check only, no rendering
//   └── version    build information
//
// The root command owns the global flags (--config, --verbose), loads the
// optional .env file and configures logging before any subcommand runs.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cmslivestock/contractgen/pkg/logging"
)

// cfgFile is the path to the application configuration file, overridable via
// --config.
var cfgFile string

// verbose forces debug-level logging regardless of configuration.
var verbose bool

// rootCmd is the base command all subcommands attach to.
var rootCmd = &cobra.Command{
	Use:   "contractgen",
	Short: "Auction contract generator - turn settlement exports into filled contract documents",
	Long: `contractgen converts a tabular auction-settlement export (CSV or XLSX) into
pairs of filled contract documents - one buyer contract and one seller
contract per lot - and bundles the results into a zip archive for delivery.

The settlement must carry the required columns (Contract #, Consignor, Buyer,
Lot Number #2); generation is refused while any of them is missing. Rendering
failures on individual rows never abort the pass: the affected lot keeps
whichever document succeeded and the failure is reported with its row number
and contract number.

Example usage:
  contractgen generate --data sale.csv --buyer-template buyer.docx --seller-template seller.docx
  contractgen generate --data sale.xlsx --buyer-template b.docx --seller-template s.docx --mode buyer
  contractgen validate --data sale.csv`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Local .env files are optional; absence is the normal case.
		_ = godotenv.Load()
		if verbose {
			logging.SetLevel("debug")
		}
	},
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the application configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
