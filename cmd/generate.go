// =============================================================================
// Contract Generator - Generate Command
// =============================================================================
//
// The main command: runs one complete generation pass over a settlement
// export and delivers the resulting bundle.
//
// COMMAND USAGE:
//   contractgen generate --data sale.csv \
//       --buyer-template buyer.docx --seller-template seller.docx [flags]
//
// PIPELINE:
//   1. Load configuration and the field map
//   2. Pass the access gate (when a secret is configured)
//   3. Read the settlement and both templates into memory
//   4. Decode and schema-validate the settlement
//   5. Generate lots (normalize, derive filenames, render both documents)
//   6. Apply the lot selection flags
//   7. Assemble the bundle and deliver it to the output directory
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cmslivestock/contractgen/internal/bundle"
	"github.com/cmslivestock/contractgen/internal/config"
	"github.com/cmslivestock/contractgen/internal/gate"
	"github.com/cmslivestock/contractgen/internal/lots"
	"github.com/cmslivestock/contractgen/internal/normalize"
	"github.com/cmslivestock/contractgen/internal/render"
	"github.com/cmslivestock/contractgen/internal/schema"
	"github.com/cmslivestock/contractgen/internal/session"
	"github.com/cmslivestock/contractgen/pkg/logging"
	"github.com/cmslivestock/contractgen/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	// dataFile is the settlement export to process (CSV or XLSX).
	dataFile string

	// buyerTemplateFile and sellerTemplateFile are the DOCX contract
	// templates.
	buyerTemplateFile  string
	sellerTemplateFile string

	// bundleMode selects which sides land in the archive: buyer, seller, all.
	bundleMode string

	// outputDir overrides the configured output directory when set.
	outputDir string

	// selectIDs restricts bundling to specific lot IDs.
	selectIDs []string

	// onlyWithBuyer / onlyWithSeller select every lot that has the given
	// side rendered, matching the original selection filters.
	onlyWithBuyer  bool
	onlyWithSeller bool

	// unpack additionally delivers each bundled document as an individual
	// file under the output directory.
	unpack bool

	// summaryLog writes a plain-text pass summary next to the bundle.
	summaryLog bool

	// genDryRun runs the full pass but delivers nothing.
	genDryRun bool
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate buyer and seller contracts from a settlement export",
	Long: `Generate runs one complete pass: the settlement is decoded and validated
against the required columns, every non-blank row becomes a lot with a buyer
and a seller contract rendered from the templates, and the selected lots are
bundled into a zip archive under the output directory.

A rendering failure on one row does not abort the pass; the row is reported
with its row number and contract number and the lot keeps whichever document
rendered. Selecting no lots bundles every lot.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate()
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&dataFile, "data", "", "Settlement export to process (CSV or XLSX)")
	generateCmd.Flags().StringVar(&buyerTemplateFile, "buyer-template", "", "Buyer contract DOCX template")
	generateCmd.Flags().StringVar(&sellerTemplateFile, "seller-template", "", "Seller contract DOCX template")
	generateCmd.Flags().StringVar(&bundleMode, "mode", "all", "Bundle mode: buyer, seller or all")
	generateCmd.Flags().StringVar(&outputDir, "output", "", "Output directory (overrides configuration)")
	generateCmd.Flags().StringSliceVar(&selectIDs, "select", nil, "Restrict bundling to these lot IDs")
	generateCmd.Flags().BoolVar(&onlyWithBuyer, "only-with-buyer", false, "Select only lots with a rendered buyer contract")
	generateCmd.Flags().BoolVar(&onlyWithSeller, "only-with-seller", false, "Select only lots with a rendered seller contract")
	generateCmd.Flags().BoolVar(&unpack, "unpack", false, "Also deliver each document as an individual file")
	generateCmd.Flags().BoolVar(&summaryLog, "summary-log", false, "Write a pass summary log to the output directory")
	generateCmd.Flags().BoolVar(&genDryRun, "dry-run", false, "Run the pass without delivering any output")

	generateCmd.MarkFlagRequired("data")
	generateCmd.MarkFlagRequired("buyer-template")
	generateCmd.MarkFlagRequired("seller-template")
}

// =============================================================================
// MAIN FLOW
// =============================================================================

func runGenerate() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if !verbose {
		logging.SetLevel(cfg.LogLevel)
	}
	logger := logging.GetLogger()

	fields, err := config.LoadFieldMap(cfg.FieldMapFile)
	if err != nil {
		return err
	}

	if err := passGate(cfg); err != nil {
		return err
	}

	// Everything the pass consumes is read fully into memory up front.
	data, err := utils.ReadInput(dataFile)
	if err != nil {
		return err
	}
	buyerTpl, err := utils.ReadInput(buyerTemplateFile)
	if err != nil {
		return err
	}
	sellerTpl, err := utils.ReadInput(sellerTemplateFile)
	if err != nil {
		return err
	}

	mode, err := bundle.ParseMode(bundleMode)
	if err != nil {
		return err
	}

	sess := session.New(
		normalize.New(fields),
		render.NewEngine(),
		schema.Required(cfg.Schema.RequireHeadCount),
		logger,
	)

	if err := sess.LoadData(data); err != nil {
		return err
	}
	sess.LoadBuyerTemplate(buyerTpl)
	sess.LoadSellerTemplate(sellerTpl)

	result, err := sess.Generate()
	if err != nil {
		return err
	}

	printPassSummary(result)

	if err := applySelection(sess); err != nil {
		return err
	}

	if genDryRun {
		fmt.Println("\nDry run: no output delivered.")
		return nil
	}

	return deliver(cfg, sess, result, mode)
}

// passGate prompts for the shared secret when the gate is enabled. The
// attempt can also come from the environment for non-interactive runs.
func passGate(cfg *config.Config) error {
	g := gate.New(cfg.Gate.Secret)
	if !g.Enabled() {
		return nil
	}

	attempt := os.Getenv("CONTRACTGEN_PIN")
	if attempt == "" {
		fmt.Print("Access PIN: ")
		entered, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read access PIN: %w", err)
		}
		attempt = string(entered)
	}

	if !g.Unlock(attempt) {
		return fmt.Errorf("access denied")
	}
	return nil
}

// applySelection translates the selection flags onto the session's lots.
func applySelection(sess *session.Session) error {
	if len(selectIDs) > 0 {
		if err := sess.Select(selectIDs...); err != nil {
			return err
		}
	}
	if onlyWithBuyer {
		sess.SelectWhere(func(l *lots.Lot) bool { return l.HasBuyerDoc() })
	}
	if onlyWithSeller {
		sess.SelectWhere(func(l *lots.Lot) bool { return l.HasSellerDoc() })
	}
	return nil
}

// deliver writes the bundle (and optionally individual documents plus the
// summary log) to the output directory.
func deliver(cfg *config.Config, sess *session.Session, result *lots.GenerationResult, mode bundle.Mode) error {
	dir := cfg.OutputDir
	if outputDir != "" {
		dir = outputDir
	}
	fm := utils.NewFileManager(dir)
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	archive, name, err := sess.Assemble(mode)
	if err != nil {
		return err
	}

	path, err := fm.Save(archive, name)
	if err != nil {
		return err
	}
	fmt.Printf("\nBundle delivered: %s\n", path)

	if unpack {
		if err := unpackDocuments(fm, sess, mode); err != nil {
			return err
		}
	}

	if summaryLog {
		logPath, err := fm.WriteSummaryLog(buildSummary(result))
		if err != nil {
			return err
		}
		fmt.Printf("Summary log:      %s\n", logPath)
	}

	return nil
}

// unpackDocuments writes each participating document as an individual file,
// mirroring the archive's grouping layout.
func unpackDocuments(fm *utils.FileManager, sess *session.Session, mode bundle.Mode) error {
	participating := sess.Lots()
	var selected []*lots.Lot
	for _, lot := range participating {
		if lot.Selected {
			selected = append(selected, lot)
		}
	}
	if len(selected) > 0 {
		participating = selected
	}

	for _, lot := range participating {
		if (mode == bundle.ModeBuyer || mode == bundle.ModeAll) && lot.HasBuyerDoc() {
			if _, err := fm.SaveGrouped(bundle.BuyerGroup, lot.BuyerFile, lot.BuyerDoc); err != nil {
				return err
			}
		}
		if (mode == bundle.ModeSeller || mode == bundle.ModeAll) && lot.HasSellerDoc() {
			if _, err := fm.SaveGrouped(bundle.SellerGroup, lot.SellerFile, lot.SellerDoc); err != nil {
				return err
			}
		}
	}
	return nil
}

// =============================================================================
// REPORTING
// =============================================================================

func printPassSummary(result *lots.GenerationResult) {
	fmt.Println("\n=== Generation Complete ===")
	fmt.Printf("Pass:            %s\n", result.PassID)
	fmt.Printf("Lots generated:  %d\n", len(result.Lots))
	fmt.Printf("Succeeded:       %d\n", result.Succeeded)
	fmt.Printf("Failed:          %d\n", result.Failed)
	fmt.Printf("Blank skipped:   %d\n", result.SkippedBlank)
	fmt.Printf("Time elapsed:    %s\n", result.Elapsed)

	if len(result.Errors) > 0 {
		fmt.Println("\nRow errors:")
		for _, e := range result.Errors {
			fmt.Printf("  ✗ %s\n", e.Error())
		}
	}
}

func buildSummary(result *lots.GenerationResult) utils.PassSummary {
	summary := utils.PassSummary{
		PassID:       result.PassID.String(),
		SourceFile:   dataFile,
		TotalRows:    len(result.Lots) + result.SkippedBlank,
		Succeeded:    result.Succeeded,
		Failed:       result.Failed,
		SkippedBlank: result.SkippedBlank,
		Elapsed:      result.Elapsed,
	}
	for _, e := range result.Errors {
		summary.Errors = append(summary.Errors, e.Error())
	}
	return summary
}
