// =============================================================================
// Contract Generator - Lot Builder
// =============================================================================
//
// Orchestrates the per-row pipeline across a whole settlement: normalize the
// row, derive both filenames against the pass-wide used-name set, render the
// buyer and seller documents. Row processing is sequential; filename
// allocation is order-dependent and must stay serialized in source-row order.
//
// Row isolation: a render failure on one row never aborts the batch. The
// failing side is recorded as nil on the lot, the failure lands in the error
// list with row context, and the lot still carries whichever document
// succeeded. Only pass-level preconditions (no rows decoded, no template
// loaded) fail the pass as a whole.
//
// =============================================================================

package lots

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cmslivestock/contractgen/internal/naming"
	"github.com/cmslivestock/contractgen/internal/normalize"
	"github.com/cmslivestock/contractgen/internal/render"
	"github.com/cmslivestock/contractgen/internal/tabular"
)

// Document sides within a lot.
const (
	SideBuyer  = "buyer"
	SideSeller = "seller"
)

// =============================================================================
// DATA MODEL
// =============================================================================

// Lot is the unit of output: one non-blank source row with up to two rendered
// contract documents. Only the presentation layer mutates Selected; the rest
// of the lot is immutable once built.
type Lot struct {
	// ID is the stable lot identity: contract number, lot number and source
	// row index. The row index keeps identities unique when two rows share a
	// business key.
	ID string

	// RowIndex is the 1-based index of the source row, for operator-facing
	// diagnostics.
	RowIndex int

	// Record is the normalized document data this lot was rendered from.
	Record normalize.Record

	// BuyerDoc and SellerDoc are the rendered documents; nil when the
	// corresponding render failed.
	BuyerDoc  []byte
	SellerDoc []byte

	// BuyerFile and SellerFile are the derived archive filenames. They are
	// always set, even when the matching document failed to render.
	BuyerFile  string
	SellerFile string

	// Selected marks the lot for inclusion in bundle assembly.
	Selected bool
}

// HasBuyerDoc reports whether the buyer document rendered successfully.
func (l *Lot) HasBuyerDoc() bool { return l.BuyerDoc != nil }

// HasSellerDoc reports whether the seller document rendered successfully.
func (l *Lot) HasSellerDoc() bool { return l.SellerDoc != nil }

// ContractNo returns the lot's contract number.
func (l *Lot) ContractNo() string { return l.Record["contract_no"] }

// RowError is one isolated row-level failure, reported as data so the
// operator can fix the offending rows and re-run.
type RowError struct {
	// RowIndex is the 1-based source row index.
	RowIndex int

	// ContractNo identifies the record in business terms.
	ContractNo string

	// Side is the document side that failed: "buyer" or "seller".
	Side string

	// Message is the underlying explanation from the template engine.
	Message string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d (contract %s): %s document failed: %s",
		e.RowIndex, e.ContractNo, e.Side, e.Message)
}

// GenerationResult is the outcome of one complete pass.
type GenerationResult struct {
	// PassID identifies the pass in logs and summary reports.
	PassID uuid.UUID

	// Lots holds the per-row results in source order.
	Lots []*Lot

	// Succeeded counts rows whose both documents rendered. Failed counts
	// rows with at least one failed document. Statistics are per row, not
	// per document.
	Succeeded int
	Failed    int

	// SkippedBlank counts blank rows filtered out before numbering.
	SkippedBlank int

	// Errors lists every isolated row-level failure.
	Errors []RowError

	// Elapsed is the wall-clock duration of the pass.
	Elapsed time.Duration
}

// =============================================================================
// LOGGER SEAM
// =============================================================================

// Logger is the logging seam for the builder; pkg/logging satisfies it, and
// tests inject a quiet implementation.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// =============================================================================
// BUILDER
// =============================================================================

// Builder runs generation passes. It holds no per-pass state: each Build call
// starts a fresh used-name set and a fresh lot sequence.
type Builder struct {
	normalizer *normalize.Normalizer
	engine     render.Engine
	logger     Logger
}

// NewBuilder creates a Builder with its collaborators injected.
func NewBuilder(normalizer *normalize.Normalizer, engine render.Engine, logger Logger) *Builder {
	return &Builder{
		normalizer: normalizer,
		engine:     engine,
		logger:     logger,
	}
}

// Build runs one generation pass over rows. It returns an error only for
// pass-level preconditions; row-level failures are reported inside the
// result.
func (b *Builder) Build(rows []tabular.Row, buyerTemplate, sellerTemplate []byte) (*GenerationResult, error) {
	if len(buyerTemplate) == 0 {
		return nil, fmt.Errorf("no buyer template loaded")
	}
	if len(sellerTemplate) == 0 {
		return nil, fmt.Errorf("no seller template loaded")
	}

	start := time.Now()
	result := &GenerationResult{PassID: uuid.New()}
	used := naming.NewUsedNameSet()

	b.logger.Infof("generation pass %s: %d source rows", result.PassID, len(rows))

	for i, row := range rows {
		rowIndex := i + 1

		if row.IsBlank() {
			result.SkippedBlank++
			b.logger.Debugf("row %d: blank, skipped", rowIndex)
			continue
		}

		rec := b.normalizer.Normalize(row)
		b.checkMoneyFields(rec, rowIndex)

		names := naming.Derive(rec, used)
		for _, candidate := range names.Collisions {
			// Duplicate business keys are tolerated but worth surfacing.
			b.logger.Warnf("row %d: filename %q already allocated, suffixed", rowIndex, candidate)
		}

		lot := &Lot{
			ID:         fmt.Sprintf("%s-%s-%d", rec["contract_no"], rec["lot_no"], rowIndex),
			RowIndex:   rowIndex,
			Record:     rec,
			BuyerFile:  names.BuyerFile,
			SellerFile: names.SellerFile,
		}

		rowFailed := false

		if doc, err := b.engine.Fill(buyerTemplate, rec); err != nil {
			rowFailed = true
			result.Errors = append(result.Errors, RowError{
				RowIndex:   rowIndex,
				ContractNo: rec["contract_no"],
				Side:       SideBuyer,
				Message:    err.Error(),
			})
			b.logger.Warnf("row %d (contract %s): buyer render failed: %v", rowIndex, rec["contract_no"], err)
		} else {
			lot.BuyerDoc = doc
		}

		if doc, err := b.engine.Fill(sellerTemplate, rec); err != nil {
			rowFailed = true
			result.Errors = append(result.Errors, RowError{
				RowIndex:   rowIndex,
				ContractNo: rec["contract_no"],
				Side:       SideSeller,
				Message:    err.Error(),
			})
			b.logger.Warnf("row %d (contract %s): seller render failed: %v", rowIndex, rec["contract_no"], err)
		} else {
			lot.SellerDoc = doc
		}

		if rowFailed {
			result.Failed++
		} else {
			result.Succeeded++
		}

		result.Lots = append(result.Lots, lot)
	}

	result.Elapsed = time.Since(start)
	b.logger.Infof("generation pass %s complete: %d succeeded, %d failed, %d blank rows skipped",
		result.PassID, result.Succeeded, result.Failed, result.SkippedBlank)

	return result, nil
}

// checkMoneyFields warns when a cleaned monetary value still is not a number.
// Money values are passed through to the templates either way; the warning
// just points the operator at suspect source data.
func (b *Builder) checkMoneyFields(rec normalize.Record, rowIndex int) {
	for _, key := range b.normalizer.Keys() {
		if !normalize.IsMoneyKey(key) {
			continue
		}
		value := rec[key]
		if value == "" {
			continue
		}
		if _, err := decimal.NewFromString(value); err != nil {
			b.logger.Warnf("row %d: field %s has non-numeric value %q", rowIndex, key, value)
		}
	}
}
