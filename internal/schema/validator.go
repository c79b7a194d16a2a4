// =============================================================================
// Contract Generator - Schema Validator
// =============================================================================
//
// Validates a decoded header list against the required-column set. The check
// is a case-sensitive exact string match with no header trimming: headers are
// compared exactly as the decoder produced them. Any missing required column
// blocks generation for the whole pass; there is no partial-schema mode.
//
// =============================================================================

package schema

import (
	"fmt"
	"strings"
)

// Required column headings for the standard settlement export.
const (
	ColumnContractNo = "Contract #"
	ColumnConsignor  = "Consignor"
	ColumnBuyer      = "Buyer"
	ColumnLotNo      = "Lot Number #2"
	ColumnHeadCount  = "Head Count"
)

// Required returns the required-column set. The Head Count column is only
// required for exports from barns that track it (configuration variant).
func Required(includeHeadCount bool) []string {
	cols := []string{ColumnContractNo, ColumnConsignor, ColumnBuyer, ColumnLotNo}
	if includeHeadCount {
		cols = append(cols, ColumnHeadCount)
	}
	return cols
}

// Validate returns the required columns that are absent from headers, in
// required order. An empty result means the schema is valid. Pure function:
// no trimming, no case folding.
func Validate(headers []string, required []string) []string {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[h] = struct{}{}
	}

	var missing []string
	for _, col := range required {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// Check wraps Validate into an error suitable for surfacing to the operator.
// It returns nil when the headers satisfy the required set.
func Check(headers []string, required []string) error {
	missing := Validate(headers, required)
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Missing: missing, Headers: headers}
}

// =============================================================================
// ERROR TYPE
// =============================================================================

// ValidationError reports missing required columns. It carries the headers
// that were actually found so the operator can spot renamed or misspelled
// columns without opening the source file.
type ValidationError struct {
	Missing []string
	Headers []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required columns: %s (found headers: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Headers, ", "))
}
