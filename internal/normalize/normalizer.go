// =============================================================================
// Contract Generator - Row Normalizer
// =============================================================================
//
// Maps one raw settlement row into the fixed-shape record the contract
// templates are filled from. Resolution per canonical key: preferred column
// first, then each configured fallback column in order, first non-empty value
// wins. Missing cells resolve to empty strings, never errors: optional
// business fields (breed, sex, description) legitimately vary by record.
//
// Monetary fields have currency symbols and thousands separators stripped so
// the templates control their own formatting.
//
// =============================================================================

package normalize

import (
	"strings"

	"github.com/cmslivestock/contractgen/internal/config"
	"github.com/cmslivestock/contractgen/internal/tabular"
)

// Record is a normalized document-data record: canonical key -> cleaned
// value. Every canonical key is present, empty string when the source had no
// value. Immutable once built; owned by its lot.
type Record map[string]string

// LocationAlias mirrors the lower-case location key so templates written with
// either casing resolve.
const LocationAlias = "Location"

// moneyKeys are the canonical keys holding monetary amounts.
var moneyKeys = map[string]struct{}{
	"price_cwt":      {},
	"down_money_due": {},
}

// IsMoneyKey reports whether the canonical key holds a monetary amount.
func IsMoneyKey(key string) bool {
	_, ok := moneyKeys[key]
	return ok
}

// =============================================================================
// NORMALIZER
// =============================================================================

// Normalizer converts raw rows into normalized records using an injected
// field map. It is stateless after construction and safe for reuse across
// passes: identical input always yields an identical record.
type Normalizer struct {
	fields config.FieldMap
	keys   []string
}

// New creates a Normalizer over the given field map.
func New(fields config.FieldMap) *Normalizer {
	return &Normalizer{
		fields: fields,
		keys:   fields.Keys(),
	}
}

// Normalize builds the normalized record for one row.
func (n *Normalizer) Normalize(row tabular.Row) Record {
	rec := make(Record, len(n.keys)+1)

	for _, key := range n.keys {
		src := n.fields[key]
		value := cell(row, src.Column)
		for _, fb := range src.Fallbacks {
			if value != "" {
				break
			}
			value = cell(row, fb)
		}
		if IsMoneyKey(key) {
			value = CleanMoney(value)
		}
		rec[key] = value
	}

	rec[LocationAlias] = rec["location"]
	return rec
}

// Keys returns the canonical keys the normalizer produces, sorted. The
// Location alias is not listed; it mirrors "location".
func (n *Normalizer) Keys() []string {
	return n.keys
}

// =============================================================================
// VALUE CLEANUP
// =============================================================================

// cell reads one trimmed cell value; absent columns resolve to "".
func cell(row tabular.Row, column string) string {
	return strings.TrimSpace(row[column])
}

// CleanMoney strips currency symbols and thousands separators from a monetary
// string: "$1,250.00" becomes "1250.00". The numeric text itself is not
// reformatted.
func CleanMoney(value string) string {
	value = strings.ReplaceAll(value, "$", "")
	value = strings.ReplaceAll(value, ",", "")
	return strings.TrimSpace(value)
}
