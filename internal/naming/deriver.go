// =============================================================================
// Contract Generator - Filename Deriver
// =============================================================================
//
// Computes the two output filenames per lot and guarantees batch-wide
// uniqueness. The naming convention is fixed for downstream compatibility:
//
//   buyer file:  {contract_no}-{buyer}.docx
//   seller file: {consignor}-{contract_no}.docx
//
// Buyer and seller names share one namespace because both land in a single
// archive. Allocation order (buyer before seller, rows ascending) decides
// which of two colliding candidates keeps the unsuffixed form, so callers
// must derive names in source-row order.
//
// =============================================================================

package naming

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cmslivestock/contractgen/internal/normalize"
)

// Extension of every generated document.
const Extension = ".docx"

// PlaceholderComponent substitutes for a filename component that sanitizes to
// nothing, so a missing buyer or consignor never produces a malformed name.
const PlaceholderComponent = "UNKNOWN"

var (
	reservedChars = regexp.MustCompile(`[/\\:*?"<>|]+`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// SanitizeComponent makes one filename component filesystem-safe: reserved
// character runs become "-", whitespace runs collapse to a single space, and
// leading/trailing dots and spaces are trimmed. Idempotent: sanitizing an
// already clean component returns it unchanged.
func SanitizeComponent(s string) string {
	s = reservedChars.ReplaceAllString(s, "-")
	s = whitespace.ReplaceAllString(s, " ")
	s = strings.Trim(s, ". ")
	if s == "" {
		return PlaceholderComponent
	}
	return s
}

// =============================================================================
// NAME DERIVATION
// =============================================================================

// Names holds the derived filenames for one lot.
type Names struct {
	BuyerFile  string
	SellerFile string

	// Collisions lists the candidate names that were already taken and had
	// to receive a numeric suffix, for operator diagnostics.
	Collisions []string
}

// Derive computes both filenames for a normalized record and registers them
// in the used-name set.
func Derive(rec normalize.Record, used *UsedNameSet) Names {
	contract := SanitizeComponent(rec["contract_no"])
	buyer := SanitizeComponent(rec["buyer"])
	consignor := SanitizeComponent(rec["consignor"])

	var names Names

	buyerCandidate := contract + "-" + buyer + Extension
	names.BuyerFile = used.Claim(buyerCandidate)
	if names.BuyerFile != buyerCandidate {
		names.Collisions = append(names.Collisions, buyerCandidate)
	}

	sellerCandidate := consignor + "-" + contract + Extension
	names.SellerFile = used.Claim(sellerCandidate)
	if names.SellerFile != sellerCandidate {
		names.Collisions = append(names.Collisions, sellerCandidate)
	}

	return names
}

// =============================================================================
// USED NAME SET
// =============================================================================

// UsedNameSet tracks filenames already allocated in the current generation
// pass. Comparison is case-insensitive because the archive may be extracted
// onto case-insensitive filesystems. One set covers the whole pass and is
// discarded with it.
type UsedNameSet struct {
	names map[string]struct{}
}

// NewUsedNameSet returns an empty set for a fresh pass.
func NewUsedNameSet() *UsedNameSet {
	return &UsedNameSet{names: make(map[string]struct{})}
}

// Claim returns candidate if it is still free, otherwise the first free
// variant with " (2)", " (3)", ... inserted before the extension. The chosen
// name is registered before returning.
func (s *UsedNameSet) Claim(candidate string) string {
	chosen := candidate
	if s.taken(chosen) {
		base := strings.TrimSuffix(candidate, Extension)
		for n := 2; ; n++ {
			chosen = fmt.Sprintf("%s (%d)%s", base, n, Extension)
			if !s.taken(chosen) {
				break
			}
		}
	}
	s.names[strings.ToLower(chosen)] = struct{}{}
	return chosen
}

// Len reports how many names have been allocated.
func (s *UsedNameSet) Len() int {
	return len(s.names)
}

func (s *UsedNameSet) taken(name string) bool {
	_, ok := s.names[strings.ToLower(name)]
	return ok
}
