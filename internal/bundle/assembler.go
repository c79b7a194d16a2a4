// =============================================================================
// Contract Generator - Bundle Assembler
// =============================================================================
//
// Packages a subset of generated lots into a single in-memory zip archive
// suitable for direct delivery, grouped under fixed top-level folders:
//
//   Buyer Contracts/   {contract_no}-{buyer}.docx
//   Seller Contracts/  {consignor}-{contract_no}.docx
//
// Selection policy: an empty selection means every lot participates (select
// none is select all). A lot missing one side still contributes the side it
// has in "all" mode. A selection that filters down to zero documents is an
// error, not an empty archive.
//
// =============================================================================

package bundle

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"

	"github.com/cmslivestock/contractgen/internal/lots"
)

// Archive groupings.
const (
	BuyerGroup  = "Buyer Contracts"
	SellerGroup = "Seller Contracts"
)

// Mode selects which document sides a bundle carries.
type Mode string

const (
	ModeBuyer  Mode = "buyer"
	ModeSeller Mode = "seller"
	ModeAll    Mode = "all"
)

// ParseMode validates a mode string from the CLI.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeBuyer, ModeSeller, ModeAll:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid bundle mode %q (expected buyer, seller or all)", s)
	}
}

// ArchiveName returns the delivery filename for a bundle: the mode plus an
// ISO date stamp. The format is fixed for downstream compatibility.
func ArchiveName(mode Mode, ts time.Time) string {
	return fmt.Sprintf("%s_contracts_%s.zip", mode, ts.Format("2006-01-02"))
}

// =============================================================================
// ASSEMBLY
// =============================================================================

// Assemble builds the archive for the given lots, mode and selection.
// selection holds lot IDs; empty means all lots. Lots are written in source
// order, buyer side before seller side, so repeated assembly over the same
// inputs produces identical archives (modulo zip timestamps).
func Assemble(all []*lots.Lot, mode Mode, selection map[string]bool) ([]byte, error) {
	participating := filterSelection(all, selection)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	added := 0

	for _, lot := range participating {
		if (mode == ModeBuyer || mode == ModeAll) && lot.HasBuyerDoc() {
			if err := addFile(zw, BuyerGroup, lot.BuyerFile, lot.BuyerDoc); err != nil {
				return nil, err
			}
			added++
		}
		if (mode == ModeSeller || mode == ModeAll) && lot.HasSellerDoc() {
			if err := addFile(zw, SellerGroup, lot.SellerFile, lot.SellerDoc); err != nil {
				return nil, err
			}
			added++
		}
	}

	if added == 0 {
		zw.Close()
		return nil, &AssemblyError{Mode: mode, Selected: len(participating)}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	return buf.Bytes(), nil
}

func filterSelection(all []*lots.Lot, selection map[string]bool) []*lots.Lot {
	if len(selection) == 0 {
		return all
	}
	var picked []*lots.Lot
	for _, lot := range all {
		if selection[lot.ID] {
			picked = append(picked, lot)
		}
	}
	return picked
}

func addFile(zw *zip.Writer, group, name string, data []byte) error {
	w, err := zw.Create(group + "/" + name)
	if err != nil {
		return fmt.Errorf("failed to add %s/%s to archive: %w", group, name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write %s/%s to archive: %w", group, name, err)
	}
	return nil
}

// =============================================================================
// ERROR TYPE
// =============================================================================

// AssemblyError reports that no documents matched the requested mode and
// selection. Prior generation results remain valid; only bundle creation is
// blocked.
type AssemblyError struct {
	Mode     Mode
	Selected int
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("no documents match mode %q across %d selected lot(s); refusing to build an empty archive",
		e.Mode, e.Selected)
}
