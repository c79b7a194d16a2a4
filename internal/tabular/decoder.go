// =============================================================================
// Contract Generator - Tabular Decoder
// =============================================================================
//
// Decodes raw settlement bytes into a header list plus header-keyed rows.
// Two formats are supported:
//
//   - XLSX: detected by the zip magic bytes, read with excelize from the
//     first sheet (header row first, data rows after).
//   - CSV:  everything else, read with encoding/csv configured leniently
//     (lazy quotes, variable field counts) because settlement exports from
//     barn software are rarely strict.
//
// Fully empty lines are dropped during decoding; rows whose cells are all
// blank strings are kept and filtered later by the lot builder, which treats
// them as skippable rather than as errors.
//
// =============================================================================

package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one source record: a mapping from column heading to cell value.
// Lookups for absent columns yield the empty string.
type Row map[string]string

// IsBlank reports whether no cell in the row has non-whitespace content.
func (r Row) IsBlank() bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Table is the decoded settlement data.
type Table struct {
	// Headers are the column headings exactly as decoded, in source order.
	Headers []string

	// Rows are the data records in source order.
	Rows []Row
}

// zipMagic marks XLSX payloads (an XLSX file is a zip container).
var zipMagic = []byte{'P', 'K', 0x03, 0x04}

// Decode sniffs the payload format and decodes it into a Table.
func Decode(data []byte) (*Table, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Format: "unknown", Reason: "input is empty"}
	}
	if bytes.HasPrefix(data, zipMagic) {
		return decodeXLSX(data)
	}
	return decodeCSV(data)
}

// =============================================================================
// CSV DECODING
// =============================================================================

func decodeCSV(data []byte) (*Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &DecodeError{Format: "csv", Reason: "malformed CSV", Err: err}
	}
	if len(records) == 0 {
		return nil, &DecodeError{Format: "csv", Reason: "no header row found"}
	}

	return buildTable(records, "csv")
}

// =============================================================================
// XLSX DECODING
// =============================================================================

func decodeXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Format: "xlsx", Reason: "cannot open workbook", Err: err}
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, &DecodeError{Format: "xlsx", Reason: "workbook has no sheets"}
	}

	records, err := f.GetRows(sheetName)
	if err != nil {
		return nil, &DecodeError{Format: "xlsx", Reason: fmt.Sprintf("cannot read sheet %q", sheetName), Err: err}
	}
	if len(records) == 0 {
		return nil, &DecodeError{Format: "xlsx", Reason: "no header row found"}
	}

	return buildTable(records, "xlsx")
}

// =============================================================================
// SHARED ASSEMBLY
// =============================================================================

// buildTable converts raw records into a header-keyed Table. The first record
// is the header row; subsequent fully-empty records are dropped. Cells beyond
// the header width are ignored; short rows simply lack those columns.
func buildTable(records [][]string, format string) (*Table, error) {
	headers := records[0]
	if isEmptyRecord(headers) {
		return nil, &DecodeError{Format: format, Reason: "header row is empty"}
	}

	table := &Table{Headers: headers}
	for _, record := range records[1:] {
		if isEmptyRecord(record) {
			continue
		}
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func isEmptyRecord(record []string) bool {
	for _, cell := range record {
		if cell != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// ERROR TYPE
// =============================================================================

// DecodeError reports malformed source bytes. Decode failures block the whole
// pass; no rows are published.
type DecodeError struct {
	Format string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to decode %s input: %s: %v", e.Format, e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to decode %s input: %s", e.Format, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }
