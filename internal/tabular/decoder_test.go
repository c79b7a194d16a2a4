package tabular

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDecodeCSV(t *testing.T) {
	t.Run("header keyed rows", func(t *testing.T) {
		data := []byte("Contract #,Buyer,Consignor\nA1,Jones,Smith\nB2,Brown,Davis\n")

		table, err := Decode(data)
		require.NoError(t, err)

		assert.Equal(t, []string{"Contract #", "Buyer", "Consignor"}, table.Headers)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, "Jones", table.Rows[0]["Buyer"])
		assert.Equal(t, "B2", table.Rows[1]["Contract #"])
	})

	t.Run("empty lines are skipped", func(t *testing.T) {
		data := []byte("A,B\n1,2\n\n3,4\n")

		table, err := Decode(data)
		require.NoError(t, err)
		assert.Len(t, table.Rows, 2)
	})

	t.Run("short rows leave columns absent", func(t *testing.T) {
		data := []byte("A,B,C\n1,2\n")

		table, err := Decode(data)
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "2", table.Rows[0]["B"])
		assert.Equal(t, "", table.Rows[0]["C"])
	})

	t.Run("quoted fields with commas", func(t *testing.T) {
		data := []byte("Buyer,Consignor\n\"Jones, Bob\",Smith\n")

		table, err := Decode(data)
		require.NoError(t, err)
		assert.Equal(t, "Jones, Bob", table.Rows[0]["Buyer"])
	})

	t.Run("empty input is a decode error", func(t *testing.T) {
		_, err := Decode(nil)

		var derr *DecodeError
		require.True(t, errors.As(err, &derr))
	})

	t.Run("unterminated quotes are absorbed leniently", func(t *testing.T) {
		// Barn software exports are rarely strict: an unterminated quote is
		// swallowed into the field (comma and newline included) instead of
		// rejecting the whole file.
		data := []byte("A,B\n\"unterminated,2\n")

		table, err := Decode(data)
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "unterminated,2\n", table.Rows[0]["A"])
		assert.Equal(t, "", table.Rows[0]["B"])
	})
}

func TestDecodeXLSX(t *testing.T) {
	buildWorkbook := func(t *testing.T, rows [][]string) []byte {
		t.Helper()
		f := excelize.NewFile()
		sheet := f.GetSheetName(0)
		for i, row := range rows {
			for j, cell := range row {
				ref, err := excelize.CoordinatesToCellName(j+1, i+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(sheet, ref, cell))
			}
		}
		var buf bytes.Buffer
		require.NoError(t, f.Write(&buf))
		return buf.Bytes()
	}

	t.Run("first sheet decodes", func(t *testing.T) {
		data := buildWorkbook(t, [][]string{
			{"Contract #", "Buyer"},
			{"A1", "Jones"},
		})

		table, err := Decode(data)
		require.NoError(t, err)
		assert.Equal(t, []string{"Contract #", "Buyer"}, table.Headers)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "Jones", table.Rows[0]["Buyer"])
	})

	t.Run("zip magic routes to xlsx decoder", func(t *testing.T) {
		// A zip payload that is not a workbook must fail as xlsx, not be
		// misread as CSV.
		data := []byte{'P', 'K', 0x03, 0x04, 0x00, 0x00}

		_, err := Decode(data)
		var derr *DecodeError
		require.True(t, errors.As(err, &derr))
		assert.Equal(t, "xlsx", derr.Format)
	})
}

func TestRowIsBlank(t *testing.T) {
	t.Run("all whitespace cells", func(t *testing.T) {
		row := Row{"A": "  ", "B": "", "C": "\t"}
		assert.True(t, row.IsBlank())
	})

	t.Run("one populated cell", func(t *testing.T) {
		row := Row{"A": "", "B": "x"}
		assert.False(t, row.IsBlank())
	})

	t.Run("empty row", func(t *testing.T) {
		assert.True(t, Row{}.IsBlank())
	})
}
