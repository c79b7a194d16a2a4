package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmslivestock/contractgen/internal/config"
	"github.com/cmslivestock/contractgen/internal/tabular"
)

func TestNormalize(t *testing.T) {
	n := New(config.DefaultFieldMap())

	t.Run("maps preferred columns to canonical keys", func(t *testing.T) {
		rec := n.Normalize(tabular.Row{
			"Contract #":    "A1",
			"Consignor":     "Smith",
			"Buyer":         "Jones",
			"Lot Number #2": "7",
			"Breed":         "Angus",
		})

		assert.Equal(t, "A1", rec["contract_no"])
		assert.Equal(t, "Smith", rec["consignor"])
		assert.Equal(t, "Jones", rec["buyer"])
		assert.Equal(t, "7", rec["lot_no"])
		assert.Equal(t, "Angus", rec["breed"])
	})

	t.Run("every canonical key is present", func(t *testing.T) {
		rec := n.Normalize(tabular.Row{"Contract #": "A1"})

		for _, key := range n.Keys() {
			_, ok := rec[key]
			assert.True(t, ok, "key %s missing", key)
		}
		assert.Equal(t, "", rec["breed"], "absent optional field resolves to empty string")
	})

	t.Run("cell values are trimmed", func(t *testing.T) {
		rec := n.Normalize(tabular.Row{"Buyer": "  Jones  "})
		assert.Equal(t, "Jones", rec["buyer"])
	})

	t.Run("money fields are cleaned", func(t *testing.T) {
		rec := n.Normalize(tabular.Row{
			"Calculated High Bid": "$1,250.00",
			"Down Money Due":      " $3,000 ",
		})

		assert.Equal(t, "1250.00", rec["price_cwt"])
		assert.Equal(t, "3000", rec["down_money_due"])
	})

	t.Run("location alias mirrors location", func(t *testing.T) {
		rec := n.Normalize(tabular.Row{"Location": "Dodge City"})

		assert.Equal(t, "Dodge City", rec["location"])
		assert.Equal(t, "Dodge City", rec[LocationAlias])
	})

	t.Run("deterministic across repeated calls", func(t *testing.T) {
		row := tabular.Row{"Contract #": "A1", "Buyer": "Jones", "Calculated High Bid": "$1,000"}
		first := n.Normalize(row)
		second := n.Normalize(row)
		assert.Equal(t, first, second)
	})
}

func TestNormalizeFallbacks(t *testing.T) {
	fields := config.DefaultFieldMap()
	fields["lot_no"] = config.FieldSource{
		Column:    "Lot Number #2",
		Fallbacks: []string{"Lot Number", "Lot"},
	}
	n := New(fields)

	t.Run("preferred column wins when populated", func(t *testing.T) {
		rec := n.Normalize(tabular.Row{"Lot Number #2": "7", "Lot Number": "99"})
		assert.Equal(t, "7", rec["lot_no"])
	})

	t.Run("fallbacks tried in order", func(t *testing.T) {
		rec := n.Normalize(tabular.Row{"Lot Number": "", "Lot": "42"})
		assert.Equal(t, "42", rec["lot_no"])
	})

	t.Run("whitespace-only preferred value falls through", func(t *testing.T) {
		rec := n.Normalize(tabular.Row{"Lot Number #2": "   ", "Lot Number": "8"})
		assert.Equal(t, "8", rec["lot_no"])
	})

	t.Run("exhausted fallbacks resolve to empty", func(t *testing.T) {
		rec := n.Normalize(tabular.Row{})
		assert.Equal(t, "", rec["lot_no"])
	})
}

func TestCleanMoney(t *testing.T) {
	cases := map[string]string{
		"$1,250.00": "1250.00",
		"1250.00":   "1250.00",
		" $500 ":    "500",
		"$,":        "",
		"":          "",
	}
	for input, want := range cases {
		assert.Equal(t, want, CleanMoney(input), "input %q", input)
	}
}

func TestIsMoneyKey(t *testing.T) {
	assert.True(t, IsMoneyKey("price_cwt"))
	assert.True(t, IsMoneyKey("down_money_due"))
	assert.False(t, IsMoneyKey("buyer"))
}

func TestKeysSorted(t *testing.T) {
	n := New(config.DefaultFieldMap())
	keys := n.Keys()
	require.NotEmpty(t, keys)
	for i := 1; i < len(keys); i++ {
		assert.Less(t, keys[i-1], keys[i])
	}
}
