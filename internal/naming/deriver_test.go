package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cmslivestock/contractgen/internal/normalize"
)

func TestSanitizeComponent(t *testing.T) {
	t.Run("reserved characters become dashes", func(t *testing.T) {
		assert.Equal(t, "A-B-C", SanitizeComponent(`A/B\C`))
		assert.Equal(t, "Lot-7", SanitizeComponent(`Lot:*?7`))
	})

	t.Run("whitespace runs collapse", func(t *testing.T) {
		assert.Equal(t, "Bar J Ranch", SanitizeComponent("Bar   J \t Ranch"))
	})

	t.Run("leading and trailing dots and spaces trimmed", func(t *testing.T) {
		assert.Equal(t, "name", SanitizeComponent(" .name. "))
	})

	t.Run("empty input becomes placeholder", func(t *testing.T) {
		assert.Equal(t, PlaceholderComponent, SanitizeComponent(""))
		assert.Equal(t, PlaceholderComponent, SanitizeComponent("  ..  "))
	})

	t.Run("idempotent", func(t *testing.T) {
		inputs := []string{`A/B\C`, "Bar   J Ranch", " .name. ", "", "already clean"}
		for _, in := range inputs {
			once := SanitizeComponent(in)
			assert.Equal(t, once, SanitizeComponent(once), "input %q", in)
		}
	})
}

func TestDerive(t *testing.T) {
	t.Run("fixed naming convention", func(t *testing.T) {
		used := NewUsedNameSet()
		names := Derive(normalize.Record{
			"contract_no": "A1",
			"buyer":       "Jones",
			"consignor":   "Smith",
		}, used)

		assert.Equal(t, "A1-Jones.docx", names.BuyerFile)
		assert.Equal(t, "Smith-A1.docx", names.SellerFile)
		assert.Empty(t, names.Collisions)
	})

	t.Run("components sanitized independently", func(t *testing.T) {
		used := NewUsedNameSet()
		names := Derive(normalize.Record{
			"contract_no": "A/1",
			"buyer":       "Jones?",
			"consignor":   "",
		}, used)

		assert.Equal(t, "A-1-Jones-.docx", names.BuyerFile)
		assert.Equal(t, "UNKNOWN-A-1.docx", names.SellerFile)
	})

	t.Run("duplicate business keys suffix in row order", func(t *testing.T) {
		used := NewUsedNameSet()
		rec := normalize.Record{"contract_no": "A1", "buyer": "Jones", "consignor": "Smith"}

		first := Derive(rec, used)
		second := Derive(rec, used)
		third := Derive(rec, used)

		assert.Equal(t, "A1-Jones.docx", first.BuyerFile)
		assert.Equal(t, "A1-Jones (2).docx", second.BuyerFile)
		assert.Equal(t, "A1-Jones (3).docx", third.BuyerFile)
		assert.Equal(t, "Smith-A1 (2).docx", second.SellerFile)
		assert.Equal(t, []string{"A1-Jones.docx", "Smith-A1.docx"}, second.Collisions)
	})

	t.Run("buyer and seller names share one namespace", func(t *testing.T) {
		used := NewUsedNameSet()
		// Seller candidate "B-A.docx" collides with the buyer file of a
		// record whose contract is "B" and buyer is "A".
		first := Derive(normalize.Record{
			"contract_no": "B",
			"buyer":       "A",
			"consignor":   "C",
		}, used)
		second := Derive(normalize.Record{
			"contract_no": "A",
			"buyer":       "X",
			"consignor":   "B",
		}, used)

		assert.Equal(t, "B-A.docx", first.BuyerFile)
		assert.Equal(t, "B-A (2).docx", second.SellerFile)
	})
}

func TestUsedNameSet(t *testing.T) {
	t.Run("collision check is case insensitive", func(t *testing.T) {
		set := NewUsedNameSet()
		assert.Equal(t, "A1-Jones.docx", set.Claim("A1-Jones.docx"))
		assert.Equal(t, "a1-jones (2).docx", set.Claim("a1-jones.docx"))
	})

	t.Run("suffix lands before the extension", func(t *testing.T) {
		set := NewUsedNameSet()
		set.Claim("Smith-A1.docx")
		assert.Equal(t, "Smith-A1 (2).docx", set.Claim("Smith-A1.docx"))
	})

	t.Run("suffixed names are themselves registered", func(t *testing.T) {
		set := NewUsedNameSet()
		set.Claim("x.docx")
		set.Claim("x (2).docx")
		assert.Equal(t, "x (3).docx", set.Claim("x.docx"))
		assert.Equal(t, 3, set.Len())
	})
}
