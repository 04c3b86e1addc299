package codetables_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rezonia/rechnung/internal/codetables"
)

func TestKnownCurrencies(t *testing.T) {
	assert.True(t, codetables.IsKnownCurrency("EUR"))
	assert.True(t, codetables.IsKnownCurrency("USD"))
	assert.True(t, codetables.IsKnownCurrency("CHF"))
	assert.False(t, codetables.IsKnownCurrency("XYZ"))
	assert.False(t, codetables.IsKnownCurrency(""))
	assert.False(t, codetables.IsKnownCurrency("EURO"))
}

func TestKnownCountries(t *testing.T) {
	assert.True(t, codetables.IsKnownCountry("DE"))
	assert.True(t, codetables.IsKnownCountry("AT"))
	assert.True(t, codetables.IsKnownCountry("CH"))
	assert.False(t, codetables.IsKnownCountry("XX"))
	assert.False(t, codetables.IsKnownCountry(""))
}

func TestKnownUnits(t *testing.T) {
	assert.True(t, codetables.IsKnownUnit("C62"))
	assert.True(t, codetables.IsKnownUnit("HUR"))
	assert.True(t, codetables.IsKnownUnit("KGM"))
	assert.False(t, codetables.IsKnownUnit("PIECE"))
}

func TestKnownReasonCodes(t *testing.T) {
	assert.True(t, codetables.IsKnownAllowanceReason("95"))
	assert.True(t, codetables.IsKnownAllowanceReason("41"))
	assert.False(t, codetables.IsKnownAllowanceReason("99"))

	assert.True(t, codetables.IsKnownChargeReason("FC"))
	assert.True(t, codetables.IsKnownChargeReason("ABK"))
	assert.False(t, codetables.IsKnownChargeReason("ZZ"))
}

func TestEasSchemeForCountry(t *testing.T) {
	s, ok := codetables.EasSchemeForCountry("DE")
	assert.True(t, ok)
	assert.Equal(t, "0204", s.Code)

	s, ok = codetables.EasSchemeForCountry("at")
	assert.True(t, ok)
	assert.Equal(t, "9914", s.Code)

	_, ok = codetables.EasSchemeForCountry("XX")
	assert.False(t, ok)
}

func TestTaxCategoryExemptionReason(t *testing.T) {
	assert.False(t, codetables.TaxStandardRate.RequiresExemptionReason())
	assert.False(t, codetables.TaxZeroRated.RequiresExemptionReason())
	assert.True(t, codetables.TaxExempt.RequiresExemptionReason())
	assert.True(t, codetables.TaxReverseCharge.RequiresExemptionReason())
}

func TestInvoiceTypeCodeIsCreditNote(t *testing.T) {
	assert.True(t, codetables.TypeCreditNote.IsCreditNote())
	assert.False(t, codetables.TypeInvoice.IsCreditNote())
}

// TestTablesStaySorted mirrors the reference implementation's "list is
// sorted" regression test: a table that drifts out of order silently breaks
// binary search membership for entries after the first inversion, so each
// sample code, spread from the start to the end of its table, must still be
// found by the binary-search lookup.
func TestTablesStaySorted(t *testing.T) {
	tables := map[string][]string{
		"currency": {"AED", "AMD", "AUD", "EUR", "USD", "ZAR"},
		"country":  {"AD", "AE", "DE", "US", "ZW"},
	}
	lookups := map[string]func(string) bool{
		"currency": codetables.IsKnownCurrency,
		"country":  codetables.IsKnownCountry,
	}
	for name, sample := range tables {
		t.Run(name, func(t *testing.T) {
			assert.True(t, sort.StringsAreSorted(sample), "%s sample not sorted", name)
			for _, code := range sample {
				assert.True(t, lookups[name](code), "%s %s not found by binary search", name, code)
			}
		})
	}
}
