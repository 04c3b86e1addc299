package model

import (
	"github.com/shopspring/decimal"

	"github.com/rezonia/rechnung/internal/codetables"
)

// VATBreakdown is one entry of the document's VAT breakdown, grouped by
// (category, rate) (BG-23).
type VATBreakdown struct {
	Category             codetables.TaxCategory
	Rate                 decimal.Decimal
	TaxableAmount        decimal.Decimal
	TaxAmount            decimal.Decimal
	ExemptionReason      string
	ExemptionReasonCode  string
}

// Totals is the document's derived monetary summary (BG-22), produced once
// by the calculator at build time and never mutated afterwards.
type Totals struct {
	LineNetTotal        decimal.Decimal
	AllowancesTotal      decimal.Decimal
	ChargesTotal         decimal.Decimal
	TaxExclusiveTotal    decimal.Decimal
	VATBreakdown         []VATBreakdown
	VATTotal             decimal.Decimal
	TaxInclusiveTotal    decimal.Decimal
	Prepaid              decimal.Decimal
	RoundingAmount       decimal.Decimal
	AmountDue            decimal.Decimal
	VATTotalInTaxCurrency *decimal.Decimal
}
