package model

import (
	"github.com/shopspring/decimal"

	"github.com/rezonia/rechnung/internal/codetables"
)

// AllowanceCharge is a document- or line-level allowance (discount) or
// charge (surcharge) (BG-20/21, BG-27/28). IsCharge distinguishes the two;
// the remaining fields follow EN 16931's shared shape for both.
type AllowanceCharge struct {
	IsCharge    bool
	Amount      decimal.Decimal
	Percentage  *decimal.Decimal
	BaseAmount  *decimal.Decimal
	TaxCategory codetables.TaxCategory
	TaxRate     decimal.Decimal
	Reason      string
	ReasonCode  string
}

// Period is a date range (BG-14 invoicing period, BG-26 line period).
type Period struct {
	Start string // ISO 8601 date (YYYY-MM-DD)
	End   string
}

// LineItem is a single invoice line (BG-25).
type LineItem struct {
	ID               string
	ItemName         string
	Description      string
	SellerItemID     string
	BuyerItemID      string
	StandardItemID   string
	OriginCountry    string
	Quantity         decimal.Decimal
	UnitCode         string
	UnitPrice        decimal.Decimal
	GrossPrice       *decimal.Decimal
	BaseQuantity     *decimal.Decimal
	BaseQuantityUnit string
	TaxCategory      codetables.TaxCategory
	TaxRate          decimal.Decimal
	Allowances       []AllowanceCharge
	Charges          []AllowanceCharge
	Period           *Period
	Note             string

	// LineNet is derived by the calculator; zero-value until
	// InvoiceBuilder.Build has run it.
	LineNet decimal.Decimal
}
