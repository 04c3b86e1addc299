package model

import (
	"github.com/shopspring/decimal"

	"github.com/rezonia/rechnung/internal/codetables"
)

var smallInvoiceThreshold = decimal.NewFromInt(250)

// PrecedingInvoiceReference references an earlier invoice a credit note or
// corrective invoice relates to (BT-25).
type PrecedingInvoiceReference struct {
	Number    string
	IssueDate string
}

// Invoice is the root semantic entity: everything needed to serialize a
// conformant UBL or CII document, or to validate one against §14 UStG,
// EN 16931, XRechnung, or Peppol. Built exclusively through Builder; callers
// treat a built Invoice as immutable.
type Invoice struct {
	Number   string
	IssueDate string
	DueDate   string
	TypeCode  codetables.InvoiceTypeCode
	Currency  string
	TaxCurrency string

	Seller            Party
	Buyer             Party
	Payee             *Party
	TaxRepresentative *Party

	DeliveryAddress  *Address
	DeliveryDate     string
	InvoicingPeriod  *Period

	Lines      []LineItem
	Allowances []AllowanceCharge
	Charges    []AllowanceCharge
	Notes      []string

	VATScenario VATScenario

	Payment      PaymentInstructions
	PaymentTerms string

	Totals Totals

	BusinessProcessID string
	PrecedingInvoices []PrecedingInvoiceReference
	ProjectReference  string
	ContractReference string
	OrderReference    string
	BuyerReference    string
	BuyerAccountingReference string

	Attachments []DocumentAttachment

	TaxPointDate string
}

// IsSmallInvoice reports whether the invoice qualifies for the SmallInvoice
// exemptions (gross ≤ 250 in document currency). Compared as decimal.Decimal
// throughout; amounts never pass through float64.
func (inv *Invoice) IsSmallInvoice() bool {
	return inv.Totals.TaxInclusiveTotal.LessThanOrEqual(smallInvoiceThreshold)
}
