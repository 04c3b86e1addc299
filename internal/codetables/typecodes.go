package codetables

// InvoiceTypeCode is a UNTDID 1001 document-name code. Unrecognised codes
// are preserved verbatim via Other rather than rejected, so parsers never
// have to reject a value before a validator gets a chance to classify it.
type InvoiceTypeCode int

const (
	TypeInvoice    InvoiceTypeCode = 380
	TypeCreditNote InvoiceTypeCode = 381
	TypeCorrected  InvoiceTypeCode = 384
	TypePrepayment InvoiceTypeCode = 386
	TypePartial    InvoiceTypeCode = 326
)

// IsCreditNote reports whether the type code denotes a credit note.
func (c InvoiceTypeCode) IsCreditNote() bool {
	return c == TypeCreditNote
}

// PaymentMeansCode is a UNTDID 4461 payment-means code.
type PaymentMeansCode int

const (
	PaymentCash               PaymentMeansCode = 10
	PaymentCreditTransfer     PaymentMeansCode = 30
	PaymentToBankAccount      PaymentMeansCode = 42
	PaymentBankCard           PaymentMeansCode = 48
	PaymentDirectDebit        PaymentMeansCode = 49
	PaymentCreditCard         PaymentMeansCode = 54
	PaymentDebitCard          PaymentMeansCode = 55
	PaymentStandingAgreement  PaymentMeansCode = 57
	PaymentSEPACreditTransfer PaymentMeansCode = 58
	PaymentSEPADirectDebit    PaymentMeansCode = 59
)

// TaxCategory is a UNTDID 5305 VAT category code.
type TaxCategory string

const (
	TaxStandardRate         TaxCategory = "S"
	TaxZeroRated            TaxCategory = "Z"
	TaxExempt               TaxCategory = "E"
	TaxReverseCharge        TaxCategory = "AE"
	TaxIntraCommunitySupply TaxCategory = "K"
	TaxExport               TaxCategory = "G"
	TaxNotSubjectToVAT      TaxCategory = "O"
)

// RequiresExemptionReason reports whether the category requires an
// accompanying exemption reason text/code on the VAT breakdown entry.
func (c TaxCategory) RequiresExemptionReason() bool {
	switch c {
	case TaxExempt, TaxReverseCharge, TaxIntraCommunitySupply, TaxExport, TaxNotSubjectToVAT:
		return true
	default:
		return false
	}
}
