package model

import "github.com/rezonia/rechnung/internal/codetables"

// CreditTransfer carries SEPA/wire credit-transfer remittance details (BG-17).
type CreditTransfer struct {
	IBAN          string
	BIC           string
	AccountName   string
}

// CardPayment carries masked payment-card details (BG-18).
type CardPayment struct {
	PANLastDigits string
	HolderName    string
}

// DirectDebit carries SEPA direct-debit mandate details (BG-19).
type DirectDebit struct {
	MandateID    string
	CreditorID   string
	DebitedIBAN  string
}

// PaymentInstructions describes how the invoice is to be paid (BG-16..19).
// At most one of CreditTransfer, CardPayment, or DirectDebit is set,
// consistent with the means code.
type PaymentInstructions struct {
	MeansCode      codetables.PaymentMeansCode
	MeansText      string
	RemittanceInfo string
	CreditTransfer *CreditTransfer
	CardPayment    *CardPayment
	DirectDebit    *DirectDebit
}

// IsZero reports whether no payment instructions were set at all.
func (p PaymentInstructions) IsZero() bool {
	return p.MeansCode == 0 && p.MeansText == "" && p.RemittanceInfo == "" &&
		p.CreditTransfer == nil && p.CardPayment == nil && p.DirectDebit == nil
}

// DocumentAttachment is a supporting document (BG-24). Embedded XOR URI is
// set, never both: embedded carries the raw bytes (base64 on the wire),
// URI references an external resource.
type DocumentAttachment struct {
	ID          string
	Filename    string
	MimeType    string
	Description string
	Embedded    []byte
	URI         string
}
