package validation

import (
	"strconv"
	"strings"

	"github.com/rezonia/rechnung/internal/codetables"
	"github.com/rezonia/rechnung/internal/model"
)

var xrechnungAllowedTypeCodes = []int{326, 380, 381, 384, 389, 875, 876, 877}
var xrechnungAllowedMeans = []int{30, 48, 54, 55, 58, 59}

// ValidateXRechnungFull runs ValidateUStG14, ValidateEN16931, and the
// XRechnung CIUS overlay (BR-DE-*), concatenating every finding in stable
// order.
func ValidateXRechnungFull(inv *model.Invoice) []*model.ValidationError {
	var errs []*model.ValidationError
	errs = append(errs, ValidateUStG14(inv)...)
	errs = append(errs, ValidateEN16931(inv)...)
	errs = append(errs, ValidateXRechnung(inv)...)
	return errs
}

// ValidateXRechnung checks the XRechnung CIUS rules (BR-DE-*) on top of the
// EN 16931 baseline: mandatory payment instructions, seller contact details,
// buyer reference / Leitweg-ID, electronic addresses, Skonto payment-terms
// format, and means-code-specific payment detail requirements.
func ValidateXRechnung(inv *model.Invoice) []*model.ValidationError {
	var errs []*model.ValidationError

	if inv.Payment.IsZero() {
		errs = append(errs, model.NewValidationError("BR-DE-1", "BG-16", "payment",
			"XRechnung requires payment instructions (BG-16)"))
	}

	if inv.Seller.Contact == nil {
		errs = append(errs, model.NewValidationError("BR-DE-2", "BG-6", "seller.contact",
			"XRechnung requires seller contact information (BG-6)"))
	} else {
		c := inv.Seller.Contact
		if strings.TrimSpace(c.Name) == "" {
			errs = append(errs, model.NewValidationError("BR-DE-5", "BT-41", "seller.contact.name",
				"XRechnung requires seller contact name (BT-41)"))
		}
		if strings.TrimSpace(c.Phone) == "" {
			errs = append(errs, model.NewValidationError("BR-DE-6", "BT-42", "seller.contact.phone",
				"XRechnung requires seller contact telephone (BT-42)"))
		} else if digitCount(c.Phone) < 3 {
			errs = append(errs, model.NewValidationError("BR-DE-27", "BT-42", "seller.contact.phone",
				"Telephone number (BT-42) must contain at least 3 digits"))
		}
		if strings.TrimSpace(c.Email) == "" {
			errs = append(errs, model.NewValidationError("BR-DE-7", "BT-43", "seller.contact.email",
				"XRechnung requires seller contact email (BT-43)"))
		} else if !isValidEmailShape(c.Email) {
			errs = append(errs, model.NewValidationError("BR-DE-28", "BT-43", "seller.contact.email",
				"Email address (BT-43) must contain exactly one @ with non-empty local and domain parts"))
		}
	}

	for i, vb := range inv.Totals.VATBreakdown {
		if vb.Rate.IsNegative() {
			errs = append(errs, model.NewValidationError("BR-DE-14", "BT-119", vatBreakdownRef(i)+".rate",
				"VAT category rate (BT-119) must be provided and non-negative"))
		}
	}

	if strings.TrimSpace(inv.BuyerReference) == "" {
		errs = append(errs, model.NewValidationError("BR-DE-15", "BT-10", "buyer_reference",
			"XRechnung requires buyer reference / Leitweg-ID (BT-10)"))
	}

	if inv.Seller.VATID == "" && inv.Seller.TaxNumber == "" {
		errs = append(errs, model.NewValidationError("BR-DE-16", "BT-31", "seller",
			"XRechnung requires seller VAT ID (BT-31) or tax number (BT-32)"))
	}

	if !containsInt(xrechnungAllowedTypeCodes, int(inv.TypeCode)) {
		errs = append(errs, model.NewValidationError("BR-DE-17", "BT-3", "type_code",
			"XRechnung invoice type code "+strconv.Itoa(int(inv.TypeCode))+" is not in the allowed set "+intsToString(xrechnungAllowedTypeCodes)))
	}

	if inv.PaymentTerms != "" && strings.Contains(inv.PaymentTerms, "#SKONTO#") && !isValidSkontoFormat(inv.PaymentTerms) {
		errs = append(errs, model.NewValidationError("BR-DE-18", "BT-20", "payment_terms",
			"Payment terms containing #SKONTO# must follow XRechnung format: #SKONTO#TAGE=N#PROZENT=N.NN#"))
	}

	if len(inv.Attachments) > 1 {
		filenames := make(map[string]struct{}, len(inv.Attachments))
		for i, att := range inv.Attachments {
			if len(att.Embedded) == 0 || att.Filename == "" {
				continue
			}
			if _, ok := filenames[att.Filename]; ok {
				errs = append(errs, model.NewValidationError("BR-DE-22", "BG-24", attachmentRef(i)+".filename",
					"Embedded document filenames must be unique; duplicate: '"+att.Filename+"'"))
				continue
			}
			filenames[att.Filename] = struct{}{}
		}
	}

	if (inv.TypeCode == codetables.TypeCorrected || inv.TypeCode == codetables.TypeCreditNote) && len(inv.PrecedingInvoices) == 0 {
		errs = append(errs, model.NewValidationError("BR-DE-26", "BG-3", "preceding_invoices",
			"Corrected invoice (type 384) or credit note (type 381) should reference the preceding invoice (BG-3)"))
	}

	errs = append(errs, validatePaymentMeansDetails(inv)...)

	if inv.Seller.ElectronicAddress == nil {
		errs = append(errs, model.NewValidationError("BR-DE-26", "BT-34", "seller.electronic_address",
			"XRechnung requires seller electronic address (BT-34)"))
	}
	if inv.Buyer.ElectronicAddress == nil {
		errs = append(errs, model.NewValidationError("BR-DE-28", "BT-49", "buyer.electronic_address",
			"XRechnung requires buyer electronic address (BT-49)"))
	}

	return errs
}

func validatePaymentMeansDetails(inv *model.Invoice) []*model.ValidationError {
	if inv.Payment.IsZero() {
		return nil
	}
	var errs []*model.ValidationError
	code := int(inv.Payment.MeansCode)
	p := inv.Payment

	if !containsInt(xrechnungAllowedMeans, code) {
		errs = append(errs, model.NewValidationError("BR-DE-23", "BT-81", "payment.means_code",
			"XRechnung payment means code "+strconv.Itoa(code)+" is not in the allowed set "+intsToString(xrechnungAllowedMeans)))
	}

	switch code {
	case 30, 58:
		if p.CreditTransfer == nil {
			errs = append(errs, model.NewValidationError("BR-DE-23", "BG-17", "payment.credit_transfer",
				"Credit transfer codes (30, 58) require credit transfer information (BG-17)"))
		}
		if p.CardPayment != nil || p.DirectDebit != nil {
			errs = append(errs, model.NewValidationError("BR-DE-23", "BG-16", "payment",
				"Credit transfer codes (30, 58) must not include card payment (BG-18) or direct debit (BG-19)"))
		}
		if p.CreditTransfer != nil && p.CreditTransfer.IBAN != "" && !isValidIBANFormat(p.CreditTransfer.IBAN) {
			errs = append(errs, model.NewValidationError("BR-DE-19", "BT-84", "payment.credit_transfer.iban",
				"IBAN (BT-84) must start with 2 uppercase letters followed by digits"))
		}

	case 48, 54, 55:
		if p.CardPayment == nil {
			errs = append(errs, model.NewValidationError("BR-DE-24", "BG-18", "payment.card_payment",
				"Card payment codes (48, 54, 55) require card payment information (BG-18)"))
		}
		if p.CreditTransfer != nil || p.DirectDebit != nil {
			errs = append(errs, model.NewValidationError("BR-DE-24", "BG-16", "payment",
				"Card payment codes (48, 54, 55) must not include credit transfer (BG-17) or direct debit (BG-19)"))
		}

	case 59:
		if p.DirectDebit == nil {
			errs = append(errs, model.NewValidationError("BR-DE-25", "BG-19", "payment.direct_debit",
				"Direct debit code (59) requires direct debit information (BG-19)"))
		}
		if p.CreditTransfer != nil || p.CardPayment != nil {
			errs = append(errs, model.NewValidationError("BR-DE-25", "BG-16", "payment",
				"Direct debit code (59) must not include credit transfer (BG-17) or card payment (BG-18)"))
		}
		if p.DirectDebit != nil && p.DirectDebit.DebitedIBAN != "" && !isValidIBANFormat(p.DirectDebit.DebitedIBAN) {
			errs = append(errs, model.NewValidationError("BR-DE-20", "BT-91", "payment.direct_debit.debited_account_id",
				"Debited account IBAN (BT-91) must start with 2 uppercase letters followed by digits"))
		}
	}

	if p.DirectDebit != nil {
		if strings.TrimSpace(p.DirectDebit.CreditorID) == "" {
			errs = append(errs, model.NewValidationError("BR-DE-30", "BT-90", "payment.direct_debit.creditor_id",
				"Direct debit requires bank assigned creditor identifier (BT-90)"))
		}
		if strings.TrimSpace(p.DirectDebit.DebitedIBAN) == "" {
			errs = append(errs, model.NewValidationError("BR-DE-31", "BT-91", "payment.direct_debit.debited_account_id",
				"Direct debit requires debited account identifier (BT-91)"))
		}
	}

	return errs
}

// isValidIBANFormat checks 2 uppercase letters + 2 digits + up to 30
// alphanumeric characters, per BR-DE-19/20.
func isValidIBANFormat(iban string) bool {
	s := strings.ReplaceAll(iban, " ", "")
	if len(s) < 5 || len(s) > 34 {
		return false
	}
	b := []byte(s)
	if !(b[0] >= 'A' && b[0] <= 'Z') || !(b[1] >= 'A' && b[1] <= 'Z') {
		return false
	}
	if !(b[2] >= '0' && b[2] <= '9') || !(b[3] >= '0' && b[3] <= '9') {
		return false
	}
	for _, c := range b[4:] {
		if !isAlphanumeric(c) {
			return false
		}
	}
	return true
}

// isValidSkontoFormat checks that every line starting with #SKONTO#
// contains TAGE= and PROZENT= and ends with '#'. The values after TAGE= and
// PROZENT= and the order of the parts are not checked.
func isValidSkontoFormat(terms string) bool {
	for _, line := range strings.Split(terms, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#SKONTO#") {
			if !strings.Contains(trimmed, "TAGE=") || !strings.Contains(trimmed, "PROZENT=") {
				return false
			}
			if !strings.HasSuffix(trimmed, "#") {
				return false
			}
		}
	}
	return true
}

func isAlphanumeric(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func isValidEmailShape(email string) bool {
	if strings.TrimSpace(email) == "" {
		return true
	}
	parts := strings.SplitN(email, "@", 2)
	if strings.Count(email, "@") != 1 || len(parts) != 2 {
		return false
	}
	return strings.TrimSpace(parts[0]) != "" && strings.TrimSpace(parts[1]) != ""
}

func containsInt(haystack []int, needle int) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

func intsToString(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func attachmentRef(i int) string { return "attachments[" + itoa(i) + "]" }
