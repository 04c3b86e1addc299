package validation

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/rezonia/rechnung/internal/codetables"
	dec "github.com/rezonia/rechnung/internal/decimal"
	"github.com/rezonia/rechnung/internal/model"
)

// peppolAttachmentLimit is the PEPPOL-EN16931-R080 ceiling on the combined
// size of every embedded attachment, in bytes.
const peppolAttachmentLimit = 200 * 1024 * 1024

const lineExtensionTolerance = "0.01"

var peppolAllowedTypeCodes = []codetables.InvoiceTypeCode{
	codetables.TypeInvoice, codetables.TypeCreditNote, codetables.TypeCorrected,
	codetables.TypePrepayment, codetables.TypePartial,
}

// ValidatePeppolFull runs ValidateUStG14, ValidateEN16931, and the Peppol
// BIS Billing 3.0 overlay (PEPPOL-EN16931-*) in one call.
func ValidatePeppolFull(inv *model.Invoice) []*model.ValidationError {
	var errs []*model.ValidationError
	errs = append(errs, ValidateUStG14(inv)...)
	errs = append(errs, ValidateEN16931(inv)...)
	errs = append(errs, ValidatePeppol(inv)...)
	return errs
}

// ValidatePeppol checks Peppol BIS Billing 3.0 rules, which are stricter
// than plain EN 16931 or XRechnung: mandatory electronic addresses on both
// parties, a buyer or order reference, restricted type codes (326/384 only
// between two German parties), and structural checks on line quantities,
// line-level charges, and allowance/charge percentage-basis pairing.
func ValidatePeppol(inv *model.Invoice) []*model.ValidationError {
	var errs []*model.ValidationError

	if inv.BuyerReference == "" && inv.OrderReference == "" {
		errs = append(errs, model.NewValidationError("PEPPOL-EN16931-R003", "BT-10", "buyer_reference",
			"buyer reference or order reference is required"))
	}

	if inv.Seller.ElectronicAddress == nil {
		errs = append(errs, model.NewValidationError("PEPPOL-EN16931-R020", "BT-34", "seller.electronic_address",
			"seller electronic address (EndpointID) is required"))
	}
	if inv.Buyer.ElectronicAddress == nil {
		errs = append(errs, model.NewValidationError("PEPPOL-EN16931-R010", "BT-49", "buyer.electronic_address",
			"buyer electronic address (EndpointID) is required"))
	}

	if inv.Number == "" {
		errs = append(errs, model.NewValidationError("PEPPOL-EN16931-R008", "BT-1", "number",
			"invoice number must not be empty"))
	}
	if inv.Seller.Name == "" {
		errs = append(errs, model.NewValidationError("PEPPOL-EN16931-R008", "BT-27", "seller.name",
			"seller name must not be empty"))
	}
	if inv.Buyer.Name == "" {
		errs = append(errs, model.NewValidationError("PEPPOL-EN16931-R008", "BT-44", "buyer.name",
			"buyer name must not be empty"))
	}

	if !containsTypeCode(peppolAllowedTypeCodes, inv.TypeCode) {
		errs = append(errs, model.NewValidationError("PEPPOL-EN16931-P0100", "BT-3", "type_code",
			"Peppol does not support invoice type code "+strconv.Itoa(int(inv.TypeCode))))
	}

	if inv.TypeCode == codetables.TypePartial || inv.TypeCode == codetables.TypeCorrected {
		sellerDE := inv.Seller.Address.CountryCode == "DE"
		buyerDE := inv.Buyer.Address.CountryCode == "DE"
		if !sellerDE || !buyerDE {
			errs = append(errs, model.NewValidationError("PEPPOL-EN16931-P0112", "BT-3", "type_code",
				"invoice type code "+strconv.Itoa(int(inv.TypeCode))+" is only allowed when both seller and buyer are in Germany"))
		}
	}

	if inv.Payment.MeansCode == codetables.PaymentDirectDebit || inv.Payment.MeansCode == codetables.PaymentSEPADirectDebit {
		if inv.Payment.RemittanceInfo == "" {
			errs = append(errs, model.NewValidationError("PEPPOL-EN16931-R061", "BT-83", "payment.remittance_info",
				"mandate reference is required for direct debit payments"))
		}
	}

	if len(inv.Totals.VATBreakdown) == 0 {
		errs = append(errs, model.NewValidationError("PEPPOL-EN16931-R053", "BG-23", "totals.vat_breakdown",
			"at least one tax subtotal is required"))
	}

	tolerance := dec.MustFromString(lineExtensionTolerance)
	for i, line := range inv.Lines {
		if !line.Quantity.IsPositive() {
			errs = append(errs, model.NewValidationError("PEPPOL-EN16931-R121", "BT-129", lineRef(i)+".quantity",
				"invoiced quantity must be positive"))
		}
		for j := range line.Charges {
			errs = append(errs, model.NewValidationError("PEPPOL-EN16931-R044", "BT-141", lineRef(i)+".charges["+itoa(j)+"]",
				"charges at line price level are not allowed in Peppol"))
		}

		expected := expectedLineExtension(&line)
		if !dec.WithinTolerance(line.LineNet, expected, tolerance) {
			errs = append(errs, model.NewValidationError("PEPPOL-EN16931-R100", "BT-131", lineRef(i)+".line_net",
				"line net amount "+line.LineNet.String()+" does not match quantity × unit price − allowances + charges = "+expected.String()+" (tolerance ±0.01)"))
		}
	}

	attachmentBytes := 0
	for _, att := range inv.Attachments {
		attachmentBytes += len(att.Embedded)
	}
	if attachmentBytes > peppolAttachmentLimit {
		errs = append(errs, model.NewValidationError("PEPPOL-EN16931-R080", "BG-24", "attachments",
			"combined embedded attachment size exceeds the 200 MB Peppol limit"))
	}

	for _, ac := range allAllowancesAndCharges(inv) {
		if ac.Percentage != nil && ac.BaseAmount == nil {
			errs = append(errs, model.NewValidationError("PEPPOL-EN16931-R041", "BT-94", "allowances/charges",
				"base amount is required when percentage is provided"))
		}
		if ac.BaseAmount != nil && ac.Percentage == nil {
			errs = append(errs, model.NewValidationError("PEPPOL-EN16931-R042", "BT-93", "allowances/charges",
				"percentage is required when base amount is provided"))
		}
	}

	return errs
}

// expectedLineExtension re-derives BT-131 the same way the calculator does,
// so R100 catches a line whose stored net amount doesn't match its own
// quantity, price, and line-level allowances/charges.
func expectedLineExtension(line *model.LineItem) decimal.Decimal {
	unitPrice := line.UnitPrice
	if line.BaseQuantity != nil && !line.BaseQuantity.IsZero() {
		unitPrice = unitPrice.Div(*line.BaseQuantity)
	}
	gross := line.Quantity.Mul(unitPrice)
	net := gross.Sub(sumAmounts(line.Allowances)).Add(sumAmounts(line.Charges))
	return dec.Round2(net)
}

func sumAmounts(items []model.AllowanceCharge) decimal.Decimal {
	total := dec.Zero
	for _, ac := range items {
		total = total.Add(ac.Amount)
	}
	return total
}

func allAllowancesAndCharges(inv *model.Invoice) []model.AllowanceCharge {
	out := make([]model.AllowanceCharge, 0, len(inv.Allowances)+len(inv.Charges))
	out = append(out, inv.Allowances...)
	out = append(out, inv.Charges...)
	return out
}

func containsTypeCode(haystack []codetables.InvoiceTypeCode, needle codetables.InvoiceTypeCode) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}
