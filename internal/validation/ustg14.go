// Package validation implements the three validation layers this library
// stacks on top of a calculated Invoice: §14 UStG / §33 UStDV German VAT law,
// the EN 16931 European semantic standard, and the XRechnung/Peppol CIUS
// overlays. Each layer returns every finding it can, rather than stopping at
// the first.
package validation

import (
	"strings"

	"github.com/rezonia/rechnung/internal/codetables"
	"github.com/rezonia/rechnung/internal/model"
)

// ValidateUStG14 checks an invoice against §14 UStG / §33 UStDV mandatory
// content requirements: invoice number, currency, seller/buyer identity and
// address, tax identification, delivery date or period, and scenario-specific
// rules (Kleinunternehmer, reverse charge, intra-community supply, export,
// small-value invoices). It also runs arithmetic validation, since §14
// invoices must already be internally consistent.
func ValidateUStG14(inv *model.Invoice) []*model.ValidationError {
	var errs []*model.ValidationError

	if strings.TrimSpace(inv.Number) == "" {
		errs = append(errs, model.NewValidationError("BR-02", "", "number", "invoice number must not be empty"))
	}

	if strings.TrimSpace(inv.Currency) == "" {
		errs = append(errs, model.NewValidationError("BR-05", "", "currency_code", "currency code must not be empty"))
	}

	errs = append(errs, validateSellerParty(&inv.Seller, "seller")...)
	errs = append(errs, validateBuyerParty(&inv.Buyer, "buyer", inv.VATScenario)...)

	// BR-CO-09: a tax representative's VAT ID suffices in place of the
	// seller's own VAT ID or tax number.
	if inv.VATScenario != model.ScenarioSmallInvoice &&
		(inv.TaxRepresentative == nil || inv.TaxRepresentative.VATID == "") &&
		inv.Seller.VATID == "" && inv.Seller.TaxNumber == "" {
		errs = append(errs, model.NewValidationError("BR-CO-09", "", "seller",
			"seller must have either a VAT ID (USt-IdNr.) or tax number (Steuernummer)"))
	}

	if inv.Seller.VATID != "" {
		errs = append(errs, validateVATIDFormat(inv.Seller.VATID, "seller.vat_id")...)
	}
	if inv.Buyer.VATID != "" {
		errs = append(errs, validateVATIDFormat(inv.Buyer.VATID, "buyer.vat_id")...)
	}

	// §14 Abs. 4 Nr. 6 UStG: delivery date or invoicing period, unless a
	// Kleinbetragsrechnung (§33 UStDV).
	if inv.VATScenario != model.ScenarioSmallInvoice && inv.TaxPointDate == "" && inv.InvoicingPeriod == nil {
		errs = append(errs, model.NewValidationError("BR-CO-03", "", "tax_point_date",
			"invoice must have a delivery date (Leistungsdatum) or invoicing period (§14 Abs. 4 Nr. 6 UStG)"))
	}

	if len(inv.Lines) == 0 {
		errs = append(errs, model.NewValidationError("BR-16", "", "lines", "invoice must have at least one line item"))
	}
	for i := range inv.Lines {
		errs = append(errs, validateLine(&inv.Lines[i], i)...)
	}

	errs = append(errs, validateScenario(inv)...)
	errs = append(errs, ValidateArithmetic(inv)...)

	return errs
}

// ValidateArithmetic re-derives every total from the invoice's lines and
// checks it against the stored Totals, catching any divergence between what
// the calculator produced and what is actually on the invoice (e.g. after
// manual mutation).
func ValidateArithmetic(inv *model.Invoice) []*model.ValidationError {
	var errs []*model.ValidationError

	totals := inv.Totals

	var expectedLineTotal = decimalZero()
	for _, l := range inv.Lines {
		expectedLineTotal = expectedLineTotal.Add(l.LineNet)
	}
	if !totals.LineNetTotal.Equal(expectedLineTotal) {
		errs = append(errs, model.NewValidationError("BR-CO-10", "BT-106", "totals.line_net_total",
			"line net total "+totals.LineNetTotal.String()+" does not match sum of line amounts "+expectedLineTotal.String()))
	}

	expectedNet := totals.LineNetTotal.Sub(totals.AllowancesTotal).Add(totals.ChargesTotal)
	if !totals.TaxExclusiveTotal.Equal(expectedNet) {
		errs = append(errs, model.NewValidationError("BR-CO-11", "BT-109", "totals.tax_exclusive_total",
			"net total "+totals.TaxExclusiveTotal.String()+" does not match calculation "+expectedNet.String()))
	}

	expectedGross := totals.TaxExclusiveTotal.Add(totals.VATTotal)
	if !totals.TaxInclusiveTotal.Equal(expectedGross) {
		errs = append(errs, model.NewValidationError("BR-CO-15", "BT-112", "totals.tax_inclusive_total",
			"gross total "+totals.TaxInclusiveTotal.String()+" does not match net "+totals.TaxExclusiveTotal.String()+" + vat "+totals.VATTotal.String()))
	}

	expectedDue := totals.TaxInclusiveTotal.Sub(totals.Prepaid)
	if !totals.AmountDue.Equal(expectedDue) {
		errs = append(errs, model.NewValidationError("BR-CO-16", "BT-115", "totals.amount_due",
			"amount due "+totals.AmountDue.String()+" does not match gross "+totals.TaxInclusiveTotal.String()+" - prepaid "+totals.Prepaid.String()))
	}

	breakdownVATTotal := decimalZero()
	for _, vb := range totals.VATBreakdown {
		breakdownVATTotal = breakdownVATTotal.Add(vb.TaxAmount)
	}
	if !totals.VATTotal.Equal(breakdownVATTotal) {
		errs = append(errs, model.NewValidationError("BR-CO-14", "BT-110", "totals.vat_total",
			"VAT total "+totals.VATTotal.String()+" does not match sum of breakdown amounts "+breakdownVATTotal.String()))
	}

	return errs
}

func validateSellerParty(p *model.Party, prefix string) []*model.ValidationError {
	var errs []*model.ValidationError
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, model.NewValidationError("BR-06", "BT-27", prefix+".name", "name must not be empty"))
	}
	errs = append(errs, validateAddress(&p.Address, prefix+".address")...)
	return errs
}

func validateBuyerParty(p *model.Party, prefix string, scenario model.VATScenario) []*model.ValidationError {
	// §33 UStDV: Kleinbetragsrechnung doesn't require buyer details.
	if scenario == model.ScenarioSmallInvoice {
		return nil
	}
	var errs []*model.ValidationError
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, model.NewValidationError("BR-07", "BT-44", prefix+".name", "buyer name must not be empty"))
	}
	errs = append(errs, validateAddress(&p.Address, prefix+".address")...)
	return errs
}

func validateAddress(a *model.Address, prefix string) []*model.ValidationError {
	var errs []*model.ValidationError
	if strings.TrimSpace(a.City) == "" {
		errs = append(errs, model.NewValidationError("BR-09", "", prefix+".city", "city must not be empty"))
	}
	if strings.TrimSpace(a.PostalCode) == "" {
		errs = append(errs, model.NewValidationError("BR-09", "", prefix+".postal_code", "postal code (BT-38/BT-53) must not be empty"))
	}
	if strings.TrimSpace(a.CountryCode) == "" {
		errs = append(errs, model.NewValidationError("BR-09", "", prefix+".country_code", "country code must not be empty"))
	} else if len(a.CountryCode) != 2 {
		errs = append(errs, model.NewValidationError("BR-09", "", prefix+".country_code", "country code (BT-40/BT-55) must be 2 characters (ISO 3166-1 alpha-2)"))
	} else if !codetables.IsKnownCountry(a.CountryCode) {
		errs = append(errs, model.NewValidationError("BR-09", "", prefix+".country_code", "country code '"+a.CountryCode+"' is not a known ISO 3166-1 alpha-2 code"))
	}
	return errs
}

func validateLine(line *model.LineItem, index int) []*model.ValidationError {
	prefix := lineRef(index)
	var errs []*model.ValidationError

	if strings.TrimSpace(line.ID) == "" {
		errs = append(errs, model.NewValidationError("BR-21", "BT-126", prefix+".id", "line identifier must not be empty"))
	}
	if line.Quantity.IsZero() {
		errs = append(errs, model.NewValidationError("BR-22", "BT-129", prefix+".quantity", "invoiced quantity (BT-129) must not be zero"))
	}
	if line.UnitPrice.IsNegative() {
		errs = append(errs, model.NewValidationError("BR-27", "BT-146", prefix+".unit_price", "item net price (BT-146) must not be negative"))
	}
	if strings.TrimSpace(line.ItemName) == "" {
		errs = append(errs, model.NewValidationError("BR-25", "BT-153", prefix+".item_name", "item name must not be empty"))
	}
	if line.TaxRate.IsNegative() {
		errs = append(errs, model.NewValidationError("BR-27", "BT-152", prefix+".tax_rate", "line VAT rate (BT-152) must not be negative"))
	}

	switch line.TaxCategory {
	case codetables.TaxZeroRated, codetables.TaxExempt, codetables.TaxReverseCharge,
		codetables.TaxIntraCommunitySupply, codetables.TaxExport, codetables.TaxNotSubjectToVAT:
		if !line.TaxRate.IsZero() {
			errs = append(errs, model.NewValidationError("BR-AE-05", "BT-152", prefix+".tax_rate",
				"tax rate must be 0 for category "+string(line.TaxCategory)))
		}
	case codetables.TaxStandardRate:
		if line.TaxRate.IsZero() {
			errs = append(errs, model.NewValidationError("BR-S-05", "BT-152", prefix+".tax_rate",
				"standard rate (S) category (BT-151) must have a non-zero VAT rate (BT-152)"))
		}
	}

	return errs
}

func validateScenario(inv *model.Invoice) []*model.ValidationError {
	var errs []*model.ValidationError

	switch inv.VATScenario {
	case model.ScenarioKleinunternehmer:
		if !hasNoteContaining(inv.Notes, "19", "UStG") {
			errs = append(errs, model.NewValidationError("BR-O-10", "BT-22", "notes",
				"Kleinunternehmer invoice must contain a note (BT-22) referencing §19 UStG"))
		}
		for i, l := range inv.Lines {
			if l.TaxCategory != codetables.TaxNotSubjectToVAT {
				errs = append(errs, model.NewValidationError("BR-O-01", "BT-151", lineRef(i)+".tax_category",
					"Kleinunternehmer lines must use NotSubjectToVat (O) category (BT-151)"))
			}
		}

	case model.ScenarioReverseCharge:
		if inv.Buyer.VATID == "" {
			errs = append(errs, model.NewValidationError("BR-AE-02", "BT-48", "buyer.vat_id",
				"reverse charge: buyer must have a VAT ID (BT-48)"))
		}
		if !hasNoteContaining(inv.Notes, "13b", "UStG") {
			errs = append(errs, model.NewValidationError("BR-AE-10", "BT-22", "notes",
				"reverse charge invoice must contain a note (BT-22) referencing §13b UStG"))
		}
		for i, l := range inv.Lines {
			if l.TaxCategory != codetables.TaxReverseCharge {
				errs = append(errs, model.NewValidationError("BR-AE-01", "BT-151", lineRef(i)+".tax_category",
					"reverse charge lines must use ReverseCharge (AE) category (BT-151)"))
			}
		}

	case model.ScenarioIntraCommunitySupply:
		if inv.Seller.VATID == "" {
			errs = append(errs, model.NewValidationError("BR-IC-02", "BT-31", "seller.vat_id",
				"intra-community supply: seller must have a VAT ID (BT-31)"))
		}
		if inv.Buyer.VATID == "" {
			errs = append(errs, model.NewValidationError("BR-IC-03", "BT-48", "buyer.vat_id",
				"intra-community supply: buyer must have a VAT ID (BT-48)"))
		}
		if inv.Seller.Address.CountryCode == inv.Buyer.Address.CountryCode {
			errs = append(errs, model.NewValidationError("BR-IC-04", "BT-55", "buyer.address.country_code",
				"intra-community supply: buyer country (BT-55) must differ from seller country (BT-40)"))
		}
		for i, l := range inv.Lines {
			if l.TaxCategory != codetables.TaxIntraCommunitySupply {
				errs = append(errs, model.NewValidationError("BR-IC-01", "BT-151", lineRef(i)+".tax_category",
					"intra-community supply lines must use IntraCommunitySupply (K) category (BT-151)"))
			}
		}

	case model.ScenarioExport:
		for i, l := range inv.Lines {
			if l.TaxCategory != codetables.TaxExport {
				errs = append(errs, model.NewValidationError("BR-G-01", "BT-151", lineRef(i)+".tax_category",
					"export lines must use Export (G) category (BT-151)"))
			}
		}

	case model.ScenarioSmallInvoice:
		if inv.Totals.TaxInclusiveTotal.GreaterThan(decimalFromInt(250)) {
			errs = append(errs, model.NewValidationError("BR-DE-17", "BT-112", "totals.gross_total",
				"Kleinbetragsrechnung (§33 UStDV) gross total (BT-112) must not exceed €250, got: "+inv.Totals.TaxInclusiveTotal.String()))
		}

	case model.ScenarioDomestic, model.ScenarioMixed:
		// No additional restrictions.
	}

	return errs
}

func validateVATIDFormat(vatID, field string) []*model.ValidationError {
	var errs []*model.ValidationError
	if len(vatID) < 4 {
		errs = append(errs, model.NewValidationError("BR-CO-09", "", field,
			"VAT ID (BT-31/BT-48) '"+vatID+"' too short — expected 2-letter country code + identifier"))
		return errs
	}

	prefix := vatID[:2]
	if !isASCIIUpper(prefix) {
		errs = append(errs, model.NewValidationError("BR-CO-09", "", field,
			"VAT ID (BT-31/BT-48) must start with a 2-letter country code (e.g. DE, AT, FR), got: '"+prefix+"'"))
	}

	if prefix == "DE" {
		digits := strings.Map(func(r rune) rune {
			if r == ' ' || r == '\t' {
				return -1
			}
			return r
		}, vatID[2:])
		if len(digits) != 9 || !isASCIIDigits(digits) {
			errs = append(errs, model.NewValidationError("BR-CO-09", "", field,
				"German VAT ID must be DE followed by exactly 9 digits (e.g. DE123456789), got: '"+vatID+"'"))
		}
	}

	return errs
}

func hasNoteContaining(notes []string, substrs ...string) bool {
	for _, n := range notes {
		ok := true
		for _, s := range substrs {
			if !strings.Contains(n, s) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func isASCIIUpper(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func isASCIIDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func lineRef(i int) string {
	return "lines[" + itoa(i) + "]"
}
