package vat

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rezonia/rechnung/internal/codetables"
	"github.com/rezonia/rechnung/internal/model"
)

var euCountries = map[string]bool{
	"AT": true, "BE": true, "BG": true, "CY": true, "CZ": true, "DE": true,
	"DK": true, "EE": true, "ES": true, "FI": true, "FR": true, "GR": true,
	"HR": true, "HU": true, "IE": true, "IT": true, "LT": true, "LU": true,
	"LV": true, "MT": true, "NL": true, "PL": true, "PT": true, "RO": true,
	"SE": true, "SI": true, "SK": true,
}

func isEU(country string) bool {
	return euCountries[strings.ToUpper(country)]
}

var smallInvoiceLimit = decimal.NewFromInt(250)

// DetermineScenario auto-detects the VAT scenario for an invoice from its
// parties, tax categories, and (if already calculated) gross total. This is
// a best-effort heuristic; callers can always override by setting
// Invoice.VATScenario directly.
//
// Order of checks:
//  1. gross total in (0, 250] → SmallInvoice
//  2. any line uses ReverseCharge → ReverseCharge
//  3. seller EU, buyer non-EU → Export
//  4. seller and buyer in different EU countries and buyer has a VAT ID →
//     IntraCommunitySupply
//  5. all lines Exempt or NotSubjectToVAT → Kleinunternehmer
//  6. mixed tax rates across lines → Mixed
//  7. otherwise → Domestic
func DetermineScenario(inv *model.Invoice) model.VATScenario {
	sellerCountry := strings.ToUpper(inv.Seller.Address.CountryCode)
	buyerCountry := strings.ToUpper(inv.Buyer.Address.CountryCode)
	sellerEU := isEU(sellerCountry)
	buyerEU := isEU(buyerCountry)

	if inv.Totals.TaxInclusiveTotal.GreaterThan(decimal.Zero) &&
		inv.Totals.TaxInclusiveTotal.LessThanOrEqual(smallInvoiceLimit) {
		return model.ScenarioSmallInvoice
	}

	categories := make([]codetables.TaxCategory, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		categories = append(categories, l.TaxCategory)
	}

	for _, c := range categories {
		if c == codetables.TaxReverseCharge {
			return model.ScenarioReverseCharge
		}
	}

	if sellerEU && !buyerEU {
		return model.ScenarioExport
	}

	if sellerEU && buyerEU && sellerCountry != buyerCountry && inv.Buyer.VATID != "" {
		return model.ScenarioIntraCommunitySupply
	}

	if len(categories) > 0 && allExemptOrNotSubject(categories) {
		return model.ScenarioKleinunternehmer
	}

	if len(distinctRates(inv.Lines)) > 1 {
		return model.ScenarioMixed
	}

	return model.ScenarioDomestic
}

func allExemptOrNotSubject(categories []codetables.TaxCategory) bool {
	for _, c := range categories {
		if c != codetables.TaxExempt && c != codetables.TaxNotSubjectToVAT {
			return false
		}
	}
	return true
}

func distinctRates(lines []model.LineItem) map[string]bool {
	rates := map[string]bool{}
	for _, l := range lines {
		rates[l.TaxRate.String()] = true
	}
	return rates
}
