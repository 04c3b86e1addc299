package validation

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rezonia/rechnung/internal/codetables"
	dec "github.com/rezonia/rechnung/internal/decimal"
	"github.com/rezonia/rechnung/internal/model"
)

const vatTolerance = "0.02"

// ValidateEN16931 checks rules from the European semantic standard that
// ValidateUStG14 does not already cover: unique line identifiers, seller/
// buyer/delivery country codes, allowance/charge reason codes, line unit
// codes, VAT breakdown consistency per category, and the 2-decimal-place
// amount convention. Call it in addition to ValidateUStG14 for full
// compliance.
func ValidateEN16931(inv *model.Invoice) []*model.ValidationError {
	var errs []*model.ValidationError

	if inv.Currency != "" {
		if len(inv.Currency) != 3 {
			errs = append(errs, model.NewValidationError("BR-05", "", "currency_code", "currency code must be 3 characters (ISO 4217)"))
		} else if !codetables.IsKnownCurrency(inv.Currency) {
			errs = append(errs, model.NewValidationError("BR-05", "", "currency_code", "currency code '"+inv.Currency+"' is not a known ISO 4217 code"))
		}
	}

	seen := make(map[string]struct{}, len(inv.Lines))
	for i, l := range inv.Lines {
		if l.ID == "" {
			continue
		}
		if _, ok := seen[l.ID]; ok {
			errs = append(errs, model.NewValidationError("BR-CO-04", "BT-126", lineRef(i)+".id",
				"duplicate line identifier '"+l.ID+"'"))
			continue
		}
		seen[l.ID] = struct{}{}
	}

	if strings.TrimSpace(inv.Seller.Address.CountryCode) == "" {
		errs = append(errs, model.NewValidationError("BR-11", "BT-40", "seller.address.country_code",
			"seller postal address must have a country code"))
	}
	if strings.TrimSpace(inv.Buyer.Address.CountryCode) == "" {
		errs = append(errs, model.NewValidationError("BR-12", "BT-55", "buyer.address.country_code",
			"buyer postal address must have a country code"))
	}

	if inv.DeliveryAddress != nil {
		cc := inv.DeliveryAddress.CountryCode
		if cc != "" && len(cc) == 2 && !codetables.IsKnownCountry(cc) {
			errs = append(errs, model.NewValidationError("BR-57", "BT-80", "delivery_address.country_code",
				"delivery country code '"+cc+"' is not a known ISO 3166-1 alpha-2 code"))
		}
	}

	for i, ac := range inv.Allowances {
		if ac.ReasonCode != "" && !codetables.IsKnownAllowanceReason(ac.ReasonCode) {
			errs = append(errs, model.NewValidationError("BR-CO-21", "BT-98", allowanceRef(i)+".reason_code",
				"allowance reason code '"+ac.ReasonCode+"' is not a known UNTDID 5189 code"))
		}
		if ac.Amount.IsNegative() {
			errs = append(errs, model.NewValidationError("BR-CO-18", "BT-92", allowanceRef(i)+".amount",
				"allowance amount must not be negative"))
		}
	}
	for i, ac := range inv.Charges {
		if ac.ReasonCode != "" && !codetables.IsKnownChargeReason(ac.ReasonCode) {
			errs = append(errs, model.NewValidationError("BR-CO-22", "BT-105", chargeRef(i)+".reason_code",
				"charge reason code '"+ac.ReasonCode+"' is not a known UNTDID 7161 code"))
		}
		if ac.Amount.IsNegative() {
			errs = append(errs, model.NewValidationError("BR-CO-18", "BT-99", chargeRef(i)+".amount",
				"charge amount must not be negative"))
		}
	}

	for i, l := range inv.Lines {
		if l.UnitPrice.IsNegative() {
			errs = append(errs, model.NewValidationError("BR-31", "BT-146", lineRef(i)+".unit_price",
				"item net price must not be negative"))
		}
		if strings.TrimSpace(l.UnitCode) == "" {
			errs = append(errs, model.NewValidationError("BR-26", "BT-130", lineRef(i)+".unit",
				"line quantity unit of measure must not be empty"))
		} else if !codetables.IsKnownUnit(l.UnitCode) {
			errs = append(errs, model.NewValidationError("BR-26", "BT-130", lineRef(i)+".unit",
				"unit code '"+l.UnitCode+"' is not a known UN/CEFACT Rec 20 code (BT-130)"))
		}
	}

	tolerance := dec.MustFromString(vatTolerance)
	for i, vb := range inv.Totals.VATBreakdown {
		expected := dec.Round2(dec.Percentage(vb.TaxableAmount, vb.Rate))
		if !dec.WithinTolerance(vb.TaxAmount, expected, tolerance) {
			errs = append(errs, model.NewValidationError("BR-CO-17", "BT-117", vatBreakdownRef(i)+".tax_amount",
				"VAT amount "+vb.TaxAmount.String()+" does not match taxable "+vb.TaxableAmount.String()+" × rate "+vb.Rate.String()+"% = "+expected.String()+" (tolerance ±0.02)"))
		}
		errs = append(errs, validateCategoryRate(vb, i)...)
	}

	checkDecimalPlaces := func(value decimal.Decimal, field string) {
		if !value.Equal(value.Round(2)) {
			errs = append(errs, model.NewValidationError("BR-DEC-01", "", field,
				"amount "+value.String()+" has more than 2 decimal places"))
		}
	}
	checkDecimalPlaces(inv.Totals.TaxExclusiveTotal, "totals.net_total")
	checkDecimalPlaces(inv.Totals.VATTotal, "totals.vat_total")
	checkDecimalPlaces(inv.Totals.TaxInclusiveTotal, "totals.gross_total")
	checkDecimalPlaces(inv.Totals.AmountDue, "totals.amount_due")

	return errs
}

func validateCategoryRate(vb model.VATBreakdown, i int) []*model.ValidationError {
	var errs []*model.ValidationError
	hasReason := vb.ExemptionReason != "" || vb.ExemptionReasonCode != ""

	requireZeroRate := func(rule string) {
		if !vb.Rate.IsZero() {
			errs = append(errs, model.NewValidationError(rule, "BT-119", vatBreakdownRef(i)+".rate",
				"category "+string(vb.Category)+" must have rate 0"))
		}
	}
	requireReason := func(rule string) {
		if !hasReason {
			errs = append(errs, model.NewValidationError(rule, "BT-120", vatBreakdownRef(i),
				"category "+string(vb.Category)+" requires an exemption reason or reason code"))
		}
	}

	switch vb.Category {
	case codetables.TaxStandardRate:
		if vb.Rate.IsZero() {
			errs = append(errs, model.NewValidationError("BR-S-05", "BT-119", vatBreakdownRef(i)+".rate",
				"standard rate category must have a non-zero rate"))
		}
	case codetables.TaxZeroRated:
		requireZeroRate("BR-Z-05")
	case codetables.TaxExempt:
		requireZeroRate("BR-E-05")
		requireReason("BR-E-10")
	case codetables.TaxReverseCharge:
		requireZeroRate("BR-AE-05")
		requireReason("BR-AE-10")
	case codetables.TaxIntraCommunitySupply:
		requireZeroRate("BR-IC-05")
		requireReason("BR-IC-10")
	case codetables.TaxExport:
		requireZeroRate("BR-G-05")
		requireReason("BR-G-10")
	case codetables.TaxNotSubjectToVAT:
		requireZeroRate("BR-O-05")
		requireReason("BR-O-10")
	}
	return errs
}

func allowanceRef(i int) string     { return "allowances[" + itoa(i) + "]" }
func chargeRef(i int) string        { return "charges[" + itoa(i) + "]" }
func vatBreakdownRef(i int) string  { return "totals.vat_breakdown[" + itoa(i) + "]" }
