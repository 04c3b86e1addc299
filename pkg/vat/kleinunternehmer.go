package vat

import "github.com/shopspring/decimal"

// KUPrevYearLimit is the previous-year net revenue threshold under §19
// UStG, as of 2025 (Jahressteuergesetz 2024).
var KUPrevYearLimit = decimal.NewFromInt(25000)

// KUCurrYearLimit is the current-year net revenue threshold under §19 UStG,
// as of 2025. Exceeding it mid-year loses Kleinunternehmer status
// immediately.
var KUCurrYearLimit = decimal.NewFromInt(100000)

// KleinunternehmerStatus is the result of a §19 UStG eligibility check.
type KleinunternehmerStatus struct {
	Eligible        bool
	PrevYearRevenue decimal.Decimal
	CurrYearRevenue decimal.Decimal
	Reason          string
}

// CheckKleinunternehmer checks Kleinunternehmer eligibility under §19 UStG
// (2025+ rules). Both revenue figures must be net (without VAT).
// prevYearRevenue is the actual net revenue from the previous calendar
// year; currYearRevenue is the current year's net revenue, actual or
// forecast.
func CheckKleinunternehmer(prevYearRevenue, currYearRevenue decimal.Decimal) KleinunternehmerStatus {
	if prevYearRevenue.GreaterThan(KUPrevYearLimit) {
		return KleinunternehmerStatus{
			Eligible:        false,
			PrevYearRevenue: prevYearRevenue,
			CurrYearRevenue: currYearRevenue,
			Reason: "previous year net revenue " + prevYearRevenue.String() +
				" exceeds limit of " + KUPrevYearLimit.String(),
		}
	}

	if currYearRevenue.GreaterThan(KUCurrYearLimit) {
		return KleinunternehmerStatus{
			Eligible:        false,
			PrevYearRevenue: prevYearRevenue,
			CurrYearRevenue: currYearRevenue,
			Reason: "current year net revenue " + currYearRevenue.String() +
				" exceeds limit of " + KUCurrYearLimit.String(),
		}
	}

	return KleinunternehmerStatus{
		Eligible:        true,
		PrevYearRevenue: prevYearRevenue,
		CurrYearRevenue: currYearRevenue,
	}
}
