// Package datev generates DATEV Buchungsstapel EXTF exports from invoices,
// with BU-Schlüssel tax-key mapping and SKR03/SKR04 chart-of-accounts
// lookup.
package datev

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rezonia/rechnung/internal/codetables"
)

// ChartOfAccounts is a standard German chart of accounts.
type ChartOfAccounts int

const (
	// SKR03 is the Standardkontenrahmen 03, most common for SMBs.
	SKR03 ChartOfAccounts = iota
	// SKR04 is the Standardkontenrahmen 04, used by larger companies.
	SKR04
)

// Code returns the SKR identifier used in the EXTF header.
func (c ChartOfAccounts) Code() string {
	if c == SKR04 {
		return "04"
	}
	return "03"
}

// AccountMapping is the revenue/expense account resolved for a booking.
type AccountMapping struct {
	RevenueAccount uint32
	// IsAutomatik reports whether the account auto-applies tax
	// (Automatikkonto), so the BU-Schlüssel can be omitted.
	IsAutomatik bool
}

// NamedAccount is an account entry for lookup by German name.
type NamedAccount struct {
	Number      uint32
	Name        string
	IsAutomatik bool
}

var skr03Accounts = []NamedAccount{
	{8400, "Erlöse 19% USt", true},
	{8300, "Erlöse 7% USt", true},
	{8200, "Erlöse steuerfrei", false},
	{8000, "Erlöse", false},
	{8120, "Steuerfreie Ausfuhrlieferungen", true},
	{8125, "Steuerfreie innergem. Lieferungen §4 Nr. 1b", true},
	{8337, "Erlöse §13b UStG", false},
	{8150, "Sonstige steuerfreie Umsätze", false},
	{8190, "Erlöse Kleinunternehmer §19", false},
	{8500, "Provisionserlöse", true},
	{8700, "Erlöse aus Vermietung", true},
	{8800, "Erlöse Anlageverkäufe 19%", true},
	{4400, "Betriebsbedarf", false},
	{4600, "Werbekosten", false},
	{4900, "Sonstige betriebliche Aufwendungen", false},
	{4500, "Fahrzeugkosten", false},
	{4210, "Miete", false},
	{4830, "Reisekosten Arbeitnehmer", false},
	{4120, "Gehälter", false},
	{4100, "Löhne", false},
}

var skr04Accounts = []NamedAccount{
	{4400, "Erlöse 19% USt", true},
	{4300, "Erlöse 7% USt", true},
	{4200, "Erlöse steuerfrei", false},
	{4000, "Erlöse", false},
	{4120, "Steuerfreie Ausfuhrlieferungen", true},
	{4125, "Steuerfreie innergem. Lieferungen §4 Nr. 1b", true},
	{4337, "Erlöse §13b UStG", false},
	{4150, "Sonstige steuerfreie Umsätze", false},
	{4190, "Erlöse Kleinunternehmer §19", false},
	{4500, "Provisionserlöse", true},
	{4700, "Erlöse aus Vermietung", true},
	{4800, "Erlöse Anlageverkäufe 19%", true},
	{6300, "Betriebsbedarf", false},
	{6600, "Werbekosten", false},
	{6800, "Sonstige betriebliche Aufwendungen", false},
	{6500, "Fahrzeugkosten", false},
	{6310, "Miete", false},
	{6650, "Reisekosten Arbeitnehmer", false},
	{6020, "Gehälter", false},
	{6000, "Löhne", false},
}

// RevenueAccount determines the revenue account for a given tax category
// and rate under the given chart of accounts.
func RevenueAccount(chart ChartOfAccounts, category codetables.TaxCategory, rate decimal.Decimal) AccountMapping {
	if chart == SKR04 {
		return skr04Revenue(category, rate)
	}
	return skr03Revenue(category, rate)
}

func skr03Revenue(category codetables.TaxCategory, rate decimal.Decimal) AccountMapping {
	switch category {
	case codetables.TaxStandardRate:
		switch {
		case rate.Equal(decimal.NewFromInt(19)):
			return AccountMapping{8400, true}
		case rate.Equal(decimal.NewFromInt(7)):
			return AccountMapping{8300, true}
		default:
			return AccountMapping{8000, false}
		}
	case codetables.TaxZeroRated, codetables.TaxExempt, codetables.TaxNotSubjectToVAT:
		return AccountMapping{8200, false}
	case codetables.TaxReverseCharge:
		return AccountMapping{8337, false}
	case codetables.TaxIntraCommunitySupply:
		return AccountMapping{8125, true}
	case codetables.TaxExport:
		return AccountMapping{8120, true}
	default:
		return AccountMapping{8000, false}
	}
}

func skr04Revenue(category codetables.TaxCategory, rate decimal.Decimal) AccountMapping {
	switch category {
	case codetables.TaxStandardRate:
		switch {
		case rate.Equal(decimal.NewFromInt(19)):
			return AccountMapping{4400, true}
		case rate.Equal(decimal.NewFromInt(7)):
			return AccountMapping{4300, true}
		default:
			return AccountMapping{4000, false}
		}
	case codetables.TaxZeroRated, codetables.TaxExempt, codetables.TaxNotSubjectToVAT:
		return AccountMapping{4200, false}
	case codetables.TaxReverseCharge:
		return AccountMapping{4337, false}
	case codetables.TaxIntraCommunitySupply:
		return AccountMapping{4125, true}
	case codetables.TaxExport:
		return AccountMapping{4120, true}
	default:
		return AccountMapping{4000, false}
	}
}

// AccountByName looks up accounts whose German name contains search
// (case-insensitive).
func AccountByName(chart ChartOfAccounts, search string) []NamedAccount {
	accounts := skr03Accounts
	if chart == SKR04 {
		accounts = skr04Accounts
	}
	searchLower := strings.ToLower(search)
	var out []NamedAccount
	for _, a := range accounts {
		if strings.Contains(strings.ToLower(a.Name), searchLower) {
			out = append(out, a)
		}
	}
	return out
}

// AccountByNumber looks up an account by its number.
func AccountByNumber(chart ChartOfAccounts, number uint32) (NamedAccount, bool) {
	accounts := skr03Accounts
	if chart == SKR04 {
		accounts = skr04Accounts
	}
	for _, a := range accounts {
		if a.Number == number {
			return a, true
		}
	}
	return NamedAccount{}, false
}
