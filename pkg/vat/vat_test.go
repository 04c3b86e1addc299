package vat_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/rechnung/internal/builder"
	"github.com/rezonia/rechnung/internal/codetables"
	"github.com/rezonia/rechnung/internal/model"
	"github.com/rezonia/rechnung/pkg/vat"
)

func TestValidateFormatAcceptsKnownCountries(t *testing.T) {
	cases := []string{
		"DE123456789", "ATU12345678", "FR12345678901", "NL123456789B12",
		"IT12345678901", "ESX1234567L", "PL1234567890",
	}
	for _, v := range cases {
		_, _, err := vat.ValidateFormat(v)
		assert.NoError(t, err, v)
	}
}

func TestValidateFormatRejectsDELeadingZero(t *testing.T) {
	_, _, err := vat.ValidateFormat("DE023456789")
	assert.Error(t, err)
}

func TestValidateFormatRejectsDETooShort(t *testing.T) {
	_, _, err := vat.ValidateFormat("DE12345")
	assert.Error(t, err)
}

func TestValidateFormatRejectsDETooLong(t *testing.T) {
	_, _, err := vat.ValidateFormat("DE1234567890")
	assert.Error(t, err)
}

func TestValidateFormatRejectsUnknownCountry(t *testing.T) {
	_, _, err := vat.ValidateFormat("ZZ123456789")
	assert.Error(t, err)
}

func TestValidateFormatTrimsWhitespace(t *testing.T) {
	country, number, err := vat.ValidateFormat("  DE123456789  ")
	require.NoError(t, err)
	assert.Equal(t, "DE", country)
	assert.Equal(t, "123456789", number)
}

func TestValidateFormatAcceptsXI(t *testing.T) {
	_, _, err := vat.ValidateFormat("XI123456789")
	assert.NoError(t, err)
}

func TestValidateSteuernummerElster13DigitBerlin(t *testing.T) {
	digits, err := vat.ValidateSteuernummer("1121081508150")
	require.NoError(t, err)
	assert.Equal(t, "1121081508150", digits)
}

func TestValidateSteuernummerLegacySlashFormat(t *testing.T) {
	digits, err := vat.ValidateSteuernummer("21/815/08150")
	require.NoError(t, err)
	assert.Equal(t, "2181508150", digits)
}

func TestValidateSteuernummerInvalidPrefix(t *testing.T) {
	_, err := vat.ValidateSteuernummer("9921081508150")
	assert.Error(t, err)
}

func TestValidateSteuernummerTooFewDigits(t *testing.T) {
	_, err := vat.ValidateSteuernummer("12345")
	assert.Error(t, err)
}

func TestCheckKleinunternehmerEligible(t *testing.T) {
	status := vat.CheckKleinunternehmer(decimal.NewFromInt(10000), decimal.NewFromInt(50000))
	assert.True(t, status.Eligible)
}

func TestCheckKleinunternehmerIneligiblePrevYear(t *testing.T) {
	status := vat.CheckKleinunternehmer(decimal.NewFromInt(30000), decimal.NewFromInt(10000))
	assert.False(t, status.Eligible)
	assert.Contains(t, status.Reason, "previous year")
}

func TestCheckKleinunternehmerIneligibleCurrYear(t *testing.T) {
	status := vat.CheckKleinunternehmer(decimal.NewFromInt(10000), decimal.NewFromInt(150000))
	assert.False(t, status.Eligible)
	assert.Contains(t, status.Reason, "current year")
}

func TestCheckKleinunternehmerZeroRevenueFirstYear(t *testing.T) {
	status := vat.CheckKleinunternehmer(decimal.Zero, decimal.Zero)
	assert.True(t, status.Eligible)
}

func scenarioInvoice(t *testing.T, sellerCountry, buyerCountry, buyerVATID string, category codetables.TaxCategory, rate int64, net int64) *model.Invoice {
	t.Helper()
	sellerAddr, err := builder.NewAddressBuilder("Berlin", "10115", sellerCountry).Street("Hauptstr. 1").Build()
	require.NoError(t, err)
	buyerAddr, err := builder.NewAddressBuilder("Vienna", "1010", buyerCountry).Street("Ring 1").Build()
	require.NoError(t, err)

	seller, err := builder.NewPartyBuilder("Seller GmbH").Address(sellerAddr).VATID("DE123456789").Build()
	require.NoError(t, err)

	buyerBuilder := builder.NewPartyBuilder("Buyer AG").Address(buyerAddr)
	if buyerVATID != "" {
		buyerBuilder = buyerBuilder.VATID(buyerVATID)
	}
	buyer, err := buyerBuilder.Build()
	require.NoError(t, err)

	line, err := builder.NewLineItemBuilder("1", "Goods", decimal.NewFromInt(1), "C62", decimal.NewFromInt(net)).
		Tax(category, decimal.NewFromInt(rate)).
		Build()
	require.NoError(t, err)

	inv, err := builder.NewInvoiceBuilder("RE-1", "2024-06-15").
		Seller(seller).Buyer(buyer).AddLine(line).Build()
	require.NoError(t, err)
	return inv
}

func TestDetermineScenarioDomestic(t *testing.T) {
	inv := scenarioInvoice(t, "DE", "DE", "", codetables.TaxStandardRate, 19, 1000)
	assert.Equal(t, model.ScenarioDomestic, vat.DetermineScenario(inv))
}

func TestDetermineScenarioExport(t *testing.T) {
	inv := scenarioInvoice(t, "DE", "US", "", codetables.TaxExport, 0, 1000)
	assert.Equal(t, model.ScenarioExport, vat.DetermineScenario(inv))
}

func TestDetermineScenarioIntraCommunityWithVATID(t *testing.T) {
	inv := scenarioInvoice(t, "DE", "AT", "ATU12345678", codetables.TaxIntraCommunitySupply, 0, 1000)
	assert.Equal(t, model.ScenarioIntraCommunitySupply, vat.DetermineScenario(inv))
}

func TestDetermineScenarioIntraCommunityWithoutVATIDFallsToDomestic(t *testing.T) {
	inv := scenarioInvoice(t, "DE", "AT", "", codetables.TaxStandardRate, 19, 1000)
	assert.Equal(t, model.ScenarioDomestic, vat.DetermineScenario(inv))
}

func TestDetermineScenarioReverseCharge(t *testing.T) {
	inv := scenarioInvoice(t, "DE", "DE", "", codetables.TaxReverseCharge, 0, 1000)
	assert.Equal(t, model.ScenarioReverseCharge, vat.DetermineScenario(inv))
}

func TestDetermineScenarioKleinunternehmer(t *testing.T) {
	inv := scenarioInvoice(t, "DE", "DE", "", codetables.TaxNotSubjectToVAT, 0, 300)
	assert.Equal(t, model.ScenarioKleinunternehmer, vat.DetermineScenario(inv))
}

func TestDetermineScenarioSmallInvoice(t *testing.T) {
	inv := scenarioInvoice(t, "DE", "DE", "", codetables.TaxStandardRate, 19, 100)
	assert.Equal(t, model.ScenarioSmallInvoice, vat.DetermineScenario(inv))
}

func TestViesRequestSerialization(t *testing.T) {
	body, err := json.Marshal(map[string]string{"countryCode": "DE", "vatNumber": "123456789"})
	require.NoError(t, err)
	assert.Contains(t, string(body), `"countryCode":"DE"`)
	assert.Contains(t, string(body), `"vatNumber":"123456789"`)
}

func TestViesResponseDecodesDashPlaceholder(t *testing.T) {
	raw := `{"valid":true,"requestDate":"2024-01-15","name":"---","address":"---"}`
	var parsed struct {
		Valid       bool   `json:"valid"`
		RequestDate string `json:"requestDate"`
		Name        string `json:"name"`
		Address     string `json:"address"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &parsed))
	assert.Equal(t, "---", parsed.Name)
}
