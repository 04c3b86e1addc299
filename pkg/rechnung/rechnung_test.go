package rechnung_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/rechnung/pkg/rechnung"
)

func buildSampleInvoice(t *testing.T) *rechnung.Invoice {
	t.Helper()
	addr, err := rechnung.NewAddressBuilder("Berlin", "10115", "DE").Street("Hauptstr. 1").Build()
	require.NoError(t, err)
	seller, err := rechnung.NewPartyBuilder("Seller GmbH").Address(addr).VATID("DE123456789").Build()
	require.NoError(t, err)
	buyer, err := rechnung.NewPartyBuilder("Buyer AG").Address(addr).Build()
	require.NoError(t, err)
	line, err := rechnung.NewLineItemBuilder("1", "Consulting", decimal.NewFromInt(1), "HUR", decimal.NewFromInt(1000)).
		Build()
	require.NoError(t, err)

	inv, err := rechnung.NewInvoiceBuilder("RE-2024-001", "2024-06-15").
		Seller(seller).Buyer(buyer).AddLine(line).TaxPointDate("2024-06-15").Build()
	require.NoError(t, err)
	return inv
}

func TestPublicBuilderRoundTripsThroughUBL(t *testing.T) {
	inv := buildSampleInvoice(t)

	xmlBytes, err := rechnung.EncodeUBL(inv)
	require.NoError(t, err)
	assert.Equal(t, rechnung.SyntaxUBL, rechnung.DetectSyntax(xmlBytes))

	decoded, err := rechnung.DecodeXML(xmlBytes)
	require.NoError(t, err)
	assert.Equal(t, inv.Number, decoded.Number)
	assert.True(t, inv.Totals.TaxInclusiveTotal.Equal(decoded.Totals.TaxInclusiveTotal))
}

func TestPublicValidateForRunsRequestedLayers(t *testing.T) {
	inv := buildSampleInvoice(t)
	errs := rechnung.ValidateFor(inv, rechnung.LayerUStG14, rechnung.LayerEN16931)
	assert.Empty(t, errs)
}

func TestPublicEmbedAndExtractRoundTrip(t *testing.T) {
	inv := buildSampleInvoice(t)
	xmlBytes, err := rechnung.ToZugferdXML(inv, rechnung.ProfileEN16931)
	require.NoError(t, err)

	combined, err := rechnung.EmbedInPDF([]byte(minimalPDF), xmlBytes, rechnung.ProfileEN16931)
	require.NoError(t, err)

	extracted, err := rechnung.ExtractFromPDF(combined)
	require.NoError(t, err)
	assert.Equal(t, xmlBytes, extracted)
}

const minimalPDF = `%PDF-1.7
1 0 obj
<< /Type /Catalog /Pages 2 0 R >>
endobj
2 0 obj
<< /Type /Pages /Kids [] /Count 0 >>
endobj
trailer
<< /Size 3 /Root 1 0 R >>
startxref
9
%%EOF
`
