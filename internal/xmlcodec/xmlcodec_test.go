package xmlcodec_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/rechnung/internal/builder"
	"github.com/rezonia/rechnung/internal/codetables"
	"github.com/rezonia/rechnung/internal/model"
	"github.com/rezonia/rechnung/internal/xmlcodec"
)

func sampleInvoice(t *testing.T) *model.Invoice {
	t.Helper()
	seller, err := builder.NewPartyBuilder("Seller GmbH").
		Address(mustAddress(t, "Musterstr. 1", "Berlin", "10115", "DE")).
		VATID("DE123456789").
		ElectronicAddress("EM", "seller@example.com").
		Build()
	require.NoError(t, err)

	buyer, err := builder.NewPartyBuilder("Buyer AG").
		Address(mustAddress(t, "Kundenweg 2", "Hamburg", "20095", "DE")).
		ElectronicAddress("EM", "buyer@example.com").
		Build()
	require.NoError(t, err)

	line, err := builder.NewLineItemBuilder("1", "Consulting", decimal.NewFromInt(10), "HUR", decimal.NewFromInt(100)).
		Tax(codetables.TaxStandardRate, decimal.NewFromInt(19)).
		Build()
	require.NoError(t, err)

	inv, err := builder.NewInvoiceBuilder("RE-2024-007", "2024-06-15").
		BuyerReference("BR-42").
		TaxPointDate("2024-06-15").
		Seller(seller).
		Buyer(buyer).
		AddLine(line).
		Payment(model.PaymentInstructions{
			MeansCode:      codetables.PaymentSEPACreditTransfer,
			CreditTransfer: &model.CreditTransfer{IBAN: "DE89370400440532013000"},
		}).
		Build()
	require.NoError(t, err)
	return inv
}

func mustAddress(t *testing.T, street, city, postal, country string) model.Address {
	t.Helper()
	a, err := builder.NewAddressBuilder(city, postal, country).Street(street).Build()
	require.NoError(t, err)
	return a
}

func TestUBLEncodeDecodeRoundTrip(t *testing.T) {
	inv := sampleInvoice(t)
	data, err := xmlcodec.EncodeUBL(inv)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<Invoice")

	assert.Equal(t, xmlcodec.SyntaxUBL, xmlcodec.DetectSyntax(data))

	decoded, err := xmlcodec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, inv.Number, decoded.Number)
	assert.Equal(t, inv.IssueDate, decoded.IssueDate)
	assert.Equal(t, inv.Seller.Name, decoded.Seller.Name)
	assert.Equal(t, inv.Seller.VATID, decoded.Seller.VATID)
	assert.Equal(t, inv.Buyer.Name, decoded.Buyer.Name)
	require.Len(t, decoded.Lines, 1)
	assert.Equal(t, inv.Lines[0].ItemName, decoded.Lines[0].ItemName)
	assert.True(t, inv.Totals.TaxInclusiveTotal.Equal(decoded.Totals.TaxInclusiveTotal))
	assert.Equal(t, inv.Payment.CreditTransfer.IBAN, decoded.Payment.CreditTransfer.IBAN)
}

func TestCIIEncodeDecodeRoundTrip(t *testing.T) {
	inv := sampleInvoice(t)
	data, err := xmlcodec.EncodeCII(inv)
	require.NoError(t, err)
	assert.Contains(t, string(data), "CrossIndustryInvoice")

	assert.Equal(t, xmlcodec.SyntaxCII, xmlcodec.DetectSyntax(data))

	decoded, err := xmlcodec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, inv.Number, decoded.Number)
	assert.Equal(t, inv.IssueDate, decoded.IssueDate)
	assert.Equal(t, inv.Seller.Name, decoded.Seller.Name)
	assert.Equal(t, inv.Buyer.VATID, decoded.Buyer.VATID)
	require.Len(t, decoded.Lines, 1)
	assert.True(t, inv.Lines[0].LineNet.Equal(decoded.Lines[0].LineNet))
	assert.True(t, inv.Totals.VATTotal.Equal(decoded.Totals.VATTotal))
}

func TestTradingNameRoundTripsThroughUBLAndCII(t *testing.T) {
	inv := sampleInvoice(t)
	inv.Seller.TradingName = "Muster Consulting"

	ublData, err := xmlcodec.EncodeUBL(inv)
	require.NoError(t, err)
	ublDecoded, err := xmlcodec.Decode(ublData)
	require.NoError(t, err)
	assert.Equal(t, "Muster Consulting", ublDecoded.Seller.TradingName)
	assert.Equal(t, inv.Seller.Name, ublDecoded.Seller.Name)

	ciiData, err := xmlcodec.EncodeCII(inv)
	require.NoError(t, err)
	ciiDecoded, err := xmlcodec.Decode(ciiData)
	require.NoError(t, err)
	assert.Equal(t, "Muster Consulting", ciiDecoded.Seller.TradingName)
	assert.Equal(t, inv.Seller.Name, ciiDecoded.Seller.Name)
}

func TestCreditNoteUsesCreditNoteRootAndLineElements(t *testing.T) {
	inv := sampleInvoice(t)
	inv.TypeCode = codetables.TypeCreditNote

	data, err := xmlcodec.EncodeUBL(inv)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<CreditNote")
	assert.Contains(t, string(data), "CreditNoteLine")

	decoded, err := xmlcodec.Decode(data)
	require.NoError(t, err)
	assert.True(t, decoded.TypeCode.IsCreditNote())
}
