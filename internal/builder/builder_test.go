package builder_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/rechnung/internal/builder"
	"github.com/rezonia/rechnung/internal/codetables"
	"github.com/rezonia/rechnung/internal/model"
)

func sellerBuyer(t *testing.T) (model.Party, model.Party) {
	t.Helper()
	addr, err := builder.NewAddressBuilder("Berlin", "10115", "DE").Street("Hauptstr. 1").Build()
	require.NoError(t, err)
	seller, err := builder.NewPartyBuilder("Seller GmbH").Address(addr).VATID("DE123456789").Build()
	require.NoError(t, err)
	buyer, err := builder.NewPartyBuilder("Buyer AG").Address(addr).Build()
	require.NoError(t, err)
	return seller, buyer
}

func TestTenLineStandardRateInvoice(t *testing.T) {
	seller, buyer := sellerBuyer(t)
	b := builder.NewInvoiceBuilder("RE-2024-001", "2024-06-15").Seller(seller).Buyer(buyer)
	for i := 0; i < 10; i++ {
		line, err := builder.NewLineItemBuilder("1", "Consulting", decimal.NewFromInt(10), "HUR", decimal.NewFromInt(150)).
			Tax(codetables.TaxStandardRate, decimal.NewFromInt(19)).
			Build()
		require.NoError(t, err)
		line.ID = itoa(i + 1)
		b = b.AddLine(line)
	}

	inv, err := b.Build()
	require.NoError(t, err)

	assert.True(t, inv.Totals.TaxExclusiveTotal.Equal(decimal.NewFromInt(15000)))
	assert.True(t, inv.Totals.VATTotal.Equal(decimal.NewFromFloat(2850)))
	assert.True(t, inv.Totals.TaxInclusiveTotal.Equal(decimal.NewFromFloat(17850)))
}

func TestDocumentAllowanceReducesVATBasis(t *testing.T) {
	seller, buyer := sellerBuyer(t)
	line, err := builder.NewLineItemBuilder("1", "Goods", decimal.NewFromInt(1), "C62", decimal.NewFromInt(1000)).
		Tax(codetables.TaxStandardRate, decimal.NewFromInt(19)).
		Build()
	require.NoError(t, err)

	inv, err := builder.NewInvoiceBuilder("RE-2024-002", "2024-06-15").
		Seller(seller).Buyer(buyer).AddLine(line).
		AddAllowance(model.AllowanceCharge{
			Amount:      decimal.NewFromInt(100),
			TaxCategory: codetables.TaxStandardRate,
			TaxRate:     decimal.NewFromInt(19),
		}).
		Build()
	require.NoError(t, err)

	assert.True(t, inv.Totals.TaxExclusiveTotal.Equal(decimal.NewFromInt(900)))
	assert.True(t, inv.Totals.VATTotal.Equal(decimal.NewFromFloat(171)))
}

func TestAccumulatedRoundingStaysWithinTolerance(t *testing.T) {
	seller, buyer := sellerBuyer(t)
	b := builder.NewInvoiceBuilder("RE-2024-003", "2024-06-15").Seller(seller).Buyer(buyer)
	for i := 0; i < 1000; i++ {
		line, err := builder.NewLineItemBuilder(itoa(i+1), "Item", decimal.NewFromInt(1), "C62", decimal.NewFromFloat(0.333)).
			Tax(codetables.TaxStandardRate, decimal.NewFromInt(19)).
			Build()
		require.NoError(t, err)
		b = b.AddLine(line)
	}

	inv, err := b.Build()
	require.NoError(t, err)

	tolerance := decimal.NewFromFloat(0.02)
	expectedVAT := inv.Totals.TaxExclusiveTotal.Mul(decimal.NewFromInt(19)).Div(decimal.NewFromInt(100))
	diff := inv.Totals.VATTotal.Sub(expectedVAT).Abs()
	assert.True(t, diff.LessThanOrEqual(tolerance))
}

func TestBuildRejectsDuplicateLineIDs(t *testing.T) {
	seller, buyer := sellerBuyer(t)
	line1, err := builder.NewLineItemBuilder("1", "A", decimal.NewFromInt(1), "C62", decimal.NewFromInt(10)).Build()
	require.NoError(t, err)
	line2, err := builder.NewLineItemBuilder("1", "B", decimal.NewFromInt(1), "C62", decimal.NewFromInt(10)).Build()
	require.NoError(t, err)

	_, err = builder.NewInvoiceBuilder("RE-1", "2024-06-15").
		Seller(seller).Buyer(buyer).AddLine(line1).AddLine(line2).Build()
	require.Error(t, err)
	var structErr *model.StructuralError
	require.ErrorAs(t, err, &structErr)
}

func TestBuildRejectsNoLines(t *testing.T) {
	seller, buyer := sellerBuyer(t)
	_, err := builder.NewInvoiceBuilder("RE-1", "2024-06-15").Seller(seller).Buyer(buyer).Build()
	assert.Error(t, err)
}

func TestBuildRejectsInvoiceNumberTooLong(t *testing.T) {
	seller, buyer := sellerBuyer(t)
	line, err := builder.NewLineItemBuilder("1", "A", decimal.NewFromInt(1), "C62", decimal.NewFromInt(10)).Build()
	require.NoError(t, err)

	longNumber := make([]byte, 201)
	for i := range longNumber {
		longNumber[i] = 'x'
	}
	_, err = builder.NewInvoiceBuilder(string(longNumber), "2024-06-15").
		Seller(seller).Buyer(buyer).AddLine(line).Build()
	assert.Error(t, err)
}

func TestAddressBuilderRejectsUnknownCountry(t *testing.T) {
	_, err := builder.NewAddressBuilder("Nowhere", "00000", "ZZ").Build()
	assert.Error(t, err)
}

func TestLineItemBuilderRejectsUnknownUnit(t *testing.T) {
	_, err := builder.NewLineItemBuilder("1", "A", decimal.NewFromInt(1), "ZZZ", decimal.NewFromInt(10)).Build()
	assert.Error(t, err)
}

func TestPartyBuilderRequiresAddress(t *testing.T) {
	_, err := builder.NewPartyBuilder("No Address Ltd").Build()
	assert.Error(t, err)
}

func TestAttachmentFromBytesDetectsMimeType(t *testing.T) {
	seller, buyer := sellerBuyer(t)
	line, err := builder.NewLineItemBuilder("1", "A", decimal.NewFromInt(1), "C62", decimal.NewFromInt(10)).Build()
	require.NoError(t, err)

	pdfMagic := []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
	inv, err := builder.NewInvoiceBuilder("RE-1", "2024-06-15").
		Seller(seller).Buyer(buyer).AddLine(line).
		AttachmentFromBytes("A1", "visual.pdf", pdfMagic, "visual layer").
		Build()
	require.NoError(t, err)

	require.Len(t, inv.Attachments, 1)
	assert.Equal(t, "application/pdf", inv.Attachments[0].MimeType)
}

func TestBuildStrictRejectsInvalidInvoice(t *testing.T) {
	seller, buyer := sellerBuyer(t)
	line, err := builder.NewLineItemBuilder("1", "A", decimal.NewFromInt(1), "C62", decimal.NewFromInt(10)).
		Tax(codetables.TaxReverseCharge, decimal.Zero).
		Build()
	require.NoError(t, err)

	_, err = builder.NewInvoiceBuilder("RE-1", "2024-06-15").
		Seller(seller).Buyer(buyer).AddLine(line).
		VATScenario(model.ScenarioReverseCharge).
		BuildStrict()
	assert.Error(t, err)
}

func itoa(n int) string {
	digits := "0123456789"
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{digits[n%10]}, b...)
		n /= 10
	}
	return string(b)
}
