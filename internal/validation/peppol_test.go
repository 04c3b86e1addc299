package validation_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/rechnung/internal/builder"
	"github.com/rezonia/rechnung/internal/codetables"
	"github.com/rezonia/rechnung/internal/model"
	"github.com/rezonia/rechnung/internal/validation"
)

func validPeppolInvoice(t *testing.T) *model.Invoice {
	t.Helper()
	seller, err := builder.NewPartyBuilder("Seller GmbH").
		Address(testAddress(t, "DE")).
		VATID("DE123456789").
		ElectronicAddress("EM", "seller@example.com").
		Build()
	require.NoError(t, err)

	buyer, err := builder.NewPartyBuilder("Buyer AG").
		Address(testAddress(t, "DE")).
		ElectronicAddress("EM", "buyer@example.com").
		Build()
	require.NoError(t, err)

	line, err := builder.NewLineItemBuilder("1", "Consulting", decimal.NewFromInt(10), "HUR", decimal.NewFromInt(100)).
		Tax(codetables.TaxStandardRate, decimal.NewFromInt(19)).
		Build()
	require.NoError(t, err)

	inv, err := builder.NewInvoiceBuilder("PEPPOL-001", "2024-06-15").
		BuyerReference("BR-123").
		TaxPointDate("2024-06-15").
		Seller(seller).
		Buyer(buyer).
		AddLine(line).
		Build()
	require.NoError(t, err)
	return inv
}

func hasRule(errs []*model.ValidationError, rule string) bool {
	for _, e := range errs {
		if e.Rule == rule {
			return true
		}
	}
	return false
}

func TestPeppolValidInvoicePasses(t *testing.T) {
	errs := validation.ValidatePeppol(validPeppolInvoice(t))
	assert.Empty(t, errs, "expected no errors, got: %v", errs)
}

func TestPeppolMissingBuyerReferenceAndOrderRef(t *testing.T) {
	inv := validPeppolInvoice(t)
	inv.BuyerReference = ""
	inv.OrderReference = ""
	errs := validation.ValidatePeppol(inv)
	assert.True(t, hasRule(errs, "PEPPOL-EN16931-R003"))
}

func TestPeppolOrderReferenceSatisfiesR003(t *testing.T) {
	inv := validPeppolInvoice(t)
	inv.BuyerReference = ""
	inv.OrderReference = "PO-123"
	errs := validation.ValidatePeppol(inv)
	assert.False(t, hasRule(errs, "PEPPOL-EN16931-R003"))
}

func TestPeppolMissingSellerEndpoint(t *testing.T) {
	inv := validPeppolInvoice(t)
	inv.Seller.ElectronicAddress = nil
	errs := validation.ValidatePeppol(inv)
	assert.True(t, hasRule(errs, "PEPPOL-EN16931-R020"))
}

func TestPeppolMissingBuyerEndpoint(t *testing.T) {
	inv := validPeppolInvoice(t)
	inv.Buyer.ElectronicAddress = nil
	errs := validation.ValidatePeppol(inv)
	assert.True(t, hasRule(errs, "PEPPOL-EN16931-R010"))
}

func TestPeppolPartialInvoiceNonGermanRejected(t *testing.T) {
	inv := validPeppolInvoice(t)
	inv.TypeCode = codetables.TypePartial
	inv.Buyer.Address.CountryCode = "FR"
	errs := validation.ValidatePeppol(inv)
	assert.True(t, hasRule(errs, "PEPPOL-EN16931-P0112"))
}

func TestPeppolPartialInvoiceBothGermanOK(t *testing.T) {
	inv := validPeppolInvoice(t)
	inv.TypeCode = codetables.TypePartial
	errs := validation.ValidatePeppol(inv)
	assert.False(t, hasRule(errs, "PEPPOL-EN16931-P0112"))
}

func TestPeppolLineNetMismatchRejected(t *testing.T) {
	inv := validPeppolInvoice(t)
	inv.Lines[0].LineNet = inv.Lines[0].LineNet.Add(decimal.NewFromInt(5))
	errs := validation.ValidatePeppol(inv)
	assert.True(t, hasRule(errs, "PEPPOL-EN16931-R100"))
}

func TestPeppolLineNetWithinToleranceAccepted(t *testing.T) {
	inv := validPeppolInvoice(t)
	inv.Lines[0].LineNet = inv.Lines[0].LineNet.Add(decimal.NewFromFloat(0.01))
	errs := validation.ValidatePeppol(inv)
	assert.False(t, hasRule(errs, "PEPPOL-EN16931-R100"))
}

func TestPeppolAttachmentsOverLimitRejected(t *testing.T) {
	inv := validPeppolInvoice(t)
	inv.Attachments = []model.DocumentAttachment{
		{ID: "1", Filename: "huge.bin", Embedded: make([]byte, 200*1024*1024+1)},
	}
	errs := validation.ValidatePeppol(inv)
	assert.True(t, hasRule(errs, "PEPPOL-EN16931-R080"))
}

func TestPeppolAttachmentsUnderLimitAccepted(t *testing.T) {
	inv := validPeppolInvoice(t)
	inv.Attachments = []model.DocumentAttachment{
		{ID: "1", Filename: "small.bin", Embedded: make([]byte, 1024)},
	}
	errs := validation.ValidatePeppol(inv)
	assert.False(t, hasRule(errs, "PEPPOL-EN16931-R080"))
}
