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

func fullyCompliantXRechnungInvoice(t *testing.T) *model.Invoice {
	t.Helper()
	seller, err := builder.NewPartyBuilder("Seller GmbH").
		Address(testAddress(t, "DE")).
		VATID("DE123456789").
		ElectronicAddress("LE", "DE1234567890123").
		Contact(model.Contact{Name: "Max Mustermann", Phone: "+49 30 1234567", Email: "rechnung@seller.example"}).
		Build()
	require.NoError(t, err)

	buyer, err := builder.NewPartyBuilder("Buyer AG").
		Address(testAddress(t, "DE")).
		ElectronicAddress("LE", "DE9876543210987").
		Build()
	require.NoError(t, err)

	line, err := builder.NewLineItemBuilder("1", "Consulting", decimal.NewFromInt(10), "HUR", decimal.NewFromInt(100)).
		Tax(codetables.TaxStandardRate, decimal.NewFromInt(19)).
		Build()
	require.NoError(t, err)

	inv, err := builder.NewInvoiceBuilder("RE-2024-001", "2024-06-15").
		BuyerReference("04011000-1234512345-06").
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

func TestXRechnungCompliantInvoicePasses(t *testing.T) {
	errs := validation.ValidateXRechnung(fullyCompliantXRechnungInvoice(t))
	assert.Empty(t, errs, "expected no errors, got: %v", errs)
}

func TestXRechnungMissingPaymentInstructions(t *testing.T) {
	inv := fullyCompliantXRechnungInvoice(t)
	inv.Payment = model.PaymentInstructions{}
	errs := validation.ValidateXRechnung(inv)
	assert.True(t, hasRule(errs, "BR-DE-1"))
}

func TestXRechnungMissingSellerContact(t *testing.T) {
	inv := fullyCompliantXRechnungInvoice(t)
	inv.Seller.Contact = nil
	errs := validation.ValidateXRechnung(inv)
	assert.True(t, hasRule(errs, "BR-DE-2"))
}

func TestXRechnungInvalidEmailShape(t *testing.T) {
	inv := fullyCompliantXRechnungInvoice(t)
	inv.Seller.Contact.Email = "not-an-email"
	errs := validation.ValidateXRechnung(inv)
	assert.True(t, hasRule(errs, "BR-DE-28"))
}

func TestXRechnungMissingBuyerReference(t *testing.T) {
	inv := fullyCompliantXRechnungInvoice(t)
	inv.BuyerReference = ""
	errs := validation.ValidateXRechnung(inv)
	assert.True(t, hasRule(errs, "BR-DE-15"))
}

func TestXRechnungCreditTransferRequiresDetails(t *testing.T) {
	inv := fullyCompliantXRechnungInvoice(t)
	inv.Payment.CreditTransfer = nil
	errs := validation.ValidateXRechnung(inv)
	assert.True(t, hasRule(errs, "BR-DE-23"))
}

func TestXRechnungSkontoFormatValidation(t *testing.T) {
	inv := fullyCompliantXRechnungInvoice(t)
	inv.PaymentTerms = "#SKONTO#TAGE=14#PROZENT=2.00#"
	errs := validation.ValidateXRechnung(inv)
	assert.False(t, hasRule(errs, "BR-DE-18"))

	inv.PaymentTerms = "#SKONTO#TAGE=14#"
	errs = validation.ValidateXRechnung(inv)
	assert.True(t, hasRule(errs, "BR-DE-18"))
}

func TestXRechnungCorrectedInvoiceWantsPrecedingReference(t *testing.T) {
	inv := fullyCompliantXRechnungInvoice(t)
	inv.TypeCode = codetables.TypeCorrected
	errs := validation.ValidateXRechnung(inv)
	assert.True(t, hasRule(errs, "BR-DE-26"))

	inv.PrecedingInvoices = append(inv.PrecedingInvoices, model.PrecedingInvoiceReference{Number: "RE-2024-000", IssueDate: "2024-05-01"})
	errs = validation.ValidateXRechnung(inv)
	for _, e := range errs {
		if e.Rule == "BR-DE-26" {
			assert.NotEqual(t, "preceding_invoices", e.Field)
		}
	}
}

func TestXRechnungCreditNoteWantsPrecedingReference(t *testing.T) {
	inv := fullyCompliantXRechnungInvoice(t)
	inv.TypeCode = codetables.TypeCreditNote
	errs := validation.ValidateXRechnung(inv)
	assert.True(t, hasRule(errs, "BR-DE-26"))

	inv.PrecedingInvoices = append(inv.PrecedingInvoices, model.PrecedingInvoiceReference{Number: "RE-2024-000", IssueDate: "2024-05-01"})
	errs = validation.ValidateXRechnung(inv)
	for _, e := range errs {
		if e.Rule == "BR-DE-26" {
			assert.NotEqual(t, "preceding_invoices", e.Field)
		}
	}
}
