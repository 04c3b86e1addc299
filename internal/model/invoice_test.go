package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/rechnung/internal/codetables"
	"github.com/rezonia/rechnung/internal/model"
)

func TestInvoiceIsSmallInvoice(t *testing.T) {
	inv := model.Invoice{
		Totals: model.Totals{
			TaxInclusiveTotal: decimal.RequireFromString("250.00"),
		},
	}
	assert.True(t, inv.IsSmallInvoice())

	inv.Totals.TaxInclusiveTotal = decimal.RequireFromString("250.01")
	assert.False(t, inv.IsSmallInvoice())
}

func TestInvoiceTypeCodeIsCreditNote(t *testing.T) {
	inv := model.Invoice{TypeCode: codetables.TypeInvoice}
	assert.False(t, inv.TypeCode.IsCreditNote())

	inv.TypeCode = codetables.TypeCreditNote
	assert.True(t, inv.TypeCode.IsCreditNote())
}

func TestStructuralErrorMessage(t *testing.T) {
	err := model.NewStructuralError("lines", "invoice must have at least one line")
	assert.Equal(t, "structural: lines: invoice must have at least one line", err.Error())
}

func TestValidationErrorMessage(t *testing.T) {
	err := model.NewValidationError("BR-CO-17", "BT-110", "totals.vat_total", "VAT total does not equal sum of breakdown")
	require.Contains(t, err.Error(), "BR-CO-17")
	require.Contains(t, err.Error(), "BT-110")
	require.Contains(t, err.Error(), "vat_total")

	noRef := model.NewValidationError("BR-05", "", "buyer.address.country_code", "country code is mandatory")
	assert.NotContains(t, noRef.Error(), "()")
}

func TestNumberingErrorMessage(t *testing.T) {
	err := model.NewNumberingError(model.NumberingYearRegression, "new year 2023 must be greater than current year 2024")
	assert.Contains(t, err.Error(), "year_regression")
}

func TestCodeListErrorMessage(t *testing.T) {
	err := model.NewCodeListError("currency", "EURO")
	assert.Equal(t, `code list currency: unknown value "EURO"`, err.Error())
}

func TestXMLSyntaxErrorUnwrap(t *testing.T) {
	cause := assert.AnError
	err := model.NewXMLSyntaxError("unexpected EOF", cause)
	require.ErrorIs(t, err, cause)
}

func TestPDFErrorUnwrap(t *testing.T) {
	cause := assert.AnError
	err := model.NewPDFError(model.PDFMalformed, "trailer missing /ID", cause)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "malformed")
}
