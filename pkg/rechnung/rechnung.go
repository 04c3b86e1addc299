// Package rechnung is the public API for building, validating, encoding,
// and embedding German EN 16931 e-invoices. It re-exports the core types
// and entry points from the library's internal packages so that callers
// depend on one stable import path instead of reaching into internal/.
//
// Example usage:
//
//	addr, _ := rechnung.NewAddressBuilder("Berlin", "10115", "DE").Street("Hauptstr. 1").Build()
//	seller, _ := rechnung.NewPartyBuilder("Seller GmbH").Address(addr).VATID("DE123456789").Build()
//	line, _ := rechnung.NewLineItemBuilder("1", "Consulting", decimal.NewFromInt(1), "HUR", decimal.NewFromInt(1000)).Build()
//	inv, err := rechnung.NewInvoiceBuilder("RE-2024-001", "2024-06-15").
//		Seller(seller).Buyer(buyer).AddLine(line).BuildStrict()
package rechnung

import (
	"github.com/rezonia/rechnung/internal/builder"
	"github.com/rezonia/rechnung/internal/model"
	"github.com/rezonia/rechnung/internal/pdf/zugferd"
	"github.com/rezonia/rechnung/internal/validation"
	"github.com/rezonia/rechnung/internal/xmlcodec"
)

// Re-export domain model types for the public API.
type (
	Invoice              = model.Invoice
	Party                = model.Party
	Address              = model.Address
	LineItem             = model.LineItem
	Totals               = model.Totals
	VATBreakdown         = model.VATBreakdown
	PaymentInstructions  = model.PaymentInstructions
	DocumentAttachment   = model.DocumentAttachment
	AllowanceCharge      = model.AllowanceCharge
	Period               = model.Period
	Contact              = model.Contact
	ElectronicAddress    = model.ElectronicAddress
	PrecedingInvoiceReference = model.PrecedingInvoiceReference
	VATScenario          = model.VATScenario
)

// Re-export VAT scenario constants.
const (
	ScenarioDomestic             = model.ScenarioDomestic
	ScenarioKleinunternehmer     = model.ScenarioKleinunternehmer
	ScenarioReverseCharge        = model.ScenarioReverseCharge
	ScenarioIntraCommunitySupply = model.ScenarioIntraCommunitySupply
	ScenarioExport               = model.ScenarioExport
	ScenarioSmallInvoice         = model.ScenarioSmallInvoice
	ScenarioMixed                = model.ScenarioMixed
)

// Re-export structured error types.
type (
	StructuralError  = model.StructuralError
	ValidationError  = model.ValidationError
	CodeListError    = model.CodeListError
	NumberingError   = model.NumberingError
)

// Re-export builders.
type (
	InvoiceBuilder  = builder.InvoiceBuilder
	PartyBuilder    = builder.PartyBuilder
	AddressBuilder  = builder.AddressBuilder
	LineItemBuilder = builder.LineItemBuilder
)

var (
	NewInvoiceBuilder  = builder.NewInvoiceBuilder
	NewPartyBuilder    = builder.NewPartyBuilder
	NewAddressBuilder  = builder.NewAddressBuilder
	NewLineItemBuilder = builder.NewLineItemBuilder
)

// Re-export validation layers and entry points.
type Layer = validation.Layer

const (
	LayerUStG14    = validation.LayerUStG14
	LayerEN16931   = validation.LayerEN16931
	LayerXRechnung = validation.LayerXRechnung
	LayerPeppol    = validation.LayerPeppol
)

var (
	ValidateFor       = validation.ValidateFor
	ValidateUStG14    = validation.ValidateUStG14
	ValidateEN16931   = validation.ValidateEN16931
	ValidateXRechnung = validation.ValidateXRechnung
	ValidatePeppol    = validation.ValidatePeppol
	ValidateArithmetic = validation.ValidateArithmetic
)

// Re-export XML codec entry points.
type Syntax = xmlcodec.Syntax

const (
	SyntaxUBL     = xmlcodec.SyntaxUBL
	SyntaxCII     = xmlcodec.SyntaxCII
	SyntaxUnknown = xmlcodec.SyntaxUnknown
)

var (
	EncodeUBL    = xmlcodec.EncodeUBL
	EncodeCII    = xmlcodec.EncodeCII
	DecodeXML    = xmlcodec.Decode
	DetectSyntax = xmlcodec.DetectSyntax
)

// Re-export ZUGFeRD/Factur-X PDF embed and extract entry points.
type Profile = zugferd.Profile

const (
	ProfileMinimum   = zugferd.Minimum
	ProfileBasicWl   = zugferd.BasicWl
	ProfileBasic     = zugferd.Basic
	ProfileEN16931   = zugferd.EN16931
	ProfileExtended  = zugferd.Extended
	ProfileXRechnung = zugferd.XRechnung
)

var (
	ToZugferdXML  = zugferd.ToXML
	EmbedInPDF    = zugferd.EmbedInPDF
	ExtractFromPDF = zugferd.ExtractFromPDF
)
