// Package builder provides fluent constructors for Invoice, Party, Address,
// and LineItem that enforce structural invariants and, on success, run the
// calculator that derives line amounts, the VAT breakdown, and document
// totals (see calculator.go).
package builder

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/rezonia/rechnung/internal/codetables"
	dec "github.com/rezonia/rechnung/internal/decimal"
	"github.com/rezonia/rechnung/internal/model"
	"github.com/rezonia/rechnung/internal/validation"
)

const (
	maxLines       = 10000
	maxNumberLen   = 200
	maxNotes       = 100
	maxAttachments = 100
)

// validate is a package-level validator instance; per the library's own
// documentation it is safe for concurrent use and caches struct metadata, so
// constructing one per package (rather than per call) is the intended usage.
var validate = validator.New()

// InvoiceBuilder accumulates Invoice fields and produces a fully-calculated
// Invoice on Build.
type InvoiceBuilder struct {
	inv     model.Invoice
	prepaid decimal.Decimal
}

// NewInvoiceBuilder starts a builder for an invoice with the given number
// and issue date. Defaults: type code 380 (commercial invoice), currency
// EUR, VAT scenario Domestic.
func NewInvoiceBuilder(number, issueDate string) *InvoiceBuilder {
	return &InvoiceBuilder{
		inv: model.Invoice{
			Number:      number,
			IssueDate:   issueDate,
			TypeCode:    codetables.TypeInvoice,
			Currency:    "EUR",
			VATScenario: model.ScenarioDomestic,
		},
	}
}

func (b *InvoiceBuilder) DueDate(d string) *InvoiceBuilder { b.inv.DueDate = d; return b }

func (b *InvoiceBuilder) TypeCode(c codetables.InvoiceTypeCode) *InvoiceBuilder {
	b.inv.TypeCode = c
	return b
}

func (b *InvoiceBuilder) Currency(c string) *InvoiceBuilder { b.inv.Currency = c; return b }

func (b *InvoiceBuilder) TaxCurrency(c string) *InvoiceBuilder { b.inv.TaxCurrency = c; return b }

func (b *InvoiceBuilder) Note(n string) *InvoiceBuilder {
	b.inv.Notes = append(b.inv.Notes, n)
	return b
}

func (b *InvoiceBuilder) BuyerReference(r string) *InvoiceBuilder { b.inv.BuyerReference = r; return b }

func (b *InvoiceBuilder) OrderReference(r string) *InvoiceBuilder { b.inv.OrderReference = r; return b }

func (b *InvoiceBuilder) ProjectReference(r string) *InvoiceBuilder {
	b.inv.ProjectReference = r
	return b
}

func (b *InvoiceBuilder) ContractReference(r string) *InvoiceBuilder {
	b.inv.ContractReference = r
	return b
}

func (b *InvoiceBuilder) BuyerAccountingReference(r string) *InvoiceBuilder {
	b.inv.BuyerAccountingReference = r
	return b
}

func (b *InvoiceBuilder) BusinessProcessID(id string) *InvoiceBuilder {
	b.inv.BusinessProcessID = id
	return b
}

func (b *InvoiceBuilder) Seller(p model.Party) *InvoiceBuilder { b.inv.Seller = p; return b }
func (b *InvoiceBuilder) Buyer(p model.Party) *InvoiceBuilder  { b.inv.Buyer = p; return b }
func (b *InvoiceBuilder) Payee(p model.Party) *InvoiceBuilder  { b.inv.Payee = &p; return b }

func (b *InvoiceBuilder) TaxRepresentative(p model.Party) *InvoiceBuilder {
	b.inv.TaxRepresentative = &p
	return b
}

func (b *InvoiceBuilder) DeliveryAddress(a model.Address) *InvoiceBuilder {
	b.inv.DeliveryAddress = &a
	return b
}

func (b *InvoiceBuilder) DeliveryDate(d string) *InvoiceBuilder { b.inv.DeliveryDate = d; return b }

func (b *InvoiceBuilder) InvoicingPeriod(p model.Period) *InvoiceBuilder {
	b.inv.InvoicingPeriod = &p
	return b
}

func (b *InvoiceBuilder) TaxPointDate(d string) *InvoiceBuilder { b.inv.TaxPointDate = d; return b }

func (b *InvoiceBuilder) PaymentTerms(t string) *InvoiceBuilder { b.inv.PaymentTerms = t; return b }

func (b *InvoiceBuilder) AddLine(l model.LineItem) *InvoiceBuilder {
	b.inv.Lines = append(b.inv.Lines, l)
	return b
}

func (b *InvoiceBuilder) VATScenario(s model.VATScenario) *InvoiceBuilder {
	b.inv.VATScenario = s
	return b
}

func (b *InvoiceBuilder) AddAllowance(ac model.AllowanceCharge) *InvoiceBuilder {
	ac.IsCharge = false
	b.inv.Allowances = append(b.inv.Allowances, ac)
	return b
}

func (b *InvoiceBuilder) AddCharge(ac model.AllowanceCharge) *InvoiceBuilder {
	ac.IsCharge = true
	b.inv.Charges = append(b.inv.Charges, ac)
	return b
}

func (b *InvoiceBuilder) Payment(p model.PaymentInstructions) *InvoiceBuilder {
	b.inv.Payment = p
	return b
}

func (b *InvoiceBuilder) Prepaid(amount decimal.Decimal) *InvoiceBuilder {
	b.prepaid = amount
	return b
}

func (b *InvoiceBuilder) PrecedingInvoice(ref model.PrecedingInvoiceReference) *InvoiceBuilder {
	b.inv.PrecedingInvoices = append(b.inv.PrecedingInvoices, ref)
	return b
}

func (b *InvoiceBuilder) Attachment(a model.DocumentAttachment) *InvoiceBuilder {
	b.inv.Attachments = append(b.inv.Attachments, a)
	return b
}

// AttachmentFromBytes appends an embedded attachment, sniffing its MIME
// type from content when the caller does not already know it. Callers
// receiving attachments from an untrusted source (e.g. a filename extension
// they don't control) should prefer this over Attachment with a guessed
// MimeType.
func (b *InvoiceBuilder) AttachmentFromBytes(id, filename string, data []byte, description string) *InvoiceBuilder {
	mt := mimetype.Detect(data)
	b.inv.Attachments = append(b.inv.Attachments, model.DocumentAttachment{
		ID:          id,
		Filename:    filename,
		MimeType:    mt.String(),
		Description: description,
		Embedded:    data,
	})
	return b
}

// Build checks structural invariants, derives totals, and returns the
// completed Invoice. It does not run §14 UStG or EN 16931 validation — use
// BuildStrict for that.
func (b *InvoiceBuilder) Build() (*model.Invoice, error) {
	inv := b.inv

	var structuralErrs []string

	if err := validate.Struct(inv.Seller); err != nil {
		structuralErrs = append(structuralErrs, "seller: "+err.Error())
	}
	if err := validate.Struct(inv.Buyer); err != nil {
		structuralErrs = append(structuralErrs, "buyer: "+err.Error())
	}
	if len(inv.Lines) == 0 {
		structuralErrs = append(structuralErrs, "invoice must have at least one line")
	}
	if len(inv.Lines) > maxLines {
		structuralErrs = append(structuralErrs, fmt.Sprintf("invoice has %d lines, exceeding the limit of %d", len(inv.Lines), maxLines))
	}
	if len(inv.Number) > maxNumberLen {
		structuralErrs = append(structuralErrs, fmt.Sprintf("invoice number exceeds %d characters", maxNumberLen))
	}
	if len(inv.Notes) > maxNotes {
		structuralErrs = append(structuralErrs, fmt.Sprintf("invoice has %d notes, exceeding the limit of %d", len(inv.Notes), maxNotes))
	}
	if len(inv.Attachments) > maxAttachments {
		structuralErrs = append(structuralErrs, fmt.Sprintf("invoice has %d attachments, exceeding the limit of %d", len(inv.Attachments), maxAttachments))
	}
	if dup := firstDuplicateLineID(inv.Lines); dup != "" {
		structuralErrs = append(structuralErrs, fmt.Sprintf("duplicate line id %q", dup))
	}

	if len(structuralErrs) > 0 {
		return nil, model.NewStructuralError("invoice", strings.Join(structuralErrs, "; "))
	}

	if err := calculateTotals(&inv, b.prepaid); err != nil {
		return nil, err
	}

	return &inv, nil
}

// BuildStrict runs Build and then §14 UStG and EN 16931 validation,
// refusing to return an invoice that has any business-rule errors.
func (b *InvoiceBuilder) BuildStrict() (*model.Invoice, error) {
	inv, err := b.Build()
	if err != nil {
		return nil, err
	}
	var errs []string
	for _, e := range validation.ValidateUStG14(inv) {
		errs = append(errs, e.Error())
	}
	for _, e := range validation.ValidateEN16931(inv) {
		errs = append(errs, e.Error())
	}
	if len(errs) > 0 {
		return nil, model.NewStructuralError("invoice", strings.Join(errs, "; "))
	}
	return inv, nil
}

func firstDuplicateLineID(lines []model.LineItem) string {
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if l.ID == "" {
			continue
		}
		if _, ok := seen[l.ID]; ok {
			return l.ID
		}
		seen[l.ID] = struct{}{}
	}
	return ""
}

// PartyBuilder builds a Party, requiring a name and an address.
type PartyBuilder struct {
	party model.Party
}

func NewPartyBuilder(name string) *PartyBuilder {
	return &PartyBuilder{party: model.Party{Name: name}}
}

func (b *PartyBuilder) Address(a model.Address) *PartyBuilder  { b.party.Address = a; return b }
func (b *PartyBuilder) TradingName(n string) *PartyBuilder     { b.party.TradingName = n; return b }
func (b *PartyBuilder) VATID(id string) *PartyBuilder          { b.party.VATID = id; return b }
func (b *PartyBuilder) TaxNumber(n string) *PartyBuilder        { b.party.TaxNumber = n; return b }
func (b *PartyBuilder) RegistrationID(id string) *PartyBuilder { b.party.RegistrationID = id; return b }
func (b *PartyBuilder) Contact(c model.Contact) *PartyBuilder  { b.party.Contact = &c; return b }

func (b *PartyBuilder) ElectronicAddress(scheme, value string) *PartyBuilder {
	b.party.ElectronicAddress = &model.ElectronicAddress{Scheme: scheme, Value: value}
	return b
}

func (b *PartyBuilder) Build() (model.Party, error) {
	if err := validate.Struct(b.party); err != nil {
		return model.Party{}, model.NewStructuralError("party", err.Error())
	}
	return b.party, nil
}

// AddressBuilder builds an Address, requiring city, postal code, and country.
type AddressBuilder struct {
	address model.Address
}

func NewAddressBuilder(city, postalCode, countryCode string) *AddressBuilder {
	return &AddressBuilder{address: model.Address{City: city, PostalCode: postalCode, CountryCode: countryCode}}
}

func (b *AddressBuilder) Street(s string) *AddressBuilder { b.address.Street = s; return b }

func (b *AddressBuilder) AdditionalStreet(s string) *AddressBuilder {
	b.address.AdditionalStreet = s
	return b
}

func (b *AddressBuilder) Subdivision(s string) *AddressBuilder { b.address.Subdivision = s; return b }

func (b *AddressBuilder) Build() (model.Address, error) {
	if err := validate.Struct(b.address); err != nil {
		return model.Address{}, model.NewStructuralError("address", err.Error())
	}
	if !codetables.IsKnownCountry(b.address.CountryCode) {
		return model.Address{}, model.NewCodeListError("country", b.address.CountryCode)
	}
	return b.address, nil
}

// LineItemBuilder builds a LineItem. Defaults: tax category StandardRate,
// tax rate 19%.
type LineItemBuilder struct {
	line model.LineItem
}

func NewLineItemBuilder(id, itemName string, quantity decimal.Decimal, unitCode string, unitPrice decimal.Decimal) *LineItemBuilder {
	return &LineItemBuilder{line: model.LineItem{
		ID:          id,
		ItemName:    itemName,
		Quantity:    quantity,
		UnitCode:    unitCode,
		UnitPrice:   unitPrice,
		TaxCategory: codetables.TaxStandardRate,
		TaxRate:     dec.FromInt(19),
	}}
}

func (b *LineItemBuilder) Tax(category codetables.TaxCategory, rate decimal.Decimal) *LineItemBuilder {
	b.line.TaxCategory = category
	b.line.TaxRate = rate
	return b
}

func (b *LineItemBuilder) GrossPrice(p decimal.Decimal) *LineItemBuilder {
	b.line.GrossPrice = &p
	return b
}

func (b *LineItemBuilder) BaseQuantity(q decimal.Decimal, unit string) *LineItemBuilder {
	b.line.BaseQuantity = &q
	b.line.BaseQuantityUnit = unit
	return b
}

func (b *LineItemBuilder) Description(d string) *LineItemBuilder { b.line.Description = d; return b }

func (b *LineItemBuilder) SellerItemID(id string) *LineItemBuilder {
	b.line.SellerItemID = id
	return b
}

func (b *LineItemBuilder) StandardItemID(id string) *LineItemBuilder {
	b.line.StandardItemID = id
	return b
}

func (b *LineItemBuilder) OriginCountry(c string) *LineItemBuilder {
	b.line.OriginCountry = c
	return b
}

func (b *LineItemBuilder) Note(n string) *LineItemBuilder { b.line.Note = n; return b }

func (b *LineItemBuilder) Period(p model.Period) *LineItemBuilder { b.line.Period = &p; return b }

func (b *LineItemBuilder) AddAllowance(ac model.AllowanceCharge) *LineItemBuilder {
	ac.IsCharge = false
	b.line.Allowances = append(b.line.Allowances, ac)
	return b
}

func (b *LineItemBuilder) AddCharge(ac model.AllowanceCharge) *LineItemBuilder {
	ac.IsCharge = true
	b.line.Charges = append(b.line.Charges, ac)
	return b
}

func (b *LineItemBuilder) Build() (model.LineItem, error) {
	if b.line.ID == "" || b.line.ItemName == "" {
		return model.LineItem{}, model.NewStructuralError("line", "id and item name are required")
	}
	if !codetables.IsKnownUnit(b.line.UnitCode) {
		return model.LineItem{}, model.NewCodeListError("unit", b.line.UnitCode)
	}
	return b.line, nil
}
