package model

// Address is a postal address (BG-5/BG-8/BG-12 depending on context). The
// validate tags are consumed by the builder's struct-level required-field
// pass (github.com/go-playground/validator/v10); they document the
// mandatory fields in one place instead of scattering them across
// hand-written nil checks.
type Address struct {
	Street           string
	AdditionalStreet string
	City             string `validate:"required"`
	PostalCode       string `validate:"required"`
	CountryCode      string `validate:"required,len=2"`
	Subdivision      string
}

// ElectronicAddress is a Peppol-style endpoint identifier: a scheme code
// (see codetables.EasScheme) plus the identifier value in that scheme.
type ElectronicAddress struct {
	Scheme string
	Value  string
}

// Contact is an optional named contact point on a Party.
type Contact struct {
	Name  string
	Phone string
	Email string
}
