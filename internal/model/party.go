package model

// Party is a seller, buyer, payee, or tax representative (BG-4, BG-7, BG-10,
// BG-11). Address is mandatory on any Party attached to an Invoice; the
// other fields are optional depending on role and scenario.
type Party struct {
	Name              string `validate:"required"`
	TradingName       string
	Address           Address `validate:"required"`
	Contact           *Contact
	VATID             string
	TaxNumber         string
	RegistrationID    string
	ElectronicAddress *ElectronicAddress
}
