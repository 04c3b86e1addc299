package model

// VATScenario classifies the overall VAT treatment of an invoice, used by
// the §14 UStG validator to decide which mandatory-field exemptions apply.
type VATScenario string

const (
	ScenarioDomestic             VATScenario = "domestic"
	ScenarioKleinunternehmer     VATScenario = "kleinunternehmer"
	ScenarioReverseCharge        VATScenario = "reverse_charge"
	ScenarioIntraCommunitySupply VATScenario = "intra_community_supply"
	ScenarioExport               VATScenario = "export"
	ScenarioSmallInvoice          VATScenario = "small_invoice"
	ScenarioMixed                VATScenario = "mixed"
)
