package gdpdu

import "github.com/rezonia/rechnung/internal/model"

// Export is the result of a GDPdU export.
type Export struct {
	// IndexXML is the index.xml content.
	IndexXML string
	// Files holds (filename, content) pairs: kunden.csv and
	// rechnungsausgang.csv.
	Files [][2]string
}

// ToGDPdU generates a GDPdU export (index.xml plus CSV files) from a set of
// invoices. Each invoice must already be calculated (Totals.VATBreakdown
// populated).
//
// The standard gdpdu-01-08-2002.dtd referenced by index.xml's DOCTYPE is not
// bundled here; callers that need strict DTD validation should ship the
// official DTD text alongside the generated files themselves.
func ToGDPdU(invoices []*model.Invoice, config Config) (*Export, error) {
	if len(invoices) == 0 {
		return nil, model.NewStructuralError("invoices", "no invoices to export")
	}

	kundenCSV, rechnungCSV, err := generateCSVs(invoices)
	if err != nil {
		return nil, err
	}

	indexXML, err := generateIndexXML(invoices, config)
	if err != nil {
		return nil, err
	}

	return &Export{
		IndexXML: indexXML,
		Files: [][2]string{
			{"kunden.csv", kundenCSV},
			{"rechnungsausgang.csv", rechnungCSV},
		},
	}, nil
}
