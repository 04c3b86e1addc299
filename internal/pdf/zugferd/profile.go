// Package zugferd embeds and extracts ZUGFeRD/Factur-X CII invoice XML in
// PDF/A-3 documents: the hybrid format German and French e-invoicing
// regulations accept alongside pure XML.
package zugferd

// Profile is a ZUGFeRD/Factur-X conformance profile, selecting how much of
// the invoice is machine-readable and which PDF/A-3 metadata to write.
type Profile int

const (
	// Minimum carries only the data needed to route and book the invoice;
	// no line items.
	Minimum Profile = iota
	// BasicWl ("without lines") carries header and tax data but no lines.
	BasicWl
	// Basic carries full line items without complete EN 16931 coverage.
	Basic
	// EN16931 is the full European norm profile, recommended for most use.
	EN16931
	// Extended carries fields beyond EN 16931 for bilateral agreements.
	Extended
	// XRechnung is the German public-sector profile.
	XRechnung
)

// the customization ID the XRechnung CIUS itself mandates; the same string
// as xmlcodec's unexported ciiGuidelineID, which the CII encoder writes by
// default.
const xrechnungGuidelineID = "urn:cen.eu:en16931:2017#compliant#urn:xeinkauf.de:kosit:xrechnung_3.0"

// URN returns the GuidelineSpecifiedDocumentContextParameter value CII
// readers use to identify the profile.
func (p Profile) URN() string {
	switch p {
	case Minimum:
		return "urn:factur-x.eu:1p0:minimum"
	case BasicWl:
		return "urn:factur-x.eu:1p0:basicwl"
	case Basic:
		return "urn:cen.eu:en16931:2017#compliant#urn:factur-x.eu:1p0:basic"
	case EN16931:
		return "urn:cen.eu:en16931:2017"
	case Extended:
		return "urn:cen.eu:en16931:2017#conformant#urn:factur-x.eu:1p0:extended"
	case XRechnung:
		return xrechnungGuidelineID
	default:
		return "urn:cen.eu:en16931:2017"
	}
}

// ConformanceLevel returns the XMP pdfaid:conformance-adjacent value this
// profile reports in the Factur-X XMP extension schema.
func (p Profile) ConformanceLevel() string {
	switch p {
	case Minimum:
		return "MINIMUM"
	case BasicWl:
		return "BASIC WL"
	case Basic:
		return "BASIC"
	case EN16931:
		return "EN 16931"
	case Extended:
		return "EXTENDED"
	case XRechnung:
		return "XRECHNUNG"
	default:
		return "EN 16931"
	}
}

// AFRelationship returns the PDF FileSpec's AFRelationship value: "Data"
// for the data-only profiles, "Alternative" for profiles where the PDF
// itself remains the legally authoritative representation.
func (p Profile) AFRelationship() string {
	switch p {
	case Minimum, BasicWl:
		return "Data"
	default:
		return "Alternative"
	}
}

// FacturXFilename is the embedded XML's fixed filename per the Factur-X
// 1.0+ specification.
const FacturXFilename = "factur-x.xml"
