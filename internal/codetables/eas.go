package codetables

import "strings"

// EasScheme identifies a Peppol Electronic Address Scheme entry: the numeric
// scheme code carried in an EndpointID's schemeID attribute, plus a
// human-readable description.
type EasScheme struct {
	Code        string
	Description string
}

// Well-known EAS schemes used for Peppol participant identification.
var (
	EasGLN       = EasScheme{"0088", "GS1 GLN"}
	EasLeitwegID = EasScheme{"0204", "Leitweg-ID"}
	EasBEEnt     = EasScheme{"0208", "Belgian enterprise number"}
	EasDKDigst   = EasScheme{"0184", "DIGSTORG"}
	EasNLOIN     = EasScheme{"0190", "Dutch OIN"}
	EasNLKvK     = EasScheme{"0106", "Dutch KvK"}
	EasITCF      = EasScheme{"0210", "Italian Codice Fiscale"}
	EasITIVA     = EasScheme{"0211", "Italian Partita IVA"}
	EasDEVAT     = EasScheme{"9930", "German VAT number"}
	EasATVAT     = EasScheme{"9914", "Austrian VAT number"}
	EasBEVAT     = EasScheme{"9925", "Belgian VAT number"}
	EasFRVAT     = EasScheme{"9957", "French VAT number"}
	EasITVAT     = EasScheme{"9906", "Italian VAT number"}
	EasNLVAT     = EasScheme{"9944", "Dutch VAT number"}
	EasFIOVT     = EasScheme{"0037", "Finnish OVT"}
	EasSEOrg     = EasScheme{"0007", "Swedish Org number"}
	EasNOOrg     = EasScheme{"0192", "Norwegian Org number"}
)

// EasSchemeForCountry returns a reasonable default EAS scheme for the given
// ISO 3166-1 alpha-2 country code. For Germany this is the Leitweg-ID scheme
// (public-sector routing); use EasDEVAT directly for B2B.
func EasSchemeForCountry(countryCode string) (EasScheme, bool) {
	switch strings.ToUpper(countryCode) {
	case "DE":
		return EasLeitwegID, true
	case "AT":
		return EasATVAT, true
	case "BE":
		return EasBEEnt, true
	case "DK":
		return EasDKDigst, true
	case "FI":
		return EasFIOVT, true
	case "FR":
		return EasFRVAT, true
	case "IT":
		return EasITCF, true
	case "NL":
		return EasNLOIN, true
	case "NO":
		return EasNOOrg, true
	case "SE":
		return EasSEOrg, true
	default:
		return EasScheme{}, false
	}
}
