package xmlcodec

import (
	"github.com/rezonia/rechnung/internal/model"
)

var defaultRegistry = NewRegistry()

// EncodeUBL renders inv as a UBL 2.1 Invoice or CreditNote document.
func EncodeUBL(inv *model.Invoice) ([]byte, error) {
	return defaultRegistry.EncodeAs(inv, SyntaxUBL)
}

// EncodeCII renders inv as a UN/CEFACT CII CrossIndustryInvoice document.
func EncodeCII(inv *model.Invoice) ([]byte, error) {
	return defaultRegistry.EncodeAs(inv, SyntaxCII)
}

// Decode auto-detects the syntax (UBL or CII) of data and parses it into an
// Invoice.
func Decode(data []byte) (*model.Invoice, error) {
	c, err := defaultRegistry.Detect(data)
	if err != nil {
		return nil, err
	}
	return c.Decode(data)
}

// DetectSyntax reports which syntax an XML document uses without parsing it.
func DetectSyntax(data []byte) Syntax {
	c, err := defaultRegistry.Detect(data)
	if err != nil {
		return SyntaxUnknown
	}
	return c.Syntax()
}
