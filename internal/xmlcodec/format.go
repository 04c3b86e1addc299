// Package xmlcodec encodes and decodes Invoice values as UBL 2.1 or
// UN/CEFACT CII XML, the two syntaxes XRechnung and Peppol BIS Billing
// accept. Encoding builds an explicit element tree so CII's strict child
// ordering is never left to chance; decoding is tolerant of both syntaxes'
// namespace-prefix conventions by matching on local element names.
package xmlcodec

import (
	"encoding/base64"

	"github.com/shopspring/decimal"

	dec "github.com/rezonia/rechnung/internal/decimal"
)

// formatAmount renders a monetary amount with exactly 2 fractional digits.
func formatAmount(d decimal.Decimal) string {
	return dec.FormatAmount(d)
}

// formatPercent renders a percentage/quantity value with the minimum
// fractional digits needed, never fewer than 2.
func formatPercent(d decimal.Decimal) string {
	return dec.FormatMinimal(d)
}

func parseAmount(s string) (decimal.Decimal, error) {
	return dec.FromString(s)
}

func encodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func decodeBase64(s string) []byte {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}
