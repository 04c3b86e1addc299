package datev

import (
	"github.com/shopspring/decimal"

	"github.com/rezonia/rechnung/internal/codetables"
)

// BuSchluessel is a DATEV BU-Schlüssel (tax posting key), used in field 9 of
// the Buchungsstapel to indicate the tax treatment of a posting. When an
// Automatikkonto is used, the key can be omitted.
type BuSchluessel uint8

const (
	// BuUSt19 is USt 19% (output tax, standard rate).
	BuUSt19 BuSchluessel = 3
	// BuUSt7 is USt 7% (output tax, reduced rate).
	BuUSt7 BuSchluessel = 2
	// BuVSt19 is VSt 19% (input tax, standard rate).
	BuVSt19 BuSchluessel = 9
	// BuVSt7 is VSt 7% (input tax, reduced rate).
	BuVSt7 BuSchluessel = 8
	// BuEUDelivery is the tax-free intra-community delivery key.
	BuEUDelivery BuSchluessel = 10
	// BuEUAcquisition19 is intra-community acquisition at 19%.
	BuEUAcquisition19 BuSchluessel = 12
	// BuEUAcquisition7 is intra-community acquisition at 7%.
	BuEUAcquisition7 BuSchluessel = 13
	// BuReverseCharge19 is reverse charge §13b at 19%.
	BuReverseCharge19 BuSchluessel = 44
)

// BuKeyFor determines the BU-Schlüssel for an output tax (sales) posting.
// It returns false when no key applies: standard rates other than 19% and
// 7%, and every category other than standard rate, intra-community supply
// and reverse charge. It does not look at Automatikkonten; ToEXTF omits the
// key for those itself.
func BuKeyFor(category codetables.TaxCategory, rate decimal.Decimal) (BuSchluessel, bool) {
	switch category {
	case codetables.TaxStandardRate:
		switch {
		case rate.Equal(decimal.NewFromInt(19)):
			return BuUSt19, true
		case rate.Equal(decimal.NewFromInt(7)):
			return BuUSt7, true
		default:
			return 0, false
		}
	case codetables.TaxIntraCommunitySupply:
		return BuEUDelivery, true
	case codetables.TaxReverseCharge:
		return BuReverseCharge19, true
	default:
		return 0, false
	}
}
