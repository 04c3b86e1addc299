package validation

import (
	"sort"

	"github.com/rezonia/rechnung/internal/model"
)

// Layer identifies one of the validation layers this package implements.
type Layer string

const (
	LayerUStG14    Layer = "ustg14"
	LayerEN16931   Layer = "en16931"
	LayerXRechnung Layer = "xrechnung"
	LayerPeppol    Layer = "peppol"
)

// ValidateFor runs the layers appropriate to a target profile and returns
// every finding, sorted by rule id, then BT reference, then field, for
// stable output.
func ValidateFor(inv *model.Invoice, layers ...Layer) []*model.ValidationError {
	var errs []*model.ValidationError
	for _, layer := range layers {
		switch layer {
		case LayerUStG14:
			errs = append(errs, ValidateUStG14(inv)...)
		case LayerEN16931:
			errs = append(errs, ValidateEN16931(inv)...)
		case LayerXRechnung:
			errs = append(errs, ValidateXRechnung(inv)...)
		case LayerPeppol:
			errs = append(errs, ValidatePeppol(inv)...)
		}
	}
	sort.SliceStable(errs, func(i, j int) bool {
		if errs[i].Rule != errs[j].Rule {
			return errs[i].Rule < errs[j].Rule
		}
		if errs[i].BTRef != errs[j].BTRef {
			return errs[i].BTRef < errs[j].BTRef
		}
		return errs[i].Field < errs[j].Field
	})
	return errs
}
