package validation

import (
	"strconv"

	"github.com/shopspring/decimal"

	dec "github.com/rezonia/rechnung/internal/decimal"
)

func decimalZero() decimal.Decimal        { return dec.Zero }
func decimalFromInt(n int64) decimal.Decimal { return dec.FromInt(n) }
func itoa(i int) string                   { return strconv.Itoa(i) }
