package codetables

// allowanceReasonCodes is the UNTDID 5189 list, sorted for binary search.
var allowanceReasonCodes = []string{
	"100", "102", "103", "104", "105", "41", "42", "60", "62", "63",
	"64", "65", "66", "67", "68", "70", "71", "88", "95",
}

// chargeReasonCodes is the UNTDID 7161 list, sorted for binary search.
var chargeReasonCodes = []string{
	"AA", "AAA", "AAC", "AAD", "AAE", "AAF", "ABK", "ABL", "ADR", "ADT",
	"AEW", "FC", "FI", "FL", "LA", "PC", "TS",
}

// IsKnownAllowanceReason reports whether code is a known UNTDID 5189 code.
func IsKnownAllowanceReason(code string) bool {
	return search(allowanceReasonCodes, code)
}

// IsKnownChargeReason reports whether code is a known UNTDID 7161 code.
func IsKnownChargeReason(code string) bool {
	return search(chargeReasonCodes, code)
}
