package codetables

// unitCodes is the sorted subset of UN/CEFACT Recommendation 20 unit codes
// relevant to European e-invoicing (the full list carries ~2000 entries).
var unitCodes = []string{
	"2N", "4K", "ANN", "BAR", "BLL", "BX", "C62", "CCM", "CLT", "CMK",
	"CMT", "CS", "CT", "DAY", "DMQ", "DMT", "DZN", "EA", "FOT", "GLL",
	"GM", "GRM", "GRO", "GWH", "HAR", "HLT", "HUR", "INH", "JOU", "KGM",
	"KGS", "KHZ", "KMH", "KMT", "KTM", "KVA", "KVT", "KWH", "KWT", "LBR",
	"LE", "LM", "LPA", "LS", "LTR", "MAW", "MBR", "MGM", "MHZ", "MIN",
	"MLT", "MMK", "MMT", "MON", "MQH", "MTK", "MTQ", "MTR", "MTS", "MWH",
	"NAR", "NPR", "P1", "PA", "PK", "PR", "QTI", "RO", "SA", "SEC",
	"SET", "SMI", "ST", "STN", "TNE", "WEE", "XBD", "XBG", "XBX", "XCT",
	"XPA", "XPK", "XPX", "XRO", "XSA", "XST", "YRD",
}

// IsKnownUnit reports whether code is a known UN/CEFACT Rec 20 unit code.
func IsKnownUnit(code string) bool {
	return search(unitCodes, code)
}
