package builder

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rezonia/rechnung/internal/codetables"
	dec "github.com/rezonia/rechnung/internal/decimal"
	"github.com/rezonia/rechnung/internal/model"
)

// vatGroupKey identifies a VAT breakdown group by (tax category, tax rate).
// Rate is keyed by its 2-decimal string form since decimal.Decimal is not
// itself comparable as a map key.
type vatGroupKey struct {
	category codetables.TaxCategory
	rate     string
}

type vatGroup struct {
	key   vatGroupKey
	rate  decimal.Decimal
	basis decimal.Decimal
}

// calculateTotals derives every line's net amount, groups lines into a VAT
// breakdown, allocates document-level allowances/charges into that
// breakdown, and populates inv.Totals. It is run exactly once, at build
// time — see SPEC_FULL.md §4.1.
//
// Rounding uses banker's rounding (half-to-even) throughout, per this
// library's explicit rounding mandate; a reference port of this same engine
// in another language instead rounds half-away-from-zero (see DESIGN.md).
func calculateTotals(inv *model.Invoice, prepaid decimal.Decimal) error {
	for i := range inv.Lines {
		line := &inv.Lines[i]
		line.LineNet = dec.Round2(computeLineNet(line))
	}

	groups := groupLines(inv.Lines)

	allowancesTotal := sumAllowanceCharges(inv.Allowances)
	chargesTotal := sumAllowanceCharges(inv.Charges)

	allocate(groups, inv.Allowances, false)
	allocate(groups, inv.Charges, true)

	breakdown := make([]model.VATBreakdown, 0, len(groups))
	var vatTotal decimal.Decimal
	for _, g := range sortedGroups(groups) {
		tax := dec.Round2(dec.Percentage(g.basis, g.rate))
		vatTotal = vatTotal.Add(tax)
		entry := model.VATBreakdown{
			Category:      g.key.category,
			Rate:          g.rate,
			TaxableAmount: dec.Round2(g.basis),
			TaxAmount:     tax,
		}
		if g.key.category.RequiresExemptionReason() {
			entry.ExemptionReason, entry.ExemptionReasonCode = exemptionReasonFor(inv, g.key.category)
		}
		breakdown = append(breakdown, entry)
	}

	lineNetTotal := dec.Zero
	for _, l := range inv.Lines {
		lineNetTotal = lineNetTotal.Add(l.LineNet)
	}

	taxExclusive := dec.Round2(lineNetTotal.Sub(allowancesTotal).Add(chargesTotal))
	taxInclusive := dec.Round2(taxExclusive.Add(vatTotal))

	inv.Totals = model.Totals{
		LineNetTotal:      dec.Round2(lineNetTotal),
		AllowancesTotal:   dec.Round2(allowancesTotal),
		ChargesTotal:      dec.Round2(chargesTotal),
		TaxExclusiveTotal: taxExclusive,
		VATBreakdown:      breakdown,
		VATTotal:          dec.Round2(vatTotal),
		TaxInclusiveTotal: taxInclusive,
		Prepaid:           dec.Round2(prepaid),
		RoundingAmount:    dec.Zero,
		AmountDue:         dec.Round2(taxInclusive.Sub(prepaid)),
	}

	return nil
}

// computeLineNet implements `quantity × unit_price − allowances + charges`,
// scaling unit_price by base_quantity when the line prices per a base unit
// other than 1 (e.g. price per 100 units).
func computeLineNet(line *model.LineItem) decimal.Decimal {
	unitPrice := line.UnitPrice
	if line.BaseQuantity != nil && !line.BaseQuantity.IsZero() {
		unitPrice = dec.Div(unitPrice, *line.BaseQuantity)
	}
	gross := dec.Mul(line.Quantity, unitPrice)
	net := gross.Sub(sumAllowanceCharges(line.Allowances)).Add(sumAllowanceCharges(line.Charges))
	return net
}

func sumAllowanceCharges(items []model.AllowanceCharge) decimal.Decimal {
	total := dec.Zero
	for _, ac := range items {
		total = total.Add(ac.Amount)
	}
	return total
}

func groupLines(lines []model.LineItem) map[vatGroupKey]*vatGroup {
	groups := make(map[vatGroupKey]*vatGroup)
	for _, line := range lines {
		key := vatGroupKey{category: line.TaxCategory, rate: line.TaxRate.StringFixed(2)}
		g, ok := groups[key]
		if !ok {
			g = &vatGroup{key: key, rate: line.TaxRate, basis: dec.Zero}
			groups[key] = g
		}
		g.basis = g.basis.Add(line.LineNet)
	}
	return groups
}

// allocate distributes document-level allowances/charges into the VAT
// groups they belong to: directly, when the allowance/charge declares a
// matching tax category and rate; otherwise proportionally by group basis
// (the least-surprise default this library adopts for the unallocated
// case — see DESIGN.md).
func allocate(groups map[vatGroupKey]*vatGroup, items []model.AllowanceCharge, isCharge bool) {
	if len(items) == 0 {
		return
	}

	totalBasis := dec.Zero
	for _, g := range groups {
		totalBasis = totalBasis.Add(g.basis)
	}

	var unallocated decimal.Decimal
	for _, ac := range items {
		key := vatGroupKey{category: ac.TaxCategory, rate: ac.TaxRate.StringFixed(2)}
		if g, ok := groups[key]; ok && ac.TaxCategory != "" {
			applyToGroup(g, ac.Amount, isCharge)
			continue
		}
		unallocated = unallocated.Add(ac.Amount)
	}

	if unallocated.IsZero() || totalBasis.IsZero() {
		return
	}
	for _, g := range groups {
		share := dec.Div(g.basis, totalBasis)
		applyToGroup(g, dec.Mul(unallocated, share), isCharge)
	}
}

func applyToGroup(g *vatGroup, amount decimal.Decimal, isCharge bool) {
	if isCharge {
		g.basis = g.basis.Add(amount)
	} else {
		g.basis = g.basis.Sub(amount)
	}
}

func sortedGroups(groups map[vatGroupKey]*vatGroup) []*vatGroup {
	out := make([]*vatGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].key.category != out[j].key.category {
			return out[i].key.category < out[j].key.category
		}
		return out[i].key.rate < out[j].key.rate
	})
	return out
}

// exemptionReasonFor returns the free-text exemption reason for a breakdown
// group: the note of the first line carrying that category, otherwise a
// fixed English default for reverse charge, intra-community supply, export
// and not-subject-to-VAT groups, and an empty reason for every other
// category. Allowances and charges are not scanned, and the UNTDID reason
// code is always returned empty.
func exemptionReasonFor(inv *model.Invoice, category codetables.TaxCategory) (reason, code string) {
	for _, l := range inv.Lines {
		if l.TaxCategory == category && l.Note != "" {
			return l.Note, ""
		}
	}
	switch category {
	case codetables.TaxReverseCharge:
		return "Reverse charge", ""
	case codetables.TaxIntraCommunitySupply:
		return "Intra-community supply", ""
	case codetables.TaxExport:
		return "Export outside the EU", ""
	case codetables.TaxNotSubjectToVAT:
		return "Not subject to VAT", ""
	default:
		return "", ""
	}
}
