// Package gdpdu generates GDPdU/IDEA tax-audit exports: an index.xml
// describing the dataset, a customer master-data CSV, and an outgoing
// invoice CSV, per the Grundsätze zum Datenzugriff und zur Prüfbarkeit
// digitaler Unterlagen.
package gdpdu

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rezonia/rechnung/internal/model"
)

const dateLayout = "2006-01-02"

// generateCSVs builds kunden.csv and rechnungsausgang.csv content.
func generateCSVs(invoices []*model.Invoice) (string, string, error) {
	kunden, ids := generateKundenCSV(invoices)
	rechnungen, err := generateRechnungsausgangCSV(invoices, ids)
	if err != nil {
		return "", "", err
	}
	return kunden, rechnungen, nil
}

// generateKundenCSV deduplicates customers by name (there is no stable
// customer ID on Invoice) and returns the CSV content plus the
// name-to-customer-ID lookup the invoice CSV reuses so both files agree.
//
// Columns: Kundenkontonummer;Kundenname;Strasse;PLZ;Ort;Land;UStIdNr
func generateKundenCSV(invoices []*model.Invoice) (string, map[string]string) {
	var names []string
	seen := map[string]model.Party{}
	for _, inv := range invoices {
		if _, ok := seen[inv.Buyer.Name]; !ok {
			seen[inv.Buyer.Name] = inv.Buyer
			names = append(names, inv.Buyer.Name)
		}
	}
	sort.Strings(names)

	ids := map[string]string{}
	var out strings.Builder
	for i, name := range names {
		party := seen[name]
		id := fmt.Sprintf("K-%04d", i+1)
		ids[name] = id

		csvFieldStr(&out, id)
		out.WriteByte(';')
		csvFieldStr(&out, party.Name)
		out.WriteByte(';')
		csvFieldStr(&out, party.Address.Street)
		out.WriteByte(';')
		csvFieldStr(&out, party.Address.PostalCode)
		out.WriteByte(';')
		csvFieldStr(&out, party.Address.City)
		out.WriteByte(';')
		csvFieldStr(&out, party.Address.CountryCode)
		out.WriteByte(';')
		csvFieldStr(&out, party.VATID)
		out.WriteString("\r\n")
	}
	return out.String(), ids
}

// generateRechnungsausgangCSV produces one row per VAT breakdown group per
// invoice.
//
// Columns: Belegnummer;Belegdatum;Faelligkeitsdatum;Leistungsdatum;
// Kundenkontonummer;Kundenname;Buchungstext;Nettobetrag;Steuersatz;
// Steuerbetrag;Bruttobetrag;Waehrung;Belegtyp
func generateRechnungsausgangCSV(invoices []*model.Invoice, customerIDs map[string]string) (string, error) {
	var out strings.Builder
	for _, inv := range invoices {
		if len(inv.Totals.VATBreakdown) == 0 {
			return "", model.NewStructuralError("totals",
				fmt.Sprintf("invoice %s has no calculated totals — build it with InvoiceBuilder.Build first", inv.Number))
		}
		customerID, ok := customerIDs[inv.Buyer.Name]
		if !ok {
			return "", model.NewStructuralError("buyer", fmt.Sprintf("missing customer ID for %q", inv.Buyer.Name))
		}

		issueDate, err := time.Parse(dateLayout, inv.IssueDate)
		if err != nil {
			return "", model.NewStructuralError("issue_date", "invalid issue date: "+inv.IssueDate)
		}

		postingText := inv.Number
		if len(inv.Lines) == 1 {
			postingText = inv.Lines[0].ItemName
		}

		for _, vb := range inv.Totals.VATBreakdown {
			gross := vb.TaxableAmount.Add(vb.TaxAmount)
			if gross.IsZero() && vb.TaxableAmount.IsZero() {
				continue
			}

			csvFieldStr(&out, inv.Number)
			out.WriteByte(';')
			out.WriteString(issueDate.Format("02.01.2006"))
			out.WriteByte(';')
			if inv.DueDate != "" {
				if d, err := time.Parse(dateLayout, inv.DueDate); err == nil {
					out.WriteString(d.Format("02.01.2006"))
				}
			}
			out.WriteByte(';')
			if inv.TaxPointDate != "" {
				if d, err := time.Parse(dateLayout, inv.TaxPointDate); err == nil {
					out.WriteString(d.Format("02.01.2006"))
				}
			}
			out.WriteByte(';')
			csvFieldStr(&out, customerID)
			out.WriteByte(';')
			csvFieldStr(&out, inv.Buyer.Name)
			out.WriteByte(';')
			csvFieldStr(&out, postingText)
			out.WriteByte(';')
			csvFieldDecimal(&out, vb.TaxableAmount)
			out.WriteByte(';')
			csvFieldDecimal(&out, vb.Rate)
			out.WriteByte(';')
			csvFieldDecimal(&out, vb.TaxAmount)
			out.WriteByte(';')
			csvFieldDecimal(&out, gross)
			out.WriteByte(';')
			csvFieldStr(&out, inv.Currency)
			out.WriteByte(';')
			fmt.Fprintf(&out, "%d", inv.TypeCode)
			out.WriteString("\r\n")
		}
	}
	return out.String(), nil
}

func csvFieldStr(out *strings.Builder, value string) {
	out.WriteByte('"')
	out.WriteString(strings.ReplaceAll(value, `"`, `""`))
	out.WriteByte('"')
}

func csvFieldDecimal(out *strings.Builder, d decimal.Decimal) {
	scaled := d.RoundBank(2)
	out.WriteString(strings.Replace(scaled.StringFixed(2), ".", ",", 1))
}
