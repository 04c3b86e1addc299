package gdpdu

import (
	"time"

	"github.com/beevik/etree"

	"github.com/rezonia/rechnung/internal/model"
)

// Config configures a GDPdU export.
type Config struct {
	// CompanyName is the DataSupplier Name. When empty, the DataSupplier
	// block is omitted entirely, matching the original exporter.
	CompanyName string
	// Location is the company location/country, e.g. "Deutschland".
	Location string
	// Comment is the export description.
	Comment string
}

// DefaultConfig returns a Config with the original exporter's defaults.
func DefaultConfig() Config {
	return Config{
		Location: "Deutschland",
		Comment:  "GDPdU-Export Ausgangsrechnungen",
	}
}

type colType int

const (
	colAlphaNumeric colType = iota
	colNumeric2
	colDate
)

func generateIndexXML(invoices []*model.Invoice, config Config) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateDirective(`DOCTYPE DataSet SYSTEM "gdpdu-01-08-2002.dtd"`)

	dataSet := doc.CreateElement("DataSet")
	textEl(dataSet, "Version", "1.0")

	if config.CompanyName != "" {
		supplier := dataSet.CreateElement("DataSupplier")
		textEl(supplier, "Name", config.CompanyName)
		textEl(supplier, "Location", config.Location)
		textEl(supplier, "Comment", config.Comment)
	}

	periodFrom, periodTo, err := dateRange(invoices)
	if err != nil {
		return "", err
	}

	media := dataSet.CreateElement("Media")
	textEl(media, "Name", "Datenexport")

	writeKundenTable(media)
	writeRechnungsausgangTable(media, periodFrom, periodTo)

	doc.Indent(2)
	return doc.WriteToString()
}

func writeKundenTable(media *etree.Element) {
	table := media.CreateElement("Table")
	textEl(table, "URL", "kunden.csv")
	textEl(table, "Name", "Kunden")
	textEl(table, "Description", "Kundenstammdaten")
	table.CreateElement("UTF8")
	textEl(table, "DecimalSymbol", ",")
	textEl(table, "DigitGroupingSymbol", ".")

	vl := table.CreateElement("VariableLength")
	textEl(vl, "ColumnDelimiter", ";")
	textEl(vl, "TextEncapsulator", `"`)

	writeVariablePK(vl, "Kundenkontonummer", "", colAlphaNumeric)
	writeVariableCol(vl, "Kundenname", "", colAlphaNumeric)
	writeVariableCol(vl, "Strasse", "", colAlphaNumeric)
	writeVariableCol(vl, "PLZ", "", colAlphaNumeric)
	writeVariableCol(vl, "Ort", "", colAlphaNumeric)
	writeVariableCol(vl, "Land", "", colAlphaNumeric)
	writeVariableCol(vl, "UStIdNr", "", colAlphaNumeric)
}

func writeRechnungsausgangTable(media *etree.Element, periodFrom, periodTo string) {
	table := media.CreateElement("Table")
	textEl(table, "URL", "rechnungsausgang.csv")
	textEl(table, "Name", "Rechnungsausgang")
	textEl(table, "Description", "Ausgangsrechnungen")

	validity := table.CreateElement("Validity")
	rng := validity.CreateElement("Range")
	textEl(rng, "From", periodFrom)
	textEl(rng, "To", periodTo)
	textEl(validity, "Format", "YYYYMMDD")

	table.CreateElement("UTF8")
	textEl(table, "DecimalSymbol", ",")
	textEl(table, "DigitGroupingSymbol", ".")

	vl := table.CreateElement("VariableLength")
	textEl(vl, "ColumnDelimiter", ";")
	textEl(vl, "TextEncapsulator", `"`)

	writeVariablePK(vl, "Belegnummer", "Rechnungsnummer", colAlphaNumeric)
	writeVariableCol(vl, "Belegdatum", "Rechnungsdatum", colDate)
	writeVariableCol(vl, "Faelligkeitsdatum", "", colDate)
	writeVariableCol(vl, "Leistungsdatum", "Liefer-/Leistungsdatum", colDate)
	writeVariableCol(vl, "Kundenkontonummer", "Debitorennummer", colAlphaNumeric)
	writeVariableCol(vl, "Kundenname", "", colAlphaNumeric)
	writeVariableCol(vl, "Buchungstext", "Rechnungsbetreff", colAlphaNumeric)
	writeVariableCol(vl, "Nettobetrag", "", colNumeric2)
	writeVariableCol(vl, "Steuersatz", "USt-Satz in Prozent", colNumeric2)
	writeVariableCol(vl, "Steuerbetrag", "", colNumeric2)
	writeVariableCol(vl, "Bruttobetrag", "", colNumeric2)
	writeVariableCol(vl, "Waehrung", "", colAlphaNumeric)
	writeVariableCol(vl, "Belegtyp", "UNTDID 1001 Belegtyp", colAlphaNumeric)

	fk := vl.CreateElement("ForeignKey")
	textEl(fk, "Name", "Kundenkontonummer")
	textEl(fk, "References", "Kunden")
}

func writeVariablePK(parent *etree.Element, name, desc string, ct colType) {
	el := parent.CreateElement("VariablePrimaryKey")
	textEl(el, "Name", name)
	if desc != "" {
		textEl(el, "Description", desc)
	}
	writeColType(el, ct)
}

func writeVariableCol(parent *etree.Element, name, desc string, ct colType) {
	el := parent.CreateElement("VariableColumn")
	textEl(el, "Name", name)
	if desc != "" {
		textEl(el, "Description", desc)
	}
	writeColType(el, ct)
}

func writeColType(parent *etree.Element, ct colType) {
	switch ct {
	case colAlphaNumeric:
		parent.CreateElement("AlphaNumeric")
	case colNumeric2:
		numeric := parent.CreateElement("Numeric")
		textEl(numeric, "Accuracy", "2")
	case colDate:
		date := parent.CreateElement("Date")
		textEl(date, "Format", "DD.MM.YYYY")
	}
}

func textEl(parent *etree.Element, tag, text string) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(text)
	return el
}

func dateRange(invoices []*model.Invoice) (string, string, error) {
	min, err := time.Parse(dateLayout, invoices[0].IssueDate)
	if err != nil {
		return "", "", model.NewStructuralError("issue_date", "invalid issue date: "+invoices[0].IssueDate)
	}
	max := min
	for _, inv := range invoices[1:] {
		d, err := time.Parse(dateLayout, inv.IssueDate)
		if err != nil {
			return "", "", model.NewStructuralError("issue_date", "invalid issue date: "+inv.IssueDate)
		}
		if d.Before(min) {
			min = d
		}
		if d.After(max) {
			max = d
		}
	}
	return min.Format("20060102"), max.Format("20060102"), nil
}
