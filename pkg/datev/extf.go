package datev

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rezonia/rechnung/internal/codetables"
	"github.com/rezonia/rechnung/internal/model"
)

const dateLayout = "2006-01-02"

// Config configures an EXTF export.
type Config struct {
	// ConsultantNumber is the DATEV Beraternummer, min 1001.
	ConsultantNumber uint32
	// ClientNumber is the DATEV Mandantennummer.
	ClientNumber uint32
	// FiscalYearStart is the Wirtschaftsjahr-Beginn.
	FiscalYearStart time.Time
	// AccountLength is the Sachkontenlänge, typically 4.
	AccountLength uint8
	// Chart selects SKR03 or SKR04.
	Chart ChartOfAccounts
	// DefaultDebitor is the debitor account used for customers without a
	// specific one. Debitor accounts are typically 10000-69999.
	DefaultDebitor uint32
	// Source is the Herkunft identifier, max 2 chars.
	Source string
	// ExportedBy names the exporting system, max 25 chars.
	ExportedBy string
	// Description is the Buchungsstapel description, max 30 chars.
	Description string
	// LockPostings sets Festschreibung on import.
	LockPostings bool
}

// ConfigBuilder builds a Config with a default document.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder creates a builder with the required consultant and client
// numbers and the remaining fields at their defaults.
func NewConfigBuilder(consultantNumber, clientNumber uint32) *ConfigBuilder {
	return &ConfigBuilder{config: Config{
		ConsultantNumber: consultantNumber,
		ClientNumber:     clientNumber,
		FiscalYearStart:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		AccountLength:    4,
		Chart:            SKR03,
		DefaultDebitor:   10000,
		Source:           "RE",
		Description:      "Buchungsstapel",
	}}
}

func (b *ConfigBuilder) FiscalYearStart(t time.Time) *ConfigBuilder {
	b.config.FiscalYearStart = t
	return b
}

func (b *ConfigBuilder) AccountLength(n uint8) *ConfigBuilder {
	b.config.AccountLength = n
	return b
}

func (b *ConfigBuilder) Chart(chart ChartOfAccounts) *ConfigBuilder {
	b.config.Chart = chart
	return b
}

func (b *ConfigBuilder) DefaultDebitor(account uint32) *ConfigBuilder {
	b.config.DefaultDebitor = account
	return b
}

func (b *ConfigBuilder) Source(source string) *ConfigBuilder {
	b.config.Source = source
	return b
}

func (b *ConfigBuilder) ExportedBy(name string) *ConfigBuilder {
	b.config.ExportedBy = name
	return b
}

func (b *ConfigBuilder) Description(desc string) *ConfigBuilder {
	b.config.Description = desc
	return b
}

func (b *ConfigBuilder) LockPostings(lock bool) *ConfigBuilder {
	b.config.LockPostings = lock
	return b
}

func (b *ConfigBuilder) Build() Config {
	return b.config
}

// DebitCredit is the Soll/Haben-Kennzeichen of a booking row.
type DebitCredit int

const (
	Soll DebitCredit = iota
	Haben
)

func (d DebitCredit) code() string {
	if d == Haben {
		return "H"
	}
	return "S"
}

// Row is a single Buchungsstapel row (intermediate representation), before
// CSV rendering.
type Row struct {
	Amount           decimal.Decimal
	DebitCredit      DebitCredit
	Account          uint32
	ContraAccount    uint32
	BuKey            *BuSchluessel
	Date             time.Time
	DocumentNumber   string
	PostingText      string
	ServiceDate      *time.Time
	DueDate          *time.Time
	EUVatID          string
	GeneralReversal  bool
}

// ToEXTF generates a DATEV EXTF Buchungsstapel CSV from a set of invoices.
//
// The returned string is ISO-8859-1-compatible content using CRLF line
// endings; callers transcode to ISO-8859-1 bytes if their DATEV target
// requires it.
func ToEXTF(invoices []*model.Invoice, config Config) (string, error) {
	if len(invoices) == 0 {
		return "", model.NewStructuralError("invoices", "no invoices to export")
	}

	periodStart, periodEnd, err := dateRange(invoices)
	if err != nil {
		return "", err
	}

	var rows []Row
	for _, inv := range invoices {
		invRows, err := invoiceToRows(inv, config)
		if err != nil {
			return "", err
		}
		rows = append(rows, invRows...)
	}

	var out strings.Builder
	writeHeader(&out, config, periodStart, periodEnd)
	writeColumnHeaders(&out)
	for _, row := range rows {
		writeDataRow(&out, row)
	}
	return out.String(), nil
}

func invoiceToRows(inv *model.Invoice, config Config) ([]Row, error) {
	if len(inv.Totals.VATBreakdown) == 0 {
		return nil, model.NewStructuralError("totals",
			fmt.Sprintf("invoice %s has no calculated totals — build it with InvoiceBuilder.Build first", inv.Number))
	}

	issueDate, err := time.Parse(dateLayout, inv.IssueDate)
	if err != nil {
		return nil, model.NewStructuralError("issue_date", "invalid issue date: "+inv.IssueDate)
	}

	isCreditNote := inv.TypeCode.IsCreditNote()

	var rows []Row
	for _, vb := range inv.Totals.VATBreakdown {
		gross := vb.TaxableAmount.Add(vb.TaxAmount)
		if gross.IsZero() {
			continue
		}

		mapping := RevenueAccount(config.Chart, vb.Category, vb.Rate)

		var buKey *BuSchluessel
		if !mapping.IsAutomatik {
			if k, ok := BuKeyFor(vb.Category, vb.Rate); ok {
				buKey = &k
			}
		}

		postingText := buildPostingText(inv)

		var debitCredit DebitCredit
		var account, contraAccount uint32
		if isCreditNote {
			debitCredit = Haben
			account = config.DefaultDebitor
			contraAccount = mapping.RevenueAccount
		} else {
			debitCredit = Soll
			account = config.DefaultDebitor
			contraAccount = mapping.RevenueAccount
		}

		var euVatID string
		switch vb.Category {
		case codetables.TaxIntraCommunitySupply, codetables.TaxReverseCharge:
			euVatID = inv.Buyer.VATID
		}

		row := Row{
			Amount:         gross.Abs(),
			DebitCredit:    debitCredit,
			Account:        account,
			ContraAccount:  contraAccount,
			BuKey:          buKey,
			Date:           issueDate,
			DocumentNumber: truncate(inv.Number, 36),
			PostingText:    truncate(postingText, 60),
			EUVatID:        euVatID,
		}
		if inv.TaxPointDate != "" {
			if d, err := time.Parse(dateLayout, inv.TaxPointDate); err == nil {
				row.ServiceDate = &d
			}
		}
		if inv.DueDate != "" {
			if d, err := time.Parse(dateLayout, inv.DueDate); err == nil {
				row.DueDate = &d
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func buildPostingText(inv *model.Invoice) string {
	if len(inv.Lines) == 1 {
		return inv.Number + " " + inv.Lines[0].ItemName
	}
	return inv.Number
}

func dateRange(invoices []*model.Invoice) (time.Time, time.Time, error) {
	min, err := time.Parse(dateLayout, invoices[0].IssueDate)
	if err != nil {
		return time.Time{}, time.Time{}, model.NewStructuralError("issue_date", "invalid issue date: "+invoices[0].IssueDate)
	}
	max := min
	for _, inv := range invoices[1:] {
		d, err := time.Parse(dateLayout, inv.IssueDate)
		if err != nil {
			return time.Time{}, time.Time{}, model.NewStructuralError("issue_date", "invalid issue date: "+inv.IssueDate)
		}
		if d.Before(min) {
			min = d
		}
		if d.After(max) {
			max = d
		}
	}
	return min, max, nil
}

func writeHeader(out *strings.Builder, config Config, periodStart, periodEnd time.Time) {
	now := time.Now().Format("20060102150405") + "000"
	fy := config.FiscalYearStart.Format("20060102")
	ps := periodStart.Format("20060102")
	pe := periodEnd.Format("20060102")

	fmt.Fprintf(out,
		`"EXTF";700;21;"Buchungsstapel";13;%s;;"%s";"%s";"";%d;%d;%s;%d;%s;%s;"%s";"";1;0;%s;"EUR";;"";;;"%s";;;""`,
		now,
		truncate(config.Source, 2),
		truncate(config.ExportedBy, 25),
		config.ConsultantNumber,
		config.ClientNumber,
		fy,
		config.AccountLength,
		ps,
		pe,
		truncate(config.Description, 30),
		lockFlag(config.LockPostings),
		config.Chart.Code(),
	)
	out.WriteString("\r\n")
}

func lockFlag(locked bool) string {
	if locked {
		return "1"
	}
	return "0"
}

// writeColumnHeaders writes the official DATEV column header line. The first
// 14 standard columns are named; the remaining 106 header cells are emitted
// empty for compatibility.
func writeColumnHeaders(out *strings.Builder) {
	headers := []string{
		"Umsatz (ohne Soll/Haben-Kz)",
		"Soll/Haben-Kennzeichen",
		"WKZ Umsatz",
		"Kurs",
		"Basisumsatz",
		"WKZ Basisumsatz",
		"Konto",
		"Gegenkonto (ohne BU-Schlüssel)",
		"BU-Schlüssel",
		"Belegdatum",
		"Belegfeld 1",
		"Belegfeld 2",
		"Skonto",
		"Buchungstext",
	}
	for i, h := range headers {
		if i > 0 {
			out.WriteByte(';')
		}
		out.WriteString(h)
	}
	for i := len(headers); i < 120; i++ {
		out.WriteByte(';')
	}
	out.WriteString("\r\n")
}

func writeDataRow(out *strings.Builder, row Row) {
	out.WriteString(formatAmount(row.Amount))
	out.WriteByte(';')

	out.WriteByte('"')
	out.WriteString(row.DebitCredit.code())
	out.WriteByte('"')
	out.WriteByte(';')

	out.WriteString(";;;;")

	fmt.Fprintf(out, "%d", row.Account)
	out.WriteByte(';')

	fmt.Fprintf(out, "%d", row.ContraAccount)
	out.WriteByte(';')

	if row.BuKey != nil {
		fmt.Fprintf(out, "%d", *row.BuKey)
	}
	out.WriteByte(';')

	out.WriteString(row.Date.Format("0201"))
	out.WriteByte(';')

	out.WriteByte('"')
	out.WriteString(row.DocumentNumber)
	out.WriteByte('"')
	out.WriteByte(';')

	out.WriteByte(';')
	out.WriteByte(';')

	out.WriteByte('"')
	out.WriteString(row.PostingText)
	out.WriteByte('"')

	for i := 14; i < 39; i++ {
		out.WriteByte(';')
	}

	if row.EUVatID != "" {
		out.WriteByte('"')
		out.WriteString(row.EUVatID)
		out.WriteByte('"')
	}
	out.WriteByte(';')

	for i := 40; i < 114; i++ {
		out.WriteByte(';')
	}

	if row.ServiceDate != nil {
		out.WriteString(row.ServiceDate.Format("02012006"))
	}
	out.WriteByte(';')

	out.WriteByte(';')

	if row.DueDate != nil {
		out.WriteString(row.DueDate.Format("02012006"))
	}
	out.WriteByte(';')

	if row.GeneralReversal {
		out.WriteByte('1')
	}

	out.WriteString(";;;")
	out.WriteString("\r\n")
}

// formatAmount renders a Decimal as a German number: comma separator, two
// decimal places, banker's rounding.
func formatAmount(d decimal.Decimal) string {
	scaled := d.RoundBank(2)
	return strings.Replace(scaled.StringFixed(2), ".", ",", 1)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
