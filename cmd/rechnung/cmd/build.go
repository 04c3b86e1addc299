package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rezonia/rechnung/internal/codetables"
	"github.com/rezonia/rechnung/pkg/rechnung"
)

var (
	buildSyntax string
	buildOutput string
	buildStrict bool
)

var buildCmd = &cobra.Command{
	Use:   "build <invoice.json>",
	Short: "Build an invoice from a JSON description and emit UBL or CII XML",
	Long: `Reads a JSON document describing an invoice's parties and lines, runs
it through the builder (deriving line amounts, VAT breakdown, and document
totals), and serializes the result as UBL or CII XML.

See buildInput in build.go for the accepted JSON shape.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVar(&buildSyntax, "syntax", "ubl", "Output syntax: ubl or cii")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output file (default: stdout)")
	buildCmd.Flags().BoolVar(&buildStrict, "strict", false, "Reject the invoice if §14 UStG or EN 16931 validation fails")
}

// buildInput is the JSON shape the build command accepts: a flattened,
// CLI-friendly view of what InvoiceBuilder otherwise accumulates through
// fluent calls.
type buildInput struct {
	Number      string `json:"number"`
	IssueDate   string `json:"issue_date"`
	TaxPointDate string `json:"tax_point_date"`
	Currency    string `json:"currency"`
	Seller      partyInput `json:"seller"`
	Buyer       partyInput `json:"buyer"`
	Lines       []lineInput `json:"lines"`
}

type partyInput struct {
	Name       string `json:"name"`
	VATID      string `json:"vat_id"`
	TaxNumber  string `json:"tax_number"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type lineInput struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCode    string          `json:"unit_code"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxCategory string          `json:"tax_category"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

func runBuild(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	var in buildInput
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	inv, err := buildFromInput(in)
	if err != nil {
		return fmt.Errorf("building invoice: %w", err)
	}

	var out []byte
	switch strings.ToLower(buildSyntax) {
	case "ubl", "":
		out, err = rechnung.EncodeUBL(inv)
	case "cii":
		out, err = rechnung.EncodeCII(inv)
	default:
		return fmt.Errorf("--syntax must be ubl or cii, got %q", buildSyntax)
	}
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}

	return writeOutput(buildOutput, out)
}

func buildFromInput(in buildInput) (*rechnung.Invoice, error) {
	seller, err := buildParty(in.Seller)
	if err != nil {
		return nil, fmt.Errorf("seller: %w", err)
	}
	buyer, err := buildParty(in.Buyer)
	if err != nil {
		return nil, fmt.Errorf("buyer: %w", err)
	}

	b := rechnung.NewInvoiceBuilder(in.Number, in.IssueDate).Seller(seller).Buyer(buyer)
	if in.Currency != "" {
		b = b.Currency(in.Currency)
	}
	if in.TaxPointDate != "" {
		b = b.TaxPointDate(in.TaxPointDate)
	}

	for i, l := range in.Lines {
		line, err := buildLine(l)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		b = b.AddLine(line)
	}

	if buildStrict {
		return b.BuildStrict()
	}
	return b.Build()
}

func buildParty(in partyInput) (rechnung.Party, error) {
	addr, err := rechnung.NewAddressBuilder(in.City, in.PostalCode, in.Country).Street(in.Street).Build()
	if err != nil {
		return rechnung.Party{}, err
	}
	pb := rechnung.NewPartyBuilder(in.Name).Address(addr)
	if in.VATID != "" {
		pb = pb.VATID(in.VATID)
	}
	if in.TaxNumber != "" {
		pb = pb.TaxNumber(in.TaxNumber)
	}
	return pb.Build()
}

func buildLine(in lineInput) (rechnung.LineItem, error) {
	lb := rechnung.NewLineItemBuilder(in.ID, in.Name, in.Quantity, in.UnitCode, in.UnitPrice)
	if in.TaxCategory != "" {
		lb = lb.Tax(codetables.TaxCategory(in.TaxCategory), in.TaxRate)
	}
	return lb.Build()
}
