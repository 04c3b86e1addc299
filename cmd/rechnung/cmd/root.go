package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
	chartEnv     string
)

var rootCmd = &cobra.Command{
	Use:   "rechnung",
	Short: "Build, validate, convert, and embed German EN 16931 e-invoices",
	Long: `rechnung is a CLI front-end over the rechnung library: it builds invoices
from structured input, validates them against §14 UStG / EN 16931 / XRechnung /
Peppol, converts between UBL 2.1 and CII XML, embeds or extracts ZUGFeRD
XML in a PDF/A-3 container, and exports DATEV EXTF and GDPdU audit data.

Examples:
  # Validate an invoice against the §14 UStG, EN 16931 and XRechnung layers
  rechnung validate invoice.xml --profile xrechnung

  # Convert CII to UBL
  rechnung convert invoice-cii.xml --to ubl -o invoice-ubl.xml

  # Embed a CII XML into a PDF, producing a ZUGFeRD hybrid document
  rechnung embed visual.pdf invoice.xml -o hybrid.pdf --profile en16931

  # Export a batch of invoices to DATEV EXTF
  rechnung datev *.xml --consultant 1001 --client 2001 -o export.csv`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "text", "Output format (text, json)")
	rootCmd.PersistentFlags().StringVar(&chartEnv, "chart", "", "Default chart of accounts, skr03 or skr04 (env: RECHNUNG_CHART)")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if chartEnv == "" {
		chartEnv = os.Getenv("RECHNUNG_CHART")
	}
	if chartEnv == "" {
		chartEnv = "skr03"
	}
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
