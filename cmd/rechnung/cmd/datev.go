package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rezonia/rechnung/pkg/datev"
	"github.com/rezonia/rechnung/pkg/rechnung"
)

var (
	datevConsultant uint32
	datevClient     uint32
	datevChart      string
	datevOutput     string
)

var datevCmd = &cobra.Command{
	Use:   "datev <files...>",
	Short: "Export invoices to a DATEV EXTF Buchungsstapel CSV",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDatev,
}

func init() {
	rootCmd.AddCommand(datevCmd)
	datevCmd.Flags().Uint32Var(&datevConsultant, "consultant", 0, "DATEV consultant number (Beraternummer, required)")
	datevCmd.Flags().Uint32Var(&datevClient, "client", 0, "DATEV client number (Mandantennummer, required)")
	datevCmd.Flags().StringVar(&datevChart, "chart", "", "Chart of accounts: skr03 or skr04 (default: --chart / RECHNUNG_CHART)")
	datevCmd.Flags().StringVarP(&datevOutput, "output", "o", "", "Output CSV path (default: stdout)")
}

func runDatev(cmd *cobra.Command, args []string) error {
	if datevConsultant == 0 || datevClient == 0 {
		return fmt.Errorf("--consultant and --client are required")
	}
	chart := datevChart
	if chart == "" {
		chart = chartEnv
	}

	invoices, err := loadInvoices(args)
	if err != nil {
		return err
	}

	config := datev.NewConfigBuilder(datevConsultant, datevClient)
	if strings.EqualFold(chart, "skr04") {
		config.Chart(datev.SKR04)
	} else {
		config.Chart(datev.SKR03)
	}

	csv, err := datev.ToEXTF(invoices, config.Build())
	if err != nil {
		return fmt.Errorf("generating EXTF export: %w", err)
	}

	return writeOutput(datevOutput, []byte(csv))
}

func loadInvoices(files []string) ([]*rechnung.Invoice, error) {
	invoices := make([]*rechnung.Invoice, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		inv, err := rechnung.DecodeXML(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f, err)
		}
		printVerbose("loaded %s (%s)\n", f, inv.Number)
		invoices = append(invoices, inv)
	}
	return invoices, nil
}
