package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rezonia/rechnung/pkg/gdpdu"
)

var (
	gdpduCompany string
	gdpduOutDir  string
)

var gdpduCmd = &cobra.Command{
	Use:   "gdpdu <files...>",
	Short: "Export invoices to a GDPdU tax-audit bundle (index.xml + CSV)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGdpdu,
}

func init() {
	rootCmd.AddCommand(gdpduCmd)
	gdpduCmd.Flags().StringVar(&gdpduCompany, "company", "", "Company name recorded in index.xml")
	gdpduCmd.Flags().StringVarP(&gdpduOutDir, "output", "o", ".", "Output directory for the export bundle")
}

func runGdpdu(cmd *cobra.Command, args []string) error {
	invoices, err := loadInvoices(args)
	if err != nil {
		return err
	}

	config := gdpdu.DefaultConfig()
	if gdpduCompany != "" {
		config.CompanyName = gdpduCompany
	}

	export, err := gdpdu.ToGDPdU(invoices, config)
	if err != nil {
		return fmt.Errorf("generating GDPdU export: %w", err)
	}

	if err := os.MkdirAll(gdpduOutDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", gdpduOutDir, err)
	}

	indexPath := filepath.Join(gdpduOutDir, "index.xml")
	if err := os.WriteFile(indexPath, []byte(export.IndexXML), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", indexPath, err)
	}
	printVerbose("wrote %s\n", indexPath)

	for _, f := range export.Files {
		path := filepath.Join(gdpduOutDir, f[0])
		if err := os.WriteFile(path, []byte(f[1]), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		printVerbose("wrote %s\n", path)
	}

	fmt.Printf("GDPdU export written to %s\n", gdpduOutDir)
	return nil
}
