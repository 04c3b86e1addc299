package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/rechnung/pkg/rechnung"
)

var extractOutput string

var extractCmd = &cobra.Command{
	Use:   "extract <pdf>",
	Short: "Extract the embedded CII invoice XML from a ZUGFeRD PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Output XML path (default: stdout)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	pdfBytes, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	xmlBytes, err := rechnung.ExtractFromPDF(pdfBytes)
	if err != nil {
		return fmt.Errorf("extracting: %w", err)
	}

	return writeOutput(extractOutput, xmlBytes)
}
