package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rezonia/rechnung/pkg/rechnung"
)

var (
	convertTo     string
	convertOutput string
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert an invoice between UBL 2.1 and CII XML",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVar(&convertTo, "to", "", "Target syntax: ubl or cii (required)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Output file (default: stdout)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	inv, err := rechnung.DecodeXML(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}
	printVerbose("source syntax: %s\n", rechnung.DetectSyntax(data))

	var out []byte
	switch strings.ToLower(convertTo) {
	case "ubl":
		out, err = rechnung.EncodeUBL(inv)
	case "cii":
		out, err = rechnung.EncodeCII(inv)
	default:
		return fmt.Errorf("--to must be ubl or cii, got %q", convertTo)
	}
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}

	return writeOutput(convertOutput, out)
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
