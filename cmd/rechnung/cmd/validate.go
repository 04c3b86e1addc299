package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rezonia/rechnung/pkg/rechnung"
)

var validateProfile string

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate an invoice XML file",
	Long: `Parses a UBL or CII invoice and runs the requested validation layers
against it, reporting every business-rule violation found.

Profiles (--profile): ustg14, en16931, xrechnung, peppol, all (default).`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&validateProfile, "profile", "all", "Validation profile to run")
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	inv, err := rechnung.DecodeXML(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}
	printVerbose("detected syntax: %s\n", rechnung.DetectSyntax(data))

	layers, err := resolveLayers(validateProfile)
	if err != nil {
		return err
	}

	errs := rechnung.ValidateFor(inv, layers...)

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(errs)
	}

	if len(errs) == 0 {
		fmt.Printf("%s: VALID\n", args[0])
		return nil
	}

	fmt.Printf("%s: %d issue(s)\n", args[0], len(errs))
	for _, e := range errs {
		fmt.Printf("  [%s] %s: %s\n", e.Rule, e.Field, e.Message)
	}
	return fmt.Errorf("validation failed for %s", args[0])
}

func resolveLayers(profile string) ([]rechnung.Layer, error) {
	switch strings.ToLower(profile) {
	case "ustg14":
		return []rechnung.Layer{rechnung.LayerUStG14}, nil
	case "en16931":
		return []rechnung.Layer{rechnung.LayerEN16931}, nil
	case "xrechnung":
		return []rechnung.Layer{rechnung.LayerUStG14, rechnung.LayerEN16931, rechnung.LayerXRechnung}, nil
	case "peppol":
		return []rechnung.Layer{rechnung.LayerUStG14, rechnung.LayerEN16931, rechnung.LayerPeppol}, nil
	case "all", "":
		return []rechnung.Layer{rechnung.LayerUStG14, rechnung.LayerEN16931, rechnung.LayerXRechnung, rechnung.LayerPeppol}, nil
	default:
		return nil, fmt.Errorf("unknown validation profile %q", profile)
	}
}
