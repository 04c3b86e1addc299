package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rezonia/rechnung/pkg/rechnung"
)

var (
	embedProfile string
	embedOutput  string
)

var embedCmd = &cobra.Command{
	Use:   "embed <pdf> <xml>",
	Short: "Embed an invoice XML into a PDF as a ZUGFeRD hybrid document",
	Long: `Embeds CII invoice XML into a visual PDF, producing a PDF/A-3 document
conformant with the requested ZUGFeRD/Factur-X profile.

Profiles (--profile): minimum, basicwl, basic, en16931 (default), extended, xrechnung.`,
	Args: cobra.ExactArgs(2),
	RunE: runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)
	embedCmd.Flags().StringVar(&embedProfile, "profile", "en16931", "ZUGFeRD/Factur-X profile")
	embedCmd.Flags().StringVarP(&embedOutput, "output", "o", "", "Output PDF path (required)")
}

func runEmbed(cmd *cobra.Command, args []string) error {
	if embedOutput == "" {
		return fmt.Errorf("--output is required")
	}

	profile, err := resolveProfile(embedProfile)
	if err != nil {
		return err
	}

	pdfBytes, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	xmlBytes, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[1], err)
	}

	combined, err := rechnung.EmbedInPDF(pdfBytes, xmlBytes, profile)
	if err != nil {
		return fmt.Errorf("embedding: %w", err)
	}

	printVerbose("embedded %d bytes of XML, output PDF is %d bytes\n", len(xmlBytes), len(combined))
	return os.WriteFile(embedOutput, combined, 0o644)
}

func resolveProfile(name string) (rechnung.Profile, error) {
	switch strings.ToLower(name) {
	case "minimum":
		return rechnung.ProfileMinimum, nil
	case "basicwl":
		return rechnung.ProfileBasicWl, nil
	case "basic":
		return rechnung.ProfileBasic, nil
	case "en16931", "comfort", "":
		return rechnung.ProfileEN16931, nil
	case "extended":
		return rechnung.ProfileExtended, nil
	case "xrechnung":
		return rechnung.ProfileXRechnung, nil
	default:
		return 0, fmt.Errorf("unknown profile %q", name)
	}
}
