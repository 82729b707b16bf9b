package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ca-srg/propertyalert/internal/property"
	"github.com/ca-srg/propertyalert/internal/report"
	"github.com/ca-srg/propertyalert/internal/types"
)

var (
	previewLocation     string
	previewPropertyType string
	previewMinPrice     int
	previewMaxPrice     int
	previewOutput       string
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render a sample HTML report without sending email",
	Long: `
The preview command runs one synthetic search and writes the rendered HTML
report to a file or stdout. Useful for working on the report template
without SMTP or Sheets access.
`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&previewLocation, "location", "London", "Location to search")
	previewCmd.Flags().StringVar(&previewPropertyType, "type", "", "Property type hint (e.g. flat)")
	previewCmd.Flags().IntVar(&previewMinPrice, "min-price", 0, "Minimum price (0 = unset)")
	previewCmd.Flags().IntVar(&previewMaxPrice, "max-price", 0, "Maximum price (0 = unset)")
	previewCmd.Flags().StringVarP(&previewOutput, "output", "o", "", "Write the report to this file instead of stdout")
}

func runPreview(cmd *cobra.Command, args []string) error {
	criteria := types.SearchCriteria{
		Location:     previewLocation,
		PropertyType: previewPropertyType,
	}
	if previewMinPrice > 0 {
		criteria.MinPrice = types.IntPtr(previewMinPrice)
	}
	if previewMaxPrice > 0 {
		criteria.MaxPrice = types.IntPtr(previewMaxPrice)
	}

	provider := property.NewMockProvider()
	listings, err := provider.Search(cmd.Context(), criteria)
	if err != nil {
		return fmt.Errorf("synthetic search failed: %w", err)
	}

	formatter, err := report.NewFormatter()
	if err != nil {
		return fmt.Errorf("failed to create report formatter: %w", err)
	}

	html, err := formatter.Render(listings, criteria.Location)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if previewOutput == "" {
		fmt.Println(html)
		return nil
	}

	if err := os.WriteFile(previewOutput, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Printf("Wrote %d listing(s) report to %s\n", len(listings), previewOutput)
	return nil
}
