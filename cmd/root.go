package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "propertyalert",
	Short: "Scheduled UK property search digest",
	Long: `propertyalert reads property search criteria from a Google Sheets
worksheet, fetches matching listings for each criteria row (from the
PropertyData API, or a built-in synthetic source for offline use),
and emails an HTML report per search to the configured recipient.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(criteriaCmd)
	rootCmd.AddCommand(previewCmd)
}
