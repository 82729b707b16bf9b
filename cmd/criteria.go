package cmd

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ca-srg/propertyalert/internal/config"
	"github.com/ca-srg/propertyalert/internal/spreadsheet"
)

var criteriaCmd = &cobra.Command{
	Use:   "criteria",
	Short: "Fetch and print the parsed search criteria rows",
	Long: `
The criteria command validates the connection to the configured Google
Sheets worksheet and prints every parsed search criteria row. Use it to
check column resolution and cell parsing before scheduling runs.
`,
	RunE: runCriteria,
}

func runCriteria(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.ValidateSheets(); err != nil {
		return fmt.Errorf("criteria sheet not configured: %w", err)
	}

	ctx := cmd.Context()

	service, err := spreadsheet.NewSheetsService(ctx, cfg.SheetsCredentialsFile)
	if err != nil {
		return fmt.Errorf("failed to create Sheets client: %w", err)
	}

	reader := spreadsheet.NewReader(service, cfg.SpreadsheetID, cfg.WorksheetName)

	if err := reader.ValidateConnection(ctx); err != nil {
		return fmt.Errorf("spreadsheet connection check failed: %w", err)
	}
	log.Printf("Connected to spreadsheet %s", cfg.SpreadsheetID)

	criteria, err := reader.Criteria(ctx)
	if err != nil {
		return fmt.Errorf("failed to read criteria: %w", err)
	}

	fmt.Printf("Parsed %d search criteria row(s) from worksheet %q:\n", len(criteria), cfg.WorksheetName)
	for i, c := range criteria {
		fmt.Printf("  %d. %s\n", i+1, c)
	}
	return nil
}
