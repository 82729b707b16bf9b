package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ca-srg/propertyalert/internal/config"
	"github.com/ca-srg/propertyalert/internal/mailer"
	"github.com/ca-srg/propertyalert/internal/notify"
	"github.com/ca-srg/propertyalert/internal/pipeline"
	"github.com/ca-srg/propertyalert/internal/property"
	"github.com/ca-srg/propertyalert/internal/report"
	"github.com/ca-srg/propertyalert/internal/spreadsheet"
)

var (
	runDryRun bool
	runLimit  int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one search-and-report cycle",
	Long: `
The run command executes the full pipeline once: it loads search criteria
from the configured Google Sheets worksheet, fetches listings for each
criteria row, renders an HTML report per search and emails it to the
configured recipient.

If the criteria sheet is unreachable or has no usable rows, the run
continues with a single built-in fallback search instead of failing.
`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Fetch and render reports without sending email")
	runCmd.Flags().IntVar(&runLimit, "limit", 0, "Process at most this many criteria rows (0 = all)")
}

func runRun(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx := cmd.Context()
	log.Println("Starting property search run...")

	provider, err := property.NewProvider(cfg)
	if err != nil {
		return fmt.Errorf("failed to create listing provider: %w", err)
	}
	if cfg.UseMockAPI {
		log.Println("Using the synthetic listing provider (USE_MOCK_API=true)")
	}

	formatter, err := report.NewFormatter()
	if err != nil {
		return fmt.Errorf("failed to create report formatter: %w", err)
	}

	var sender pipeline.Sender
	if !runDryRun {
		m, err := mailer.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to create mailer: %w", err)
		}
		sender = m
	}

	svc := pipeline.New(pipeline.Params{
		Source:        buildCriteriaSource(ctx, cfg),
		Provider:      provider,
		Formatter:     formatter,
		Sender:        sender,
		Notifier:      notify.NewSlackNotifier(cfg.SlackWebhookURL),
		SubjectPrefix: cfg.EmailSubjectPrefix,
		DryRun:        runDryRun,
		Limit:         runLimit,
	})

	result, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("run aborted: %w", err)
	}

	fmt.Println(result.Summary())
	return nil
}

// buildCriteriaSource constructs the sheet reader, or returns nil when the
// sheet is misconfigured or unreachable so the pipeline starts on the
// fallback criteria.
func buildCriteriaSource(ctx context.Context, cfg *config.Config) pipeline.CriteriaSource {
	if err := cfg.ValidateSheets(); err != nil {
		log.Printf("Warning: criteria sheet not configured (%v)", err)
		return nil
	}

	service, err := spreadsheet.NewSheetsService(ctx, cfg.SheetsCredentialsFile)
	if err != nil {
		log.Printf("Warning: could not create Sheets client (%v)", err)
		return nil
	}

	return spreadsheet.NewReader(service, cfg.SpreadsheetID, cfg.WorksheetName)
}
