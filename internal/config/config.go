package config

import (
	"fmt"

	env "github.com/netflix/go-env"
)

// Config holds all settings for a pipeline run, loaded from environment
// variables (optionally seeded from a .env file by the command layer).
type Config struct {
	// SMTP delivery settings
	SMTPHost           string `env:"SMTP_HOST"`
	SMTPPort           int    `env:"SMTP_PORT,default=587"`
	SMTPUsername       string `env:"SMTP_USERNAME"`
	SMTPPassword       string `env:"SMTP_PASSWORD"`
	EmailFrom          string `env:"EMAIL_FROM"`
	EmailTo            string `env:"EMAIL_TO"`
	EmailSubjectPrefix string `env:"EMAIL_SUBJECT_PREFIX,default=Property Search Results"`

	// Listing provider settings. The API key is only required when mock
	// mode is disabled.
	PropertyDataAPIKey string `env:"PROPERTYDATA_API_KEY"`
	UseMockAPI         bool   `env:"USE_MOCK_API,default=true"`

	// Google Sheets criteria source settings
	SheetsCredentialsFile string `env:"GOOGLE_SHEETS_CREDENTIALS_JSON"`
	SpreadsheetID         string `env:"GOOGLE_SHEETS_SPREADSHEET_ID"`
	WorksheetName         string `env:"GOOGLE_SHEETS_WORKSHEET_NAME,default=Sheet1"`

	// Optional end-of-run Slack summary; disabled when empty.
	SlackWebhookURL string `env:"SLACK_WEBHOOK_URL"`
}

// Load reads configuration from environment variables and validates the
// parts that must be consistent regardless of which command runs.
func Load() (*Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.ValidateProvider(); err != nil {
		return nil, err
	}

	if cfg.SMTPPort < 1 || cfg.SMTPPort > 65535 {
		return nil, fmt.Errorf("SMTP_PORT must be between 1 and 65535, got %d", cfg.SMTPPort)
	}

	return &cfg, nil
}

// ValidateProvider checks the listing-provider settings. Live mode without
// an API key is the one misconfiguration that aborts the whole run: there
// is no fallback listing source.
func (c *Config) ValidateProvider() error {
	if !c.UseMockAPI && c.PropertyDataAPIKey == "" {
		return fmt.Errorf("PROPERTYDATA_API_KEY is required when USE_MOCK_API is false")
	}
	return nil
}

// ValidateSMTP checks that everything needed to send email is present.
// Called only by commands that actually deliver reports, so preview and
// diagnostic commands work without SMTP settings.
func (c *Config) ValidateSMTP() error {
	missing := []string{}
	if c.SMTPHost == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if c.SMTPUsername == "" {
		missing = append(missing, "SMTP_USERNAME")
	}
	if c.SMTPPassword == "" {
		missing = append(missing, "SMTP_PASSWORD")
	}
	if c.EmailFrom == "" {
		missing = append(missing, "EMAIL_FROM")
	}
	if c.EmailTo == "" {
		missing = append(missing, "EMAIL_TO")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required SMTP settings: %v", missing)
	}
	return nil
}

// ValidateSheets checks that the criteria source is configured. A failure
// here is recoverable at the orchestration boundary (the pipeline falls
// back to a single default search).
func (c *Config) ValidateSheets() error {
	if c.SpreadsheetID == "" {
		return fmt.Errorf("GOOGLE_SHEETS_SPREADSHEET_ID is not set")
	}
	return nil
}
