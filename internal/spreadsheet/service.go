package spreadsheet

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsService wraps the Google Sheets API service
type SheetsService struct {
	service *sheets.Service
}

// NewSheetsService creates a new Google Sheets API client using service
// account credentials, falling back to Application Default Credentials
// when no credentials file is given.
func NewSheetsService(ctx context.Context, credentialsFile string) (*SheetsService, error) {
	var service *sheets.Service
	var err error

	if credentialsFile != "" {
		service, err = newServiceFromCredentialsFile(ctx, credentialsFile)
	} else {
		service, err = newServiceFromDefaultCredentials(ctx)
	}

	if err != nil {
		return nil, err
	}

	return &SheetsService{service: service}, nil
}

func newServiceFromCredentialsFile(ctx context.Context, credentialsFile string) (*sheets.Service, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	return service, nil
}

func newServiceFromDefaultCredentials(ctx context.Context) (*sheets.Service, error) {
	// Uses GOOGLE_APPLICATION_CREDENTIALS if set, or the ambient service
	// account in GCP environments.
	service, err := sheets.NewService(ctx, option.WithScopes(sheets.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service with default credentials: %w", err)
	}

	return service, nil
}

// GetSheetData retrieves all cell values from a named sheet. The A:ZZ
// range covers every column the criteria schema could occupy.
func (s *SheetsService) GetSheetData(ctx context.Context, spreadsheetID, sheetName string) (*sheets.ValueRange, error) {
	readRange := fmt.Sprintf("'%s'!A:ZZ", sheetName)

	resp, err := s.service.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get sheet data for %s/%s: %w", spreadsheetID, sheetName, err)
	}

	return resp, nil
}

// ValidateConnection tests the connection by fetching spreadsheet metadata
func (s *SheetsService) ValidateConnection(ctx context.Context, spreadsheetID string) error {
	_, err := s.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to validate connection: %w", err)
	}
	return nil
}
