package spreadsheet

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/ca-srg/propertyalert/internal/types"
)

// Reader reads search criteria rows from a Google Sheets worksheet.
type Reader struct {
	service       *SheetsService
	spreadsheetID string
	sheetName     string
}

// NewReader creates a Reader for one worksheet.
func NewReader(service *SheetsService, spreadsheetID, sheetName string) *Reader {
	return &Reader{
		service:       service,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}
}

// Criteria fetches the worksheet and parses it into an ordered list of
// search criteria. Fatal conditions (unreachable sheet, no location
// column, zero valid rows) are returned as errors; malformed individual
// rows or cells are logged and skipped.
func (r *Reader) Criteria(ctx context.Context) ([]types.SearchCriteria, error) {
	valueRange, err := r.service.GetSheetData(ctx, r.spreadsheetID, r.sheetName)
	if err != nil {
		return nil, err
	}

	criteria, err := parseRows(valueRange.Values)
	if err != nil {
		return nil, fmt.Errorf("sheet %s/%s: %w", r.spreadsheetID, r.sheetName, err)
	}

	log.Printf("Parsed %d search criteria row(s) from %s/%s", len(criteria), r.spreadsheetID, r.sheetName)
	return criteria, nil
}

// ValidateConnection tests access to the configured spreadsheet.
func (r *Reader) ValidateConnection(ctx context.Context) error {
	return r.service.ValidateConnection(ctx, r.spreadsheetID)
}

// parseRows converts raw sheet values (header row first) into criteria
// records. Row-level problems never fail the parse: blank rows and rows
// without a location are skipped, unparseable optional cells resolve to
// absent fields.
func parseRows(values [][]interface{}) ([]types.SearchCriteria, error) {
	if len(values) == 0 {
		return nil, ErrNoCriteria
	}

	headers := toStringSlice(values[0])
	cols, err := resolveColumns(headers)
	if err != nil {
		return nil, err
	}

	var criteria []types.SearchCriteria
	for rowIdx, rawRow := range values[1:] {
		row := toStringSlice(rawRow)
		rowNum := rowIdx + 2 // 1-indexed, row 1 is the header

		if isEmptyRow(row) {
			continue
		}

		location := cellAt(row, cols.location)
		if location == "" {
			log.Printf("Warning: row %d has no location, skipping", rowNum)
			continue
		}

		criteria = append(criteria, types.SearchCriteria{
			Location:     location,
			MinPrice:     parseOptionalInt(row, cols.minPrice),
			MaxPrice:     parseOptionalInt(row, cols.maxPrice),
			MinBedrooms:  parseOptionalInt(row, cols.minBedrooms),
			MaxBedrooms:  parseOptionalInt(row, cols.maxBedrooms),
			PropertyType: cellAt(row, cols.propertyType),
			RadiusMiles:  parseOptionalInt(row, cols.radius),
		})
	}

	if len(criteria) == 0 {
		return nil, ErrNoCriteria
	}

	return criteria, nil
}

// toStringSlice converts a row of sheet values to trimmed-preserving strings
func toStringSlice(row []interface{}) []string {
	result := make([]string, len(row))
	for i, v := range row {
		if v != nil {
			result[i] = fmt.Sprintf("%v", v)
		}
	}
	return result
}

// isEmptyRow checks if a row is empty (all cells are empty or whitespace)
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// cellAt returns the trimmed cell value at idx, or "" when the column is
// absent or the row is shorter than the header row.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseOptionalInt parses an integer cell, tolerating currency symbols and
// thousands separators. A blank or unparseable cell resolves to nil rather
// than an error.
func parseOptionalInt(row []string, idx int) *int {
	value := cellAt(row, idx)
	if value == "" {
		return nil
	}

	cleaned := strings.NewReplacer("£", "", "$", "", ",", "").Replace(value)
	cleaned = strings.TrimSpace(cleaned)

	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return nil
	}
	return &n
}
