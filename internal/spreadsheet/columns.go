package spreadsheet

import "strings"

// Acceptable header names per logical field (case-insensitive matching).
// The first alias found in the header row wins.
var (
	locationAliases     = []string{"location", "city", "area"}
	minPriceAliases     = []string{"min price", "min_price", "minimum price"}
	maxPriceAliases     = []string{"max price", "max_price", "maximum price"}
	minBedroomsAliases  = []string{"min bedrooms", "min_bedrooms"}
	maxBedroomsAliases  = []string{"max bedrooms", "max_bedrooms"}
	propertyTypeAliases = []string{"property type", "property_type", "type"}
	radiusAliases       = []string{"radius", "radius_miles"}
)

// columnMap holds the resolved column index per logical field, or -1 when
// the sheet has no column for that field.
type columnMap struct {
	location     int
	minPrice     int
	maxPrice     int
	minBedrooms  int
	maxBedrooms  int
	propertyType int
	radius       int
}

// resolveColumns maps each logical criteria field to a column index by
// checking its aliases against the normalized header row. Every field
// except location is optional; a missing location column means the sheet
// has no usable schema.
func resolveColumns(headers []string) (*columnMap, error) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	cols := &columnMap{
		location:     findColumnIndex(normalized, locationAliases),
		minPrice:     findColumnIndex(normalized, minPriceAliases),
		maxPrice:     findColumnIndex(normalized, maxPriceAliases),
		minBedrooms:  findColumnIndex(normalized, minBedroomsAliases),
		maxBedrooms:  findColumnIndex(normalized, maxBedroomsAliases),
		propertyType: findColumnIndex(normalized, propertyTypeAliases),
		radius:       findColumnIndex(normalized, radiusAliases),
	}

	if cols.location < 0 {
		return nil, ErrNoLocationColumn
	}

	return cols, nil
}

// findColumnIndex returns the index of the first alias present in the
// normalized headers, or -1 if none match.
func findColumnIndex(normalizedHeaders []string, aliases []string) int {
	for _, alias := range aliases {
		for i, header := range normalizedHeaders {
			if header == alias {
				return i
			}
		}
	}
	return -1
}
