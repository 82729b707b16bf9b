package types

import (
	"fmt"
	"strings"
	"time"
)

// SearchCriteria is one row of search parameters read from the criteria
// sheet. Location is the only required field; every other field is
// independently optional and nil when the source cell was blank or
// unparseable.
type SearchCriteria struct {
	Location     string `json:"location"`
	MinPrice     *int   `json:"min_price,omitempty"`
	MaxPrice     *int   `json:"max_price,omitempty"`
	MinBedrooms  *int   `json:"min_bedrooms,omitempty"`
	MaxBedrooms  *int   `json:"max_bedrooms,omitempty"`
	PropertyType string `json:"property_type,omitempty"`
	RadiusMiles  *int   `json:"radius_miles,omitempty"`
}

// String renders the criteria in a compact single-line form for log output.
func (c SearchCriteria) String() string {
	parts := []string{c.Location}
	if c.MinPrice != nil || c.MaxPrice != nil {
		parts = append(parts, fmt.Sprintf("price %s-%s", optInt(c.MinPrice), optInt(c.MaxPrice)))
	}
	if c.MinBedrooms != nil || c.MaxBedrooms != nil {
		parts = append(parts, fmt.Sprintf("beds %s-%s", optInt(c.MinBedrooms), optInt(c.MaxBedrooms)))
	}
	if c.PropertyType != "" {
		parts = append(parts, c.PropertyType)
	}
	if c.RadiusMiles != nil {
		parts = append(parts, fmt.Sprintf("within %d miles", *c.RadiusMiles))
	}
	return strings.Join(parts, ", ")
}

func optInt(v *int) string {
	if v == nil {
		return "any"
	}
	return fmt.Sprintf("%d", *v)
}

// Listing is a single property listing returned by a listing provider.
type Listing struct {
	Address      string `json:"address"`
	Price        int    `json:"price"`
	Bedrooms     int    `json:"bedrooms"`
	Bathrooms    int    `json:"bathrooms"`
	PropertyType string `json:"property_type"`
	Description  string `json:"description"`
	URL          string `json:"url"`
	Location     string `json:"location"`
	Postcode     string `json:"postcode"`
	AreaSqFt     *int   `json:"area_sqft,omitempty"`
}

// DispatchError records a per-criteria failure during a pipeline run.
// Stage is either "search" or "deliver".
type DispatchError struct {
	Location  string    `json:"location"`
	Stage     string    `json:"stage"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (e DispatchError) Error() string {
	return fmt.Sprintf("%s failed for %q: %s", e.Stage, e.Location, e.Message)
}

// RunResult accumulates the outcome of one end-to-end pipeline run.
type RunResult struct {
	RunID         string          `json:"run_id"`
	CriteriaCount int             `json:"criteria_count"`
	UsedFallback  bool            `json:"used_fallback"`
	SearchesRun   int             `json:"searches_run"`
	ListingsFound int             `json:"listings_found"`
	ReportsSent   int             `json:"reports_sent"`
	SkippedEmpty  int             `json:"skipped_empty"`
	Errors        []DispatchError `json:"errors"`
	StartTime     time.Time       `json:"start_time"`
	EndTime       time.Time       `json:"end_time"`
	Duration      time.Duration   `json:"duration"`
}

// Summary returns a one-line human-readable run summary.
func (r *RunResult) Summary() string {
	return fmt.Sprintf("run %s: %d criteria, %d searches, %d listings, %d reports sent, %d skipped (empty), %d errors in %v",
		r.RunID, r.CriteriaCount, r.SearchesRun, r.ListingsFound, r.ReportsSent, r.SkippedEmpty, len(r.Errors), r.Duration.Round(time.Millisecond))
}

// FallbackCriteria is the single search used when the criteria sheet is
// unreachable or has no usable rows. A broken spreadsheet must never block
// the report.
func FallbackCriteria() SearchCriteria {
	return SearchCriteria{
		Location:     "London",
		MinPrice:     IntPtr(300000),
		MaxPrice:     IntPtr(600000),
		MinBedrooms:  IntPtr(2),
		MaxBedrooms:  IntPtr(4),
		PropertyType: "house",
	}
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
