package property

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/ca-srg/propertyalert/internal/types"
)

const propertyDataBaseURL = "https://api.propertydata.co.uk"

// maxResponseBytes guards against unbounded response bodies.
const maxResponseBytes = 4 << 20

// PropertyDataClient fetches listings from the PropertyData API. Its only
// responsibility is mapping criteria to a request and the response payload
// to Listing records; authentication, rate limits and schema are owned by
// the API.
type PropertyDataClient struct {
	apiKey  string
	baseURL string
	http    *retryablehttp.Client
}

// NewPropertyDataClient creates a live provider. A non-empty API key is a
// construction precondition: there is no fallback listing source, so a
// missing key aborts the run.
func NewPropertyDataClient(apiKey string) (*PropertyDataClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key required when not using mock mode")
	}

	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.RetryMax = 3
	rc.HTTPClient.Timeout = 15 * time.Second
	rc.Logger = nil

	return &PropertyDataClient{
		apiKey:  apiKey,
		baseURL: propertyDataBaseURL,
		http:    rc,
	}, nil
}

// listingPayload is the shape of one result in the API response. Mapped
// defensively: entries without an address or a positive price are dropped.
type listingPayload struct {
	Address      string `json:"address"`
	Price        int    `json:"price"`
	Bedrooms     int    `json:"bedrooms"`
	Bathrooms    int    `json:"bathrooms"`
	PropertyType string `json:"property_type"`
	Description  string `json:"description"`
	URL          string `json:"url"`
	Location     string `json:"location"`
	Postcode     string `json:"postcode"`
	AreaSqFt     *int   `json:"area_sqft"`
}

type searchResponse struct {
	Results []listingPayload `json:"results"`
}

// Search queries the API with the criteria as query parameters and maps
// the response into listings.
func (c *PropertyDataClient) Search(ctx context.Context, criteria types.SearchCriteria) ([]types.Listing, error) {
	q := url.Values{}
	q.Set("location", criteria.Location)
	setOptionalParam(q, "min_price", criteria.MinPrice)
	setOptionalParam(q, "max_price", criteria.MaxPrice)
	setOptionalParam(q, "min_bedrooms", criteria.MinBedrooms)
	setOptionalParam(q, "max_bedrooms", criteria.MaxBedrooms)
	setOptionalParam(q, "radius", criteria.RadiusMiles)
	if criteria.PropertyType != "" {
		q.Set("property_type", criteria.PropertyType)
	}

	endpoint := fmt.Sprintf("%s/v1/properties/search?%s", c.baseURL, q.Encode())

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("property search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("property search returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	return mapPayload(payload, criteria.Location), nil
}

// mapPayload converts API results to listings, skipping malformed entries.
func mapPayload(payload searchResponse, fallbackLocation string) []types.Listing {
	listings := make([]types.Listing, 0, len(payload.Results))
	for _, item := range payload.Results {
		if item.Address == "" || item.Price <= 0 {
			continue
		}

		location := item.Location
		if location == "" {
			location = fallbackLocation
		}

		listings = append(listings, types.Listing{
			Address:      item.Address,
			Price:        item.Price,
			Bedrooms:     item.Bedrooms,
			Bathrooms:    item.Bathrooms,
			PropertyType: item.PropertyType,
			Description:  item.Description,
			URL:          item.URL,
			Location:     location,
			Postcode:     item.Postcode,
			AreaSqFt:     item.AreaSqFt,
		})
	}
	return listings
}

func setOptionalParam(q url.Values, key string, value *int) {
	if value != nil {
		q.Set(key, strconv.Itoa(*value))
	}
}
