package property

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ca-srg/propertyalert/internal/types"
)

// Absolute price bounds applied to every synthetic listing.
const (
	priceFloor   = 80000
	priceCeiling = 2000000
)

// searchDelay emulates the latency of a live API call.
const searchDelay = 500 * time.Millisecond

var allPropertyTypes = []string{"house", "flat", "bungalow", "terraced house", "semi-detached house"}

var streetNames = []string{
	"High Street", "Church Road", "Victoria Road", "Park Avenue",
	"Mill Lane", "Oak Close", "The Green", "Station Road",
	"London Road", "Main Street", "Elm Drive", "Chestnut Way",
}

// Postcode prefix pools per location. Unknown locations draw from
// defaultPostcodes.
var postcodePools = map[string][]string{
	"london":     {"SW1", "SW2", "NW1", "NW3", "E1", "E2", "W1", "W2"},
	"manchester": {"M1", "M2", "M3", "M4", "M14", "M20"},
	"birmingham": {"B1", "B2", "B3", "B15", "B16", "B17"},
	"leeds":      {"LS1", "LS2", "LS6", "LS7", "LS8"},
	"bristol":    {"BS1", "BS2", "BS3", "BS6", "BS7"},
}

var defaultPostcodes = []string{"SW1", "M1", "B1"}

// Base asking prices per location and property type. Locations without an
// entry fall back to Birmingham's table; types without an entry fall back
// to that location's house price.
var basePrices = map[string]map[string]int{
	"london":     {"house": 600000, "flat": 400000, "bungalow": 500000},
	"manchester": {"house": 250000, "flat": 150000, "bungalow": 200000},
	"birmingham": {"house": 200000, "flat": 120000, "bungalow": 180000},
}

// Second letters of synthetic postcodes; C and I are not used in UK
// postcode units.
const postcodeLetters = "ABDEFGHJKLMNOPQRSTUVWXYZ"

var titleCaser = cases.Title(language.BritishEnglish)

// MockProvider synthesizes plausible UK listings from the criteria alone,
// for environments without live data access. Criteria act as soft biasing
// and clamping rules on a random generator rather than hard filters, so a
// search always returns a non-empty, criteria-plausible result.
type MockProvider struct {
	rng   *rand.Rand
	delay time.Duration
}

// NewMockProvider creates a mock provider seeded from the clock.
func NewMockProvider() *MockProvider {
	return newMockProvider(time.Now().UnixNano(), searchDelay)
}

func newMockProvider(seed int64, delay time.Duration) *MockProvider {
	return &MockProvider{
		rng:   rand.New(rand.NewSource(seed)),
		delay: delay,
	}
}

// Search generates between 3 and 8 listings biased toward the criteria,
// sorted ascending by price.
func (m *MockProvider) Search(ctx context.Context, criteria types.SearchCriteria) ([]types.Listing, error) {
	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.delay):
		}
	}

	count := 3 + m.rng.Intn(6)

	candidateTypes := filterPropertyTypes(criteria.PropertyType)
	postcodes := postcodesFor(criteria.Location)
	locationTitle := titleCaser.String(criteria.Location)

	listings := make([]types.Listing, 0, count)
	for i := 0; i < count; i++ {
		propertyType := candidateTypes[m.rng.Intn(len(candidateTypes))]
		bedrooms := m.clampBedrooms(1+m.rng.Intn(5), criteria)
		price := m.price(criteria, propertyType, bedrooms)

		streetNumber := 1 + m.rng.Intn(200)
		street := streetNames[m.rng.Intn(len(streetNames))]
		postcode := fmt.Sprintf("%s %d%c%c",
			postcodes[m.rng.Intn(len(postcodes))],
			1+m.rng.Intn(9),
			postcodeLetters[m.rng.Intn(len(postcodeLetters))],
			postcodeLetters[m.rng.Intn(len(postcodeLetters))])

		area := m.area(bedrooms)

		listings = append(listings, types.Listing{
			Address:      fmt.Sprintf("%d %s, %s", streetNumber, street, locationTitle),
			Price:        price,
			Bedrooms:     bedrooms,
			Bathrooms:    min(bedrooms, 1+m.rng.Intn(3)),
			PropertyType: propertyType,
			Description:  m.description(propertyType, bedrooms, locationTitle),
			URL:          fmt.Sprintf("https://example-property-site.co.uk/property/%d", 100000+m.rng.Intn(900000)),
			Location:     locationTitle,
			Postcode:     postcode,
			AreaSqFt:     &area,
		})
	}

	sort.Slice(listings, func(i, j int) bool {
		return listings[i].Price < listings[j].Price
	})

	return listings, nil
}

// filterPropertyTypes narrows the candidate types to those containing the
// requested type as a substring; no match falls back to plain houses.
func filterPropertyTypes(requested string) []string {
	if requested == "" {
		return allPropertyTypes
	}

	needle := strings.ToLower(requested)
	var matched []string
	for _, pt := range allPropertyTypes {
		if strings.Contains(strings.ToLower(pt), needle) {
			matched = append(matched, pt)
		}
	}
	if len(matched) == 0 {
		return []string{"house"}
	}
	return matched
}

func postcodesFor(location string) []string {
	if pool, ok := postcodePools[strings.ToLower(location)]; ok {
		return pool
	}
	return defaultPostcodes
}

// clampBedrooms moves an out-of-range bedroom count to the nearest
// requested bound rather than regenerating or dropping the listing.
func (m *MockProvider) clampBedrooms(bedrooms int, criteria types.SearchCriteria) int {
	if criteria.MinBedrooms != nil && bedrooms < *criteria.MinBedrooms {
		bedrooms = *criteria.MinBedrooms
	}
	if criteria.MaxBedrooms != nil && bedrooms > *criteria.MaxBedrooms {
		bedrooms = *criteria.MaxBedrooms
	}
	return bedrooms
}

// price derives an asking price from the per-location base table, adjusted
// for bedrooms and randomly varied. A price outside a requested bound is
// replaced with a value randomly placed just inside that bound; this is a
// soft constraint, so a narrow window can still land slightly outside it.
func (m *MockProvider) price(criteria types.SearchCriteria, propertyType string, bedrooms int) int {
	locationKey := strings.ToLower(criteria.Location)
	table, ok := basePrices[locationKey]
	if !ok {
		table = basePrices["birmingham"]
	}
	base, ok := table[propertyType]
	if !ok {
		base = table["house"]
	}

	price := base + (bedrooms-2)*50000
	price = int(float64(price) * (0.8 + m.rng.Float64()*0.5))

	if criteria.MinPrice != nil && price < *criteria.MinPrice {
		price = *criteria.MinPrice + m.randBetween(10000, 50000)
	}
	if criteria.MaxPrice != nil && price > *criteria.MaxPrice {
		price = *criteria.MaxPrice - m.randBetween(10000, 50000)
	}

	if price < priceFloor {
		price = priceFloor
	}
	if price > priceCeiling {
		price = priceCeiling
	}
	return price
}

func (m *MockProvider) description(propertyType string, bedrooms int, locationTitle string) string {
	descriptions := []string{
		fmt.Sprintf("Beautiful %s in %s", propertyType, locationTitle),
		fmt.Sprintf("Stunning %d-bedroom %s", bedrooms, propertyType),
		fmt.Sprintf("Modern %s with excellent transport links", propertyType),
		fmt.Sprintf("Spacious %d-bedroom %s in sought-after area", bedrooms, propertyType),
	}
	return descriptions[m.rng.Intn(len(descriptions))]
}

func (m *MockProvider) area(bedrooms int) int {
	if bedrooms > 1 {
		return m.randBetween(600, 2000)
	}
	return m.randBetween(400, 800)
}

// randBetween returns a random int in [lo, hi], both bounds inclusive.
func (m *MockProvider) randBetween(lo, hi int) int {
	return lo + m.rng.Intn(hi-lo+1)
}
