package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackCriteria(t *testing.T) {
	c := FallbackCriteria()

	assert.Equal(t, "London", c.Location)
	require.NotNil(t, c.MinPrice)
	assert.Equal(t, 300000, *c.MinPrice)
	require.NotNil(t, c.MaxPrice)
	assert.Equal(t, 600000, *c.MaxPrice)
	require.NotNil(t, c.MinBedrooms)
	assert.Equal(t, 2, *c.MinBedrooms)
	require.NotNil(t, c.MaxBedrooms)
	assert.Equal(t, 4, *c.MaxBedrooms)
	assert.Equal(t, "house", c.PropertyType)
	assert.Nil(t, c.RadiusMiles)
}

func TestSearchCriteriaString(t *testing.T) {
	c := SearchCriteria{
		Location:     "Manchester",
		MinPrice:     IntPtr(150000),
		MinBedrooms:  IntPtr(2),
		MaxBedrooms:  IntPtr(3),
		PropertyType: "flat",
		RadiusMiles:  IntPtr(5),
	}

	s := c.String()
	assert.Contains(t, s, "Manchester")
	assert.Contains(t, s, "price 150000-any")
	assert.Contains(t, s, "beds 2-3")
	assert.Contains(t, s, "flat")
	assert.Contains(t, s, "within 5 miles")

	assert.Equal(t, "Leeds", SearchCriteria{Location: "Leeds"}.String())
}

func TestDispatchErrorError(t *testing.T) {
	e := DispatchError{
		Location:  "London",
		Stage:     "deliver",
		Message:   "smtp timeout",
		Timestamp: time.Now(),
	}
	assert.Equal(t, `deliver failed for "London": smtp timeout`, e.Error())
}

func TestRunResultSummary(t *testing.T) {
	r := RunResult{
		RunID:         "abc",
		CriteriaCount: 2,
		SearchesRun:   2,
		ListingsFound: 7,
		ReportsSent:   1,
		SkippedEmpty:  1,
		Duration:      1500 * time.Millisecond,
	}

	s := r.Summary()
	assert.Contains(t, s, "run abc")
	assert.Contains(t, s, "2 criteria")
	assert.Contains(t, s, "7 listings")
	assert.Contains(t, s, "1 reports sent")
}
