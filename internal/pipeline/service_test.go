package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ca-srg/propertyalert/internal/report"
	"github.com/ca-srg/propertyalert/internal/types"
)

type stubSource struct {
	criteria []types.SearchCriteria
	err      error
}

func (s *stubSource) Criteria(ctx context.Context) ([]types.SearchCriteria, error) {
	return s.criteria, s.err
}

type stubProvider struct {
	searched []types.SearchCriteria
	listings map[string][]types.Listing
	err      error
}

func (p *stubProvider) Search(ctx context.Context, c types.SearchCriteria) ([]types.Listing, error) {
	p.searched = append(p.searched, c)
	if p.err != nil {
		return nil, p.err
	}
	return p.listings[c.Location], nil
}

type stubSender struct {
	subjects []string
	bodies   []string
	failFor  map[string]error // keyed by subject substring
}

func (s *stubSender) Send(ctx context.Context, subject, htmlBody string) error {
	for needle, err := range s.failFor {
		if needle != "" && strings.Contains(subject, needle) {
			return err
		}
	}
	s.subjects = append(s.subjects, subject)
	s.bodies = append(s.bodies, htmlBody)
	return nil
}

type stubNotifier struct {
	result *types.RunResult
	err    error
}

func (n *stubNotifier) RunCompleted(ctx context.Context, result *types.RunResult) error {
	n.result = result
	return n.err
}

func someListings(location string, n int) []types.Listing {
	out := make([]types.Listing, n)
	for i := range out {
		out[i] = types.Listing{
			Address:      "1 High Street",
			Price:        100000 + i,
			Bedrooms:     2,
			Bathrooms:    1,
			PropertyType: "house",
			Location:     location,
			Postcode:     "SW1 1AA",
		}
	}
	return out
}

func newTestService(t *testing.T, params Params) *Service {
	t.Helper()
	if params.Formatter == nil {
		f, err := report.NewFormatter()
		require.NoError(t, err)
		params.Formatter = f
	}
	if params.SubjectPrefix == "" {
		params.SubjectPrefix = "Property Search Results"
	}
	return New(params)
}

func TestRunHappyPath(t *testing.T) {
	source := &stubSource{criteria: []types.SearchCriteria{
		{Location: "London"},
		{Location: "Leeds"},
	}}
	provider := &stubProvider{listings: map[string][]types.Listing{
		"London": someListings("London", 4),
		"Leeds":  someListings("Leeds", 2),
	}}
	sender := &stubSender{}
	notifier := &stubNotifier{}

	svc := newTestService(t, Params{
		Source:   source,
		Provider: provider,
		Sender:   sender,
		Notifier: notifier,
	})

	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.CriteriaCount)
	assert.Equal(t, 2, result.SearchesRun)
	assert.Equal(t, 6, result.ListingsFound)
	assert.Equal(t, 2, result.ReportsSent)
	assert.False(t, result.UsedFallback)
	assert.Empty(t, result.Errors)
	assert.NotEmpty(t, result.RunID)

	require.Len(t, sender.subjects, 2)
	assert.Contains(t, sender.subjects[0], "London")
	assert.Contains(t, sender.subjects[0], "(4 found)")
	assert.Contains(t, sender.subjects[1], "Leeds")
	assert.Contains(t, sender.bodies[0], "Found 4 property listing(s)")

	// Criteria processed strictly in source order.
	require.Len(t, provider.searched, 2)
	assert.Equal(t, "London", provider.searched[0].Location)
	assert.Equal(t, "Leeds", provider.searched[1].Location)

	require.NotNil(t, notifier.result)
	assert.Equal(t, result.RunID, notifier.result.RunID)
}

func TestRunFallbackOnSourceError(t *testing.T) {
	source := &stubSource{err: errors.New("spreadsheet unreachable")}
	provider := &stubProvider{listings: map[string][]types.Listing{
		"London": someListings("London", 3),
	}}
	sender := &stubSender{}

	svc := newTestService(t, Params{
		Source:   source,
		Provider: provider,
		Sender:   sender,
	})

	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.UsedFallback)
	assert.Equal(t, 1, result.CriteriaCount)

	// The fallback search is the documented single default record.
	require.Len(t, provider.searched, 1)
	fallback := provider.searched[0]
	assert.Equal(t, "London", fallback.Location)
	require.NotNil(t, fallback.MinPrice)
	assert.Equal(t, 300000, *fallback.MinPrice)
	require.NotNil(t, fallback.MaxPrice)
	assert.Equal(t, 600000, *fallback.MaxPrice)
	assert.Equal(t, "house", fallback.PropertyType)

	// Listing fetch and dispatch still happen for the fallback.
	assert.Equal(t, 1, result.ReportsSent)
	require.Len(t, sender.subjects, 1)
}

func TestRunFallbackOnNilSource(t *testing.T) {
	provider := &stubProvider{listings: map[string][]types.Listing{
		"London": someListings("London", 3),
	}}
	sender := &stubSender{}

	svc := newTestService(t, Params{
		Provider: provider,
		Sender:   sender,
	})

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.UsedFallback)
	assert.Equal(t, 1, result.ReportsSent)
}

func TestRunSkipsDispatchForEmptyResults(t *testing.T) {
	source := &stubSource{criteria: []types.SearchCriteria{
		{Location: "Ghost Town"},
		{Location: "Leeds"},
	}}
	provider := &stubProvider{listings: map[string][]types.Listing{
		"Leeds": someListings("Leeds", 2),
	}}
	sender := &stubSender{}

	svc := newTestService(t, Params{
		Source:   source,
		Provider: provider,
		Sender:   sender,
	})

	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	// No "0 results" email, and processing continues unaffected.
	assert.Equal(t, 1, result.SkippedEmpty)
	assert.Equal(t, 1, result.ReportsSent)
	require.Len(t, sender.subjects, 1)
	assert.Contains(t, sender.subjects[0], "Leeds")
	assert.Empty(t, result.Errors)
}

func TestRunDeliveryFailureDoesNotAbort(t *testing.T) {
	source := &stubSource{criteria: []types.SearchCriteria{
		{Location: "London"},
		{Location: "Leeds"},
	}}
	provider := &stubProvider{listings: map[string][]types.Listing{
		"London": someListings("London", 1),
		"Leeds":  someListings("Leeds", 1),
	}}
	sender := &stubSender{failFor: map[string]error{
		"London": errors.New("smtp auth failed"),
	}}

	svc := newTestService(t, Params{
		Source:   source,
		Provider: provider,
		Sender:   sender,
	})

	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.ReportsSent)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "London", result.Errors[0].Location)
	assert.Equal(t, "deliver", result.Errors[0].Stage)
	assert.Contains(t, result.Errors[0].Message, "smtp auth failed")
}

func TestRunSearchFailureIsolated(t *testing.T) {
	source := &stubSource{criteria: []types.SearchCriteria{
		{Location: "London"},
	}}
	provider := &stubProvider{err: errors.New("api down")}
	sender := &stubSender{}

	svc := newTestService(t, Params{
		Source:   source,
		Provider: provider,
		Sender:   sender,
	})

	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, result.ReportsSent)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "search", result.Errors[0].Stage)
	assert.Empty(t, sender.subjects)
}

func TestRunDryRunSkipsSending(t *testing.T) {
	source := &stubSource{criteria: []types.SearchCriteria{{Location: "London"}}}
	provider := &stubProvider{listings: map[string][]types.Listing{
		"London": someListings("London", 2),
	}}

	// Sender is deliberately nil: dry-run must never reach it.
	svc := newTestService(t, Params{
		Source:   source,
		Provider: provider,
		DryRun:   true,
	})

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.ReportsSent)
	assert.Equal(t, 2, result.ListingsFound)
	assert.Empty(t, result.Errors)
}

func TestRunLimit(t *testing.T) {
	source := &stubSource{criteria: []types.SearchCriteria{
		{Location: "London"},
		{Location: "Leeds"},
		{Location: "Bristol"},
	}}
	provider := &stubProvider{listings: map[string][]types.Listing{}}

	svc := newTestService(t, Params{
		Source:   source,
		Provider: provider,
		Limit:    2,
	})

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.CriteriaCount)
	assert.Equal(t, 2, result.SearchesRun)
	require.Len(t, provider.searched, 2)
}

func TestRunNotifierFailureIgnored(t *testing.T) {
	source := &stubSource{criteria: []types.SearchCriteria{{Location: "London"}}}
	provider := &stubProvider{listings: map[string][]types.Listing{
		"London": someListings("London", 1),
	}}
	sender := &stubSender{}
	notifier := &stubNotifier{err: errors.New("webhook gone")}

	svc := newTestService(t, Params{
		Source:   source,
		Provider: provider,
		Sender:   sender,
		Notifier: notifier,
	})

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.ReportsSent)
}
