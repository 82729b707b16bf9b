package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ca-srg/propertyalert/internal/property"
	"github.com/ca-srg/propertyalert/internal/report"
	"github.com/ca-srg/propertyalert/internal/types"
)

// CriteriaSource supplies the ordered list of searches to run.
type CriteriaSource interface {
	Criteria(ctx context.Context) ([]types.SearchCriteria, error)
}

// Sender delivers one rendered report.
type Sender interface {
	Send(ctx context.Context, subject, htmlBody string) error
}

// Notifier observes run completion.
type Notifier interface {
	RunCompleted(ctx context.Context, result *types.RunResult) error
}

// Params collects the collaborators and settings for one pipeline Service.
type Params struct {
	// Source may be nil when the criteria sheet could not even be
	// constructed; the run then starts directly on the fallback criteria.
	Source        CriteriaSource
	Provider      property.Provider
	Formatter     *report.Formatter
	Sender        Sender
	Notifier      Notifier
	SubjectPrefix string
	DryRun        bool
	// Limit caps the number of criteria rows processed; 0 means all.
	Limit int
}

// Service drives one end-to-end run: criteria -> listings -> report ->
// delivery. Criteria are processed strictly in sheet order, one at a time,
// and each iteration is isolated: a search or delivery failure is recorded
// and the run moves on.
type Service struct {
	params Params
}

// New creates a pipeline Service.
func New(params Params) *Service {
	return &Service{params: params}
}

// Run executes the pipeline once and returns the accounting for the run.
// It only fails outright on context cancellation; every domain-level
// failure is either recovered (criteria fallback) or recorded per
// criteria in the result.
func (s *Service) Run(ctx context.Context) (*types.RunResult, error) {
	result := &types.RunResult{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
	}

	criteria := s.loadCriteria(ctx, result)
	result.CriteriaCount = len(criteria)

	if s.params.Limit > 0 && len(criteria) > s.params.Limit {
		log.Printf("Limiting run to the first %d of %d criteria row(s)", s.params.Limit, len(criteria))
		criteria = criteria[:s.params.Limit]
	}

	for i, c := range criteria {
		if err := ctx.Err(); err != nil {
			s.finish(ctx, result)
			return result, err
		}

		log.Printf("[%d/%d] Searching: %s", i+1, len(criteria), c)
		s.processCriteria(ctx, c, result)
	}

	s.finish(ctx, result)
	return result, nil
}

// loadCriteria obtains the criteria list, substituting the single fallback
// search on any fatal source error. A broken spreadsheet must never block
// the report.
func (s *Service) loadCriteria(ctx context.Context, result *types.RunResult) []types.SearchCriteria {
	if s.params.Source == nil {
		log.Printf("No criteria source configured, using fallback criteria")
		result.UsedFallback = true
		return []types.SearchCriteria{types.FallbackCriteria()}
	}

	criteria, err := s.params.Source.Criteria(ctx)
	if err != nil {
		log.Printf("Criteria source failed (%v), using fallback criteria", err)
		result.UsedFallback = true
		return []types.SearchCriteria{types.FallbackCriteria()}
	}
	return criteria
}

// processCriteria runs search, render and dispatch for one criteria row.
func (s *Service) processCriteria(ctx context.Context, c types.SearchCriteria, result *types.RunResult) {
	result.SearchesRun++

	listings, err := s.params.Provider.Search(ctx, c)
	if err != nil {
		log.Printf("Search failed for %q: %v", c.Location, err)
		result.Errors = append(result.Errors, types.DispatchError{
			Location:  c.Location,
			Stage:     "search",
			Message:   err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	result.ListingsFound += len(listings)

	if len(listings) == 0 {
		// No "0 results" email is sent.
		log.Printf("No listings found for %q, skipping report", c.Location)
		result.SkippedEmpty++
		return
	}

	html, err := s.params.Formatter.Render(listings, c.Location)
	if err != nil {
		log.Printf("Report rendering failed for %q: %v", c.Location, err)
		result.Errors = append(result.Errors, types.DispatchError{
			Location:  c.Location,
			Stage:     "deliver",
			Message:   err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	subject := fmt.Sprintf("%s - %s (%d found)", s.params.SubjectPrefix, c.Location, len(listings))

	if s.params.DryRun {
		log.Printf("DRY RUN: would send %q with %d listing(s)", subject, len(listings))
		return
	}

	if err := s.params.Sender.Send(ctx, subject, html); err != nil {
		log.Printf("Delivery failed for %q: %v", c.Location, err)
		result.Errors = append(result.Errors, types.DispatchError{
			Location:  c.Location,
			Stage:     "deliver",
			Message:   err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	log.Printf("Report sent for %q (%d listings)", c.Location, len(listings))
	result.ReportsSent++
}

// finish stamps the result and notifies observers.
func (s *Service) finish(ctx context.Context, result *types.RunResult) {
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	log.Printf("%s", result.Summary())

	if s.params.Notifier != nil {
		if err := s.params.Notifier.RunCompleted(ctx, result); err != nil {
			log.Printf("Warning: run summary notification failed: %v", err)
		}
	}
}
