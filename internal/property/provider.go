package property

import (
	"context"

	"github.com/ca-srg/propertyalert/internal/config"
	"github.com/ca-srg/propertyalert/internal/types"
)

// Provider returns listings matching one set of search criteria. The
// pipeline depends only on this interface; which implementation is active
// is decided once at construction.
type Provider interface {
	Search(ctx context.Context, criteria types.SearchCriteria) ([]types.Listing, error)
}

// NewProvider selects the listing provider from configuration: the
// synthetic generator in mock mode, otherwise the PropertyData API client.
func NewProvider(cfg *config.Config) (Provider, error) {
	if cfg.UseMockAPI {
		return NewMockProvider(), nil
	}
	return NewPropertyDataClient(cfg.PropertyDataAPIKey)
}
