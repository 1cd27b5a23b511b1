package quotes

import (
	"context"

	"grana/internal/models"
)

// Provider fetches current prices for a set of asset types from one
// external source. A provider should return as many quotes as it can;
// missing entries in the returned map are filled in by the service from
// the cache or the static defaults.
type Provider interface {
	// Name returns the provider's display name for logging.
	Name() string

	// Supports reports whether this provider quotes the given asset type.
	Supports(t models.AssetType) bool

	// Fetch retrieves quotes for the given asset types.
	Fetch(ctx context.Context, types []models.AssetType) (map[models.AssetType]Quote, error)
}
