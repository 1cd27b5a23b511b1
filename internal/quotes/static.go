package quotes

import (
	"context"

	"grana/internal/models"
)

// staticTypes are the asset types with no live market source: metals and
// fixed income are quoted at their static reference prices.
var staticTypes = map[models.AssetType]bool{
	models.AssetTypeOuro:          true,
	models.AssetTypePrata:         true,
	models.AssetTypeTesouroDireto: true,
	models.AssetTypeCDB:           true,
	models.AssetTypeLCILCA:        true,
}

// StaticProvider serves fixed reference prices for asset types that have
// no live quote source. It never fails.
type StaticProvider struct{}

// NewStaticProvider creates a new static price provider.
func NewStaticProvider() *StaticProvider { return &StaticProvider{} }

// Name returns the provider's display name.
func (p *StaticProvider) Name() string { return "Static" }

// Supports returns true for metal and fixed-income asset types.
func (p *StaticProvider) Supports(t models.AssetType) bool {
	return staticTypes[t]
}

// Fetch returns the static reference quote for each supported type.
func (p *StaticProvider) Fetch(_ context.Context, types []models.AssetType) (map[models.AssetType]Quote, error) {
	result := make(map[models.AssetType]Quote, len(types))
	for _, t := range types {
		if !staticTypes[t] {
			continue
		}
		result[t] = DefaultQuote(t)
	}
	return result, nil
}
