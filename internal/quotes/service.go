package quotes

import (
	"context"
	"sync"
	"time"

	"grana/internal/logger"
	"grana/internal/models"
)

type cachedQuote struct {
	quote     Quote
	fetchedAt time.Time
}

// Service routes quote requests to the first provider that supports each
// asset type and caches results for a fixed window. Lookups never fail:
// a provider error falls back to the last cached quote, then to the static
// default price for the type.
type Service struct {
	providers []Provider
	ttl       time.Duration

	mu    sync.Mutex // guards cache
	cache map[models.AssetType]cachedQuote
}

// NewService creates a quote service with the given providers and cache TTL.
func NewService(providers []Provider, ttl time.Duration) *Service {
	return &Service{
		providers: providers,
		ttl:       ttl,
		cache:     make(map[models.AssetType]cachedQuote),
	}
}

// GetQuote returns the current quote for one asset type.
func (s *Service) GetQuote(ctx context.Context, t models.AssetType) Quote {
	return s.GetMultipleQuotes(ctx, []models.AssetType{t})[t]
}

// GetMultipleQuotes returns current quotes for the given asset types.
// Fresh cache entries are served directly; the rest are fetched from their
// providers, falling back to stale cache entries and then static defaults.
func (s *Service) GetMultipleQuotes(ctx context.Context, types []models.AssetType) map[models.AssetType]Quote {
	result := make(map[models.AssetType]Quote, len(types))
	var missing []models.AssetType

	now := time.Now()
	s.mu.Lock()
	for _, t := range types {
		if entry, ok := s.cache[t]; ok && now.Sub(entry.fetchedAt) < s.ttl {
			result[t] = entry.quote
			continue
		}
		missing = append(missing, t)
	}
	s.mu.Unlock()

	if len(missing) == 0 {
		return result
	}

	fetched := s.fetch(ctx, missing)

	s.mu.Lock()
	for _, t := range missing {
		if quote, ok := fetched[t]; ok {
			s.cache[t] = cachedQuote{quote: quote, fetchedAt: time.Now()}
			result[t] = quote
			continue
		}
		// Provider failed: serve the stale cache entry if there is one,
		// otherwise the static default price for the type.
		if entry, ok := s.cache[t]; ok {
			result[t] = entry.quote
			continue
		}
		result[t] = DefaultQuote(t)
	}
	s.mu.Unlock()

	return result
}

// fetch groups the missing types by provider and queries each one.
func (s *Service) fetch(ctx context.Context, types []models.AssetType) map[models.AssetType]Quote {
	groups := make(map[int][]models.AssetType)
	for _, t := range types {
		matched := false
		for i, p := range s.providers {
			if p.Supports(t) {
				groups[i] = append(groups[i], t)
				matched = true
				break
			}
		}
		if !matched {
			logger.Get().Warnw("no quote provider for asset type", "type", t)
		}
	}

	fetched := make(map[models.AssetType]Quote, len(types))
	for i, group := range groups {
		p := s.providers[i]
		quotes, err := p.Fetch(ctx, group)
		if err != nil {
			logger.Get().Warnw("quote fetch failed",
				"provider", p.Name(),
				"types", group,
				"error", err.Error(),
			)
			continue
		}
		for t, q := range quotes {
			fetched[t] = q
		}
	}
	return fetched
}

// StartRefresh launches a background goroutine that keeps the cache warm
// for every asset type, refetching at the given interval until ctx is
// cancelled. This is the only asynchronous behavior at the boundary; the
// calculators themselves stay synchronous.
func (s *Service) StartRefresh(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		s.GetMultipleQuotes(ctx, models.AllAssetTypes)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.GetMultipleQuotes(ctx, models.AllAssetTypes)
			}
		}
	}()
}
