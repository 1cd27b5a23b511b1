package quotes

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"grana/internal/models"
)

// fakeProvider serves canned quotes and counts fetches.
type fakeProvider struct {
	supported map[models.AssetType]bool
	prices    map[models.AssetType]int64
	err       error
	fetches   atomic.Int64
}

func (f *fakeProvider) Name() string { return "Fake" }

func (f *fakeProvider) Supports(t models.AssetType) bool { return f.supported[t] }

func (f *fakeProvider) Fetch(_ context.Context, types []models.AssetType) (map[models.AssetType]Quote, error) {
	f.fetches.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	result := make(map[models.AssetType]Quote, len(types))
	for _, t := range types {
		if price, ok := f.prices[t]; ok {
			result[t] = Quote{Type: t, Symbol: Symbol(t), Price: price, LastUpdate: time.Now()}
		}
	}
	return result, nil
}

func TestServiceCaching(t *testing.T) {
	provider := &fakeProvider{
		supported: map[models.AssetType]bool{models.AssetTypeBitcoin: true},
		prices:    map[models.AssetType]int64{models.AssetTypeBitcoin: 35000000_00},
	}
	svc := NewService([]Provider{provider}, time.Minute)

	first := svc.GetQuote(context.Background(), models.AssetTypeBitcoin)
	if first.Price != 35000000_00 {
		t.Fatalf("expected provider price, got %d", first.Price)
	}

	// Second lookup within the TTL must come from cache
	svc.GetQuote(context.Background(), models.AssetTypeBitcoin)
	if got := provider.fetches.Load(); got != 1 {
		t.Errorf("expected 1 provider fetch, got %d", got)
	}
}

func TestServiceExpiredCacheRefetches(t *testing.T) {
	provider := &fakeProvider{
		supported: map[models.AssetType]bool{models.AssetTypeDolar: true},
		prices:    map[models.AssetType]int64{models.AssetTypeDolar: 5_43},
	}
	svc := NewService([]Provider{provider}, time.Nanosecond)

	svc.GetQuote(context.Background(), models.AssetTypeDolar)
	time.Sleep(time.Millisecond)
	svc.GetQuote(context.Background(), models.AssetTypeDolar)

	if got := provider.fetches.Load(); got != 2 {
		t.Errorf("expected 2 provider fetches after TTL expiry, got %d", got)
	}
}

func TestServiceFallsBackToStaleCache(t *testing.T) {
	provider := &fakeProvider{
		supported: map[models.AssetType]bool{models.AssetTypeEuro: true},
		prices:    map[models.AssetType]int64{models.AssetTypeEuro: 6_10},
	}
	svc := NewService([]Provider{provider}, time.Nanosecond)

	fresh := svc.GetQuote(context.Background(), models.AssetTypeEuro)
	if fresh.Price != 6_10 {
		t.Fatalf("expected provider price, got %d", fresh.Price)
	}

	// Provider goes down; the stale cache entry must still be served
	provider.err = errors.New("connection refused")
	time.Sleep(time.Millisecond)

	stale := svc.GetQuote(context.Background(), models.AssetTypeEuro)
	if stale.Price != 6_10 {
		t.Errorf("expected stale cached price 610, got %d", stale.Price)
	}
}

func TestServiceFallsBackToDefault(t *testing.T) {
	provider := &fakeProvider{
		supported: map[models.AssetType]bool{models.AssetTypeBitcoin: true},
		err:       errors.New("connection refused"),
	}
	svc := NewService([]Provider{provider}, time.Minute)

	quote := svc.GetQuote(context.Background(), models.AssetTypeBitcoin)
	if quote.Price != DefaultQuote(models.AssetTypeBitcoin).Price {
		t.Errorf("expected static default price, got %d", quote.Price)
	}
}

func TestServiceUnsupportedTypeGetsDefault(t *testing.T) {
	svc := NewService(nil, time.Minute)

	quote := svc.GetQuote(context.Background(), models.AssetTypeOuro)
	if quote.Price != DefaultQuote(models.AssetTypeOuro).Price {
		t.Errorf("expected static default price, got %d", quote.Price)
	}
}

func TestServiceRoutesByProvider(t *testing.T) {
	crypto := &fakeProvider{
		supported: map[models.AssetType]bool{models.AssetTypeBitcoin: true},
		prices:    map[models.AssetType]int64{models.AssetTypeBitcoin: 35000000_00},
	}
	forex := &fakeProvider{
		supported: map[models.AssetType]bool{models.AssetTypeDolar: true},
		prices:    map[models.AssetType]int64{models.AssetTypeDolar: 5_43},
	}
	svc := NewService([]Provider{crypto, forex}, time.Minute)

	result := svc.GetMultipleQuotes(context.Background(), []models.AssetType{
		models.AssetTypeBitcoin,
		models.AssetTypeDolar,
	})

	if result[models.AssetTypeBitcoin].Price != 35000000_00 {
		t.Errorf("expected crypto provider price, got %d", result[models.AssetTypeBitcoin].Price)
	}
	if result[models.AssetTypeDolar].Price != 5_43 {
		t.Errorf("expected forex provider price, got %d", result[models.AssetTypeDolar].Price)
	}
	if crypto.fetches.Load() != 1 || forex.fetches.Load() != 1 {
		t.Errorf("expected each provider fetched once, got %d and %d", crypto.fetches.Load(), forex.fetches.Load())
	}
}
