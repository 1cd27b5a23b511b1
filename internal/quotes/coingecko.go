package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"grana/internal/models"
)

// coinGeckoIDs maps asset types to CoinGecko coin ids.
var coinGeckoIDs = map[models.AssetType]string{
	models.AssetTypeBitcoin:  "bitcoin",
	models.AssetTypeEthereum: "ethereum",
}

// CoinGeckoProvider fetches crypto prices in BRL from the CoinGecko
// simple-price endpoint.
type CoinGeckoProvider struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewCoinGeckoProvider creates a new CoinGecko price provider.
func NewCoinGeckoProvider(httpClient *http.Client) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		httpClient: httpClient,
		baseURL:    "https://api.coingecko.com/api/v3/simple/price",
	}
}

// Name returns the provider's display name.
func (p *CoinGeckoProvider) Name() string { return "CoinGecko" }

// Supports returns true for crypto asset types only.
func (p *CoinGeckoProvider) Supports(t models.AssetType) bool {
	_, ok := coinGeckoIDs[t]
	return ok
}

// Fetch retrieves BRL prices and 24h changes for the given crypto types.
func (p *CoinGeckoProvider) Fetch(ctx context.Context, types []models.AssetType) (map[models.AssetType]Quote, error) {
	ids := make([]string, 0, len(types))
	byID := make(map[string]models.AssetType, len(types))
	for _, t := range types {
		id, ok := coinGeckoIDs[t]
		if !ok {
			continue
		}
		ids = append(ids, id)
		byID[id] = t
	}
	if len(ids) == 0 {
		return map[models.AssetType]Quote{}, nil
	}

	url := fmt.Sprintf("%s?ids=%s&vs_currencies=brl&include_24hr_change=true",
		p.baseURL, strings.Join(ids, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coingecko returned status %d", resp.StatusCode)
	}

	var body map[string]struct {
		BRL       float64  `json:"brl"`
		BRLChange *float64 `json:"brl_24h_change"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode coingecko response: %w", err)
	}

	now := time.Now()
	result := make(map[models.AssetType]Quote, len(body))
	for id, entry := range body {
		t, ok := byID[id]
		if !ok || entry.BRL <= 0 {
			continue
		}
		result[t] = Quote{
			Type:       t,
			Symbol:     Symbol(t),
			Price:      int64(entry.BRL*100 + 0.5),
			Change24h:  entry.BRLChange,
			LastUpdate: now,
		}
	}
	return result, nil
}
