package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"grana/internal/models"
)

// awesomePairs maps asset types to AwesomeAPI currency pairs.
var awesomePairs = map[models.AssetType]string{
	models.AssetTypeDolar: "USD-BRL",
	models.AssetTypeEuro:  "EUR-BRL",
}

// AwesomeAPIProvider fetches forex rates against the real from the
// AwesomeAPI economia endpoint.
type AwesomeAPIProvider struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewAwesomeAPIProvider creates a new AwesomeAPI forex provider.
func NewAwesomeAPIProvider(httpClient *http.Client) *AwesomeAPIProvider {
	return &AwesomeAPIProvider{
		httpClient: httpClient,
		baseURL:    "https://economia.awesomeapi.com.br/json/last",
	}
}

// Name returns the provider's display name.
func (p *AwesomeAPIProvider) Name() string { return "AwesomeAPI" }

// Supports returns true for forex asset types only.
func (p *AwesomeAPIProvider) Supports(t models.AssetType) bool {
	_, ok := awesomePairs[t]
	return ok
}

// Fetch retrieves BRL exchange rates for the given forex types.
func (p *AwesomeAPIProvider) Fetch(ctx context.Context, types []models.AssetType) (map[models.AssetType]Quote, error) {
	pairs := make([]string, 0, len(types))
	byKey := make(map[string]models.AssetType, len(types))
	for _, t := range types {
		pair, ok := awesomePairs[t]
		if !ok {
			continue
		}
		pairs = append(pairs, pair)
		// Response keys drop the dash: USD-BRL -> USDBRL.
		byKey[strings.ReplaceAll(pair, "-", "")] = t
	}
	if len(pairs) == 0 {
		return map[models.AssetType]Quote{}, nil
	}

	url := p.baseURL + "/" + strings.Join(pairs, ",")
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
		return nil, fmt.Errorf("awesomeapi returned status %d", resp.StatusCode)
	}

	var body map[string]struct {
		Bid       string `json:"bid"`
		PctChange string `json:"pctChange"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode awesomeapi response: %w", err)
	}

	now := time.Now()
	result := make(map[models.AssetType]Quote, len(body))
	for key, entry := range body {
		t, ok := byKey[key]
		if !ok {
			continue
		}
		bid, err := strconv.ParseFloat(entry.Bid, 64)
		if err != nil || bid <= 0 {
			continue
		}
		quote := Quote{
			Type:       t,
			Symbol:     Symbol(t),
			Price:      int64(bid*100 + 0.5),
			LastUpdate: now,
		}
		if change, err := strconv.ParseFloat(entry.PctChange, 64); err == nil {
			quote.Change24h = &change
		}
		result[t] = quote
	}
	return result, nil
}
