// Package quotes fetches current asset prices from external providers and
// serves them through a short-lived cache. The package never surfaces an
// error to its callers: when every source fails it falls back to the static
// default price for the asset type, so valuations degrade instead of block.
package quotes

import (
	"time"

	"grana/internal/models"
)

// Quote is an externally supplied current price for an asset type.
// Price is per unit, in centavos (BRL).
type Quote struct {
	Type       models.AssetType `json:"type"`
	Symbol     string           `json:"symbol"`
	Price      int64            `json:"price"`
	Change24h  *float64         `json:"change_24h,omitempty"`
	LastUpdate time.Time        `json:"last_update"`
}

// symbols maps asset types to their display symbols.
var symbols = map[models.AssetType]string{
	models.AssetTypeBitcoin:       "BTC",
	models.AssetTypeEthereum:      "ETH",
	models.AssetTypeDolar:         "USD",
	models.AssetTypeEuro:          "EUR",
	models.AssetTypeOuro:          "XAU",
	models.AssetTypePrata:         "XAG",
	models.AssetTypeTesouroDireto: "TESOURO",
	models.AssetTypeCDB:           "CDB",
	models.AssetTypeLCILCA:        "LCI/LCA",
}

// defaultPrices holds the static per-unit fallback price for each asset
// type, in centavos. Fixed-income types are quoted per R$100 face unit;
// metals per gram.
var defaultPrices = map[models.AssetType]int64{
	models.AssetTypeBitcoin:       35000000_00,
	models.AssetTypeEthereum:      1800000_00,
	models.AssetTypeDolar:         5_50,
	models.AssetTypeEuro:          6_00,
	models.AssetTypeOuro:          380_00,
	models.AssetTypePrata:         4_80,
	models.AssetTypeTesouroDireto: 100_00,
	models.AssetTypeCDB:           100_00,
	models.AssetTypeLCILCA:        100_00,
}

// Symbol returns the display symbol for an asset type.
func Symbol(t models.AssetType) string {
	if s, ok := symbols[t]; ok {
		return s
	}
	return string(t)
}

// DefaultQuote returns the static fallback quote for an asset type.
func DefaultQuote(t models.AssetType) Quote {
	return Quote{
		Type:       t,
		Symbol:     Symbol(t),
		Price:      defaultPrices[t],
		LastUpdate: time.Now(),
	}
}
