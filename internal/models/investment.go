package models

import "time"

// AssetType represents the kind of asset an investment lot holds.
type AssetType string

const (
	AssetTypeBitcoin       AssetType = "bitcoin"
	AssetTypeEthereum      AssetType = "ethereum"
	AssetTypeDolar         AssetType = "dolar"
	AssetTypeEuro          AssetType = "euro"
	AssetTypeOuro          AssetType = "ouro"
	AssetTypePrata         AssetType = "prata"
	AssetTypeTesouroDireto AssetType = "tesouro_direto"
	AssetTypeCDB           AssetType = "cdb"
	AssetTypeLCILCA        AssetType = "lci_lca"
)

// AllAssetTypes lists every supported asset type, in quote-refresh order.
var AllAssetTypes = []AssetType{
	AssetTypeBitcoin,
	AssetTypeEthereum,
	AssetTypeDolar,
	AssetTypeEuro,
	AssetTypeOuro,
	AssetTypePrata,
	AssetTypeTesouroDireto,
	AssetTypeCDB,
	AssetTypeLCILCA,
}

// Investment represents a single purchase record (lot) of a given asset
// type. PurchasePrice is per unit, in centavos. The Current* and
// ProfitLoss* fields are a cache of the latest revaluation; nil means the
// lot has never been valued against a quote.
type Investment struct {
	Base
	UserID        string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Type          AssetType `gorm:"not null" json:"type"`
	Name          string    `gorm:"not null" json:"name"`
	Quantity      float64   `gorm:"not null" json:"quantity"`
	PurchasePrice int64     `gorm:"type:bigint;not null" json:"purchase_price"`
	PurchaseDate  time.Time `gorm:"not null" json:"purchase_date"`

	CurrentPrice      *int64   `gorm:"type:bigint" json:"current_price,omitempty"`
	CurrentValue      *int64   `gorm:"type:bigint" json:"current_value,omitempty"`
	ProfitLoss        *int64   `gorm:"type:bigint" json:"profit_loss,omitempty"`
	ProfitLossPercent *float64 `json:"profit_loss_percent,omitempty"`

	// Relationships
	GoalAllocations []GoalAllocation `gorm:"foreignKey:InvestmentID" json:"goal_allocations,omitempty"`
}

// TotalInvested returns the original invested amount for this lot in centavos.
func (i *Investment) TotalInvested() int64 {
	return roundCentavos(i.Quantity * float64(i.PurchasePrice))
}

func roundCentavos(v float64) int64 {
	if v < 0 {
		return int64(v - 0.5)
	}
	return int64(v + 0.5)
}
