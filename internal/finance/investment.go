package finance

import (
	"math"

	"grana/internal/models"
	"grana/internal/quotes"
)

// InvestmentSummary aggregates valuation across all lots. Best and worst
// performer are chosen by profit/loss percent among lots that have a
// defined percent; on ties the first occurrence in list order wins.
type InvestmentSummary struct {
	TotalInvested     int64              `json:"total_invested"`
	CurrentValue      int64              `json:"current_value"`
	ProfitLoss        int64              `json:"profit_loss"`
	ProfitLossPercent float64            `json:"profit_loss_percent"`
	Count             int                `json:"count"`
	BestPerformer     *models.Investment `json:"best_performer,omitempty"`
	WorstPerformer    *models.Investment `json:"worst_performer,omitempty"`
}

// Revalue recomputes the cached valuation of each lot against the given
// quote map and returns a new slice; the input lots are not modified.
//
// A lot whose type has no quote keeps its previously cached value. A lot
// that has never been valued is carried at cost: current value equals the
// invested amount and profit is zero. Valuation never blocks on a missing
// quote.
func Revalue(investments []models.Investment, quoteMap map[models.AssetType]quotes.Quote) []models.Investment {
	updated := make([]models.Investment, len(investments))
	for i, inv := range investments {
		quote, ok := quoteMap[inv.Type]
		switch {
		case ok:
			price := quote.Price
			value := roundCentavos(inv.Quantity * float64(price))
			invested := inv.TotalInvested()
			profit := value - invested
			var pct float64
			if invested > 0 {
				pct = float64(profit) / float64(invested) * 100
			}
			inv.CurrentPrice = &price
			inv.CurrentValue = &value
			inv.ProfitLoss = &profit
			inv.ProfitLossPercent = &pct
		case inv.CurrentValue != nil:
			// Keep the previously cached valuation.
		default:
			price := inv.PurchasePrice
			value := inv.TotalInvested()
			profit := int64(0)
			pct := 0.0
			inv.CurrentPrice = &price
			inv.CurrentValue = &value
			inv.ProfitLoss = &profit
			inv.ProfitLossPercent = &pct
		}
		updated[i] = inv
	}
	return updated
}

// CurrentValueOrCost returns the lot's cached current value, falling back
// to the original invested amount when the lot was never valued.
func CurrentValueOrCost(inv models.Investment) int64 {
	if inv.CurrentValue != nil {
		return *inv.CurrentValue
	}
	return inv.TotalInvested()
}

// Summarize aggregates valuation totals and picks the best and worst
// performers across all lots.
func Summarize(investments []models.Investment) InvestmentSummary {
	summary := InvestmentSummary{Count: len(investments)}

	for i := range investments {
		inv := &investments[i]
		summary.TotalInvested += inv.TotalInvested()
		summary.CurrentValue += CurrentValueOrCost(*inv)

		if inv.ProfitLossPercent == nil {
			continue
		}
		pct := *inv.ProfitLossPercent
		if summary.BestPerformer == nil || pct > *summary.BestPerformer.ProfitLossPercent {
			summary.BestPerformer = inv
		}
		if summary.WorstPerformer == nil || pct < *summary.WorstPerformer.ProfitLossPercent {
			summary.WorstPerformer = inv
		}
	}

	summary.ProfitLoss = summary.CurrentValue - summary.TotalInvested
	if summary.TotalInvested > 0 {
		summary.ProfitLossPercent = float64(summary.ProfitLoss) / float64(summary.TotalInvested) * 100
	}
	return summary
}

func roundCentavos(v float64) int64 {
	return int64(math.Round(v))
}
