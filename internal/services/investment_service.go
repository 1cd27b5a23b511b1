package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "grana/internal/errors"
	"grana/internal/finance"
	"grana/internal/models"
	"grana/internal/pagination"
	"grana/internal/quotes"
)

// investmentService handles investment lot business logic.
type investmentService struct {
	db     *gorm.DB
	quotes QuoteGetter
}

// NewInvestmentService creates a new InvestmentServicer. quoteGetter may
// be nil; lots are then served from their cached valuation (or at cost).
func NewInvestmentService(db *gorm.DB, quoteGetter QuoteGetter) InvestmentServicer {
	return &investmentService{db: db, quotes: quoteGetter}
}

// CreateInvestment records a new purchase lot. The lot is valued
// immediately against the current quote when a quote source is available.
func (s *investmentService) CreateInvestment(userID string, assetType models.AssetType, name string, quantity float64, purchasePrice int64, purchaseDate time.Time) (*models.Investment, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Investment name is required")
	}
	if quantity <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Quantity must be positive")
	}
	if purchasePrice <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Purchase price must be positive")
	}

	if purchaseDate.IsZero() {
		purchaseDate = time.Now()
	}

	investment := &models.Investment{
		UserID:        userID,
		Type:          assetType,
		Name:          name,
		Quantity:      quantity,
		PurchasePrice: purchasePrice,
		PurchaseDate:  purchaseDate,
	}

	if s.quotes != nil {
		quote := s.quotes.GetQuote(context.Background(), assetType)
		revalued := finance.Revalue([]models.Investment{*investment}, map[models.AssetType]quotes.Quote{assetType: quote})
		*investment = revalued[0]
	}

	if err := s.db.Create(investment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return investment, nil
}

// GetUserInvestments returns a paginated list of the user's lots, revalued
// against live quotes. The refreshed valuation cache is written back so
// later reads survive a quote outage.
func (s *investmentService) GetUserInvestments(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Investment{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var investments []models.Investment
	if err := s.db.Preload("GoalAllocations").Where("user_id = ?", userID).
		Order("created_at ASC").Scopes(pagination.Paginate(page)).Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	investments, err := s.revalue(ctx, investments)
	if err != nil {
		return nil, err
	}

	result := pagination.NewPageResponse(investments, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetInvestmentByID retrieves a lot owned by the user, with its allocation
// records.
func (s *investmentService) GetInvestmentByID(userID, investmentID string) (*models.Investment, error) {
	var investment models.Investment
	if err := s.db.Preload("GoalAllocations").Where("id = ? AND user_id = ?", investmentID, userID).First(&investment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &investment, nil
}

// UpdateInvestment updates a lot's mutable fields. The valuation cache is
// cleared when quantity or purchase price change so the next read revalues
// from scratch.
func (s *investmentService) UpdateInvestment(userID, investmentID, name string, quantity *float64, purchasePrice *int64) (*models.Investment, error) {
	investment, err := s.GetInvestmentByID(userID, investmentID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if quantity != nil {
		if *quantity <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Quantity must be positive")
		}
		updates["quantity"] = *quantity
	}
	if purchasePrice != nil {
		if *purchasePrice <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Purchase price must be positive")
		}
		updates["purchase_price"] = *purchasePrice
	}

	if quantity != nil || purchasePrice != nil {
		updates["current_price"] = nil
		updates["current_value"] = nil
		updates["profit_loss"] = nil
		updates["profit_loss_percent"] = nil
	}

	if len(updates) > 0 {
		if err := s.db.Model(investment).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return investment, nil
}

// DeleteInvestment removes a lot together with its allocation records.
// The goals those records pointed at keep their current amounts.
func (s *investmentService) DeleteInvestment(userID, investmentID string) error {
	investment, err := s.GetInvestmentByID(userID, investmentID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("investment_id = ?", investment.ID).Delete(&models.GoalAllocation{}).Error; err != nil {
			return err
		}
		return tx.Delete(investment).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Summary revalues every lot and aggregates portfolio totals with the
// best and worst performers.
func (s *investmentService) Summary(ctx context.Context, userID string) (*finance.InvestmentSummary, error) {
	var investments []models.Investment
	if err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	investments, err := s.revalue(ctx, investments)
	if err != nil {
		return nil, err
	}

	summary := finance.Summarize(investments)
	return &summary, nil
}

// revalue recomputes the lots' valuation against live quotes and persists
// the refreshed cache. With no quote source the lots pass through with
// their cached (or at-cost) valuation.
func (s *investmentService) revalue(ctx context.Context, investments []models.Investment) ([]models.Investment, error) {
	if len(investments) == 0 {
		return investments, nil
	}

	var quoteMap map[models.AssetType]quotes.Quote
	if s.quotes != nil {
		seen := map[models.AssetType]bool{}
		var types []models.AssetType
		for _, inv := range investments {
			if !seen[inv.Type] {
				seen[inv.Type] = true
				types = append(types, inv.Type)
			}
		}
		quoteMap = s.quotes.GetMultipleQuotes(ctx, types)
	}

	revalued := finance.Revalue(investments, quoteMap)
	for i := range revalued {
		if err := s.db.Model(&models.Investment{}).Where("id = ?", revalued[i].ID).Updates(map[string]interface{}{
			"current_price":       revalued[i].CurrentPrice,
			"current_value":       revalued[i].CurrentValue,
			"profit_loss":         revalued[i].ProfitLoss,
			"profit_loss_percent": revalued[i].ProfitLossPercent,
		}).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return revalued, nil
}
