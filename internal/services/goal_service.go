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
	"grana/internal/quotes"
)

// goalService handles savings goal business logic, including the two-tier
// allocation of funds from investments or the cash balance.
type goalService struct {
	db     *gorm.DB
	quotes QuoteGetter
}

// NewGoalService creates a new GoalServicer. quoteGetter may be nil; lots
// are then valued from their cached valuation (or at cost) during
// allocation.
func NewGoalService(db *gorm.DB, quoteGetter QuoteGetter) GoalServicer {
	return &goalService{db: db, quotes: quoteGetter}
}

// CreateGoal creates a new savings goal for a user.
func (s *goalService) CreateGoal(userID, name string, category models.GoalCategory, targetAmount int64, deadline time.Time, description string) (*models.Goal, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Goal name is required")
	}
	if targetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Target amount must be positive")
	}
	if deadline.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Deadline is required")
	}

	goal := &models.Goal{
		UserID:       userID,
		Name:         name,
		Category:     category,
		TargetAmount: targetAmount,
		Deadline:     deadline,
		Description:  description,
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return goal, nil
}

// GetUserGoals returns all of the user's goals with their derived status,
// ordered by deadline.
func (s *goalService) GetUserGoals(userID string) ([]finance.GoalWithStatus, error) {
	var goals []models.Goal
	if err := s.db.Where("user_id = ?", userID).Order("deadline ASC").Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	result := make([]finance.GoalWithStatus, 0, len(goals))
	for _, goal := range goals {
		result = append(result, finance.GoalProgress(goal, now))
	}
	return result, nil
}

// GetGoalByID retrieves a goal owned by the user, with its derived status.
func (s *goalService) GetGoalByID(userID, goalID string) (*finance.GoalWithStatus, error) {
	goal, err := s.getGoal(userID, goalID)
	if err != nil {
		return nil, err
	}
	withStatus := finance.GoalProgress(*goal, time.Now())
	return &withStatus, nil
}

// UpdateGoal updates a goal's mutable fields. Nil pointers and empty
// strings leave fields unchanged.
func (s *goalService) UpdateGoal(userID, goalID, name string, targetAmount, currentAmount *int64, deadline *time.Time, description string) (*models.Goal, error) {
	goal, err := s.getGoal(userID, goalID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if targetAmount != nil {
		if *targetAmount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Target amount must be positive")
		}
		updates["target_amount"] = *targetAmount
	}
	if currentAmount != nil {
		if *currentAmount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Current amount cannot be negative")
		}
		updates["current_amount"] = *currentAmount
	}
	if deadline != nil {
		updates["deadline"] = *deadline
	}
	if description != "" {
		updates["description"] = description
	}

	if len(updates) > 0 {
		if err := s.db.Model(goal).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return goal, nil
}

// DeleteGoal removes a goal and every allocation record pointing at it.
func (s *goalService) DeleteGoal(userID, goalID string) error {
	goal, err := s.getGoal(userID, goalID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("goal_id = ?", goal.ID).Delete(&models.GoalAllocation{}).Error; err != nil {
			return err
		}
		return tx.Delete(goal).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Allocate moves amount toward a goal. Investments are tried first: lots
// are revalued against live quotes and their unallocated value is consumed
// in purchase order. If the lots cannot cover the amount, the user's cash
// balance is tried instead. Neither tier ever allocates partially; when
// both fall short, nothing is persisted and the outcome says so.
func (s *goalService) Allocate(ctx context.Context, userID, goalID string, amount int64) (*AllocationResult, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Allocation amount must be positive")
	}

	goal, err := s.getGoal(userID, goalID)
	if err != nil {
		return nil, err
	}

	investments, err := s.userInvestments(userID)
	if err != nil {
		return nil, err
	}

	revalued := finance.Revalue(investments, s.quoteMap(ctx, investments))
	updated, created, ok := finance.Allocate(amount, goal.ID, goal.Name, revalued, time.Now())

	if ok {
		err = s.db.Transaction(func(tx *gorm.DB) error {
			for i := range updated {
				if err := persistValuation(tx, &updated[i]); err != nil {
					return err
				}
			}
			for i := range created {
				if err := tx.Create(&created[i]).Error; err != nil {
					return err
				}
			}
			return advanceGoal(tx, goal.ID, amount)
		})
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.allocationResult(userID, goal.ID, finance.AllocatedFromInvestments, created)
	}

	// Second tier: draw directly from the cash balance.
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if user.Balance < amount {
		withStatus := finance.GoalProgress(*goal, time.Now())
		return &AllocationResult{Outcome: finance.InsufficientFunds, Goal: &withStatus}, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).
			Where("id = ? AND balance >= ?", userID, amount).
			Update("balance", gorm.Expr("balance - ?", amount))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrInsufficientFunds
		}
		return advanceGoal(tx, goal.ID, amount)
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.allocationResult(userID, goal.ID, finance.AllocatedFromBalance, nil)
}

// RemoveAllocations deletes every allocation record for a goal and rolls
// the freed amount back out of the goal's current amount. Direct balance
// contributions have no records and are untouched.
func (s *goalService) RemoveAllocations(userID, goalID string) error {
	goal, err := s.getGoal(userID, goalID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var allocations []models.GoalAllocation
		if err := tx.Where("goal_id = ?", goal.ID).Find(&allocations).Error; err != nil {
			return err
		}
		if len(allocations) == 0 {
			return nil
		}

		var freed int64
		for _, a := range allocations {
			freed += a.AllocatedAmount
		}

		if err := tx.Where("goal_id = ?", goal.ID).Delete(&models.GoalAllocation{}).Error; err != nil {
			return err
		}

		newAmount := goal.CurrentAmount - freed
		if newAmount < 0 {
			newAmount = 0
		}
		return tx.Model(&models.Goal{}).Where("id = ?", goal.ID).Update("current_amount", newAmount).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// getGoal loads a goal scoped to its owner.
func (s *goalService) getGoal(userID, goalID string) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// userInvestments loads the user's lots with their allocation records, in
// purchase order. This is the order the water-fill consumes them in.
func (s *goalService) userInvestments(userID string) ([]models.Investment, error) {
	var investments []models.Investment
	if err := s.db.Preload("GoalAllocations").Where("user_id = ?", userID).Order("created_at ASC").Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return investments, nil
}

// quoteMap fetches quotes for the asset types present in the lots.
func (s *goalService) quoteMap(ctx context.Context, investments []models.Investment) map[models.AssetType]quotes.Quote {
	if s.quotes == nil || len(investments) == 0 {
		return nil
	}

	seen := map[models.AssetType]bool{}
	var types []models.AssetType
	for _, inv := range investments {
		if !seen[inv.Type] {
			seen[inv.Type] = true
			types = append(types, inv.Type)
		}
	}
	return s.quotes.GetMultipleQuotes(ctx, types)
}

// allocationResult reloads the goal and its allocation records after a
// successful allocation.
func (s *goalService) allocationResult(userID, goalID string, outcome finance.AllocationOutcome, created []models.GoalAllocation) (*AllocationResult, error) {
	goal, err := s.getGoal(userID, goalID)
	if err != nil {
		return nil, err
	}
	withStatus := finance.GoalProgress(*goal, time.Now())
	return &AllocationResult{
		Outcome:     outcome,
		Goal:        &withStatus,
		Allocations: created,
	}, nil
}

// advanceGoal adds amount to a goal's current amount inside a transaction.
func advanceGoal(tx *gorm.DB, goalID string, amount int64) error {
	return tx.Model(&models.Goal{}).Where("id = ?", goalID).
		Update("current_amount", gorm.Expr("current_amount + ?", amount)).Error
}

// persistValuation writes a lot's cached valuation columns.
func persistValuation(tx *gorm.DB, inv *models.Investment) error {
	if inv.CurrentValue == nil {
		return nil
	}
	return tx.Model(&models.Investment{}).Where("id = ?", inv.ID).Updates(map[string]interface{}{
		"current_price":       inv.CurrentPrice,
		"current_value":       inv.CurrentValue,
		"profit_loss":         inv.ProfitLoss,
		"profit_loss_percent": inv.ProfitLossPercent,
	}).Error
}
