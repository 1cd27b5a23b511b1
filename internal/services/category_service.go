package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "grana/internal/errors"
	"grana/internal/finance"
	"grana/internal/models"
	"grana/internal/pagination"
)

// categoryService handles budget category business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new budget category for a user.
func (s *categoryService) CreateCategory(userID, name string, monthlyLimit int64, description, icon, color string) (*models.BudgetCategory, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Category name is required")
	}
	if monthlyLimit < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Monthly limit cannot be negative")
	}

	category := &models.BudgetCategory{
		UserID:       userID,
		Name:         name,
		MonthlyLimit: monthlyLimit,
		Description:  description,
		Icon:         icon,
		Color:        color,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetUserCategories returns a paginated list of the user's categories.
func (s *categoryService) GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetCategory], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.BudgetCategory{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.BudgetCategory
	if err := base.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID retrieves a category owned by the user, with its expenses.
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*models.BudgetCategory, error) {
	var category models.BudgetCategory
	if err := s.db.Preload("Expenses").Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory updates a category's mutable fields. Empty strings leave
// string fields unchanged; a nil monthlyLimit leaves the limit unchanged.
func (s *categoryService) UpdateCategory(userID, categoryID, name string, monthlyLimit *int64, description, icon, color string) (*models.BudgetCategory, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if monthlyLimit != nil {
		if *monthlyLimit < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Monthly limit cannot be negative")
		}
		updates["monthly_limit"] = *monthlyLimit
	}
	if description != "" {
		updates["description"] = description
	}
	if icon != "" {
		updates["icon"] = icon
	}
	if color != "" {
		updates["color"] = color
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return category, nil
}

// DeleteCategory removes a category and all of its expenses.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", category.ID).Delete(&models.BudgetExpense{}).Error; err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// AddExpense records an expense against a category the user owns.
// transactionID links the expense to the ledger transaction that produced
// it, when there is one.
func (s *categoryService) AddExpense(userID, categoryID string, amount int64, description string, date time.Time, transactionID *string) (*models.BudgetExpense, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Expense amount must be positive")
	}

	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	if date.IsZero() {
		date = time.Now()
	}

	expense := &models.BudgetExpense{
		CategoryID:    category.ID,
		UserID:        userID,
		Amount:        amount,
		Description:   description,
		Date:          date,
		TransactionID: transactionID,
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// DeleteExpense removes a single expense owned by the user.
func (s *categoryService) DeleteExpense(userID, expenseID string) error {
	var expense models.BudgetExpense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrExpenseNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// CategoryStatus computes the spending status of one category over a period.
func (s *categoryService) CategoryStatus(userID, categoryID string, period finance.Period) (*finance.CategoryBudgetStatus, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.periodExpenses(userID, period, &category.ID)
	if err != nil {
		return nil, err
	}

	status := finance.CategoryStatus(*category, expenses, period)
	return &status, nil
}

// BudgetSummary aggregates the status of all of the user's categories over
// a period.
func (s *categoryService) BudgetSummary(userID string, period finance.Period) (*finance.BudgetSummary, error) {
	var categories []models.BudgetCategory
	if err := s.db.Where("user_id = ?", userID).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	expenses, err := s.periodExpenses(userID, period, nil)
	if err != nil {
		return nil, err
	}

	summary := finance.Summary(categories, expenses, period)
	return &summary, nil
}

// periodExpenses loads the user's expenses within a period, optionally
// restricted to one category.
func (s *categoryService) periodExpenses(userID string, period finance.Period, categoryID *string) ([]models.BudgetExpense, error) {
	query := s.db.Where("user_id = ? AND date >= ? AND date <= ?", userID, period.Start, period.End)
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var expenses []models.BudgetExpense
	if err := query.Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}
