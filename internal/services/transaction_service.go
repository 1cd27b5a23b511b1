package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "grana/internal/errors"
	"grana/internal/models"
	"grana/internal/pagination"
)

// transactionService handles ledger transaction business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// CreateTransaction records an income or expense entry and adjusts the
// user's cash balance atomically. When budgetCategoryID is set on an
// expense, a linked BudgetExpense is recorded against that category in the
// same transaction.
func (s *transactionService) CreateTransaction(userID string, txType models.TransactionType, amount int64, description, category string, date time.Time, budgetCategoryID *string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be positive")
	}
	if txType != models.TransactionTypeIncome && txType != models.TransactionTypeExpense {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid transaction type")
	}
	if budgetCategoryID != nil && txType != models.TransactionTypeExpense {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Only expenses can be allocated to a budget category")
	}

	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Description: description,
		Category:    category,
		Date:        date,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return err
		}

		if err := adjustBalance(tx, userID, txType, amount); err != nil {
			return err
		}

		if budgetCategoryID != nil {
			var budgetCategory models.BudgetCategory
			if err := tx.Where("id = ? AND user_id = ?", *budgetCategoryID, userID).First(&budgetCategory).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.ErrCategoryNotFound
				}
				return err
			}

			expense := models.BudgetExpense{
				CategoryID:    budgetCategory.ID,
				UserID:        userID,
				Amount:        amount,
				Description:   description,
				Date:          date,
				TransactionID: &transaction.ID,
			}
			if err := tx.Create(&expense).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// GetUserTransactions returns a paginated, filtered list of the user's
// transactions, newest first.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilter(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Order("date DESC").Scopes(pagination.Paginate(page)).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID retrieves a transaction owned by the user.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// DeleteTransaction removes a transaction, reverts its balance effect and
// deletes any budget expense it produced.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Reverting means applying the opposite adjustment.
		reverse := models.TransactionTypeExpense
		if transaction.Type == models.TransactionTypeExpense {
			reverse = models.TransactionTypeIncome
		}
		if err := adjustBalance(tx, userID, reverse, transaction.Amount); err != nil {
			return err
		}

		if err := tx.Where("transaction_id = ?", transaction.ID).Delete(&models.BudgetExpense{}).Error; err != nil {
			return err
		}

		return tx.Delete(transaction).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// adjustBalance applies a signed balance change to the user row inside an
// existing transaction. Income adds, expense subtracts; the balance may go
// negative.
func adjustBalance(tx *gorm.DB, userID string, txType models.TransactionType, amount int64) error {
	delta := amount
	if txType == models.TransactionTypeExpense {
		delta = -amount
	}
	result := tx.Model(&models.User{}).Where("id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// applyTransactionFilter adds the optional filter clauses to a query.
func applyTransactionFilter(query *gorm.DB, filter TransactionFilter) *gorm.DB {
	if filter.FromDate != nil {
		query = query.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", *filter.ToDate)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.MinAmount != nil {
		query = query.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("amount <= ?", *filter.MaxAmount)
	}
	return query
}
