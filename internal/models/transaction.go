package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents an income or expense entry in the user's ledger.
// Amount is always positive, in centavos; the type determines the sign of
// the balance adjustment. Category is free-text display grouping, distinct
// from budget categories (an expense is tied to a budget category only
// through a BudgetExpense allocation).
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        time.Time       `gorm:"not null" json:"date"`
}
