package models

import "time"

// BudgetCategory represents a named monthly spending bucket with a limit.
// MonthlyLimit is in centavos. A limit of zero means the category is
// tracked without a cap.
type BudgetCategory struct {
	Base
	UserID       string `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string `gorm:"not null" json:"name"`
	MonthlyLimit int64  `gorm:"type:bigint;not null;default:0" json:"monthly_limit"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	Color        string `json:"color"`

	// Relationships
	Expenses []BudgetExpense `gorm:"foreignKey:CategoryID" json:"expenses,omitempty"`
}

// BudgetExpense represents an outflow attributed to a budget category.
// TransactionID links the expense back to the ledger transaction it was
// allocated from, when there is one.
type BudgetExpense struct {
	Base
	CategoryID    string    `gorm:"type:uuid;not null;index" json:"category_id"`
	UserID        string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount        int64     `gorm:"type:bigint;not null" json:"amount"`
	Description   string    `json:"description"`
	Date          time.Time `gorm:"not null" json:"date"`
	TransactionID *string   `gorm:"type:uuid;index" json:"transaction_id,omitempty"`

	// Relationships
	Category BudgetCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
