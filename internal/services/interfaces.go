package services

import (
	"context"
	"time"

	"grana/internal/finance"
	"grana/internal/models"
	"grana/internal/pagination"
	"grana/internal/quotes"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// CategoryServicer defines the contract for budget category and expense
// business logic, including the derived per-category and portfolio views.
type CategoryServicer interface {
	CreateCategory(userID, name string, monthlyLimit int64, description, icon, color string) (*models.BudgetCategory, error)
	GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetCategory], error)
	GetCategoryByID(userID, categoryID string) (*models.BudgetCategory, error)
	UpdateCategory(userID, categoryID, name string, monthlyLimit *int64, description, icon, color string) (*models.BudgetCategory, error)
	DeleteCategory(userID, categoryID string) error
	AddExpense(userID, categoryID string, amount int64, description string, date time.Time, transactionID *string) (*models.BudgetExpense, error)
	DeleteExpense(userID, expenseID string) error
	CategoryStatus(userID, categoryID string, period finance.Period) (*finance.CategoryBudgetStatus, error)
	BudgetSummary(userID string, period finance.Period) (*finance.BudgetSummary, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate  *time.Time
	ToDate    *time.Time
	Type      *models.TransactionType
	MinAmount *int64
	MaxAmount *int64
}

// TransactionServicer defines the contract for ledger transactions.
// Creating or deleting a transaction adjusts the user's cash balance; an
// expense transaction may be allocated to a budget category on creation,
// which records a linked BudgetExpense.
type TransactionServicer interface {
	CreateTransaction(userID string, txType models.TransactionType, amount int64, description, category string, date time.Time, budgetCategoryID *string) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// AllocationResult is the tagged outcome of a two-tier goal allocation:
// investments are tried first, then the cash balance; neither tier ever
// allocates partially.
type AllocationResult struct {
	Outcome     finance.AllocationOutcome `json:"outcome"`
	Goal        *finance.GoalWithStatus   `json:"goal,omitempty"`
	Allocations []models.GoalAllocation   `json:"allocations,omitempty"`
}

// GoalServicer defines the contract for savings goals and goal allocations.
type GoalServicer interface {
	CreateGoal(userID, name string, category models.GoalCategory, targetAmount int64, deadline time.Time, description string) (*models.Goal, error)
	GetUserGoals(userID string) ([]finance.GoalWithStatus, error)
	GetGoalByID(userID, goalID string) (*finance.GoalWithStatus, error)
	UpdateGoal(userID, goalID, name string, targetAmount, currentAmount *int64, deadline *time.Time, description string) (*models.Goal, error)
	DeleteGoal(userID, goalID string) error
	Allocate(ctx context.Context, userID, goalID string, amount int64) (*AllocationResult, error)
	RemoveAllocations(userID, goalID string) error
}

// InvestmentServicer defines the contract for investment lots. Listing and
// summarizing revalue lots against live quotes and persist the refreshed
// valuation cache.
type InvestmentServicer interface {
	CreateInvestment(userID string, assetType models.AssetType, name string, quantity float64, purchasePrice int64, purchaseDate time.Time) (*models.Investment, error)
	GetUserInvestments(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error)
	GetInvestmentByID(userID, investmentID string) (*models.Investment, error)
	UpdateInvestment(userID, investmentID, name string, quantity *float64, purchasePrice *int64) (*models.Investment, error)
	DeleteInvestment(userID, investmentID string) error
	Summary(ctx context.Context, userID string) (*finance.InvestmentSummary, error)
}

// QuoteGetter is the slice of the quote service the domain services need.
type QuoteGetter interface {
	GetQuote(ctx context.Context, t models.AssetType) quotes.Quote
	GetMultipleQuotes(ctx context.Context, types []models.AssetType) map[models.AssetType]quotes.Quote
}
