package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"grana/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a budget category with the given monthly limit (in centavos).
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, monthlyLimit int64) *models.BudgetCategory {
	t.Helper()

	category := &models.BudgetCategory{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Category %d", nextID()),
		MonthlyLimit: monthlyLimit,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense creates an expense in the given category, dated now.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, categoryID string, amount int64) *models.BudgetExpense {
	t.Helper()

	expense := &models.BudgetExpense{
		CategoryID:  categoryID,
		UserID:      userID,
		Amount:      amount,
		Description: fmt.Sprintf("Test Expense %d", nextID()),
		Date:        time.Now(),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestTransaction creates a transaction of the given type and amount (in centavos).
// It does not adjust the user's balance; use the transaction service for that.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, txType models.TransactionType, amount int64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID: userID,
		Type:   txType,
		Amount: amount,
		Date:   time.Now(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestGoal creates a goal with the given target (in centavos) and deadline.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID string, target int64, deadline time.Time) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Goal %d", nextID()),
		Category:     models.GoalCategoryOutros,
		TargetAmount: target,
		Deadline:     deadline,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestInvestment creates an investment lot of the given type.
func CreateTestInvestment(t *testing.T, db *gorm.DB, userID string, assetType models.AssetType, quantity float64, purchasePrice int64) *models.Investment {
	t.Helper()

	inv := &models.Investment{
		UserID:        userID,
		Type:          assetType,
		Name:          fmt.Sprintf("Test Investment %d", nextID()),
		Quantity:      quantity,
		PurchasePrice: purchasePrice,
		PurchaseDate:  time.Now().AddDate(0, -1, 0),
	}
	if err := db.Create(inv).Error; err != nil {
		t.Fatalf("failed to create test investment: %v", err)
	}
	return inv
}

// CreateTestInvestmentWithValue creates a lot whose cached current value is set.
func CreateTestInvestmentWithValue(t *testing.T, db *gorm.DB, userID string, assetType models.AssetType, currentValue int64) *models.Investment {
	t.Helper()

	inv := CreateTestInvestment(t, db, userID, assetType, 1, currentValue)
	price := currentValue
	if err := db.Model(inv).Updates(map[string]interface{}{
		"current_price": price,
		"current_value": currentValue,
	}).Error; err != nil {
		t.Fatalf("failed to set investment value: %v", err)
	}
	inv.CurrentPrice = &price
	inv.CurrentValue = &currentValue
	return inv
}
