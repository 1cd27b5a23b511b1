package services

import (
	"testing"
	"time"

	"grana/internal/models"
	"grana/internal/pagination"
	"grana/internal/testutil"
)

func TestCreateTransaction(t *testing.T) {
	t.Run("income_increases_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.CreateTransaction(user.ID, models.TransactionTypeIncome, 500000, "Salário", "trabalho", time.Now(), nil)
		testutil.AssertNoError(t, err)
		if tx.ID == "" {
			t.Fatal("expected non-empty transaction ID")
		}

		var got models.User
		db.First(&got, "id = ?", user.ID)
		if got.Balance != 500000 {
			t.Errorf("expected balance 500000, got %d", got.Balance)
		}
	})

	t.Run("expense_decreases_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, models.TransactionTypeIncome, 100000, "", "", time.Now(), nil)
		testutil.AssertNoError(t, err)
		_, err = svc.CreateTransaction(user.ID, models.TransactionTypeExpense, 30000, "Mercado", "alimentacao", time.Now(), nil)
		testutil.AssertNoError(t, err)

		var got models.User
		db.First(&got, "id = ?", user.ID)
		if got.Balance != 70000 {
			t.Errorf("expected balance 70000, got %d", got.Balance)
		}
	})

	t.Run("expense_with_budget_allocation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, 100000)

		tx, err := svc.CreateTransaction(user.ID, models.TransactionTypeExpense, 25000, "Mercado", "", time.Now(), &cat.ID)
		testutil.AssertNoError(t, err)

		var expense models.BudgetExpense
		err = db.Where("transaction_id = ?", tx.ID).First(&expense).Error
		testutil.AssertNoError(t, err)
		if expense.CategoryID != cat.ID {
			t.Errorf("expected expense in category %s, got %s", cat.ID, expense.CategoryID)
		}
		if expense.Amount != 25000 {
			t.Errorf("expected expense amount 25000, got %d", expense.Amount)
		}
	})

	t.Run("allocation_to_unknown_category_rolls_back", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		bogus := "00000000-0000-0000-0000-000000000000"
		_, err := svc.CreateTransaction(user.ID, models.TransactionTypeExpense, 25000, "", "", time.Now(), &bogus)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")

		// Nothing may have been persisted
		var count int64
		db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 0 {
			t.Errorf("expected 0 transactions after rollback, got %d", count)
		}
		var got models.User
		db.First(&got, "id = ?", user.ID)
		if got.Balance != 0 {
			t.Errorf("expected untouched balance, got %d", got.Balance)
		}
	})

	t.Run("allocation_on_income_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, 100000)

		_, err := svc.CreateTransaction(user.ID, models.TransactionTypeIncome, 25000, "", "", time.Now(), &cat.ID)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, models.TransactionTypeIncome, 0, "", "", time.Now(), nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, 100000)
	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 5000)
	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 20000)
	testutil.CreateTestTransaction(t, db, other.ID, models.TransactionTypeExpense, 999)

	t.Run("all", func(t *testing.T) {
		page, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 3 {
			t.Errorf("expected 3 transactions, got %d", page.TotalItems)
		}
	})

	t.Run("filter_by_type", func(t *testing.T) {
		expense := models.TransactionTypeExpense
		page, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{Type: &expense})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Errorf("expected 2 expenses, got %d", page.TotalItems)
		}
	})

	t.Run("filter_by_amount", func(t *testing.T) {
		min := int64(10000)
		page, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{MinAmount: &min})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Errorf("expected 2 transactions >= 10000, got %d", page.TotalItems)
		}
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("reverts_balance_and_expense", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, 100000)

		tx, err := svc.CreateTransaction(user.ID, models.TransactionTypeExpense, 25000, "Mercado", "", time.Now(), &cat.ID)
		testutil.AssertNoError(t, err)

		err = svc.DeleteTransaction(user.ID, tx.ID)
		testutil.AssertNoError(t, err)

		var got models.User
		db.First(&got, "id = ?", user.ID)
		if got.Balance != 0 {
			t.Errorf("expected balance back at 0, got %d", got.Balance)
		}

		var count int64
		db.Model(&models.BudgetExpense{}).Where("transaction_id = ?", tx.ID).Count(&count)
		if count != 0 {
			t.Errorf("expected linked expense deleted, got %d", count)
		}
	})

	t.Run("other_users_transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)

		tx := testutil.CreateTestTransaction(t, db, other.ID, models.TransactionTypeIncome, 1000)

		err := svc.DeleteTransaction(user.ID, tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}
