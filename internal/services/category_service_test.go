package services

import (
	"testing"
	"time"

	"grana/internal/finance"
	"grana/internal/models"
	"grana/internal/pagination"
	"grana/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		cat, err := svc.CreateCategory(user.ID, "Alimentação", 100000, "Mercado e restaurantes", "cart", "#FF0000")
		testutil.AssertNoError(t, err)

		if cat.ID == "" {
			t.Fatal("expected non-empty category ID")
		}
		if cat.Name != "Alimentação" {
			t.Errorf("expected name Alimentação, got %s", cat.Name)
		}
		if cat.MonthlyLimit != 100000 {
			t.Errorf("expected limit 100000, got %d", cat.MonthlyLimit)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "", 100000, "", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("negative_limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "Lazer", -1, "", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	testutil.CreateTestCategory(t, db, user.ID, 50000)
	testutil.CreateTestCategory(t, db, user.ID, 30000)
	testutil.CreateTestCategory(t, db, other.ID, 10000)

	page, err := svc.GetUserCategories(user.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)

	if page.TotalItems != 2 {
		t.Errorf("expected 2 categories, got %d", page.TotalItems)
	}
	for _, cat := range page.Data {
		if cat.UserID != user.ID {
			t.Errorf("expected only own categories, got one for user %s", cat.UserID)
		}
	}
}

func TestGetCategoryByID(t *testing.T) {
	t.Run("found_with_expenses", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, 50000)
		testutil.CreateTestExpense(t, db, user.ID, cat.ID, 1500)

		got, err := svc.GetCategoryByID(user.ID, cat.ID)
		testutil.AssertNoError(t, err)
		if len(got.Expenses) != 1 {
			t.Errorf("expected 1 preloaded expense, got %d", len(got.Expenses))
		}
	})

	t.Run("other_users_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, other.ID, 50000)

		_, err := svc.GetCategoryByID(user.ID, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestUpdateCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db)
	cat := testutil.CreateTestCategory(t, db, user.ID, 50000)

	newLimit := int64(80000)
	_, err := svc.UpdateCategory(user.ID, cat.ID, "Transporte", &newLimit, "", "", "#00FF00")
	testutil.AssertNoError(t, err)

	got, err := svc.GetCategoryByID(user.ID, cat.ID)
	testutil.AssertNoError(t, err)
	if got.Name != "Transporte" {
		t.Errorf("expected name Transporte, got %s", got.Name)
	}
	if got.MonthlyLimit != 80000 {
		t.Errorf("expected limit 80000, got %d", got.MonthlyLimit)
	}
	if got.Color != "#00FF00" {
		t.Errorf("expected color #00FF00, got %s", got.Color)
	}
}

func TestDeleteCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db)
	cat := testutil.CreateTestCategory(t, db, user.ID, 50000)
	testutil.CreateTestExpense(t, db, user.ID, cat.ID, 1500)
	testutil.CreateTestExpense(t, db, user.ID, cat.ID, 2500)

	err := svc.DeleteCategory(user.ID, cat.ID)
	testutil.AssertNoError(t, err)

	_, err = svc.GetCategoryByID(user.ID, cat.ID)
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")

	// Expenses must go with the category
	var count int64
	db.Model(&models.BudgetExpense{}).Where("category_id = ?", cat.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected 0 expenses after cascade delete, got %d", count)
	}
}

func TestAddExpense(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, 50000)

		expense, err := svc.AddExpense(user.ID, cat.ID, 1500, "Padaria", time.Now(), nil)
		testutil.AssertNoError(t, err)
		if expense.CategoryID != cat.ID {
			t.Errorf("expected category %s, got %s", cat.ID, expense.CategoryID)
		}
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, 50000)

		_, err := svc.AddExpense(user.ID, cat.ID, 0, "", time.Now(), nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("other_users_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, other.ID, 50000)

		_, err := svc.AddExpense(user.ID, cat.ID, 1500, "", time.Now(), nil)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestCategoryStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db)
	cat := testutil.CreateTestCategory(t, db, user.ID, 100000)

	testutil.CreateTestExpense(t, db, user.ID, cat.ID, 30000)
	testutil.CreateTestExpense(t, db, user.ID, cat.ID, 50000)

	period := finance.CurrentMonth(time.Now())
	status, err := svc.CategoryStatus(user.ID, cat.ID, period)
	testutil.AssertNoError(t, err)

	if status.CurrentSpent != 80000 {
		t.Errorf("expected spent 80000, got %d", status.CurrentSpent)
	}
	if status.PercentUsed != 80 {
		t.Errorf("expected 80%% used, got %f", status.PercentUsed)
	}
	if status.Status != finance.BudgetStatusWarning {
		t.Errorf("expected warning status, got %s", status.Status)
	}
	if status.RemainingBudget != 20000 {
		t.Errorf("expected remaining 20000, got %d", status.RemainingBudget)
	}
}

func TestBudgetSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db)

	ok := testutil.CreateTestCategory(t, db, user.ID, 100000)
	exceeded := testutil.CreateTestCategory(t, db, user.ID, 10000)
	testutil.CreateTestExpense(t, db, user.ID, ok.ID, 10000)
	testutil.CreateTestExpense(t, db, user.ID, exceeded.ID, 12000)

	summary, err := svc.BudgetSummary(user.ID, finance.CurrentMonth(time.Now()))
	testutil.AssertNoError(t, err)

	if summary.CategoryCount != 2 {
		t.Errorf("expected 2 categories, got %d", summary.CategoryCount)
	}
	if summary.TotalSpent != 22000 {
		t.Errorf("expected total spent 22000, got %d", summary.TotalSpent)
	}
	if summary.OKCount != 1 || summary.ExceededCount != 1 {
		t.Errorf("expected 1 ok and 1 exceeded, got %d and %d", summary.OKCount, summary.ExceededCount)
	}
}
