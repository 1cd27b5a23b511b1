package finance

import "grana/internal/models"

// BudgetStatus is the three-state severity of a category's spend against
// its monthly limit.
type BudgetStatus string

const (
	BudgetStatusOK       BudgetStatus = "ok"
	BudgetStatusWarning  BudgetStatus = "warning"
	BudgetStatusExceeded BudgetStatus = "exceeded"
)

// warningThreshold and exceededThreshold are the percent-used cutoffs.
// Both bounds are inclusive of the higher-severity bucket.
const (
	warningThreshold  = 80.0
	exceededThreshold = 100.0
)

// CategoryBudgetStatus is the derived view of one category for a period.
// It is recomputed in full on every mutation, never stored.
type CategoryBudgetStatus struct {
	Category        models.BudgetCategory  `json:"category"`
	MonthlyLimit    int64                  `json:"monthly_limit"`
	CurrentSpent    int64                  `json:"current_spent"`
	RemainingBudget int64                  `json:"remaining_budget"`
	PercentUsed     float64                `json:"percent_used"`
	Status          BudgetStatus           `json:"status"`
	Expenses        []models.BudgetExpense `json:"expenses"`
}

// BudgetSummary aggregates per-category statuses for a period.
type BudgetSummary struct {
	TotalBudget    int64                  `json:"total_budget"`
	TotalSpent     int64                  `json:"total_spent"`
	TotalRemaining int64                  `json:"total_remaining"`
	CategoryCount  int                    `json:"category_count"`
	OKCount        int                    `json:"ok_count"`
	WarningCount   int                    `json:"warning_count"`
	ExceededCount  int                    `json:"exceeded_count"`
	Categories     []CategoryBudgetStatus `json:"categories"`
}

// CategoryStatus computes the budget status of a single category from the
// given expense list, considering only expenses that belong to the category
// and fall inside the period.
//
// A zero monthly limit defines percent used as zero and status ok
// regardless of spend; remaining budget may go negative.
func CategoryStatus(category models.BudgetCategory, expenses []models.BudgetExpense, period Period) CategoryBudgetStatus {
	var spent int64
	matched := []models.BudgetExpense{}
	for _, e := range expenses {
		if e.CategoryID != category.ID || !period.Contains(e.Date) {
			continue
		}
		matched = append(matched, e)
		spent += e.Amount
	}

	var pct float64
	if category.MonthlyLimit > 0 {
		pct = float64(spent) / float64(category.MonthlyLimit) * 100
	}

	status := BudgetStatusOK
	switch {
	case category.MonthlyLimit > 0 && pct >= exceededThreshold:
		status = BudgetStatusExceeded
	case category.MonthlyLimit > 0 && pct >= warningThreshold:
		status = BudgetStatusWarning
	}

	return CategoryBudgetStatus{
		Category:        category,
		MonthlyLimit:    category.MonthlyLimit,
		CurrentSpent:    spent,
		RemainingBudget: category.MonthlyLimit - spent,
		PercentUsed:     pct,
		Status:          status,
		Expenses:        matched,
	}
}

// Summary rolls per-category statuses into a portfolio-level budget summary
// for the period. Totals are order-independent; the Categories slice keeps
// the input category order.
func Summary(categories []models.BudgetCategory, expenses []models.BudgetExpense, period Period) BudgetSummary {
	summary := BudgetSummary{
		CategoryCount: len(categories),
		Categories:    make([]CategoryBudgetStatus, 0, len(categories)),
	}

	for _, cat := range categories {
		st := CategoryStatus(cat, expenses, period)
		summary.TotalBudget += st.MonthlyLimit
		summary.TotalSpent += st.CurrentSpent
		switch st.Status {
		case BudgetStatusExceeded:
			summary.ExceededCount++
		case BudgetStatusWarning:
			summary.WarningCount++
		default:
			summary.OKCount++
		}
		summary.Categories = append(summary.Categories, st)
	}

	summary.TotalRemaining = summary.TotalBudget - summary.TotalSpent
	return summary
}
