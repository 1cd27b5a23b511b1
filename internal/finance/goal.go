package finance

import (
	"math"
	"time"

	"grana/internal/models"
)

// GoalWithStatus is the derived view of a goal at a reference time.
// ProgressPercent is clamped to [0, 100] for display; completion is decided
// on the unclamped ratio, so an over-funded goal is still concluido.
type GoalWithStatus struct {
	models.Goal
	Status               models.GoalStatus `json:"status"`
	ProgressPercent      float64           `json:"progress_percent"`
	RemainingAmount      int64             `json:"remaining_amount"`
	DaysRemaining        int               `json:"days_remaining"`
	IsOverdue            bool              `json:"is_overdue"`
	MonthsRemaining      int               `json:"months_remaining"`
	MonthlySavingsNeeded int64             `json:"monthly_savings_needed"`
}

// GoalProgress computes the derived status of a goal at time now.
//
// Months remaining uses a coarse 30-day month and is floored at 1 so the
// monthly savings division is always defined, even for past deadlines.
// Status precedence: concluido beats atrasado beats em_andamento.
func GoalProgress(goal models.Goal, now time.Time) GoalWithStatus {
	var ratio float64
	if goal.TargetAmount > 0 {
		ratio = float64(goal.CurrentAmount) / float64(goal.TargetAmount) * 100
	}

	progress := ratio
	if progress > 100 {
		progress = 100
	}
	if progress < 0 {
		progress = 0
	}

	remaining := goal.TargetAmount - goal.CurrentAmount
	if remaining < 0 {
		remaining = 0
	}

	days := int(math.Ceil(goal.Deadline.Sub(now).Hours() / 24))
	overdue := days < 0

	months := int(math.Ceil(float64(days) / 30))
	if months < 1 {
		months = 1
	}

	var monthlyNeeded int64
	if remaining > 0 {
		monthlyNeeded = int64(math.Round(float64(remaining) / float64(months)))
	}

	status := models.GoalStatusEmAndamento
	switch {
	case ratio >= 100:
		status = models.GoalStatusConcluido
	case overdue:
		status = models.GoalStatusAtrasado
	}

	return GoalWithStatus{
		Goal:                 goal,
		Status:               status,
		ProgressPercent:      progress,
		RemainingAmount:      remaining,
		DaysRemaining:        days,
		IsOverdue:            overdue,
		MonthsRemaining:      months,
		MonthlySavingsNeeded: monthlyNeeded,
	}
}
