package finance

import (
	"time"

	"grana/internal/models"
)

// AllocationOutcome tags the result of a two-tier goal allocation attempt:
// investments are tried first, then the user's cash balance.
type AllocationOutcome string

const (
	AllocatedFromInvestments AllocationOutcome = "allocated_from_investments"
	AllocatedFromBalance     AllocationOutcome = "allocated_from_balance"
	InsufficientFunds        AllocationOutcome = "insufficient_funds"
)

// AvailableValue returns how much of a lot's current value is not yet
// earmarked to any goal. Never negative.
func AvailableValue(inv models.Investment) int64 {
	available := CurrentValueOrCost(inv)
	for _, a := range inv.GoalAllocations {
		available -= a.AllocatedAmount
	}
	if available < 0 {
		return 0
	}
	return available
}

// TotalAvailable sums the unallocated value across all lots.
func TotalAvailable(investments []models.Investment) int64 {
	var total int64
	for _, inv := range investments {
		total += AvailableValue(inv)
	}
	return total
}

// Allocate distributes amount toward a goal across the lots, greedily
// consuming each lot's available value in list order (water-fill). Lots
// with nothing available are skipped; no zero-amount record is ever
// created, and the new records sum to amount exactly.
//
// If amount exceeds the total available value the original slice is
// returned untouched with ok=false: failure never partially allocates.
// The returned slice and any lots it drew from are copies; the caller's
// slice is never mutated.
func Allocate(amount int64, goalID, goalName string, investments []models.Investment, at time.Time) (updated []models.Investment, created []models.GoalAllocation, ok bool) {
	if amount <= 0 || amount > TotalAvailable(investments) {
		return investments, nil, false
	}

	updated = make([]models.Investment, len(investments))
	copy(updated, investments)

	remaining := amount
	for i := range updated {
		if remaining == 0 {
			break
		}
		available := AvailableValue(updated[i])
		if available == 0 {
			continue
		}

		draw := available
		if draw > remaining {
			draw = remaining
		}

		record := models.GoalAllocation{
			InvestmentID:    updated[i].ID,
			GoalID:          goalID,
			GoalName:        goalName,
			AllocatedAmount: draw,
			AllocatedAt:     at,
		}

		allocations := make([]models.GoalAllocation, len(updated[i].GoalAllocations), len(updated[i].GoalAllocations)+1)
		copy(allocations, updated[i].GoalAllocations)
		updated[i].GoalAllocations = append(allocations, record)

		created = append(created, record)
		remaining -= draw
	}

	return updated, created, true
}

// RemoveGoalAllocations strips every allocation record for the given goal
// from every lot, freeing that value for future allocation. It returns a
// new slice and does not touch the goal's current amount; that is a
// separate, caller-driven update.
func RemoveGoalAllocations(goalID string, investments []models.Investment) []models.Investment {
	updated := make([]models.Investment, len(investments))
	copy(updated, investments)

	for i := range updated {
		kept := make([]models.GoalAllocation, 0, len(updated[i].GoalAllocations))
		for _, a := range updated[i].GoalAllocations {
			if a.GoalID != goalID {
				kept = append(kept, a)
			}
		}
		updated[i].GoalAllocations = kept
	}
	return updated
}
