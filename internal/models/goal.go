package models

import "time"

// GoalCategory represents the life-goal type of a savings goal.
type GoalCategory string

const (
	GoalCategoryCasa          GoalCategory = "casa"
	GoalCategoryCarro         GoalCategory = "carro"
	GoalCategoryViagem        GoalCategory = "viagem"
	GoalCategoryEducacao      GoalCategory = "educacao"
	GoalCategoryAposentadoria GoalCategory = "aposentadoria"
	GoalCategoryEmergencia    GoalCategory = "emergencia"
	GoalCategorySaude         GoalCategory = "saude"
	GoalCategoryOutros        GoalCategory = "outros"
)

// GoalStatus represents the lifecycle status of a goal. These are wire
// values consumed by the frontend and must not be translated.
type GoalStatus string

const (
	GoalStatusEmAndamento GoalStatus = "em_andamento"
	GoalStatusConcluido   GoalStatus = "concluido"
	GoalStatusAtrasado    GoalStatus = "atrasado"
)

// Goal represents a savings target with a deadline. Amounts are in
// centavos. CurrentAmount starts at zero and is advanced by goal
// allocations (from investments or directly from the cash balance).
type Goal struct {
	Base
	UserID        string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string       `gorm:"not null" json:"name"`
	Category      GoalCategory `gorm:"not null" json:"category"`
	TargetAmount  int64        `gorm:"type:bigint;not null" json:"target_amount"`
	CurrentAmount int64        `gorm:"type:bigint;not null;default:0" json:"current_amount"`
	Deadline      time.Time    `gorm:"not null" json:"deadline"`
	Description   string       `json:"description"`
}

// GoalAllocation is a directed, amount-tagged link from an investment lot
// to a goal: funds earmarked toward the goal, not physically transferred.
// GoalName is a denormalized snapshot taken at allocation time so records
// stay readable after the goal is renamed.
type GoalAllocation struct {
	Base
	InvestmentID    string    `gorm:"type:uuid;not null;index" json:"investment_id"`
	GoalID          string    `gorm:"type:uuid;not null;index" json:"goal_id"`
	GoalName        string    `gorm:"not null" json:"goal_name"`
	AllocatedAmount int64     `gorm:"type:bigint;not null" json:"allocated_amount"`
	AllocatedAt     time.Time `gorm:"not null" json:"allocated_at"`
}
