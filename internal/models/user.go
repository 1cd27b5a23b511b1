package models

import "time"

// User represents the user model in the database.
// Balance is the user's cash balance in centavos, maintained by the
// transaction service and drawn on by direct-balance goal allocations.
type User struct {
	Base
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	Balance             int64      `gorm:"type:bigint;not null;default:0" json:"balance"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash    string     `gorm:"size:64" json:"-"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`

	Categories   []BudgetCategory `gorm:"foreignKey:UserID" json:"categories,omitempty"`
	Transactions []Transaction    `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	Goals        []Goal           `gorm:"foreignKey:UserID" json:"goals,omitempty"`
	Investments  []Investment     `gorm:"foreignKey:UserID" json:"investments,omitempty"`
}
