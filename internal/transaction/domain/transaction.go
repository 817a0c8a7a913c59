package domain

import "time"

const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

type Transaction struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	Type      string    `json:"type" gorm:"not null"` // income | expense
	Amount    float64   `json:"amount" gorm:"not null"`
	Category  string    `json:"category"`
	Note      string    `json:"note"`
	Date      time.Time `json:"date" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BalanceSummary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}
