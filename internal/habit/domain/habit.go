package domain

import "time"

type Habit struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"index;not null"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HabitLog marks a habit as completed on a given day. Date is stored
// truncated to midnight UTC so one row exists per habit per day.
type HabitLog struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	HabitID   string    `json:"habit_id" gorm:"index;not null"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	Date      time.Time `json:"date" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
}
