package domain

import "time"

// Priority represents task priority level
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Task represents a to-do item
type Task struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	UserID       string     `json:"user_id" gorm:"index;not null"`
	Title        string     `json:"title" gorm:"not null"`
	Description  string     `json:"description,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Priority     Priority   `json:"priority" gorm:"default:medium"`
	Status       TaskStatus `json:"status" gorm:"default:pending"`
	ReminderAt   *time.Time `json:"reminder_at,omitempty"`
	ReminderSent bool       `json:"reminder_sent" gorm:"default:false"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
