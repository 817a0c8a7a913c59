package domain

import "time"

// Note is a free-form user note
type Note struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	Title     string    `json:"title" gorm:"not null"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags" gorm:"serializer:json"`
	Pinned    bool      `json:"pinned" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
