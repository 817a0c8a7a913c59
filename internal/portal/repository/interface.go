package repository

import "campusmate-backend/internal/portal/domain"

// GradeRepository stores per-course grade records with replace semantics:
// a sync deletes the user's whole set before writing the new one.
type GradeRepository interface {
	ReplaceForUser(userID string, records []*domain.CourseGradeRecord) error
	FindByUserID(userID string) ([]*domain.CourseGradeRecord, error)
}

// HistoryRepository stores transcript semesters, replaced as a set per sync.
type HistoryRepository interface {
	ReplaceForUser(userID string, records []*domain.ResultHistoryRecord) error
	FindByUserID(userID string) ([]*domain.ResultHistoryRecord, error)
}

// StatsRepository keeps the single derived stats record per user.
type StatsRepository interface {
	Upsert(stats *domain.StudentStatsRecord) error
	FindByUserID(userID string) (*domain.StudentStatsRecord, error)
}
