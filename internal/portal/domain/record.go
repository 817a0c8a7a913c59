package domain

import "time"

// CourseGradeRecord holds the parsed grade book of one active course.
// Unique per (UserID, CourseURL); a sync replaces the whole set for a user.
type CourseGradeRecord struct {
	ID              string       `json:"id" gorm:"primaryKey"`
	UserID          string       `json:"user_id" gorm:"uniqueIndex:idx_grade_user_course;not null"`
	CourseURL       string       `json:"course_url" gorm:"uniqueIndex:idx_grade_user_course;not null"`
	CourseName      string       `json:"course_name"`
	TotalPercentage string       `json:"total_percentage"`
	Assessments     []Assessment `json:"assessments" gorm:"serializer:json"`
	LastUpdated     time.Time    `json:"last_updated"`
}

// Assessment is one weighted grade-book section (quizzes, assignments, ...)
// with the child rows that followed it in the table.
type Assessment struct {
	Name       string   `json:"name"`
	Weight     string   `json:"weight"`
	Percentage string   `json:"percentage"`
	Details    []Detail `json:"details"`
}

// Detail is a single graded item inside an assessment.
type Detail struct {
	Name          string `json:"name"`
	MaxMarks      string `json:"max_marks"`
	ObtainedMarks string `json:"obtained_marks"`
	ClassAverage  string `json:"class_average"`
	Percentage    string `json:"percentage"`
}

// ResultHistoryRecord holds one transcript semester. Unique per
// (UserID, Term); fully replaced per sync.
type ResultHistoryRecord struct {
	ID          string           `json:"id" gorm:"primaryKey"`
	UserID      string           `json:"user_id" gorm:"uniqueIndex:idx_history_user_term;not null"`
	Term        string           `json:"term" gorm:"uniqueIndex:idx_history_user_term;not null"`
	SGPA        string           `json:"sgpa"`
	CGPA        string           `json:"cgpa"`
	EarnedCH    string           `json:"earned_ch"`
	Courses     []SemesterCourse `json:"courses" gorm:"serializer:json"`
	LastUpdated time.Time        `json:"last_updated"`
}

// SemesterCourse is one completed course row within a transcript semester.
type SemesterCourse struct {
	Name        string `json:"name"`
	CreditHours string `json:"credit_hours"`
	GradePoints string `json:"grade_points"`
	FinalGrade  string `json:"final_grade"`
}

// StudentStatsRecord is the single per-user aggregate derived after a sync.
type StudentStatsRecord struct {
	UserID       string    `json:"user_id" gorm:"primaryKey"`
	CGPA         string    `json:"cgpa"`
	Credits      float64   `json:"credits"`
	InProgressCr int       `json:"inprogress_cr"`
	LastUpdated  time.Time `json:"last_updated"`
}

// SyncOutcome reports what a completed run actually did. Partial failures
// (skipped courses, missing history) are surfaced here instead of being
// visible only in logs.
type SyncOutcome struct {
	UserID         string    `json:"user_id"`
	CoursesFound   int       `json:"courses_found"`
	CoursesSynced  int       `json:"courses_synced"`
	CoursesSkipped int       `json:"courses_skipped"`
	HistorySynced  bool      `json:"history_synced"`
	SemesterCount  int       `json:"semester_count"`
	FinishedAt     time.Time `json:"finished_at"`
}
