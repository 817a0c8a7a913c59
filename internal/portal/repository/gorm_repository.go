package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campusmate-backend/internal/portal/domain"
)

type gormGradeRepository struct {
	db *gorm.DB
}

func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gormGradeRepository{db: db}
}

func (r *gormGradeRepository) ReplaceForUser(userID string, records []*domain.CourseGradeRecord) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&domain.CourseGradeRecord{}).Error; err != nil {
			return err
		}
		now := time.Now()
		for _, rec := range records {
			if rec.ID == "" {
				rec.ID = uuid.New().String()
			}
			rec.UserID = userID
			rec.LastUpdated = now
			if err := tx.Create(rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *gormGradeRepository) FindByUserID(userID string) ([]*domain.CourseGradeRecord, error) {
	var records []*domain.CourseGradeRecord
	err := r.db.Where("user_id = ?", userID).Order("course_name ASC").Find(&records).Error
	return records, err
}

type gormHistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &gormHistoryRepository{db: db}
}

func (r *gormHistoryRepository) ReplaceForUser(userID string, records []*domain.ResultHistoryRecord) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&domain.ResultHistoryRecord{}).Error; err != nil {
			return err
		}
		now := time.Now()
		for _, rec := range records {
			if rec.ID == "" {
				rec.ID = uuid.New().String()
			}
			rec.UserID = userID
			rec.LastUpdated = now
			if err := tx.Create(rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *gormHistoryRepository) FindByUserID(userID string) ([]*domain.ResultHistoryRecord, error) {
	var records []*domain.ResultHistoryRecord
	err := r.db.Where("user_id = ?", userID).Find(&records).Error
	return records, err
}

type gormStatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &gormStatsRepository{db: db}
}

func (r *gormStatsRepository) Upsert(stats *domain.StudentStatsRecord) error {
	stats.LastUpdated = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(stats).Error
}

func (r *gormStatsRepository) FindByUserID(userID string) (*domain.StudentStatsRecord, error) {
	var stats domain.StudentStatsRecord
	err := r.db.Where("user_id = ?", userID).First(&stats).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stats, nil
}
