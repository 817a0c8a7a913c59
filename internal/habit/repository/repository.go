package repository

import (
	"errors"
	"time"

	"campusmate-backend/internal/habit/domain"

	"gorm.io/gorm"
)

type HabitRepository interface {
	Create(habit *domain.Habit) error
	FindByID(id string) (*domain.Habit, error)
	FindByUserID(userID string) ([]*domain.Habit, error)
	Update(habit *domain.Habit) error
	Delete(id string) error

	CreateLog(log *domain.HabitLog) error
	DeleteLog(habitID string, date time.Time) error
	FindLog(habitID string, date time.Time) (*domain.HabitLog, error)
	FindLogsByHabitID(habitID string, since time.Time) ([]*domain.HabitLog, error)
}

type gormHabitRepository struct {
	db *gorm.DB
}

func NewGormHabitRepository(db *gorm.DB) HabitRepository {
	return &gormHabitRepository{db: db}
}

func (r *gormHabitRepository) Create(habit *domain.Habit) error {
	return r.db.Create(habit).Error
}

func (r *gormHabitRepository) FindByID(id string) (*domain.Habit, error) {
	var habit domain.Habit
	err := r.db.Where("id = ?", id).First(&habit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &habit, nil
}

func (r *gormHabitRepository) FindByUserID(userID string) ([]*domain.Habit, error) {
	var habits []*domain.Habit
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&habits).Error
	return habits, err
}

func (r *gormHabitRepository) Update(habit *domain.Habit) error {
	return r.db.Save(habit).Error
}

func (r *gormHabitRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("habit_id = ?", id).Delete(&domain.HabitLog{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Habit{}).Error
	})
}

func (r *gormHabitRepository) CreateLog(log *domain.HabitLog) error {
	return r.db.Create(log).Error
}

func (r *gormHabitRepository) DeleteLog(habitID string, date time.Time) error {
	return r.db.Where("habit_id = ? AND date = ?", habitID, date).Delete(&domain.HabitLog{}).Error
}

func (r *gormHabitRepository) FindLog(habitID string, date time.Time) (*domain.HabitLog, error) {
	var log domain.HabitLog
	err := r.db.Where("habit_id = ? AND date = ?", habitID, date).First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}

func (r *gormHabitRepository) FindLogsByHabitID(habitID string, since time.Time) ([]*domain.HabitLog, error) {
	var logs []*domain.HabitLog
	err := r.db.Where("habit_id = ? AND date >= ?", habitID, since).
		Order("date DESC").Find(&logs).Error
	return logs, err
}
