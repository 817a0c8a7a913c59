package repository

import (
	"errors"
	"time"

	"campusmate-backend/internal/event/domain"

	"gorm.io/gorm"
)

type EventRepository interface {
	Create(event *domain.Event) error
	FindByID(id string) (*domain.Event, error)
	FindByUserID(userID string, from, to time.Time) ([]*domain.Event, error)
	Update(event *domain.Event) error
	Delete(id string) error
}

type gormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) EventRepository {
	return &gormEventRepository{db: db}
}

func (r *gormEventRepository) Create(event *domain.Event) error {
	return r.db.Create(event).Error
}

func (r *gormEventRepository) FindByID(id string) (*domain.Event, error) {
	var event domain.Event
	err := r.db.Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (r *gormEventRepository) FindByUserID(userID string, from, to time.Time) ([]*domain.Event, error) {
	query := r.db.Where("user_id = ?", userID)
	if !from.IsZero() {
		query = query.Where("start_time >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("start_time <= ?", to)
	}

	var events []*domain.Event
	err := query.Order("start_time ASC").Find(&events).Error
	return events, err
}

func (r *gormEventRepository) Update(event *domain.Event) error {
	return r.db.Save(event).Error
}

func (r *gormEventRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&domain.Event{}).Error
}
