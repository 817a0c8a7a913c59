package usecase

import (
	"errors"
	"time"

	"campusmate-backend/internal/event/domain"
	"campusmate-backend/internal/event/repository"

	"github.com/google/uuid"
)

type EventUsecase interface {
	CreateEvent(userID string, req CreateEventRequest) (*domain.Event, error)
	GetUserEvents(userID string, from, to time.Time) ([]*domain.Event, error)
	GetEventByID(userID, eventID string) (*domain.Event, error)
	UpdateEvent(userID, eventID string, updates EventUpdateRequest) (*domain.Event, error)
	DeleteEvent(userID, eventID string) error
}

type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time"`
	AllDay      bool      `json:"all_day"`
	Color       string    `json:"color"`
}

type EventUpdateRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	AllDay      *bool      `json:"all_day,omitempty"`
	Color       *string    `json:"color,omitempty"`
}

type eventUsecase struct {
	eventRepo repository.EventRepository
}

func NewEventUsecase(eventRepo repository.EventRepository) EventUsecase {
	return &eventUsecase{eventRepo: eventRepo}
}

func (u *eventUsecase) CreateEvent(userID string, req CreateEventRequest) (*domain.Event, error) {
	if !req.EndTime.IsZero() && req.EndTime.Before(req.StartTime) {
		return nil, errors.New("end_time must not be before start_time")
	}

	event := &domain.Event{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		AllDay:      req.AllDay,
		Color:       req.Color,
	}
	if err := u.eventRepo.Create(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (u *eventUsecase) GetUserEvents(userID string, from, to time.Time) ([]*domain.Event, error) {
	return u.eventRepo.FindByUserID(userID, from, to)
}

func (u *eventUsecase) GetEventByID(userID, eventID string) (*domain.Event, error) {
	event, err := u.eventRepo.FindByID(eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, errors.New("event not found")
	}
	if event.UserID != userID {
		return nil, errors.New("unauthorized")
	}
	return event, nil
}

func (u *eventUsecase) UpdateEvent(userID, eventID string, updates EventUpdateRequest) (*domain.Event, error) {
	event, err := u.GetEventByID(userID, eventID)
	if err != nil {
		return nil, err
	}

	if updates.Title != nil {
		event.Title = *updates.Title
	}
	if updates.Description != nil {
		event.Description = *updates.Description
	}
	if updates.Location != nil {
		event.Location = *updates.Location
	}
	if updates.StartTime != nil {
		event.StartTime = *updates.StartTime
	}
	if updates.EndTime != nil {
		event.EndTime = *updates.EndTime
	}
	if updates.AllDay != nil {
		event.AllDay = *updates.AllDay
	}
	if updates.Color != nil {
		event.Color = *updates.Color
	}

	if !event.EndTime.IsZero() && event.EndTime.Before(event.StartTime) {
		return nil, errors.New("end_time must not be before start_time")
	}

	if err := u.eventRepo.Update(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (u *eventUsecase) DeleteEvent(userID, eventID string) error {
	if _, err := u.GetEventByID(userID, eventID); err != nil {
		return err
	}
	return u.eventRepo.Delete(eventID)
}
