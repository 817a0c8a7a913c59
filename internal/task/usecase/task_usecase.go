package usecase

import (
	"errors"
	"time"

	"campusmate-backend/internal/task/domain"
	"campusmate-backend/internal/task/repository"

	"github.com/google/uuid"
)

// TaskUsecase defines the interface for task business logic
type TaskUsecase interface {
	CreateTask(userID, title, description string, dueDate, reminderAt *string, priority string) (*domain.Task, error)
	GetTaskByID(userID, taskID string) (*domain.Task, error)
	GetUserTasks(userID string, status *string, limit, offset int) ([]*domain.Task, int64, error)
	UpdateTask(userID, taskID string, updates TaskUpdateRequest) (*domain.Task, error)
	DeleteTask(userID, taskID string) error
}

// TaskUpdateRequest represents the fields that can be updated
type TaskUpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Status      *string `json:"status,omitempty"`
	ReminderAt  *string `json:"reminder_at,omitempty"`
}

type taskUsecase struct {
	taskRepo repository.TaskRepository
}

func NewTaskUsecase(taskRepo repository.TaskRepository) TaskUsecase {
	return &taskUsecase{
		taskRepo: taskRepo,
	}
}

func (u *taskUsecase) CreateTask(userID, title, description string, dueDate, reminderAt *string, priority string) (*domain.Task, error) {
	task := &domain.Task{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Priority:    parsePriority(priority),
		Status:      domain.TaskStatusPending,
	}

	if dueDate != nil && *dueDate != "" {
		if t, err := time.Parse(time.RFC3339, *dueDate); err == nil {
			task.DueDate = &t
		}
	}
	if reminderAt != nil && *reminderAt != "" {
		if t, err := time.Parse(time.RFC3339, *reminderAt); err == nil {
			task.ReminderAt = &t
		}
	}

	if err := u.taskRepo.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (u *taskUsecase) GetTaskByID(userID, taskID string) (*domain.Task, error) {
	task, err := u.taskRepo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, errors.New("task not found")
	}
	if task.UserID != userID {
		return nil, errors.New("unauthorized")
	}
	return task, nil
}

func (u *taskUsecase) GetUserTasks(userID string, status *string, limit, offset int) ([]*domain.Task, int64, error) {
	var statusFilter *domain.TaskStatus
	if status != nil && *status != "" {
		s := domain.TaskStatus(*status)
		statusFilter = &s
	}
	return u.taskRepo.FindByUserID(userID, statusFilter, limit, offset)
}

func (u *taskUsecase) UpdateTask(userID, taskID string, updates TaskUpdateRequest) (*domain.Task, error) {
	task, err := u.GetTaskByID(userID, taskID)
	if err != nil {
		return nil, err
	}

	if updates.Title != nil {
		task.Title = *updates.Title
	}
	if updates.Description != nil {
		task.Description = *updates.Description
	}
	if updates.Priority != nil {
		task.Priority = parsePriority(*updates.Priority)
	}
	if updates.Status != nil {
		task.Status = domain.TaskStatus(*updates.Status)
	}
	if updates.DueDate != nil {
		if *updates.DueDate == "" {
			task.DueDate = nil
		} else if t, err := time.Parse(time.RFC3339, *updates.DueDate); err == nil {
			task.DueDate = &t
		}
	}
	if updates.ReminderAt != nil {
		if *updates.ReminderAt == "" {
			task.ReminderAt = nil
			task.ReminderSent = false
		} else if t, err := time.Parse(time.RFC3339, *updates.ReminderAt); err == nil {
			task.ReminderAt = &t
			task.ReminderSent = false
		}
	}

	if err := u.taskRepo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (u *taskUsecase) DeleteTask(userID, taskID string) error {
	if _, err := u.GetTaskByID(userID, taskID); err != nil {
		return err
	}
	return u.taskRepo.Delete(taskID)
}

func parsePriority(p string) domain.Priority {
	switch domain.Priority(p) {
	case domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow:
		return domain.Priority(p)
	default:
		return domain.PriorityMedium
	}
}
