package usecase

import (
	"errors"
	"time"

	"campusmate-backend/internal/habit/domain"
	"campusmate-backend/internal/habit/repository"

	"github.com/google/uuid"
)

type HabitUsecase interface {
	CreateHabit(userID, name, description, color string) (*domain.Habit, error)
	GetUserHabits(userID string) ([]*HabitWithStats, error)
	GetHabitByID(userID, habitID string) (*domain.Habit, error)
	UpdateHabit(userID, habitID string, updates HabitUpdateRequest) (*domain.Habit, error)
	DeleteHabit(userID, habitID string) error
	ToggleCompletion(userID, habitID string, date time.Time) (bool, error)
	GetStreak(userID, habitID string) (int, error)
}

type HabitUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

type HabitWithStats struct {
	*domain.Habit
	CompletedToday bool `json:"completed_today"`
	Streak         int  `json:"streak"`
}

type habitUsecase struct {
	habitRepo repository.HabitRepository
}

func NewHabitUsecase(habitRepo repository.HabitRepository) HabitUsecase {
	return &habitUsecase{habitRepo: habitRepo}
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (u *habitUsecase) CreateHabit(userID, name, description, color string) (*domain.Habit, error) {
	habit := &domain.Habit{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		Description: description,
		Color:       color,
	}
	if err := u.habitRepo.Create(habit); err != nil {
		return nil, err
	}
	return habit, nil
}

func (u *habitUsecase) GetUserHabits(userID string) ([]*HabitWithStats, error) {
	habits, err := u.habitRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	today := dayOf(time.Now().UTC())
	result := make([]*HabitWithStats, 0, len(habits))
	for _, habit := range habits {
		log, err := u.habitRepo.FindLog(habit.ID, today)
		if err != nil {
			return nil, err
		}
		streak, err := u.streakFor(habit.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, &HabitWithStats{
			Habit:          habit,
			CompletedToday: log != nil,
			Streak:         streak,
		})
	}
	return result, nil
}

func (u *habitUsecase) GetHabitByID(userID, habitID string) (*domain.Habit, error) {
	habit, err := u.habitRepo.FindByID(habitID)
	if err != nil {
		return nil, err
	}
	if habit == nil {
		return nil, errors.New("habit not found")
	}
	if habit.UserID != userID {
		return nil, errors.New("unauthorized")
	}
	return habit, nil
}

func (u *habitUsecase) UpdateHabit(userID, habitID string, updates HabitUpdateRequest) (*domain.Habit, error) {
	habit, err := u.GetHabitByID(userID, habitID)
	if err != nil {
		return nil, err
	}

	if updates.Name != nil {
		habit.Name = *updates.Name
	}
	if updates.Description != nil {
		habit.Description = *updates.Description
	}
	if updates.Color != nil {
		habit.Color = *updates.Color
	}

	if err := u.habitRepo.Update(habit); err != nil {
		return nil, err
	}
	return habit, nil
}

func (u *habitUsecase) DeleteHabit(userID, habitID string) error {
	if _, err := u.GetHabitByID(userID, habitID); err != nil {
		return err
	}
	return u.habitRepo.Delete(habitID)
}

// ToggleCompletion flips the completion mark for the given day and
// returns the new state (true = completed).
func (u *habitUsecase) ToggleCompletion(userID, habitID string, date time.Time) (bool, error) {
	if _, err := u.GetHabitByID(userID, habitID); err != nil {
		return false, err
	}

	day := dayOf(date.UTC())
	existing, err := u.habitRepo.FindLog(habitID, day)
	if err != nil {
		return false, err
	}
	if existing != nil {
		if err := u.habitRepo.DeleteLog(habitID, day); err != nil {
			return false, err
		}
		return false, nil
	}

	log := &domain.HabitLog{
		ID:      uuid.New().String(),
		HabitID: habitID,
		UserID:  userID,
		Date:    day,
	}
	if err := u.habitRepo.CreateLog(log); err != nil {
		return false, err
	}
	return true, nil
}

func (u *habitUsecase) GetStreak(userID, habitID string) (int, error) {
	if _, err := u.GetHabitByID(userID, habitID); err != nil {
		return 0, err
	}
	return u.streakFor(habitID)
}

// streakFor counts consecutive completed days ending today or
// yesterday. A habit not yet done today keeps yesterday's streak.
func (u *habitUsecase) streakFor(habitID string) (int, error) {
	since := dayOf(time.Now().UTC()).AddDate(0, 0, -365)
	logs, err := u.habitRepo.FindLogsByHabitID(habitID, since)
	if err != nil {
		return 0, err
	}
	if len(logs) == 0 {
		return 0, nil
	}

	days := make(map[time.Time]bool, len(logs))
	for _, log := range logs {
		days[dayOf(log.Date)] = true
	}

	cursor := dayOf(time.Now().UTC())
	if !days[cursor] {
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for days[cursor] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak, nil
}
