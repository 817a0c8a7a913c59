package usecase

import (
	"testing"
	"time"

	"campusmate-backend/internal/habit/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memHabitRepo struct {
	habits map[string]*domain.Habit
	logs   map[string]*domain.HabitLog // keyed by habitID + date
}

func newMemHabitRepo() *memHabitRepo {
	return &memHabitRepo{
		habits: make(map[string]*domain.Habit),
		logs:   make(map[string]*domain.HabitLog),
	}
}

func logKey(habitID string, date time.Time) string {
	return habitID + "|" + date.Format("2006-01-02")
}

func (m *memHabitRepo) Create(h *domain.Habit) error {
	m.habits[h.ID] = h
	return nil
}

func (m *memHabitRepo) FindByID(id string) (*domain.Habit, error) {
	return m.habits[id], nil
}

func (m *memHabitRepo) FindByUserID(userID string) ([]*domain.Habit, error) {
	var out []*domain.Habit
	for _, h := range m.habits {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memHabitRepo) Update(h *domain.Habit) error {
	m.habits[h.ID] = h
	return nil
}

func (m *memHabitRepo) Delete(id string) error {
	delete(m.habits, id)
	return nil
}

func (m *memHabitRepo) CreateLog(l *domain.HabitLog) error {
	m.logs[logKey(l.HabitID, l.Date)] = l
	return nil
}

func (m *memHabitRepo) DeleteLog(habitID string, date time.Time) error {
	delete(m.logs, logKey(habitID, date))
	return nil
}

func (m *memHabitRepo) FindLog(habitID string, date time.Time) (*domain.HabitLog, error) {
	return m.logs[logKey(habitID, date)], nil
}

func (m *memHabitRepo) FindLogsByHabitID(habitID string, since time.Time) ([]*domain.HabitLog, error) {
	var out []*domain.HabitLog
	for _, l := range m.logs {
		if l.HabitID == habitID && !l.Date.Before(since) {
			out = append(out, l)
		}
	}
	return out, nil
}

func markDaysAgo(t *testing.T, uc HabitUsecase, userID, habitID string, daysAgo ...int) {
	t.Helper()
	for _, d := range daysAgo {
		done, err := uc.ToggleCompletion(userID, habitID, time.Now().UTC().AddDate(0, 0, -d))
		require.NoError(t, err)
		require.True(t, done)
	}
}

func TestToggleCompletionFlips(t *testing.T) {
	repo := newMemHabitRepo()
	uc := NewHabitUsecase(repo)
	habit, err := uc.CreateHabit("u1", "Morning run", "", "#ff0000")
	require.NoError(t, err)

	today := time.Now().UTC()
	done, err := uc.ToggleCompletion("u1", habit.ID, today)
	require.NoError(t, err)
	assert.True(t, done)

	done, err = uc.ToggleCompletion("u1", habit.ID, today)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestToggleCompletionRejectsOtherUser(t *testing.T) {
	repo := newMemHabitRepo()
	uc := NewHabitUsecase(repo)
	habit, err := uc.CreateHabit("u1", "Read", "", "")
	require.NoError(t, err)

	_, err = uc.ToggleCompletion("u2", habit.ID, time.Now().UTC())
	assert.Error(t, err)
}

func TestStreakCountsConsecutiveDays(t *testing.T) {
	repo := newMemHabitRepo()
	uc := NewHabitUsecase(repo)
	habit, err := uc.CreateHabit("u1", "Flashcards", "", "")
	require.NoError(t, err)

	// today, yesterday, two days ago; a gap before day 4
	markDaysAgo(t, uc, "u1", habit.ID, 0, 1, 2, 4)

	streak, err := uc.GetStreak("u1", habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, streak)
}

func TestStreakSurvivesUnfinishedToday(t *testing.T) {
	repo := newMemHabitRepo()
	uc := NewHabitUsecase(repo)
	habit, err := uc.CreateHabit("u1", "Stretch", "", "")
	require.NoError(t, err)

	// done yesterday and the day before, nothing yet today
	markDaysAgo(t, uc, "u1", habit.ID, 1, 2)

	streak, err := uc.GetStreak("u1", habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, streak)
}

func TestStreakZeroWithoutLogs(t *testing.T) {
	repo := newMemHabitRepo()
	uc := NewHabitUsecase(repo)
	habit, err := uc.CreateHabit("u1", "Meditate", "", "")
	require.NoError(t, err)

	streak, err := uc.GetStreak("u1", habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, streak)
}
