package delivery

import (
	"net/http"
	"time"

	"campusmate-backend/internal/habit/usecase"

	"github.com/gin-gonic/gin"
)

type HabitHandler struct {
	habitUsecase usecase.HabitUsecase
}

func NewHabitHandler(habitUsecase usecase.HabitUsecase) *HabitHandler {
	return &HabitHandler{
		habitUsecase: habitUsecase,
	}
}

type CreateHabitRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type ToggleHabitRequest struct {
	Date string `json:"date"` // YYYY-MM-DD, defaults to today
}

func (h *HabitHandler) GetHabits(c *gin.Context) {
	habits, err := h.habitUsecase.GetUserHabits(c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"habits": habits})
}

func (h *HabitHandler) CreateHabit(c *gin.Context) {
	var req CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habit, err := h.habitUsecase.CreateHabit(c.GetString("userID"), req.Name, req.Description, req.Color)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, habit)
}

func (h *HabitHandler) UpdateHabit(c *gin.Context) {
	var updates usecase.HabitUpdateRequest
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habit, err := h.habitUsecase.UpdateHabit(c.GetString("userID"), c.Param("id"), updates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) DeleteHabit(c *gin.Context) {
	if err := h.habitUsecase.DeleteHabit(c.GetString("userID"), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "habit deleted"})
}

func (h *HabitHandler) ToggleHabit(c *gin.Context) {
	var req ToggleHabitRequest
	_ = c.ShouldBindJSON(&req)

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	completed, err := h.habitUsecase.ToggleCompletion(c.GetString("userID"), c.Param("id"), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed": completed})
}

func (h *HabitHandler) GetStreak(c *gin.Context) {
	streak, err := h.habitUsecase.GetStreak(c.GetString("userID"), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"streak": streak})
}
