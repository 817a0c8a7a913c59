package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campusmate-backend/internal/portal/domain"
	"campusmate-backend/internal/portal/repository"
	"campusmate-backend/internal/portal/usecase"
)

type PortalHandler struct {
	coordinator *usecase.SyncCoordinator
	gradeRepo   repository.GradeRepository
	historyRepo repository.HistoryRepository
	statsRepo   repository.StatsRepository
}

func NewPortalHandler(
	coordinator *usecase.SyncCoordinator,
	gradeRepo repository.GradeRepository,
	historyRepo repository.HistoryRepository,
	statsRepo repository.StatsRepository,
) *PortalHandler {
	return &PortalHandler{
		coordinator: coordinator,
		gradeRepo:   gradeRepo,
		historyRepo: historyRepo,
		statsRepo:   statsRepo,
	}
}

// TriggerSync is the manual sync endpoint. The error taxonomy maps to
// distinct statuses so the UI can tell "busy" from "portal down".
func (h *PortalHandler) TriggerSync(c *gin.Context) {
	userID := c.GetString("userID")

	outcome, err := h.coordinator.RunSync(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRobotBusy):
			c.JSON(http.StatusConflict, gin.H{"error": "a sync is already running, try again later"})
		case errors.Is(err, domain.ErrNoCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no portal account linked"})
		case errors.Is(err, domain.ErrLoginFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": "portal login failed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, outcome)
}

func (h *PortalHandler) GetGrades(c *gin.Context) {
	userID := c.GetString("userID")

	records, err := h.gradeRepo.FindByUserID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"grades": records})
}

func (h *PortalHandler) GetHistory(c *gin.Context) {
	userID := c.GetString("userID")

	records, err := h.historyRepo.FindByUserID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": records})
}

func (h *PortalHandler) GetStats(c *gin.Context) {
	userID := c.GetString("userID")

	stats, err := h.statsRepo.FindByUserID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if stats == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no stats yet, run a sync first"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
