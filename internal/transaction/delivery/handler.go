package delivery

import (
	"net/http"
	"strconv"
	"time"

	"campusmate-backend/internal/transaction/usecase"

	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	txUsecase usecase.TransactionUsecase
}

func NewTransactionHandler(txUsecase usecase.TransactionUsecase) *TransactionHandler {
	return &TransactionHandler{
		txUsecase: txUsecase,
	}
}

type CreateTransactionRequest struct {
	Type     string    `json:"type" binding:"required"`
	Amount   float64   `json:"amount" binding:"required"`
	Category string    `json:"category"`
	Note     string    `json:"note"`
	Date     time.Time `json:"date"`
}

func parseRange(c *gin.Context) (time.Time, time.Time, error) {
	var from, to time.Time
	if s := c.Query("from"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return from, to, err
		}
		from = parsed
	}
	if s := c.Query("to"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return from, to, err
		}
		to = parsed
	}
	return from, to, nil
}

func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	from, to, err := parseRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date range, expected YYYY-MM-DD"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txs, total, err := h.txUsecase.GetUserTransactions(c.GetString("userID"), from, to, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs, "total": total})
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.txUsecase.CreateTransaction(c.GetString("userID"), req.Type, req.Amount, req.Category, req.Note, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, tx)
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	var updates usecase.TransactionUpdateRequest
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.txUsecase.UpdateTransaction(c.GetString("userID"), c.Param("id"), updates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	if err := h.txUsecase.DeleteTransaction(c.GetString("userID"), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction deleted"})
}

func (h *TransactionHandler) GetSummary(c *gin.Context) {
	from, to, err := parseRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date range, expected YYYY-MM-DD"})
		return
	}

	summary, err := h.txUsecase.GetBalanceSummary(c.GetString("userID"), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}
