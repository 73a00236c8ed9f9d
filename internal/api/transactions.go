package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Delandiluca/finly/internal/models"
)

// CreateTransaction handles POST /api/transactions
func (h *Handler) CreateTransaction(c *gin.Context) {
	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	transaction, err := h.svc.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// ListTransactions handles GET /api/transactions with optional filters
func (h *Handler) ListTransactions(c *gin.Context) {
	filter := models.TransactionFilter{
		Type:       c.Query("type"),
		AccountID:  c.Query("accountId"),
		CategoryID: c.Query("categoryId"),
		Limit:      intQuery(c, "limit", 0),
		Offset:     intQuery(c, "offset", 0),
		StartDate:  timeQuery(c, "startDate"),
		EndDate:    timeQuery(c, "endDate"),
	}

	resp, err := h.svc.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetTransaction handles GET /api/transactions/:id
func (h *Handler) GetTransaction(c *gin.Context) {
	transaction, err := h.svc.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction handles PUT /api/transactions/:id
func (h *Handler) UpdateTransaction(c *gin.Context) {
	var req models.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	transaction, err := h.svc.UpdateTransaction(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles DELETE /api/transactions/:id
func (h *Handler) DeleteTransaction(c *gin.Context) {
	if err := h.svc.DeleteTransaction(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return value
}

func timeQuery(c *gin.Context, name string) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}
