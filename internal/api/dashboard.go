package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Delandiluca/finly/internal/models"
)

// ListAuditLogs handles GET /api/audit-logs with optional filters
func (h *Handler) ListAuditLogs(c *gin.Context) {
	filter := models.AuditLogFilter{
		UserID:     c.Query("userId"),
		EntityType: c.Query("entityType"),
		EntityID:   c.Query("entityId"),
		Action:     c.Query("action"),
		Limit:      intQuery(c, "limit", 0),
		Offset:     intQuery(c, "offset", 0),
		StartDate:  timeQuery(c, "startDate"),
		EndDate:    timeQuery(c, "endDate"),
	}

	resp, err := h.svc.ListAuditLogs(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DashboardSummary handles GET /api/dashboard/summary
func (h *Handler) DashboardSummary(c *gin.Context) {
	summary, err := h.svc.DashboardSummary(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
