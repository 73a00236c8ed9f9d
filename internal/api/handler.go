package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Delandiluca/finly/internal/models"
	"github.com/Delandiluca/finly/internal/repository"
	"github.com/Delandiluca/finly/internal/service"
	"github.com/Delandiluca/finly/internal/tenant"
)

// Handler holds the API handlers
type Handler struct {
	svc service.Service
	log *logrus.Logger
}

// NewHandler creates a new API handler
func NewHandler(svc service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// SetupRoutes registers all API routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")

	api.POST("/auth/signup", h.SignUp)
	api.POST("/auth/login", h.Login)

	authed := api.Group("", AuthMiddleware())
	authed.POST("/organizations", h.CreateOrganization)
	authed.GET("/organizations", h.ListOrganizations)
	authed.POST("/organizations/:id/select", h.SelectOrganization)

	scoped := authed.Group("", TenantMiddleware())

	scoped.POST("/accounts", h.CreateAccount)
	scoped.GET("/accounts", h.ListAccounts)
	scoped.GET("/accounts/:id", h.GetAccount)
	scoped.PUT("/accounts/:id", h.UpdateAccount)
	scoped.DELETE("/accounts/:id", h.DeleteAccount)

	scoped.POST("/categories", h.CreateCategory)
	scoped.GET("/categories", h.ListCategories)
	scoped.POST("/categories/seed", h.SeedCategories)
	scoped.GET("/categories/:id", h.GetCategory)
	scoped.PUT("/categories/:id", h.UpdateCategory)
	scoped.DELETE("/categories/:id", h.DeleteCategory)

	scoped.POST("/transactions", h.CreateTransaction)
	scoped.GET("/transactions", h.ListTransactions)
	scoped.GET("/transactions/:id", h.GetTransaction)
	scoped.PUT("/transactions/:id", h.UpdateTransaction)
	scoped.DELETE("/transactions/:id", h.DeleteTransaction)

	scoped.GET("/audit-logs", h.ListAuditLogs)
	scoped.GET("/dashboard/summary", h.DashboardSummary)
}

// respondError maps service and repository errors onto the HTTP error
// taxonomy. Security violations and unexpected failures surface as a
// generic server error with the detail kept in the logs.
func (h *Handler) respondError(c *gin.Context, err error) {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:  "error",
			Code:    "VALIDATION_ERROR",
			Message: validation.Message,
		})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Status:  "error",
			Code:    "NOT_FOUND",
			Message: "Resource not found",
		})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Status:  "error",
			Code:    "EMAIL_TAKEN",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Status:  "error",
			Code:    "UNAUTHORIZED",
			Message: err.Error(),
		})
	case tenant.IsViolation(err):
		// A scoped call ran without an organization scope. This is a
		// programming defect, never expected in correct code paths.
		h.log.WithError(err).WithField("path", c.FullPath()).Error("Handler.SecurityViolation")
		c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Status:  "error",
			Code:    "INTERNAL_ERROR",
			Message: "Internal server error",
		})
	default:
		h.log.WithError(err).WithField("path", c.FullPath()).Error("Handler.Error")
		c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Status:  "error",
			Code:    "INTERNAL_ERROR",
			Message: "Internal server error",
		})
	}
}

func (h *Handler) respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    "VALIDATION_ERROR",
		Message: err.Error(),
	})
}
