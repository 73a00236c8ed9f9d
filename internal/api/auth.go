package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Delandiluca/finly/internal/models"
)

// SignUp handles POST /api/auth/signup
func (h *Handler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	resp, err := h.svc.SignUp(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateOrganization handles POST /api/organizations
func (h *Handler) CreateOrganization(c *gin.Context) {
	var req models.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	org, err := h.svc.CreateOrganization(c.Request.Context(), c.GetString("userId"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"organization": org})
}

// ListOrganizations handles GET /api/organizations
func (h *Handler) ListOrganizations(c *gin.Context) {
	orgs, err := h.svc.ListOrganizations(c.Request.Context(), c.GetString("userId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"organizations": orgs})
}

// SelectOrganization handles POST /api/organizations/:id/select
func (h *Handler) SelectOrganization(c *gin.Context) {
	resp, err := h.svc.SelectOrganization(c.Request.Context(), c.GetString("userId"), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
