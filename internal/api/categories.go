package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Delandiluca/finly/internal/models"
)

// CreateCategory handles POST /api/categories
func (h *Handler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	category, err := h.svc.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// ListCategories handles GET /api/categories?type=INCOME|EXPENSE
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context(), c.Query("type"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategory handles GET /api/categories/:id
func (h *Handler) GetCategory(c *gin.Context) {
	category, err := h.svc.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// UpdateCategory handles PUT /api/categories/:id
func (h *Handler) UpdateCategory(c *gin.Context) {
	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	category, err := h.svc.UpdateCategory(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory handles DELETE /api/categories/:id (soft delete)
func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.svc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// SeedCategories handles POST /api/categories/seed
func (h *Handler) SeedCategories(c *gin.Context) {
	created, err := h.svc.SeedCategories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SeedCategoriesResponse{
		Status:  "success",
		Created: created,
	})
}
