package service

import (
	"context"
	"fmt"

	"github.com/Delandiluca/finly/internal/models"
	"github.com/Delandiluca/finly/internal/tenant"
)

// Default category sets created by SeedCategories
var defaultExpenseCategories = []struct{ Name, Icon, Color string }{
	{"Alimentação", "🍔", "#ef4444"},
	{"Transporte", "🚗", "#3b82f6"},
	{"Moradia", "🏠", "#8b5cf6"},
	{"Saúde", "💊", "#10b981"},
	{"Educação", "📚", "#f59e0b"},
	{"Lazer", "🎮", "#ec4899"},
	{"Compras", "🛍️", "#6366f1"},
	{"Assinaturas", "📺", "#14b8a6"},
	{"Contas", "📄", "#64748b"},
	{"Outros", "📦", "#94a3b8"},
}

var defaultIncomeCategories = []struct{ Name, Icon, Color string }{
	{"Salário", "💰", "#10b981"},
	{"Freelance", "💼", "#3b82f6"},
	{"Investimentos", "📈", "#8b5cf6"},
	{"Vendas", "🛒", "#f59e0b"},
	{"Outros", "💵", "#64748b"},
}

// CreateCategory creates a new category, rejecting duplicates of the
// same name and type within the organization.
func (s *DefaultService) CreateCategory(ctx context.Context, req models.CreateCategoryRequest) (*models.Category, error) {
	exists, err := s.store.Categories.ExistsByName(ctx, req.Name, req.Type)
	if err != nil {
		return nil, fmt.Errorf("error checking category name: %w", err)
	}
	if exists {
		return nil, newValidation("name", "a category with this name already exists")
	}

	userID, _ := tenant.UserID(ctx)

	category := &models.Category{
		Name:      req.Name,
		Type:      req.Type,
		Icon:      req.Icon,
		Color:     req.Color,
		IsActive:  true,
		CreatedBy: userID,
	}

	if err := s.store.Categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("error creating category: %w", err)
	}

	s.audit.Created(ctx, "category", category.ID, category)

	return category, nil
}

// GetCategory returns one category within the caller's organization
func (s *DefaultService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	return s.store.Categories.GetByID(ctx, id)
}

// ListCategories returns the organization's categories, optionally
// filtered by type.
func (s *DefaultService) ListCategories(ctx context.Context, categoryType string) ([]models.Category, error) {
	if categoryType != "" && categoryType != models.TypeIncome && categoryType != models.TypeExpense {
		return nil, newValidation("type", "type must be INCOME or EXPENSE")
	}

	return s.store.Categories.List(ctx, categoryType)
}

// UpdateCategory applies a partial update. The type is immutable: past
// transactions were validated against it.
func (s *DefaultService) UpdateCategory(ctx context.Context, id string, req models.UpdateCategoryRequest) (*models.Category, error) {
	existing, err := s.store.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	old := *existing

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Icon != nil {
		existing.Icon = req.Icon
	}
	if req.Color != nil {
		existing.Color = req.Color
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}

	if err := s.store.Categories.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("error updating category: %w", err)
	}

	s.audit.Updated(ctx, "category", existing.ID, old, existing)

	return existing, nil
}

// DeleteCategory soft-deletes the category
func (s *DefaultService) DeleteCategory(ctx context.Context, id string) error {
	existing, err := s.store.Categories.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Categories.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("error deleting category: %w", err)
	}

	s.audit.Deleted(ctx, "category", id, existing)

	return nil
}

// SeedCategories creates the default category sets for a fresh
// organization. It refuses to run once any category exists.
func (s *DefaultService) SeedCategories(ctx context.Context) (int, error) {
	count, err := s.store.Categories.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("error counting categories: %w", err)
	}
	if count > 0 {
		return 0, newValidation("categories", "organization already has categories")
	}

	userID, _ := tenant.UserID(ctx)

	categories := make([]*models.Category, 0, len(defaultExpenseCategories)+len(defaultIncomeCategories))
	for _, c := range defaultExpenseCategories {
		icon, color := c.Icon, c.Color
		categories = append(categories, &models.Category{
			Name: c.Name, Type: models.TypeExpense,
			Icon: &icon, Color: &color,
			IsActive: true, CreatedBy: userID,
		})
	}
	for _, c := range defaultIncomeCategories {
		icon, color := c.Icon, c.Color
		categories = append(categories, &models.Category{
			Name: c.Name, Type: models.TypeIncome,
			Icon: &icon, Color: &color,
			IsActive: true, CreatedBy: userID,
		})
	}

	if err := s.store.Categories.CreateBatch(ctx, categories); err != nil {
		return 0, fmt.Errorf("error seeding categories: %w", err)
	}

	for _, c := range categories {
		s.audit.Created(ctx, "category", c.ID, c)
	}

	return len(categories), nil
}
