package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Delandiluca/finly/internal/models"
)

// CategoriesRepository manages category rows, scoped to the caller's
// organization.
type CategoriesRepository struct {
	db *sqlx.DB
}

// Create inserts a new category, stamping it with the scope's organization
func (r *CategoriesRepository) Create(ctx context.Context, category *models.Category) error {
	scope, err := requireScope(ctx, "categories")
	if err != nil {
		return err
	}

	prepareCategory(category, scope.OrganizationID)

	_, err = r.db.ExecContext(ctx, insertCategorySQL,
		category.ID, category.OrganizationID, category.Name, category.Type,
		category.Icon, category.Color, category.IsActive, category.CreatedBy,
		category.CreatedAt, category.UpdatedAt)

	return err
}

// CreateBatch inserts several categories as one atomic unit. Every row is
// stamped with the scope's organization, regardless of what the caller
// put on the models.
func (r *CategoriesRepository) CreateBatch(ctx context.Context, categories []*models.Category) error {
	scope, err := requireScope(ctx, "categories")
	if err != nil {
		return err
	}

	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, category := range categories {
			prepareCategory(category, scope.OrganizationID)

			if _, err := tx.ExecContext(ctx, insertCategorySQL,
				category.ID, category.OrganizationID, category.Name, category.Type,
				category.Icon, category.Color, category.IsActive, category.CreatedBy,
				category.CreatedAt, category.UpdatedAt); err != nil {
				return err
			}
		}
		return nil
	})
}

const insertCategorySQL = `
	INSERT INTO categories (id, organization_id, name, type, icon, color,
		is_active, created_by, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

func prepareCategory(category *models.Category, orgID string) {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	category.OrganizationID = orgID

	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now
}

// GetByID returns the category within the caller's organization, or
// ErrNotFound.
func (r *CategoriesRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	scope, err := requireScope(ctx, "categories")
	if err != nil {
		return nil, err
	}

	var category models.Category
	err = r.db.GetContext(ctx, &category,
		`SELECT * FROM categories WHERE id = $1 AND organization_id = $2`,
		id, scope.OrganizationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &category, nil
}

// List returns the organization's categories, optionally filtered by type
func (r *CategoriesRepository) List(ctx context.Context, categoryType string) ([]models.Category, error) {
	scope, err := requireScope(ctx, "categories")
	if err != nil {
		return nil, err
	}

	query := `SELECT * FROM categories WHERE organization_id = $1`
	args := []interface{}{scope.OrganizationID}

	if categoryType != "" {
		query += ` AND type = $2`
		args = append(args, categoryType)
	}

	query += ` ORDER BY is_active DESC, name ASC`

	categories := []models.Category{}
	if err := r.db.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, err
	}

	return categories, nil
}

// ExistsByName reports whether the organization already has a category
// with this name and type.
func (r *CategoriesRepository) ExistsByName(ctx context.Context, name, categoryType string) (bool, error) {
	scope, err := requireScope(ctx, "categories")
	if err != nil {
		return false, err
	}

	var exists bool
	err = r.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM categories
			WHERE organization_id = $1 AND name = $2 AND type = $3
		)
	`, scope.OrganizationID, name, categoryType).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// Count returns how many categories the organization has
func (r *CategoriesRepository) Count(ctx context.Context) (int, error) {
	scope, err := requireScope(ctx, "categories")
	if err != nil {
		return 0, err
	}

	var count int
	err = r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM categories WHERE organization_id = $1`,
		scope.OrganizationID)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Update persists the category's mutable fields
func (r *CategoriesRepository) Update(ctx context.Context, category *models.Category) error {
	scope, err := requireScope(ctx, "categories")
	if err != nil {
		return err
	}

	category.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		UPDATE categories
		SET name = $1, icon = $2, color = $3, is_active = $4, updated_at = $5
		WHERE id = $6 AND organization_id = $7
	`, category.Name, category.Icon, category.Color, category.IsActive,
		category.UpdatedAt, category.ID, scope.OrganizationID)
	if err != nil {
		return err
	}

	return requireRowAffected(res)
}

// SoftDelete marks the category inactive
func (r *CategoriesRepository) SoftDelete(ctx context.Context, id string) error {
	scope, err := requireScope(ctx, "categories")
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE categories SET is_active = FALSE, updated_at = $1
		WHERE id = $2 AND organization_id = $3
	`, time.Now().UTC(), id, scope.OrganizationID)
	if err != nil {
		return err
	}

	return requireRowAffected(res)
}
