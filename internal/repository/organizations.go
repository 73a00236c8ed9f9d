package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Delandiluca/finly/internal/models"
)

// OrganizationsRepository manages organization rows and memberships. The
// organization is the tenant boundary itself, so this repository is the
// one deliberate exception to tenant scoping.
type OrganizationsRepository struct {
	db *sqlx.DB
}

// Create inserts an organization and enrolls the creator as its owner in
// one atomic unit.
func (r *OrganizationsRepository) Create(ctx context.Context, org *models.Organization) error {
	if org.ID == "" {
		org.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	org.CreatedAt = now
	org.UpdatedAt = now

	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO organizations (id, name, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
		`, org.ID, org.Name, org.CreatedBy, org.CreatedAt, org.UpdatedAt)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO organization_members (organization_id, user_id, role, created_at)
			VALUES ($1, $2, 'owner', $3)
		`, org.ID, org.CreatedBy, now)
		return err
	})
}

// ListForUser returns the organizations the user is a member of
func (r *OrganizationsRepository) ListForUser(ctx context.Context, userID string) ([]models.Organization, error) {
	query := `
		SELECT o.* FROM organizations o
		JOIN organization_members m ON o.id = m.organization_id
		WHERE m.user_id = $1
		ORDER BY o.name ASC
	`

	orgs := []models.Organization{}
	if err := r.db.SelectContext(ctx, &orgs, query, userID); err != nil {
		return nil, err
	}

	return orgs, nil
}

// IsMember reports whether the user belongs to the organization
func (r *OrganizationsRepository) IsMember(ctx context.Context, orgID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM organization_members WHERE organization_id = $1 AND user_id = $2)`,
		orgID, userID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}
