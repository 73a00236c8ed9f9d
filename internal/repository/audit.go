package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Delandiluca/finly/internal/models"
)

// AuditLogsRepository appends and reads audit records, scoped to the
// caller's organization. Rows are append-only; nothing here updates or
// deletes them.
type AuditLogsRepository struct {
	db *sqlx.DB
}

// Insert appends one audit record
func (r *AuditLogsRepository) Insert(ctx context.Context, entry *models.AuditLog) error {
	scope, err := requireScope(ctx, "audit_logs")
	if err != nil {
		return err
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.OrganizationID = scope.OrganizationID
	entry.CreatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, organization_id, user_id, action, entity_type,
			entity_id, old_values, new_values, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, entry.ID, entry.OrganizationID, entry.UserID, entry.Action, entry.EntityType,
		entry.EntityID, entry.OldValues, entry.NewValues, entry.IPAddress,
		entry.UserAgent, entry.CreatedAt)

	return err
}

// List returns a page of the organization's audit records matching the
// filter, newest first.
func (r *AuditLogsRepository) List(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, error) {
	scope, err := requireScope(ctx, "audit_logs")
	if err != nil {
		return nil, err
	}

	query, args := buildAuditFilter(
		`SELECT * FROM audit_logs WHERE organization_id = $1`,
		scope.OrganizationID, filter)

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	logs := []models.AuditLog{}
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, err
	}

	return logs, nil
}

// Count returns how many of the organization's audit records match the filter
func (r *AuditLogsRepository) Count(ctx context.Context, filter *models.AuditLogFilter) (int, error) {
	scope, err := requireScope(ctx, "audit_logs")
	if err != nil {
		return 0, err
	}

	query, args := buildAuditFilter(
		`SELECT COUNT(*) FROM audit_logs WHERE organization_id = $1`,
		scope.OrganizationID, filter)

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, err
	}

	return count, nil
}

func buildAuditFilter(base, orgID string, filter *models.AuditLogFilter) (string, []interface{}) {
	query := base
	args := []interface{}{orgID}

	if filter.UserID != "" {
		args = append(args, filter.UserID)
		query += fmt.Sprintf(` AND user_id = $%d`, len(args))
	}
	if filter.EntityType != "" {
		args = append(args, filter.EntityType)
		query += fmt.Sprintf(` AND entity_type = $%d`, len(args))
	}
	if filter.EntityID != "" {
		args = append(args, filter.EntityID)
		query += fmt.Sprintf(` AND entity_id = $%d`, len(args))
	}
	if filter.Action != "" {
		args = append(args, filter.Action)
		query += fmt.Sprintf(` AND action = $%d`, len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += fmt.Sprintf(` AND created_at >= $%d`, len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += fmt.Sprintf(` AND created_at <= $%d`, len(args))
	}

	return query, args
}
