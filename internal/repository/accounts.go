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

// AccountsRepository manages account rows, scoped to the caller's
// organization. Balance adjustments happen only through the transaction
// workflows in TransactionsRepository.
type AccountsRepository struct {
	db *sqlx.DB
}

// Create inserts a new account. The organization always comes from the
// scope; any value already set on the model is overwritten.
func (r *AccountsRepository) Create(ctx context.Context, account *models.Account) error {
	scope, err := requireScope(ctx, "accounts")
	if err != nil {
		return err
	}

	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	account.OrganizationID = scope.OrganizationID

	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	query := `
		INSERT INTO accounts (id, organization_id, name, type, balance, currency,
			institution, color, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.db.ExecContext(ctx, query,
		account.ID, account.OrganizationID, account.Name, account.Type,
		account.Balance, account.Currency, account.Institution, account.Color,
		account.IsActive, account.CreatedBy, account.CreatedAt, account.UpdatedAt)

	return err
}

// GetByID returns the account with the given id within the caller's
// organization, or ErrNotFound.
func (r *AccountsRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	scope, err := requireScope(ctx, "accounts")
	if err != nil {
		return nil, err
	}

	var account models.Account
	err = r.db.GetContext(ctx, &account,
		`SELECT * FROM accounts WHERE id = $1 AND organization_id = $2`,
		id, scope.OrganizationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &account, nil
}

// List returns the organization's accounts, active first then by name
func (r *AccountsRepository) List(ctx context.Context) ([]models.Account, error) {
	scope, err := requireScope(ctx, "accounts")
	if err != nil {
		return nil, err
	}

	accounts := []models.Account{}
	err = r.db.SelectContext(ctx, &accounts, `
		SELECT * FROM accounts
		WHERE organization_id = $1
		ORDER BY is_active DESC, name ASC
	`, scope.OrganizationID)
	if err != nil {
		return nil, err
	}

	return accounts, nil
}

// Update persists the account's mutable metadata. Balance is not
// touched here.
func (r *AccountsRepository) Update(ctx context.Context, account *models.Account) error {
	scope, err := requireScope(ctx, "accounts")
	if err != nil {
		return err
	}

	account.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET name = $1, type = $2, currency = $3, institution = $4, color = $5,
			is_active = $6, updated_at = $7
		WHERE id = $8 AND organization_id = $9
	`, account.Name, account.Type, account.Currency, account.Institution,
		account.Color, account.IsActive, account.UpdatedAt,
		account.ID, scope.OrganizationID)
	if err != nil {
		return err
	}

	return requireRowAffected(res)
}

// SoftDelete marks the account inactive. The row is kept so existing
// transactions keep a valid reference.
func (r *AccountsRepository) SoftDelete(ctx context.Context, id string) error {
	scope, err := requireScope(ctx, "accounts")
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET is_active = FALSE, updated_at = $1
		WHERE id = $2 AND organization_id = $3
	`, time.Now().UTC(), id, scope.OrganizationID)
	if err != nil {
		return err
	}

	return requireRowAffected(res)
}

// adjustBalanceTx applies a relative balance delta inside an open
// transaction. The relative UPDATE both serializes concurrent writers on
// the row lock and avoids read-modify-write of the cached balance.
func adjustBalanceTx(ctx context.Context, tx *sqlx.Tx, orgID, accountID string, delta int64) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE accounts SET balance = balance + $1, updated_at = $2
		WHERE id = $3 AND organization_id = $4
	`, delta, time.Now().UTC(), accountID, orgID)
	if err != nil {
		return err
	}

	return requireRowAffected(res)
}

// requireRowAffected maps a zero-row write to ErrNotFound
func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
