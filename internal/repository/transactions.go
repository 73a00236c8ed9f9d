package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Delandiluca/finly/internal/models"
)

// TransactionsRepository manages ledger entries, scoped to the caller's
// organization. Each write workflow pairs the transaction row mutation
// with its compensating account balance adjustments inside one database
// transaction, so no reader ever observes a ledger entry without its
// balance effect or vice versa.
type TransactionsRepository struct {
	db *sqlx.DB
}

// balanceEffect is one signed balance adjustment against one account
type balanceEffect struct {
	accountID string
	delta     int64
}

// balanceEffects returns the account adjustments implied by creating t.
// Reversal is the same set negated.
func balanceEffects(t *models.Transaction) []balanceEffect {
	switch t.Type {
	case models.TypeIncome:
		return []balanceEffect{{t.AccountID, t.Amount}}
	case models.TypeExpense:
		return []balanceEffect{{t.AccountID, -t.Amount}}
	case models.TypeTransfer:
		effects := []balanceEffect{{t.AccountID, -t.Amount}}
		if t.ToAccountID != nil {
			effects = append(effects, balanceEffect{*t.ToAccountID, t.Amount})
		}
		return effects
	}
	return nil
}

func applyEffectsTx(ctx context.Context, tx *sqlx.Tx, orgID string, effects []balanceEffect, negate bool) error {
	for _, e := range effects {
		delta := e.delta
		if negate {
			delta = -delta
		}
		if err := adjustBalanceTx(ctx, tx, orgID, e.accountID, delta); err != nil {
			return fmt.Errorf("adjust balance of account %s: %w", e.accountID, err)
		}
	}
	return nil
}

// Create inserts the transaction and applies its balance effects as one
// atomic unit.
func (r *TransactionsRepository) Create(ctx context.Context, t *models.Transaction) error {
	scope, err := requireScope(ctx, "transactions")
	if err != nil {
		return err
	}

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.OrganizationID = scope.OrganizationID
	if t.Status == "" {
		t.Status = "COMPLETED"
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}

	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (id, organization_id, type, amount, account_id,
				to_account_id, category_id, description, date, is_recurring,
				recurring_interval, tags, status, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		`, t.ID, t.OrganizationID, t.Type, t.Amount, t.AccountID,
			t.ToAccountID, t.CategoryID, t.Description, t.Date, t.IsRecurring,
			t.RecurringInterval, t.Tags, t.Status, t.CreatedBy, t.CreatedAt, t.UpdatedAt)
		if err != nil {
			return err
		}

		return applyEffectsTx(ctx, tx, scope.OrganizationID, balanceEffects(t), false)
	})
}

// Update reverses the stored transaction's balance effect, applies the
// new one and persists the updated row, all atomically. The stored row
// is re-read under a row lock inside the transaction, so a reversal
// always matches what is actually stored even when updates race.
func (r *TransactionsRepository) Update(ctx context.Context, updated *models.Transaction) error {
	scope, err := requireScope(ctx, "transactions")
	if err != nil {
		return err
	}

	updated.OrganizationID = scope.OrganizationID
	updated.UpdatedAt = time.Now().UTC()
	if updated.Tags == nil {
		updated.Tags = []string{}
	}

	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		stored, err := lockTransactionTx(ctx, tx, updated.ID, scope.OrganizationID)
		if err != nil {
			return err
		}

		if err := applyEffectsTx(ctx, tx, scope.OrganizationID, balanceEffects(stored), true); err != nil {
			return err
		}
		if err := applyEffectsTx(ctx, tx, scope.OrganizationID, balanceEffects(updated), false); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE transactions
			SET type = $1, amount = $2, account_id = $3, to_account_id = $4,
				category_id = $5, description = $6, date = $7, is_recurring = $8,
				recurring_interval = $9, tags = $10, status = $11, updated_at = $12
			WHERE id = $13 AND organization_id = $14
		`, updated.Type, updated.Amount, updated.AccountID, updated.ToAccountID,
			updated.CategoryID, updated.Description, updated.Date, updated.IsRecurring,
			updated.RecurringInterval, updated.Tags, updated.Status, updated.UpdatedAt,
			updated.ID, scope.OrganizationID)
		if err != nil {
			return err
		}

		return requireRowAffected(res)
	})
}

// Delete reverses the transaction's balance effect and removes the row
// atomically. Like Update, it works from the row as stored at lock time,
// never from a snapshot a concurrent writer may have replaced.
func (r *TransactionsRepository) Delete(ctx context.Context, id string) error {
	scope, err := requireScope(ctx, "transactions")
	if err != nil {
		return err
	}

	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		stored, err := lockTransactionTx(ctx, tx, id, scope.OrganizationID)
		if err != nil {
			return err
		}

		if err := applyEffectsTx(ctx, tx, scope.OrganizationID, balanceEffects(stored), true); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			`DELETE FROM transactions WHERE id = $1 AND organization_id = $2`,
			id, scope.OrganizationID)
		if err != nil {
			return err
		}

		return requireRowAffected(res)
	})
}

// lockTransactionTx reads the transaction row under FOR UPDATE, blocking
// concurrent update and delete workflows on the same row until commit.
func lockTransactionTx(ctx context.Context, tx *sqlx.Tx, id, orgID string) (*models.Transaction, error) {
	var stored models.Transaction
	err := tx.GetContext(ctx, &stored,
		`SELECT * FROM transactions WHERE id = $1 AND organization_id = $2 FOR UPDATE`,
		id, orgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &stored, nil
}

// GetByID returns the transaction within the caller's organization, or
// ErrNotFound.
func (r *TransactionsRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	scope, err := requireScope(ctx, "transactions")
	if err != nil {
		return nil, err
	}

	var t models.Transaction
	err = r.db.GetContext(ctx, &t,
		`SELECT * FROM transactions WHERE id = $1 AND organization_id = $2`,
		id, scope.OrganizationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &t, nil
}

// List returns a page of the organization's transactions matching the
// filter, newest first.
func (r *TransactionsRepository) List(ctx context.Context, filter *models.TransactionFilter) ([]models.Transaction, error) {
	scope, err := requireScope(ctx, "transactions")
	if err != nil {
		return nil, err
	}

	query, args := buildTransactionFilter(
		`SELECT * FROM transactions WHERE organization_id = $1`,
		scope.OrganizationID, filter)

	query += fmt.Sprintf(` ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	transactions := []models.Transaction{}
	if err := r.db.SelectContext(ctx, &transactions, query, args...); err != nil {
		return nil, err
	}

	return transactions, nil
}

// Count returns how many of the organization's transactions match the filter
func (r *TransactionsRepository) Count(ctx context.Context, filter *models.TransactionFilter) (int, error) {
	scope, err := requireScope(ctx, "transactions")
	if err != nil {
		return 0, err
	}

	query, args := buildTransactionFilter(
		`SELECT COUNT(*) FROM transactions WHERE organization_id = $1`,
		scope.OrganizationID, filter)

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, err
	}

	return count, nil
}

func buildTransactionFilter(base, orgID string, filter *models.TransactionFilter) (string, []interface{}) {
	query := base
	args := []interface{}{orgID}

	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(` AND type = $%d`, len(args))
	}
	if filter.AccountID != "" {
		args = append(args, filter.AccountID)
		query += fmt.Sprintf(` AND (account_id = $%d OR to_account_id = $%d)`, len(args), len(args))
	}
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		query += fmt.Sprintf(` AND category_id = $%d`, len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += fmt.Sprintf(` AND date >= $%d`, len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += fmt.Sprintf(` AND date <= $%d`, len(args))
	}

	return query, args
}
