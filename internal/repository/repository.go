// Package repository implements data access over PostgreSQL. Every
// repository except Organizations and Users is tenant-scoped: each method
// resolves the organization from the request context and injects it into
// the SQL it issues, so no query can cross an organization boundary and
// no scoped query runs without an established scope.
package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/Delandiluca/finly/internal/tenant"
)

// ErrNotFound is returned when a row does not exist within the caller's
// organization. A row owned by another tenant is indistinguishable from
// one that does not exist.
var ErrNotFound = errors.New("not found")

// Store bundles all repositories over one database handle. It is
// constructed once at the composition root and passed down explicitly.
type Store struct {
	db *sqlx.DB

	Users         *UsersRepository
	Organizations *OrganizationsRepository
	Accounts      *AccountsRepository
	Categories    *CategoriesRepository
	Transactions  *TransactionsRepository
	AuditLogs     *AuditLogsRepository
}

// NewStore creates a Store over the given database connection
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:            db,
		Users:         &UsersRepository{db: db},
		Organizations: &OrganizationsRepository{db: db},
		Accounts:      &AccountsRepository{db: db},
		Categories:    &CategoriesRepository{db: db},
		Transactions:  &TransactionsRepository{db: db},
		AuditLogs:     &AuditLogsRepository{db: db},
	}
}

// DB returns the underlying database connection
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// requireScope resolves the organization scope for a scoped repository
// call. Without one the call fails before any SQL executes.
func requireScope(ctx context.Context, entity string) (tenant.Scope, error) {
	scope, ok := tenant.FromContext(ctx)
	if !ok {
		return tenant.Scope{}, tenant.NewViolation(entity)
	}
	return scope, nil
}

// inTx runs fn inside a database transaction, rolling back on error
func inTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	err = tx.Commit()
	return err
}
