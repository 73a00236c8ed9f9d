package service

import (
	"context"
	"fmt"

	"github.com/Delandiluca/finly/internal/models"
	"github.com/Delandiluca/finly/internal/tenant"
)

const defaultCurrency = "BRL"

// CreateAccount creates a new account. The initial balance is recorded
// directly; every later balance change goes through the transaction
// workflows.
func (s *DefaultService) CreateAccount(ctx context.Context, req models.CreateAccountRequest) (*models.Account, error) {
	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	userID, _ := tenant.UserID(ctx)

	account := &models.Account{
		Name:        req.Name,
		Type:        req.Type,
		Balance:     models.ToMinorUnits(req.InitialBalance),
		Currency:    currency,
		Institution: req.Institution,
		Color:       req.Color,
		IsActive:    true,
		CreatedBy:   userID,
	}

	if err := s.store.Accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	s.audit.Created(ctx, "account", account.ID, account)

	return account, nil
}

// GetAccount returns one account within the caller's organization
func (s *DefaultService) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	return s.store.Accounts.GetByID(ctx, id)
}

// ListAccounts returns the organization's accounts
func (s *DefaultService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return s.store.Accounts.List(ctx)
}

// UpdateAccount applies a partial metadata update. The balance cannot be
// set here: it is owned by the ledger workflows.
func (s *DefaultService) UpdateAccount(ctx context.Context, id string, req models.UpdateAccountRequest) (*models.Account, error) {
	existing, err := s.store.Accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	old := *existing

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Type != nil {
		existing.Type = *req.Type
	}
	if req.Currency != nil {
		existing.Currency = *req.Currency
	}
	if req.Institution != nil {
		existing.Institution = req.Institution
	}
	if req.Color != nil {
		existing.Color = req.Color
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}

	if err := s.store.Accounts.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("error updating account: %w", err)
	}

	s.audit.Updated(ctx, "account", existing.ID, old, existing)

	return existing, nil
}

// DeleteAccount soft-deletes the account, keeping the row for the
// transactions that reference it.
func (s *DefaultService) DeleteAccount(ctx context.Context, id string) error {
	existing, err := s.store.Accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Accounts.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("error deleting account: %w", err)
	}

	s.audit.Deleted(ctx, "account", id, existing)

	return nil
}
