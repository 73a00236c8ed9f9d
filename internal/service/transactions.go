package service

import (
	"context"
	"fmt"

	"github.com/Delandiluca/finly/internal/models"
	"github.com/Delandiluca/finly/internal/tenant"
)

const (
	defaultTransactionLimit = 50
	maxTransactionLimit     = 200
)

// CreateTransaction validates and records a ledger entry, applying its
// balance effect atomically with the row insert.
func (s *DefaultService) CreateTransaction(ctx context.Context, req models.CreateTransactionRequest) (*models.Transaction, error) {
	userID, _ := tenant.UserID(ctx)

	t := &models.Transaction{
		Type:              req.Type,
		Amount:            models.ToMinorUnits(req.Amount),
		AccountID:         req.AccountID,
		ToAccountID:       req.ToAccountID,
		CategoryID:        req.CategoryID,
		Description:       req.Description,
		Date:              req.Date,
		IsRecurring:       req.IsRecurring,
		RecurringInterval: req.RecurringInterval,
		Tags:              req.Tags,
		CreatedBy:         userID,
	}

	if err := s.validateTransaction(ctx, t); err != nil {
		return nil, err
	}

	if err := s.store.Transactions.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("error creating transaction: %w", err)
	}

	s.audit.Created(ctx, "transaction", t.ID, t)

	return t, nil
}

// GetTransaction returns one transaction within the caller's organization
func (s *DefaultService) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	return s.store.Transactions.GetByID(ctx, id)
}

// ListTransactions returns a filtered page plus pagination totals
func (s *DefaultService) ListTransactions(ctx context.Context, filter models.TransactionFilter) (*models.TransactionListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultTransactionLimit
	}
	if filter.Limit > maxTransactionLimit {
		filter.Limit = maxTransactionLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Type != "" && !models.ValidTransactionType(filter.Type) {
		return nil, newValidation("type", "type must be INCOME, EXPENSE or TRANSFER")
	}

	transactions, err := s.store.Transactions.List(ctx, &filter)
	if err != nil {
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}

	total, err := s.store.Transactions.Count(ctx, &filter)
	if err != nil {
		return nil, fmt.Errorf("error counting transactions: %w", err)
	}

	return &models.TransactionListResponse{
		Transactions: transactions,
		Pagination: models.Pagination{
			Total:   total,
			Limit:   filter.Limit,
			Offset:  filter.Offset,
			HasMore: filter.Offset+filter.Limit < total,
		},
	}, nil
}

// UpdateTransaction merges the partial request over the stored row,
// re-validates the merged values, then atomically reverses the old
// balance effect and applies the new one.
func (s *DefaultService) UpdateTransaction(ctx context.Context, id string, req models.UpdateTransactionRequest) (*models.Transaction, error) {
	existing, err := s.store.Transactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if req.Type != nil {
		updated.Type = *req.Type
	}
	if req.Amount != nil {
		updated.Amount = models.ToMinorUnits(*req.Amount)
	}
	if req.AccountID != nil {
		updated.AccountID = *req.AccountID
	}
	if req.ToAccountID != nil {
		updated.ToAccountID = req.ToAccountID
	}
	if req.CategoryID != nil {
		updated.CategoryID = req.CategoryID
	}
	if req.Description != nil {
		updated.Description = req.Description
	}
	if req.Date != nil {
		updated.Date = *req.Date
	}
	if req.RecurringInterval != nil {
		updated.RecurringInterval = req.RecurringInterval
		updated.IsRecurring = true
	}
	if req.Tags != nil {
		updated.Tags = req.Tags
	}

	// A field the caller explicitly sent against the (possibly new) type
	// is rejected; one merely inherited from the old type is dropped.
	if updated.Type == models.TypeTransfer {
		if req.CategoryID != nil {
			return nil, newValidation("categoryId", "transfers cannot carry a category")
		}
		updated.CategoryID = nil
	} else {
		if req.ToAccountID != nil {
			return nil, newValidation("toAccountId", "only transfers have a destination account")
		}
		updated.ToAccountID = nil
	}

	if err := s.validateTransaction(ctx, &updated); err != nil {
		return nil, err
	}

	if err := s.store.Transactions.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("error updating transaction: %w", err)
	}

	s.audit.Updated(ctx, "transaction", updated.ID, existing, updated)

	return &updated, nil
}

// DeleteTransaction reverses the balance effect and removes the row
// atomically.
func (s *DefaultService) DeleteTransaction(ctx context.Context, id string) error {
	existing, err := s.store.Transactions.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Transactions.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting transaction: %w", err)
	}

	s.audit.Deleted(ctx, "transaction", id, existing)

	return nil
}

// validateTransaction checks the semantic rules of a ledger entry. Field
// shape checks run first and never touch the store; referenced entities
// are then resolved within the caller's organization, so a foreign id
// reads as not found.
func (s *DefaultService) validateTransaction(ctx context.Context, t *models.Transaction) error {
	if !models.ValidTransactionType(t.Type) {
		return newValidation("type", "type must be INCOME, EXPENSE or TRANSFER")
	}
	if t.Amount <= 0 {
		return newValidation("amount", "amount must be a positive number of minor units")
	}

	if t.Type == models.TypeTransfer {
		if t.ToAccountID == nil || *t.ToAccountID == "" {
			return newValidation("toAccountId", "transfers require a destination account")
		}
		if *t.ToAccountID == t.AccountID {
			return newValidation("toAccountId", "destination must differ from source account")
		}
		if t.CategoryID != nil {
			return newValidation("categoryId", "transfers cannot carry a category")
		}
	} else {
		if t.ToAccountID != nil {
			return newValidation("toAccountId", "only transfers have a destination account")
		}
		if t.CategoryID == nil || *t.CategoryID == "" {
			return newValidation("categoryId", "a category is required")
		}
	}

	if t.IsRecurring {
		if t.RecurringInterval == nil || !models.ValidRecurringInterval(*t.RecurringInterval) {
			return newValidation("recurringInterval", "recurring transactions need a valid interval")
		}
	}

	if _, err := s.store.Accounts.GetByID(ctx, t.AccountID); err != nil {
		return err
	}

	if t.ToAccountID != nil {
		if _, err := s.store.Accounts.GetByID(ctx, *t.ToAccountID); err != nil {
			return err
		}
	}

	if t.CategoryID != nil {
		category, err := s.store.Categories.GetByID(ctx, *t.CategoryID)
		if err != nil {
			return err
		}
		if category.Type != t.Type {
			return newValidation("categoryId",
				fmt.Sprintf("category type %s does not match transaction type %s", category.Type, t.Type))
		}
	}

	return nil
}
