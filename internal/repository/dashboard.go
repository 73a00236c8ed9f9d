package repository

import (
	"context"
	"time"

	"github.com/Delandiluca/finly/internal/models"
)

// Dashboard aggregate queries. These live on TransactionsRepository and
// AccountsRepository because they read the same scoped tables; all sums
// are computed in SQL over integer minor units.

// TotalBalance returns the summed balance of the organization's active
// accounts.
func (r *AccountsRepository) TotalBalance(ctx context.Context) (int64, error) {
	scope, err := requireScope(ctx, "accounts")
	if err != nil {
		return 0, err
	}

	var total int64
	err = r.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(balance), 0) FROM accounts
		WHERE organization_id = $1 AND is_active = TRUE
	`, scope.OrganizationID)
	if err != nil {
		return 0, err
	}

	return total, nil
}

// SumByType returns the transaction amount total for one type in a date
// range. Transfers move money between own accounts and are not income or
// expense, so callers only pass INCOME or EXPENSE here.
func (r *TransactionsRepository) SumByType(ctx context.Context, txType string, start, end time.Time) (int64, error) {
	scope, err := requireScope(ctx, "transactions")
	if err != nil {
		return 0, err
	}

	var total int64
	err = r.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE organization_id = $1 AND type = $2 AND date >= $3 AND date < $4
	`, scope.OrganizationID, txType, start, end)
	if err != nil {
		return 0, err
	}

	return total, nil
}

// ExpensesByCategory returns expense totals per category for a date
// range, largest first.
func (r *TransactionsRepository) ExpensesByCategory(ctx context.Context, start, end time.Time) ([]models.CategorySpend, error) {
	scope, err := requireScope(ctx, "transactions")
	if err != nil {
		return nil, err
	}

	spends := []models.CategorySpend{}
	err = r.db.SelectContext(ctx, &spends, `
		SELECT t.category_id, c.name, SUM(t.amount) AS total
		FROM transactions t
		JOIN categories c ON c.id = t.category_id AND c.organization_id = t.organization_id
		WHERE t.organization_id = $1 AND t.type = 'EXPENSE'
			AND t.date >= $2 AND t.date < $3
		GROUP BY t.category_id, c.name
		ORDER BY total DESC
	`, scope.OrganizationID, start, end)
	if err != nil {
		return nil, err
	}

	return spends, nil
}

// MonthlyFlows returns per-month income and expense totals between start
// and end, oldest month first. Months with no transactions are absent.
func (r *TransactionsRepository) MonthlyFlows(ctx context.Context, start, end time.Time) ([]models.MonthlyFlow, error) {
	scope, err := requireScope(ctx, "transactions")
	if err != nil {
		return nil, err
	}

	flows := []models.MonthlyFlow{}
	err = r.db.SelectContext(ctx, &flows, `
		SELECT to_char(date_trunc('month', date), 'YYYY-MM') AS month,
			COALESCE(SUM(amount) FILTER (WHERE type = 'INCOME'), 0) AS income,
			COALESCE(SUM(amount) FILTER (WHERE type = 'EXPENSE'), 0) AS expense
		FROM transactions
		WHERE organization_id = $1 AND type <> 'TRANSFER'
			AND date >= $2 AND date < $3
		GROUP BY date_trunc('month', date)
		ORDER BY date_trunc('month', date) ASC
	`, scope.OrganizationID, start, end)
	if err != nil {
		return nil, err
	}

	return flows, nil
}
