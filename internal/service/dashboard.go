package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Delandiluca/finly/internal/models"
)

const trailingMonths = 6

// ListAuditLogs returns a filtered page of the organization's audit trail
func (s *DefaultService) ListAuditLogs(ctx context.Context, filter models.AuditLogFilter) (*models.AuditLogListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	logs, err := s.store.AuditLogs.List(ctx, &filter)
	if err != nil {
		return nil, fmt.Errorf("error listing audit logs: %w", err)
	}

	total, err := s.store.AuditLogs.Count(ctx, &filter)
	if err != nil {
		return nil, fmt.Errorf("error counting audit logs: %w", err)
	}

	return &models.AuditLogListResponse{
		Logs: logs,
		Pagination: models.Pagination{
			Total:   total,
			Limit:   filter.Limit,
			Offset:  filter.Offset,
			HasMore: filter.Offset+filter.Limit < total,
		},
	}, nil
}

// DashboardSummary computes the dashboard aggregates: total balance,
// current-month income and expense, the 50/30/20 budget split, expense
// totals per category and the trailing six months of income vs expense.
// The independent reads fan out concurrently; the errgroup context keeps
// the caller's tenant scope.
func (s *DefaultService) DashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)
	trailingStart := monthStart.AddDate(0, -(trailingMonths - 1), 0)

	summary := &models.DashboardSummary{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := s.store.Accounts.TotalBalance(gctx)
		summary.TotalBalance = total
		return err
	})
	g.Go(func() error {
		income, err := s.store.Transactions.SumByType(gctx, models.TypeIncome, monthStart, monthEnd)
		summary.MonthIncome = income
		return err
	})
	g.Go(func() error {
		expense, err := s.store.Transactions.SumByType(gctx, models.TypeExpense, monthStart, monthEnd)
		summary.MonthExpense = expense
		return err
	})
	g.Go(func() error {
		byCategory, err := s.store.Transactions.ExpensesByCategory(gctx, monthStart, monthEnd)
		summary.ByCategory = byCategory
		return err
	})
	g.Go(func() error {
		flows, err := s.store.Transactions.MonthlyFlows(gctx, trailingStart, monthEnd)
		summary.IncomeVsExpense = flows
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("error computing dashboard summary: %w", err)
	}

	summary.Budget = budget503020(summary.MonthIncome, summary.MonthExpense)

	return summary, nil
}

// budget503020 splits a month's income into the 50/30/20 targets:
// needs, wants and savings. Integer division leaves the remainder cents
// in the needs bucket so the targets sum back to the income.
func budget503020(income, expense int64) models.BudgetBreakdown {
	wants := income * 30 / 100
	savings := income * 20 / 100
	needs := income - wants - savings

	return models.BudgetBreakdown{
		Income:        income,
		NeedsTarget:   needs,
		WantsTarget:   wants,
		SavingsTarget: savings,
		Expense:       expense,
		Saved:         income - expense,
	}
}
