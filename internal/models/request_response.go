package models

import "time"

// Request models
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type CreateAccountRequest struct {
	Name           string  `json:"name" binding:"required,max=100"`
	Type           string  `json:"type" binding:"required,oneof=CHECKING SAVINGS INVESTMENT CREDIT_CARD CASH"`
	InitialBalance float64 `json:"initialBalance"`
	Currency       string  `json:"currency"`
	Institution    *string `json:"institution"`
	Color          *string `json:"color"`
}

// UpdateAccountRequest deliberately has no balance field: balances are
// owned by the transaction workflows and cannot be set directly.
type UpdateAccountRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Type        *string `json:"type" binding:"omitempty,oneof=CHECKING SAVINGS INVESTMENT CREDIT_CARD CASH"`
	Currency    *string `json:"currency"`
	Institution *string `json:"institution"`
	Color       *string `json:"color"`
	IsActive    *bool   `json:"isActive"`
}

type CreateCategoryRequest struct {
	Name  string  `json:"name" binding:"required,max=100"`
	Type  string  `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Icon  *string `json:"icon"`
	Color *string `json:"color"`
}

type UpdateCategoryRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	Icon     *string `json:"icon"`
	Color    *string `json:"color"`
	IsActive *bool   `json:"isActive"`
}

type CreateTransactionRequest struct {
	Type              string    `json:"type" binding:"required,oneof=INCOME EXPENSE TRANSFER"`
	Amount            float64   `json:"amount" binding:"required,gt=0"`
	AccountID         string    `json:"accountId" binding:"required"`
	ToAccountID       *string   `json:"toAccountId"`
	CategoryID        *string   `json:"categoryId"`
	Description       *string   `json:"description"`
	Date              time.Time `json:"date" binding:"required"`
	IsRecurring       bool      `json:"isRecurring"`
	RecurringInterval *string   `json:"recurringInterval" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY YEARLY"`
	Tags              []string  `json:"tags"`
}

type UpdateTransactionRequest struct {
	Type              *string    `json:"type" binding:"omitempty,oneof=INCOME EXPENSE TRANSFER"`
	Amount            *float64   `json:"amount" binding:"omitempty,gt=0"`
	AccountID         *string    `json:"accountId"`
	ToAccountID       *string    `json:"toAccountId"`
	CategoryID        *string    `json:"categoryId"`
	Description       *string    `json:"description"`
	Date              *time.Time `json:"date"`
	RecurringInterval *string    `json:"recurringInterval" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY YEARLY"`
	Tags              []string   `json:"tags"`
}

// TransactionFilter narrows transaction listings
type TransactionFilter struct {
	Type       string
	AccountID  string
	CategoryID string
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}

// AuditLogFilter narrows audit log listings
type AuditLogFilter struct {
	UserID     string
	EntityType string
	EntityID   string
	Action     string
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}

// Response models
type AuthResponse struct {
	Status    string `json:"status"`
	UserID    string `json:"userId,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	Token     string `json:"token,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

type SelectOrganizationResponse struct {
	Status         string `json:"status"`
	OrganizationID string `json:"organizationId"`
	Token          string `json:"token"`
	ExpiresIn      int    `json:"expiresIn"`
}

type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

type TransactionListResponse struct {
	Transactions []Transaction `json:"transactions"`
	Pagination   Pagination    `json:"pagination"`
}

type AuditLogListResponse struct {
	Logs       []AuditLog `json:"logs"`
	Pagination Pagination `json:"pagination"`
}

type SeedCategoriesResponse struct {
	Status  string `json:"status"`
	Created int    `json:"created"`
}

// MonthlyFlow is one month of aggregated income and expense
type MonthlyFlow struct {
	Month   string `db:"month" json:"month"` // YYYY-MM
	Income  int64  `db:"income" json:"income"`
	Expense int64  `db:"expense" json:"expense"`
}

// CategorySpend is the expense total for one category in a period
type CategorySpend struct {
	CategoryID string `db:"category_id" json:"categoryId"`
	Name       string `db:"name" json:"name"`
	Total      int64  `db:"total" json:"total"`
}

// BudgetBreakdown is the 50/30/20 heuristic applied to a month's income:
// half for needs, thirty percent for wants, twenty for savings. Targets
// are in minor units; Saved is income minus expense and may be negative.
type BudgetBreakdown struct {
	Income        int64 `json:"income"`
	NeedsTarget   int64 `json:"needsTarget"`
	WantsTarget   int64 `json:"wantsTarget"`
	SavingsTarget int64 `json:"savingsTarget"`
	Expense       int64 `json:"expense"`
	Saved         int64 `json:"saved"`
}

// DashboardSummary aggregates the numbers behind the dashboard page
type DashboardSummary struct {
	TotalBalance    int64           `json:"totalBalance"`
	MonthIncome     int64           `json:"monthIncome"`
	MonthExpense    int64           `json:"monthExpense"`
	Budget          BudgetBreakdown `json:"budget"`
	ByCategory      []CategorySpend `json:"expensesByCategory"`
	IncomeVsExpense []MonthlyFlow   `json:"incomeVsExpense"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
