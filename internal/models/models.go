package models

import (
	"time"

	"github.com/lib/pq"
)

// Account types
const (
	AccountChecking   = "CHECKING"
	AccountSavings    = "SAVINGS"
	AccountInvestment = "INVESTMENT"
	AccountCreditCard = "CREDIT_CARD"
	AccountCash       = "CASH"
)

// Category and transaction types
const (
	TypeIncome   = "INCOME"
	TypeExpense  = "EXPENSE"
	TypeTransfer = "TRANSFER"
)

// Recurrence intervals
const (
	RecurringDaily   = "DAILY"
	RecurringWeekly  = "WEEKLY"
	RecurringMonthly = "MONTHLY"
	RecurringYearly  = "YEARLY"
)

// User represents a user in the system
type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Password  string    `db:"password" json:"-"` // Password hash, not returned in JSON
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Organization is the tenant boundary. Every other entity except User
// belongs to exactly one organization.
type Organization struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedBy string    `db:"created_by" json:"createdBy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// OrganizationMember links a user to an organization
type OrganizationMember struct {
	OrganizationID string    `db:"organization_id" json:"organizationId"`
	UserID         string    `db:"user_id" json:"userId"`
	Role           string    `db:"role" json:"role"` // "owner" or "member"
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// Account represents a financial account. Balance is stored in integer
// minor units (cents) and is only ever mutated by the transaction
// workflows, never set directly from user input after creation.
type Account struct {
	ID             string    `db:"id" json:"id"`
	OrganizationID string    `db:"organization_id" json:"organizationId"`
	Name           string    `db:"name" json:"name"`
	Type           string    `db:"type" json:"type"`
	Balance        int64     `db:"balance" json:"balance"`
	Currency       string    `db:"currency" json:"currency"`
	Institution    *string   `db:"institution" json:"institution,omitempty"`
	Color          *string   `db:"color" json:"color,omitempty"`
	IsActive       bool      `db:"is_active" json:"isActive"`
	CreatedBy      string    `db:"created_by" json:"createdBy"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// Category represents an income or expense category
type Category struct {
	ID             string    `db:"id" json:"id"`
	OrganizationID string    `db:"organization_id" json:"organizationId"`
	Name           string    `db:"name" json:"name"`
	Type           string    `db:"type" json:"type"` // INCOME or EXPENSE
	Icon           *string   `db:"icon" json:"icon,omitempty"`
	Color          *string   `db:"color" json:"color,omitempty"`
	IsActive       bool      `db:"is_active" json:"isActive"`
	CreatedBy      string    `db:"created_by" json:"createdBy"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// Transaction is the ledger entry. Amount is strictly positive minor
// units; direction is encoded by Type. ToAccountID is set iff the
// transaction is a TRANSFER, CategoryID iff it is not.
type Transaction struct {
	ID                string         `db:"id" json:"id"`
	OrganizationID    string         `db:"organization_id" json:"organizationId"`
	Type              string         `db:"type" json:"type"`
	Amount            int64          `db:"amount" json:"amount"`
	AccountID         string         `db:"account_id" json:"accountId"`
	ToAccountID       *string        `db:"to_account_id" json:"toAccountId,omitempty"`
	CategoryID        *string        `db:"category_id" json:"categoryId,omitempty"`
	Description       *string        `db:"description" json:"description,omitempty"`
	Date              time.Time      `db:"date" json:"date"`
	IsRecurring       bool           `db:"is_recurring" json:"isRecurring"`
	RecurringInterval *string        `db:"recurring_interval" json:"recurringInterval,omitempty"`
	Tags              pq.StringArray `db:"tags" json:"tags"`
	Status            string         `db:"status" json:"status"`
	CreatedBy         string         `db:"created_by" json:"createdBy"`
	CreatedAt         time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updatedAt"`
}

// AuditLog is a write-once record of an action. Rows are never updated
// or deleted after creation.
type AuditLog struct {
	ID             string    `db:"id" json:"id"`
	OrganizationID string    `db:"organization_id" json:"organizationId"`
	UserID         *string   `db:"user_id" json:"userId,omitempty"`
	Action         string    `db:"action" json:"action"`
	EntityType     string    `db:"entity_type" json:"entityType"`
	EntityID       string    `db:"entity_id" json:"entityId"`
	OldValues      []byte    `db:"old_values" json:"oldValues,omitempty"`
	NewValues      []byte    `db:"new_values" json:"newValues,omitempty"`
	IPAddress      string    `db:"ip_address" json:"ipAddress"`
	UserAgent      string    `db:"user_agent" json:"userAgent"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// ValidAccountType reports whether t is one of the account type enums
func ValidAccountType(t string) bool {
	switch t {
	case AccountChecking, AccountSavings, AccountInvestment, AccountCreditCard, AccountCash:
		return true
	}
	return false
}

// ValidTransactionType reports whether t is INCOME, EXPENSE or TRANSFER
func ValidTransactionType(t string) bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer:
		return true
	}
	return false
}

// ValidRecurringInterval reports whether i is one of the recurrence enums
func ValidRecurringInterval(i string) bool {
	switch i {
	case RecurringDaily, RecurringWeekly, RecurringMonthly, RecurringYearly:
		return true
	}
	return false
}
