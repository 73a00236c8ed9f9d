package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Delandiluca/finly/internal/audit"
	"github.com/Delandiluca/finly/internal/models"
	"github.com/Delandiluca/finly/internal/repository"
)

// Service defines all the business logic operations. Tenant-scoped
// operations read the organization from the context the API middleware
// established; they fail with a security violation if called without one.
type Service interface {
	// Authentication
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)

	// Organizations (tenant selection)
	CreateOrganization(ctx context.Context, userID string, req models.CreateOrganizationRequest) (*models.Organization, error)
	ListOrganizations(ctx context.Context, userID string) ([]models.Organization, error)
	SelectOrganization(ctx context.Context, userID, orgID string) (*models.SelectOrganizationResponse, error)

	// Accounts
	CreateAccount(ctx context.Context, req models.CreateAccountRequest) (*models.Account, error)
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	UpdateAccount(ctx context.Context, id string, req models.UpdateAccountRequest) (*models.Account, error)
	DeleteAccount(ctx context.Context, id string) error

	// Categories
	CreateCategory(ctx context.Context, req models.CreateCategoryRequest) (*models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	ListCategories(ctx context.Context, categoryType string) ([]models.Category, error)
	UpdateCategory(ctx context.Context, id string, req models.UpdateCategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	SeedCategories(ctx context.Context) (int, error)

	// Transactions (ledger workflows)
	CreateTransaction(ctx context.Context, req models.CreateTransactionRequest) (*models.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter models.TransactionFilter) (*models.TransactionListResponse, error)
	UpdateTransaction(ctx context.Context, id string, req models.UpdateTransactionRequest) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	// Audit and dashboard
	ListAuditLogs(ctx context.Context, filter models.AuditLogFilter) (*models.AuditLogListResponse, error)
	DashboardSummary(ctx context.Context) (*models.DashboardSummary, error)
}

// DefaultService implements the Service interface
type DefaultService struct {
	store         *repository.Store
	audit         *audit.Recorder
	log           *logrus.Logger
	jwtSecret     []byte
	tokenDuration time.Duration
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(store *repository.Store, recorder *audit.Recorder, log *logrus.Logger, jwtSecret string) Service {
	return &DefaultService{
		store:         store,
		audit:         recorder,
		log:           log,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: 24 * time.Hour,
	}
}
