package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/Delandiluca/finly/internal/api"
	"github.com/Delandiluca/finly/internal/audit"
	"github.com/Delandiluca/finly/internal/config"
	"github.com/Delandiluca/finly/internal/logging"
	"github.com/Delandiluca/finly/internal/models"
	"github.com/Delandiluca/finly/internal/repository"
	"github.com/Delandiluca/finly/internal/service"
	"github.com/Delandiluca/finly/internal/tenant"
)

// TestContext holds all dependencies for tests
type TestContext struct {
	Router    *gin.Engine
	Store     *repository.Store
	Service   service.Service
	JWTSecret []byte
	DB        *sqlx.DB

	// A signed-up user plus an organization that user owns. TestUserJWT
	// carries only the user identity; ScopedJWT also carries the
	// organization claim and passes the tenant middleware.
	TestUserID  string
	TestOrgID   string
	TestUserJWT string
	ScopedJWT   string
}

// SetupTestContext creates a new test context with initialized dependencies
func SetupTestContext(t *testing.T) *TestContext {
	// Load configuration from environment
	cfg := config.LoadConfig()

	// Override with test-specific config
	if cfg.Database.DBName == "finly" && cfg.Database.TestDBName != "" {
		cfg.Database.DBName = cfg.Database.TestDBName
	} else if cfg.Database.TestDBName == "" {
		// Fallback to hardcoded test DB if not in environment
		cfg.Database.DBName = "finly_test"
	}

	// Use a test JWT secret
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = "test-secret-key"
	}

	// Set up database
	db, err := config.SetupDatabase(cfg)
	assert.NoError(t, err, "Failed to set up test database")

	log := logging.Setup()

	// Create repositories, audit recorder and service
	store := repository.NewStore(db)
	recorder := audit.NewRecorder(store.AuditLogs, log)
	svc := service.NewDefaultService(store, recorder, log, cfg.Auth.JWTSecret)

	// Create API handler
	handler := api.NewHandler(svc, log)

	// Set up Gin router
	gin.SetMode(gin.TestMode)
	router := gin.New()

	// Add middleware for JWT secret
	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(cfg.Auth.JWTSecret))
		c.Next()
	})

	// Set up routes
	handler.SetupRoutes(router)

	tc := &TestContext{
		Router:    router,
		Store:     store,
		Service:   svc,
		JWTSecret: []byte(cfg.Auth.JWTSecret),
		DB:        store.DB(),
	}

	cleanupTestDatabase(t, tc.DB)

	tc.TestUserID = CreateTestUser(t, store, "testuser@example.com")
	tc.TestOrgID = CreateTestOrganization(t, store, tc.TestUserID, "Test Organization")
	tc.TestUserJWT = SignToken(t, tc.JWTSecret, tc.TestUserID, "")
	tc.ScopedJWT = SignToken(t, tc.JWTSecret, tc.TestUserID, tc.TestOrgID)

	return tc
}

// CleanupTestContext cleans up test resources
func CleanupTestContext(tc *TestContext) {
	if tc.DB != nil {
		cleanupTestDatabase(nil, tc.DB)
		tc.DB.Close()
	}
}

// cleanupTestDatabase removes any existing test data, children first
func cleanupTestDatabase(t *testing.T, db *sqlx.DB) {
	tables := []string{
		"audit_logs",
		"transactions",
		"categories",
		"accounts",
		"organization_members",
		"organizations",
		"users",
	}

	for _, table := range tables {
		_, err := db.Exec("DELETE FROM " + table)
		if t != nil && err != nil {
			t.Logf("Warning: Failed to clean %s: %v", table, err)
		}
	}
}

// CreateTestUser inserts a user directly through the repository and
// returns its id
func CreateTestUser(t *testing.T, store *repository.Store, email string) string {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("testpassword"), bcrypt.DefaultCost)

	user := &models.User{
		ID:       uuid.New().String(),
		Email:    email,
		Name:     "Test User",
		Password: string(hashedPassword),
	}

	err := store.Users.Create(context.Background(), user)
	assert.NoError(t, err, "Failed to create test user")

	return user.ID
}

// CreateTestOrganization inserts an organization owned by userID and
// returns its id
func CreateTestOrganization(t *testing.T, store *repository.Store, userID, name string) string {
	org := &models.Organization{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedBy: userID,
	}

	err := store.Organizations.Create(context.Background(), org)
	assert.NoError(t, err, "Failed to create test organization")

	return org.ID
}

// SignToken signs a JWT the way the service does. An empty orgID yields
// a token without an organization claim.
func SignToken(t *testing.T, secret []byte, userID, orgID string) string {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	if orgID != "" {
		claims["org"] = orgID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	assert.NoError(t, err, "Failed to generate JWT token")

	return tokenString
}

// ScopedContext returns a context carrying the test organization scope,
// for calling repositories and services directly
func (tc *TestContext) ScopedContext() context.Context {
	return tenant.NewContext(context.Background(), tenant.Scope{
		OrganizationID: tc.TestOrgID,
		UserID:         tc.TestUserID,
	})
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}
