package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Delandiluca/finly/internal/api/testutils"
	"github.com/Delandiluca/finly/internal/models"
)

func TestTenantIsolation(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// Organization A's data, created through the fixture scope
	account := createTestAccount(t, testCtx, "Org A Checking", 10000)
	food := createTestCategory(t, testCtx, "Food", models.TypeExpense)

	tx, code := postTransaction(t, testCtx, models.CreateTransactionRequest{
		Type:       models.TypeExpense,
		Amount:     2500,
		AccountID:  account.ID,
		CategoryID: &food.ID,
		Date:       time.Now().UTC(),
	})
	assert.Equal(t, http.StatusCreated, code)

	// A second user with their own organization and scoped token
	otherUserID := testutils.CreateTestUser(t, testCtx.Store, "intruder@example.com")
	otherOrgID := testutils.CreateTestOrganization(t, testCtx.Store, otherUserID, "Org B")
	otherJWT := testutils.SignToken(t, testCtx.JWTSecret, otherUserID, otherOrgID)

	// Org A's resources are invisible from org B: reads, writes and
	// deletes against their ids all come back as not found
	byID := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodGet, fmt.Sprintf("/api/accounts/%s", account.ID), nil},
		{http.MethodPut, fmt.Sprintf("/api/accounts/%s", account.ID), map[string]interface{}{"name": "Hijacked"}},
		{http.MethodDelete, fmt.Sprintf("/api/accounts/%s", account.ID), nil},
		{http.MethodGet, fmt.Sprintf("/api/categories/%s", food.ID), nil},
		{http.MethodGet, fmt.Sprintf("/api/transactions/%s", tx.ID), nil},
		{http.MethodDelete, fmt.Sprintf("/api/transactions/%s", tx.ID), nil},
	}

	for _, req := range byID {
		w := testutils.PerformRequest(
			testCtx.Router,
			req.method,
			req.path,
			req.body,
			testutils.AuthHeaders(otherJWT),
		)

		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", req.method, req.path)
	}

	// Listings from org B are empty
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/accounts",
		nil,
		testutils.AuthHeaders(otherJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var accountList struct {
		Accounts []models.Account `json:"accounts"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &accountList)
	assert.NoError(t, err)
	assert.Empty(t, accountList.Accounts)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/transactions",
		nil,
		testutils.AuthHeaders(otherJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var txList models.TransactionListResponse
	err = json.Unmarshal(w.Body.Bytes(), &txList)
	assert.NoError(t, err)
	assert.Empty(t, txList.Transactions)

	// And the failed probing moved nothing in org A
	assert.Equal(t, int64(7500), getAccount(t, testCtx, account.ID).Balance)
}

func TestAuditLogsAreScoped(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	createTestAccount(t, testCtx, "Audited", 0)

	// The fixture org sees its own trail
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/audit-logs",
		nil,
		testutils.AuthHeaders(testCtx.ScopedJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.AuditLogListResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Logs)
	assert.Equal(t, "CREATE_ACCOUNT", resp.Logs[0].Action)

	// Another organization sees none of it
	otherUserID := testutils.CreateTestUser(t, testCtx.Store, "auditor@example.com")
	otherOrgID := testutils.CreateTestOrganization(t, testCtx.Store, otherUserID, "Org B")
	otherJWT := testutils.SignToken(t, testCtx.JWTSecret, otherUserID, otherOrgID)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/audit-logs",
		nil,
		testutils.AuthHeaders(otherJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	err = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Empty(t, resp.Logs)
}
