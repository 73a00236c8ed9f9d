package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Delandiluca/finly/internal/api/testutils"
	"github.com/Delandiluca/finly/internal/models"
)

func TestOrganizationFlow(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// Create an organization
	createReq := models.CreateOrganizationRequest{Name: "Family Budget"}

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/organizations",
		createReq,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusCreated, w.Code)

	var createResp struct {
		Organization models.Organization `json:"organization"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &createResp)
	assert.NoError(t, err)
	assert.NotEmpty(t, createResp.Organization.ID)
	assert.Equal(t, "Family Budget", createResp.Organization.Name)
	assert.Equal(t, testCtx.TestUserID, createResp.Organization.CreatedBy)

	// List organizations: the fixture org plus the new one
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/organizations",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var listResp struct {
		Organizations []models.Organization `json:"organizations"`
	}
	err = json.Unmarshal(w.Body.Bytes(), &listResp)
	assert.NoError(t, err)
	assert.Len(t, listResp.Organizations, 2)

	// Select it and get a scoped token back
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/organizations/%s/select", createResp.Organization.ID),
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var selectResp models.SelectOrganizationResponse
	err = json.Unmarshal(w.Body.Bytes(), &selectResp)
	assert.NoError(t, err)
	assert.Equal(t, createResp.Organization.ID, selectResp.OrganizationID)
	assert.NotEmpty(t, selectResp.Token)

	// The scoped token opens the tenant routes
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/accounts",
		nil,
		testutils.AuthHeaders(selectResp.Token),
	)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestScopedRoutesRequireOrganization(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// A login token without an organization claim is rejected on every
	// scoped route with a distinct code, so clients can route the user
	// to organization selection instead of a login screen.
	scopedPaths := []string{
		"/api/accounts",
		"/api/categories",
		"/api/transactions",
		"/api/audit-logs",
		"/api/dashboard/summary",
	}

	for _, path := range scopedPaths {
		w := testutils.PerformRequest(
			testCtx.Router,
			http.MethodGet,
			path,
			nil,
			testutils.AuthHeaders(testCtx.TestUserJWT),
		)

		assert.Equal(t, http.StatusForbidden, w.Code, "path %s", path)

		var errResp models.ErrorResponse
		err := json.Unmarshal(w.Body.Bytes(), &errResp)
		assert.NoError(t, err)
		assert.Equal(t, "NO_ORGANIZATION", errResp.Code)
	}
}

func TestSelectForeignOrganization(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// An organization the caller is not a member of cannot be selected,
	// and the response does not reveal whether it exists
	otherUserID := testutils.CreateTestUser(t, testCtx.Store, "otheruser@example.com")
	otherOrgID := testutils.CreateTestOrganization(t, testCtx.Store, otherUserID, "Other Org")

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/organizations/%s/select", otherOrgID),
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
