package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Delandiluca/finly/internal/api/testutils"
	"github.com/Delandiluca/finly/internal/models"
)

type categoryEnvelope struct {
	Category models.Category `json:"category"`
}

// createTestCategory creates a category over the API and returns it
func createTestCategory(t *testing.T, testCtx *testutils.TestContext, name, categoryType string) models.Category {
	req := models.CreateCategoryRequest{
		Name: name,
		Type: categoryType,
	}

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/categories",
		req,
		testutils.AuthHeaders(testCtx.ScopedJWT),
	)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp categoryEnvelope
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Category.ID)

	return resp.Category
}

func TestCreateCategory(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	category := createTestCategory(t, testCtx, "Groceries", models.TypeExpense)
	assert.Equal(t, "Groceries", category.Name)
	assert.Equal(t, models.TypeExpense, category.Type)
	assert.Equal(t, testCtx.TestOrgID, category.OrganizationID)

	// Duplicate name within the same type is rejected
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/categories",
		models.CreateCategoryRequest{Name: "Groceries", Type: models.TypeExpense},
		testutils.AuthHeaders(testCtx.ScopedJWT),
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Same name under the other type is fine
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/categories",
		models.CreateCategoryRequest{Name: "Groceries", Type: models.TypeIncome},
		testutils.AuthHeaders(testCtx.ScopedJWT),
	)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestListCategoriesByType(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	createTestCategory(t, testCtx, "Salary", models.TypeIncome)
	createTestCategory(t, testCtx, "Rent", models.TypeExpense)
	createTestCategory(t, testCtx, "Transport", models.TypeExpense)

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/categories?type=EXPENSE",
		nil,
		testutils.AuthHeaders(testCtx.ScopedJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Categories []models.Category `json:"categories"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Len(t, resp.Categories, 2)
	for _, c := range resp.Categories {
		assert.Equal(t, models.TypeExpense, c.Type)
	}

	// Unknown type filter is rejected
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/categories?type=SAVINGS",
		nil,
		testutils.AuthHeaders(testCtx.ScopedJWT),
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSeedCategories(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/categories/seed",
		nil,
		testutils.AuthHeaders(testCtx.ScopedJWT),
	)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp models.SeedCategoriesResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, 15, resp.Created)

	// Seeding is refused once the organization has categories
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/categories/seed",
		nil,
		testutils.AuthHeaders(testCtx.ScopedJWT),
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
