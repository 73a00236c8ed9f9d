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

type transactionEnvelope struct {
	Transaction models.Transaction `json:"transaction"`
}

// postTransaction submits a transaction over the API and returns the
// recorder, so callers can also assert on failure responses
func postTransaction(t *testing.T, testCtx *testutils.TestContext, req models.CreateTransactionRequest) (*models.Transaction, int) {
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/transactions",
		req,
		testutils.AuthHeaders(testCtx.ScopedJWT),
	)

	if w.Code != http.StatusCreated {
		return nil, w.Code
	}

	var resp transactionEnvelope
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)

	return &resp.Transaction, w.Code
}

func TestIncomeCreditsAccount(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	account := createTestAccount(t, testCtx, "Checking", 0)
	salary := createTestCategory(t, testCtx, "Salary", models.TypeIncome)

	tx, code := postTransaction(t, testCtx, models.CreateTransactionRequest{
		Type:       models.TypeIncome,
		Amount:     50000,
		AccountID:  account.ID,
		CategoryID: &salary.ID,
		Date:       time.Now().UTC(),
	})

	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, int64(50000), tx.Amount)
	assert.Equal(t, "COMPLETED", tx.Status)

	after := getAccount(t, testCtx, account.ID)
	assert.Equal(t, int64(50000), after.Balance)
}

func TestExpenseDebitsAccount(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	account := createTestAccount(t, testCtx, "Checking", 50000)
	food := createTestCategory(t, testCtx, "Food", models.TypeExpense)

	_, code := postTransaction(t, testCtx, models.CreateTransactionRequest{
		Type:       models.TypeExpense,
		Amount:     12000,
		AccountID:  account.ID,
		CategoryID: &food.ID,
		Date:       time.Now().UTC(),
	})

	assert.Equal(t, http.StatusCreated, code)

	after := getAccount(t, testCtx, account.ID)
	assert.Equal(t, int64(38000), after.Balance)
}

func TestTransferMovesMoney(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	from := createTestAccount(t, testCtx, "Checking", 10000)
	to := createTestAccount(t, testCtx, "Savings", 0)

	tx, code := postTransaction(t, testCtx, models.CreateTransactionRequest{
		Type:        models.TypeTransfer,
		Amount:      4000,
		AccountID:   from.ID,
		ToAccountID: &to.ID,
		Date:        time.Now().UTC(),
	})

	assert.Equal(t, http.StatusCreated, code)

	assert.Equal(t, int64(6000), getAccount(t, testCtx, from.ID).Balance)
	assert.Equal(t, int64(4000), getAccount(t, testCtx, to.ID).Balance)

	// Deleting the transfer restores both balances
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodDelete,
		fmt.Sprintf("/api/transactions/%s", tx.ID),
		nil,
		testutils.AuthHeaders(testCtx.ScopedJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, int64(10000), getAccount(t, testCtx, from.ID).Balance)
	assert.Equal(t, int64(0), getAccount(t, testCtx, to.ID).Balance)
}

func TestUpdateTransactionAdjustsBalance(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	account := createTestAccount(t, testCtx, "Checking", 50000)
	food := createTestCategory(t, testCtx, "Food", models.TypeExpense)

	tx, code := postTransaction(t, testCtx, models.CreateTransactionRequest{
		Type:       models.TypeExpense,
		Amount:     12000,
		AccountID:  account.ID,
		CategoryID: &food.ID,
		Date:       time.Now().UTC(),
	})

	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, int64(38000), getAccount(t, testCtx, account.ID).Balance)

	// Raising the expense re-derives the balance from the new amount,
	// not by stacking another debit on top
	newAmount := float64(20000)
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		fmt.Sprintf("/api/transactions/%s", tx.ID),
		models.UpdateTransactionRequest{Amount: &newAmount},
		testutils.AuthHeaders(testCtx.ScopedJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(30000), getAccount(t, testCtx, account.ID).Balance)
}

func TestInvalidTransactionsLeaveBalancesUntouched(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	account := createTestAccount(t, testCtx, "Checking", 10000)
	food := createTestCategory(t, testCtx, "Food", models.TypeExpense)
	salary := createTestCategory(t, testCtx, "Salary", models.TypeIncome)

	cases := []struct {
		name string
		req  models.CreateTransactionRequest
	}{
		{
			name: "transfer to itself",
			req: models.CreateTransactionRequest{
				Type:        models.TypeTransfer,
				Amount:      4000,
				AccountID:   account.ID,
				ToAccountID: &account.ID,
				Date:        time.Now().UTC(),
			},
		},
		{
			name: "transfer without destination",
			req: models.CreateTransactionRequest{
				Type:      models.TypeTransfer,
				Amount:    4000,
				AccountID: account.ID,
				Date:      time.Now().UTC(),
			},
		},
		{
			name: "expense without category",
			req: models.CreateTransactionRequest{
				Type:      models.TypeExpense,
				Amount:    4000,
				AccountID: account.ID,
				Date:      time.Now().UTC(),
			},
		},
		{
			name: "expense with income category",
			req: models.CreateTransactionRequest{
				Type:       models.TypeExpense,
				Amount:     4000,
				AccountID:  account.ID,
				CategoryID: &salary.ID,
				Date:       time.Now().UTC(),
			},
		},
		{
			name: "income against unknown account",
			req: models.CreateTransactionRequest{
				Type:       models.TypeIncome,
				Amount:     4000,
				AccountID:  "00000000-0000-0000-0000-000000000000",
				CategoryID: &food.ID,
				Date:       time.Now().UTC(),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, code := postTransaction(t, testCtx, tc.req)
			assert.NotEqual(t, http.StatusCreated, code)
		})
	}

	// No partial effect from any rejected request
	assert.Equal(t, int64(10000), getAccount(t, testCtx, account.ID).Balance)
}

func TestUpdateRejectsFieldsForbiddenByType(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	checking := createTestAccount(t, testCtx, "Checking", 50000)
	savings := createTestAccount(t, testCtx, "Savings", 0)
	food := createTestCategory(t, testCtx, "Food", models.TypeExpense)

	expense, code := postTransaction(t, testCtx, models.CreateTransactionRequest{
		Type:       models.TypeExpense,
		Amount:     10000,
		AccountID:  checking.ID,
		CategoryID: &food.ID,
		Date:       time.Now().UTC(),
	})
	assert.Equal(t, http.StatusCreated, code)

	transfer, code := postTransaction(t, testCtx, models.CreateTransactionRequest{
		Type:        models.TypeTransfer,
		Amount:      5000,
		AccountID:   checking.ID,
		ToAccountID: &savings.ID,
		Date:        time.Now().UTC(),
	})
	assert.Equal(t, http.StatusCreated, code)

	// Explicitly sending a destination on a non-transfer is rejected,
	// not silently dropped
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		fmt.Sprintf("/api/transactions/%s", expense.ID),
		models.UpdateTransactionRequest{ToAccountID: &savings.ID},
		testutils.AuthHeaders(testCtx.ScopedJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Same for a category on a transfer
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		fmt.Sprintf("/api/transactions/%s", transfer.ID),
		models.UpdateTransactionRequest{CategoryID: &food.ID},
		testutils.AuthHeaders(testCtx.ScopedJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A type change may drop the field the old type carried: the expense
	// becomes a transfer and its inherited category goes away
	transferType := models.TypeTransfer
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		fmt.Sprintf("/api/transactions/%s", expense.ID),
		models.UpdateTransactionRequest{Type: &transferType, ToAccountID: &savings.ID},
		testutils.AuthHeaders(testCtx.ScopedJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp transactionEnvelope
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Nil(t, resp.Transaction.CategoryID)

	// 50000 - 5000 transfer out - 10000 expense turned into a second
	// transfer out of checking
	assert.Equal(t, int64(35000), getAccount(t, testCtx, checking.ID).Balance)
	assert.Equal(t, int64(15000), getAccount(t, testCtx, savings.ID).Balance)
}

func TestListTransactionsWithFilters(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	account := createTestAccount(t, testCtx, "Checking", 0)
	salary := createTestCategory(t, testCtx, "Salary", models.TypeIncome)
	food := createTestCategory(t, testCtx, "Food", models.TypeExpense)

	for i := 0; i < 3; i++ {
		_, code := postTransaction(t, testCtx, models.CreateTransactionRequest{
			Type:       models.TypeIncome,
			Amount:     10000,
			AccountID:  account.ID,
			CategoryID: &salary.ID,
			Date:       time.Now().UTC(),
		})
		assert.Equal(t, http.StatusCreated, code)
	}

	_, code := postTransaction(t, testCtx, models.CreateTransactionRequest{
		Type:       models.TypeExpense,
		Amount:     5000,
		AccountID:  account.ID,
		CategoryID: &food.ID,
		Date:       time.Now().UTC(),
	})
	assert.Equal(t, http.StatusCreated, code)

	// Filter by type
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/transactions?type=INCOME",
		nil,
		testutils.AuthHeaders(testCtx.ScopedJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.TransactionListResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Len(t, resp.Transactions, 3)
	assert.Equal(t, 3, resp.Pagination.Total)

	// Pagination caps and reports remainder
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/transactions?limit=2",
		nil,
		testutils.AuthHeaders(testCtx.ScopedJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	err = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Len(t, resp.Transactions, 2)
	assert.Equal(t, 4, resp.Pagination.Total)
	assert.True(t, resp.Pagination.HasMore)
}
