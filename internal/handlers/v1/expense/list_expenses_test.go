package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/expense-server/internal/service"
)

func TestHTTP_ListExpenses_DefaultPaging(t *testing.T) {
	stored := storedExpense("alice")

	mockSvc := new(mockExpenseService)
	mockSvc.On("ListExpenses", mock.Anything, "alice", service.ExpenseFilter{}, service.PageRequest{Page: 1, Limit: 20}).
		Return(&service.ExpensePage{
			Expenses:    []service.Expense{*stored},
			TotalItems:  1,
			TotalPages:  1,
			CurrentPage: 1,
			Limit:       20,
		}, nil)

	resp := newTestAPI(t, mockSvc).Get("/api/expenses", aliceAuth)

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListExpensesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, stored.ID.String(), body.Data[0].ID)
	assert.Equal(t, PageMeta{TotalItems: 1, TotalPages: 1, CurrentPage: 1, Limit: 20}, body.Meta)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListExpenses_FiltersAndPage(t *testing.T) {
	mockSvc := new(mockExpenseService)
	mockSvc.On("ListExpenses", mock.Anything, "alice", mock.MatchedBy(func(f service.ExpenseFilter) bool {
		return f.Category != nil && *f.Category == "Food" &&
			f.StartDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) &&
			f.EndDate.Equal(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	}), service.PageRequest{Page: 4, Limit: 10}).
		Return(&service.ExpensePage{Expenses: []service.Expense{}, TotalItems: 12, TotalPages: 2, CurrentPage: 4, Limit: 10}, nil)

	resp := newTestAPI(t, mockSvc).Get("/api/expenses?category=Food&startDate=2024-01-01&endDate=2024-01-31&page=4&limit=10", aliceAuth)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"data":[],"meta":{"totalItems":12,"totalPages":2,"currentPage":4,"limit":10}}`, resp.Body.String())
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListExpenses_InvalidQuery(t *testing.T) {
	mockSvc := new(mockExpenseService)
	api := newTestAPI(t, mockSvc)

	for _, query := range []string{"limit=0", "limit=101", "page=0", "startDate=01-01-2024", "endDate=2024-02-30"} {
		resp := api.Get("/api/expenses?"+query, aliceAuth)
		assert.Equal(t, http.StatusBadRequest, resp.Code, query)
	}
	mockSvc.AssertNotCalled(t, "ListExpenses", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHTTP_ListExpenses_ScopedToCaller(t *testing.T) {
	mockSvc := new(mockExpenseService)
	mockSvc.On("ListExpenses", mock.Anything, "bob", mock.Anything, mock.Anything).
		Return(&service.ExpensePage{Expenses: []service.Expense{}, CurrentPage: 1, Limit: 20}, nil)

	resp := newTestAPI(t, mockSvc).Get("/api/expenses", bobAuth)

	assert.Equal(t, http.StatusOK, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListExpenses_ServiceError(t *testing.T) {
	mockSvc := new(mockExpenseService)
	mockSvc.On("ListExpenses", mock.Anything, "alice", mock.Anything, mock.Anything).
		Return(nil, errors.New("timeout"))

	resp := newTestAPI(t, mockSvc).Get("/api/expenses", aliceAuth)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.JSONEq(t, `{"error":"server_error"}`, resp.Body.String())
}

func TestFilterParams_ToService(t *testing.T) {
	filter, err := FilterParams{}.toService()
	require.NoError(t, err)
	assert.Equal(t, service.ExpenseFilter{}, filter)

	_, err = FilterParams{StartDate: "bad", EndDate: "worse"}.toService()
	require.Error(t, err)
}
