package expense

import (
	"net/http"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/expense-server/internal/service"
)

func TestHTTP_DeleteExpense_Success(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	mockSvc := new(mockExpenseService)
	mockSvc.On("DeleteExpense", mock.Anything, "alice", id).Return(nil)

	resp := newTestAPI(t, mockSvc).Delete("/api/expenses/"+id.String(), aliceAuth)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"success":true}`, resp.Body.String())
	mockSvc.AssertExpectations(t)
}

func TestHTTP_DeleteExpense_Twice(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	mockSvc := new(mockExpenseService)
	mockSvc.On("DeleteExpense", mock.Anything, "alice", id).Return(nil).Once()
	mockSvc.On("DeleteExpense", mock.Anything, "alice", id).Return(service.ErrExpenseNotFound).Once()
	api := newTestAPI(t, mockSvc)

	assert.Equal(t, http.StatusOK, api.Delete("/api/expenses/"+id.String(), aliceAuth).Code)
	assert.Equal(t, http.StatusNotFound, api.Delete("/api/expenses/"+id.String(), aliceAuth).Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_DeleteExpense_InvalidID(t *testing.T) {
	mockSvc := new(mockExpenseService)

	resp := newTestAPI(t, mockSvc).Delete("/api/expenses/123", aliceAuth)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "DeleteExpense", mock.Anything, mock.Anything, mock.Anything)
}

func TestHTTP_DeleteExpense_Unauthorized(t *testing.T) {
	mockSvc := new(mockExpenseService)

	resp := newTestAPI(t, mockSvc).Delete("/api/expenses/"+uuid.Must(uuid.NewV4()).String(), "Authorization: Bearer forged")

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
