package expense

import (
	"context"
	"errors"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/expense-server/internal/auth"
	"github.com/carson-networks/expense-server/internal/service"
)

const (
	aliceAuth = "Authorization: Bearer alice-token"
	bobAuth   = "Authorization: Bearer bob-token"
)

// tokenVerifier resolves a fixed set of tokens to owners.
type tokenVerifier map[string]string

func (v tokenVerifier) Verify(token string) (string, error) {
	owner, ok := v[token]
	if !ok {
		return "", errors.New("unknown token")
	}
	return owner, nil
}

// mockExpenseService is a mock for every expense service interface.
type mockExpenseService struct {
	mock.Mock
}

func (m *mockExpenseService) CreateExpense(ctx context.Context, userID string, create service.ExpenseCreate) (*service.Expense, error) {
	args := m.Called(ctx, userID, create)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Expense), args.Error(1)
}

func (m *mockExpenseService) ListExpenses(ctx context.Context, userID string, filter service.ExpenseFilter, page service.PageRequest) (*service.ExpensePage, error) {
	args := m.Called(ctx, userID, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExpensePage), args.Error(1)
}

func (m *mockExpenseService) UpdateExpense(ctx context.Context, userID string, id uuid.UUID, update service.ExpenseUpdate) (*service.Expense, error) {
	args := m.Called(ctx, userID, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Expense), args.Error(1)
}

func (m *mockExpenseService) DeleteExpense(ctx context.Context, userID string, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *mockExpenseService) ExportExpenses(ctx context.Context, userID string, filter service.ExpenseFilter) ([]service.Expense, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.Expense), args.Error(1)
}

// newTestAPI registers every expense handler behind the auth middleware.
func newTestAPI(t *testing.T, svc *mockExpenseService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	api.UseMiddleware(auth.Middleware(api, tokenVerifier{"alice-token": "alice", "bob-token": "bob"}))
	NewCreateExpenseHandler(svc).Register(api)
	NewListExpensesHandler(svc).Register(api)
	NewUpdateExpenseHandler(svc).Register(api)
	NewDeleteExpenseHandler(svc).Register(api)
	NewExportExpensesHandler(svc).Register(api)
	return api
}

func ptr[T any](v T) *T {
	return &v
}
