package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/expense-server/internal/operator/actions"
	"github.com/carson-networks/expense-server/internal/storage"
	"github.com/carson-networks/expense-server/internal/storage/sqlconfig"
)

type nopTx struct{}

func (nopTx) Commit(context.Context) error   { return nil }
func (nopTx) Rollback(context.Context) error { return nil }

// inlineProcessor performs actions synchronously against the mocked table.
type inlineProcessor struct {
	table sqlconfig.IExpenseTable
}

func (p *inlineProcessor) Process(ctx context.Context, action actions.IAction) error {
	return action.Perform(ctx, storage.NewWriter(nopTx{}, p.table))
}

func newTestService(t *testing.T) (*ExpenseService, *sqlconfig.MockIExpenseTable) {
	t.Helper()
	mockTable := sqlconfig.NewMockIExpenseTable(t)
	store := &storage.Storage{Expenses: mockTable}
	svc := NewExpenseService(store, &inlineProcessor{table: mockTable})
	return svc, mockTable
}

func ptr[T any](v T) *T {
	return &v
}

func makeRows(n int, userID string) []*sqlconfig.Expense {
	rows := make([]*sqlconfig.Expense, n)
	for i := range rows {
		rows[i] = &sqlconfig.Expense{
			ID:       uuid.Must(uuid.NewV4()),
			Amount:   decimal.RequireFromString("5.00"),
			Date:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			Currency: DefaultCurrency,
			Category: DefaultCategory,
			UserID:   userID,
		}
	}
	return rows
}

// -- CreateExpense tests --

func TestCreateExpense_AppliesDefaults(t *testing.T) {
	svc, mockTable := newTestService(t)

	amount := decimal.RequireFromString("42.50")
	date := time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)
	stored := &sqlconfig.Expense{ID: uuid.Must(uuid.NewV4()), Amount: amount, UserID: "alice"}

	mockTable.EXPECT().Insert(mock.Anything, mock.MatchedBy(func(c *sqlconfig.ExpenseCreate) bool {
		return c.UserID == "alice" &&
			c.Amount.Equal(amount) &&
			c.Date.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) &&
			c.Note == "" &&
			c.Currency == "₹" &&
			c.Category == "Other"
	})).Return(stored, nil)

	expense, err := svc.CreateExpense(context.Background(), "alice", ExpenseCreate{Amount: amount, Date: date})

	require.NoError(t, err)
	assert.Equal(t, stored.ID, expense.ID)
	assert.True(t, expense.Amount.Equal(amount))
}

func TestCreateExpense_KeepsSuppliedFields(t *testing.T) {
	svc, mockTable := newTestService(t)

	mockTable.EXPECT().Insert(mock.Anything, mock.MatchedBy(func(c *sqlconfig.ExpenseCreate) bool {
		return c.Note == "" && c.Currency == "$" && c.Category == "Travel"
	})).Return(&sqlconfig.Expense{}, nil)

	_, err := svc.CreateExpense(context.Background(), "alice", ExpenseCreate{
		Amount:   decimal.NewFromInt(1),
		Note:     ptr(""),
		Currency: ptr("$"),
		Category: ptr("Travel"),
	})
	assert.NoError(t, err)
}

func TestCreateExpense_EmptyCategoryAndCurrencyUseDefaults(t *testing.T) {
	svc, mockTable := newTestService(t)

	mockTable.EXPECT().Insert(mock.Anything, mock.MatchedBy(func(c *sqlconfig.ExpenseCreate) bool {
		return c.Currency == DefaultCurrency && c.Category == DefaultCategory
	})).Return(&sqlconfig.Expense{}, nil)

	_, err := svc.CreateExpense(context.Background(), "alice", ExpenseCreate{
		Amount:   decimal.NewFromInt(1),
		Currency: ptr(""),
		Category: ptr(""),
	})
	assert.NoError(t, err)
}

func TestCreateExpense_RejectsNonPositiveAmount(t *testing.T) {
	svc, _ := newTestService(t)

	for _, amount := range []string{"0", "-3.50"} {
		_, err := svc.CreateExpense(context.Background(), "alice", ExpenseCreate{Amount: decimal.RequireFromString(amount)})
		assert.ErrorIs(t, err, ErrInvalidAmount, amount)
	}
}

func TestCreateExpense_StorageError(t *testing.T) {
	svc, mockTable := newTestService(t)

	mockTable.EXPECT().Insert(mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	expense, err := svc.CreateExpense(context.Background(), "alice", ExpenseCreate{Amount: decimal.NewFromInt(1)})

	assert.EqualError(t, err, "connection refused")
	assert.Nil(t, expense)
}

// -- ListExpenses tests --

func TestListExpenses_DefaultsAndMeta(t *testing.T) {
	svc, mockTable := newTestService(t)
	rows := makeRows(20, "alice")

	mockTable.EXPECT().Count(mock.Anything, mock.MatchedBy(func(f *sqlconfig.ExpenseFilter) bool {
		return f.UserID == "alice"
	})).Return(int64(45), nil)
	mockTable.EXPECT().List(mock.Anything, mock.MatchedBy(func(f *sqlconfig.ExpenseFilter) bool {
		return f.UserID == "alice" && f.Limit == DefaultPageLimit && f.Offset == 0
	})).Return(rows, nil)

	page, err := svc.ListExpenses(context.Background(), "alice", ExpenseFilter{}, PageRequest{})

	require.NoError(t, err)
	assert.Len(t, page.Expenses, 20)
	assert.EqualValues(t, 45, page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, DefaultPageLimit, page.Limit)
}

func TestListExpenses_OffsetAndFilters(t *testing.T) {
	svc, mockTable := newTestService(t)

	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	mockTable.EXPECT().Count(mock.Anything, mock.Anything).Return(int64(12), nil)
	mockTable.EXPECT().List(mock.Anything, mock.MatchedBy(func(f *sqlconfig.ExpenseFilter) bool {
		return f.Limit == 5 && f.Offset == 10 &&
			*f.Category == "Food" &&
			f.StartDate.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) &&
			f.EndDate.Equal(end)
	})).Return(makeRows(2, "alice"), nil)

	page, err := svc.ListExpenses(context.Background(), "alice",
		ExpenseFilter{Category: ptr("Food"), StartDate: &start, EndDate: &end},
		PageRequest{Page: 3, Limit: 5})

	require.NoError(t, err)
	assert.Len(t, page.Expenses, 2)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 3, page.CurrentPage)
}

func TestListExpenses_PageBeyondEnd(t *testing.T) {
	svc, mockTable := newTestService(t)

	mockTable.EXPECT().Count(mock.Anything, mock.Anything).Return(int64(3), nil)

	page, err := svc.ListExpenses(context.Background(), "alice", ExpenseFilter{}, PageRequest{Page: 9, Limit: 2})

	require.NoError(t, err)
	assert.NotNil(t, page.Expenses)
	assert.Empty(t, page.Expenses)
	assert.EqualValues(t, 3, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 9, page.CurrentPage)
	mockTable.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestListExpenses_HugePageIsEmpty(t *testing.T) {
	svc, mockTable := newTestService(t)

	mockTable.EXPECT().Count(mock.Anything, mock.Anything).Return(int64(3), nil)

	page, err := svc.ListExpenses(context.Background(), "alice", ExpenseFilter{}, PageRequest{Page: 1<<62 + 1, Limit: 2})

	require.NoError(t, err)
	assert.Empty(t, page.Expenses)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1<<62+1, page.CurrentPage)
	mockTable.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestListExpenses_NoResults(t *testing.T) {
	svc, mockTable := newTestService(t)

	mockTable.EXPECT().Count(mock.Anything, mock.Anything).Return(int64(0), nil)

	page, err := svc.ListExpenses(context.Background(), "alice", ExpenseFilter{}, PageRequest{})

	require.NoError(t, err)
	assert.Empty(t, page.Expenses)
	assert.Equal(t, 0, page.TotalPages)
}

func TestListExpenses_CountError(t *testing.T) {
	svc, mockTable := newTestService(t)

	mockTable.EXPECT().Count(mock.Anything, mock.Anything).Return(int64(0), errors.New("timeout"))

	_, err := svc.ListExpenses(context.Background(), "alice", ExpenseFilter{}, PageRequest{})
	assert.EqualError(t, err, "timeout")
}

func TestNormalizePage(t *testing.T) {
	assert.Equal(t, PageRequest{Page: 1, Limit: 20}, normalizePage(PageRequest{}))
	assert.Equal(t, PageRequest{Page: 2, Limit: 100}, normalizePage(PageRequest{Page: 2, Limit: 500}))
	assert.Equal(t, PageRequest{Page: 1, Limit: 7}, normalizePage(PageRequest{Page: -4, Limit: 7}))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 20))
	assert.Equal(t, 1, totalPages(1, 20))
	assert.Equal(t, 1, totalPages(20, 20))
	assert.Equal(t, 2, totalPages(21, 20))
}

// -- ExportExpenses tests --

func TestExportExpenses_Unpaged(t *testing.T) {
	svc, mockTable := newTestService(t)

	mockTable.EXPECT().List(mock.Anything, mock.MatchedBy(func(f *sqlconfig.ExpenseFilter) bool {
		return f.UserID == "alice" && f.Limit == 0 && f.Offset == 0
	})).Return(makeRows(150, "alice"), nil)

	expenses, err := svc.ExportExpenses(context.Background(), "alice", ExpenseFilter{})

	require.NoError(t, err)
	assert.Len(t, expenses, 150)
}

// -- UpdateExpense tests --

func TestUpdateExpense_Success(t *testing.T) {
	svc, mockTable := newTestService(t)
	id := uuid.Must(uuid.NewV4())
	date := time.Date(2025, 2, 3, 18, 0, 0, 0, time.UTC)

	mockTable.EXPECT().Update(mock.Anything, id, "alice", mock.MatchedBy(func(u *sqlconfig.ExpenseUpdate) bool {
		return u.Amount == nil && *u.Note == "taxi" && u.Date.Equal(time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC))
	})).Return(&sqlconfig.Expense{ID: id, Note: "taxi"}, nil)

	expense, err := svc.UpdateExpense(context.Background(), "alice", id, ExpenseUpdate{Note: ptr("taxi"), Date: &date})

	require.NoError(t, err)
	assert.Equal(t, "taxi", expense.Note)
}

func TestUpdateExpense_EmptyCategoryResetsToDefault(t *testing.T) {
	svc, mockTable := newTestService(t)
	id := uuid.Must(uuid.NewV4())

	mockTable.EXPECT().Update(mock.Anything, id, "alice", mock.MatchedBy(func(u *sqlconfig.ExpenseUpdate) bool {
		return *u.Category == DefaultCategory && *u.Currency == DefaultCurrency && u.Note == nil
	})).Return(&sqlconfig.Expense{ID: id, Category: DefaultCategory}, nil)

	_, err := svc.UpdateExpense(context.Background(), "alice", id, ExpenseUpdate{Category: ptr(""), Currency: ptr("")})
	assert.NoError(t, err)
}

func TestUpdateExpense_NotFound(t *testing.T) {
	svc, mockTable := newTestService(t)
	id := uuid.Must(uuid.NewV4())

	mockTable.EXPECT().Update(mock.Anything, id, "bob", mock.Anything).Return(nil, sqlconfig.ErrNotFound)

	_, err := svc.UpdateExpense(context.Background(), "bob", id, ExpenseUpdate{Note: ptr("x")})
	assert.ErrorIs(t, err, ErrExpenseNotFound)
}

func TestUpdateExpense_RejectsNonPositiveAmount(t *testing.T) {
	svc, _ := newTestService(t)

	amount := decimal.Zero
	_, err := svc.UpdateExpense(context.Background(), "alice", uuid.Must(uuid.NewV4()), ExpenseUpdate{Amount: &amount})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

// -- DeleteExpense tests --

func TestDeleteExpense_Success(t *testing.T) {
	svc, mockTable := newTestService(t)
	id := uuid.Must(uuid.NewV4())

	mockTable.EXPECT().Delete(mock.Anything, id, "alice").Return(nil)

	assert.NoError(t, svc.DeleteExpense(context.Background(), "alice", id))
}

func TestDeleteExpense_NotFound(t *testing.T) {
	svc, mockTable := newTestService(t)
	id := uuid.Must(uuid.NewV4())

	mockTable.EXPECT().Delete(mock.Anything, id, "alice").Return(sqlconfig.ErrNotFound)

	assert.ErrorIs(t, svc.DeleteExpense(context.Background(), "alice", id), ErrExpenseNotFound)
}

func TestDeleteExpense_StorageError(t *testing.T) {
	svc, mockTable := newTestService(t)
	id := uuid.Must(uuid.NewV4())

	mockTable.EXPECT().Delete(mock.Anything, id, "alice").Return(errors.New("boom"))

	err := svc.DeleteExpense(context.Background(), "alice", id)
	assert.EqualError(t, err, "boom")
	assert.NotErrorIs(t, err, ErrExpenseNotFound)
}
