package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-server/internal/operator/actions"
	"github.com/carson-networks/expense-server/internal/storage"
	"github.com/carson-networks/expense-server/internal/storage/sqlconfig"
)

// Processor runs write actions, each inside its own transaction.
type Processor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// ExpenseService handles expense business logic. Reads go straight to storage,
// writes are handed to the Processor.
type ExpenseService struct {
	storage   *storage.Storage
	processor Processor
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store *storage.Storage, processor Processor) *ExpenseService {
	return &ExpenseService{storage: store, processor: processor}
}

// CreateExpense stores a new expense for userID, applying defaults to omitted fields.
func (s *ExpenseService) CreateExpense(ctx context.Context, userID string, create ExpenseCreate) (*Expense, error) {
	if !create.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	action := &actions.CreateExpense{
		Create: &sqlconfig.ExpenseCreate{
			UserID:   userID,
			Amount:   create.Amount,
			Date:     toDate(create.Date),
			Note:     valueOr(create.Note, ""),
			Currency: nonEmptyOr(create.Currency, DefaultCurrency),
			Category: nonEmptyOr(create.Category, DefaultCategory),
		},
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}

	expense := fromRow(action.Result)
	return &expense, nil
}

// ListExpenses returns one page of userID's expenses, newest date first.
// A page past the end yields no expenses but still reports the totals.
func (s *ExpenseService) ListExpenses(ctx context.Context, userID string, filter ExpenseFilter, page PageRequest) (*ExpensePage, error) {
	page = normalizePage(page)

	storageFilter := toStorageFilter(userID, filter)
	total, err := s.storage.Expenses.Count(ctx, storageFilter)
	if err != nil {
		return nil, err
	}

	result := &ExpensePage{
		Expenses:    []Expense{},
		TotalItems:  total,
		TotalPages:  totalPages(total, page.Limit),
		CurrentPage: page.Page,
		Limit:       page.Limit,
	}

	if page.Page > result.TotalPages {
		return result, nil
	}
	offset := (page.Page - 1) * page.Limit

	storageFilter.Limit = page.Limit
	storageFilter.Offset = offset
	rows, err := s.storage.Expenses.List(ctx, storageFilter)
	if err != nil {
		return nil, err
	}

	result.Expenses = fromRows(rows)
	return result, nil
}

// ExportExpenses returns every expense of userID matching filter, in list order.
func (s *ExpenseService) ExportExpenses(ctx context.Context, userID string, filter ExpenseFilter) ([]Expense, error) {
	rows, err := s.storage.Expenses.List(ctx, toStorageFilter(userID, filter))
	if err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

// UpdateExpense changes the supplied fields of userID's expense id.
func (s *ExpenseService) UpdateExpense(ctx context.Context, userID string, id uuid.UUID, update ExpenseUpdate) (*Expense, error) {
	if update.Amount != nil && !update.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	storageUpdate := &sqlconfig.ExpenseUpdate{
		Amount: update.Amount,
		Note:   update.Note,
	}
	if update.Currency != nil {
		currency := nonEmptyOr(update.Currency, DefaultCurrency)
		storageUpdate.Currency = &currency
	}
	if update.Category != nil {
		category := nonEmptyOr(update.Category, DefaultCategory)
		storageUpdate.Category = &category
	}
	if update.Date != nil {
		date := toDate(*update.Date)
		storageUpdate.Date = &date
	}

	action := &actions.UpdateExpense{ID: id, UserID: userID, Update: storageUpdate}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, mapNotFound(err)
	}

	expense := fromRow(action.Result)
	return &expense, nil
}

// DeleteExpense removes userID's expense id.
func (s *ExpenseService) DeleteExpense(ctx context.Context, userID string, id uuid.UUID) error {
	err := s.processor.Process(ctx, &actions.DeleteExpense{ID: id, UserID: userID})
	return mapNotFound(err)
}

func mapNotFound(err error) error {
	if errors.Is(err, sqlconfig.ErrNotFound) {
		return ErrExpenseNotFound
	}
	return err
}

func normalizePage(page PageRequest) PageRequest {
	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit < 1 {
		page.Limit = DefaultPageLimit
	}
	if page.Limit > MaxPageLimit {
		page.Limit = MaxPageLimit
	}
	return page
}

func totalPages(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}

func toStorageFilter(userID string, filter ExpenseFilter) *sqlconfig.ExpenseFilter {
	storageFilter := &sqlconfig.ExpenseFilter{
		UserID:   userID,
		Category: filter.Category,
	}
	if filter.StartDate != nil {
		start := toDate(*filter.StartDate)
		storageFilter.StartDate = &start
	}
	if filter.EndDate != nil {
		end := toDate(*filter.EndDate)
		storageFilter.EndDate = &end
	}
	return storageFilter
}

// toDate drops the time of day so comparisons against the date column are exact.
func toDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func valueOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}

// nonEmptyOr treats an empty string like an omitted field.
func nonEmptyOr(value *string, fallback string) string {
	if value == nil || *value == "" {
		return fallback
	}
	return *value
}

func fromRows(rows []*sqlconfig.Expense) []Expense {
	expenses := make([]Expense, len(rows))
	for i, row := range rows {
		expenses[i] = fromRow(row)
	}
	return expenses
}

func fromRow(row *sqlconfig.Expense) Expense {
	return Expense{
		ID:        row.ID,
		Amount:    row.Amount,
		Date:      row.Date,
		Note:      row.Note,
		Currency:  row.Currency,
		Category:  row.Category,
		UserID:    row.UserID,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
