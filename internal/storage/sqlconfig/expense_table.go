package sqlconfig

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"
)

const expensesTable = "expenses"

var expenseColumns = []any{
	"id", "amount", "date", "note", "currency", "category", "user_id", "created_at", "updated_at",
}

// Ensure ExpensesTable implements IExpenseTable at compile time.
var _ IExpenseTable = (*ExpensesTable)(nil)

// ExpensesTable provides access to the expenses table through any bob executor,
// so the same code serves plain reads and transactional writes.
type ExpensesTable struct {
	exec bob.Executor
}

// NewExpensesTable creates an ExpensesTable bound to exec.
func NewExpensesTable(exec bob.Executor) *ExpensesTable {
	return &ExpensesTable{exec: exec}
}

// Insert creates a new expense and returns the stored row.
func (t *ExpensesTable) Insert(ctx context.Context, create *ExpenseCreate) (*Expense, error) {
	query := psql.Insert(
		im.Into(expensesTable, "amount", "date", "note", "currency", "category", "user_id"),
		im.Values(
			psql.Arg(create.Amount),
			psql.Arg(create.Date),
			psql.Arg(create.Note),
			psql.Arg(create.Currency),
			psql.Arg(create.Category),
			psql.Arg(create.UserID),
		),
		im.Returning(expenseColumns...),
	)

	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[Expense]())
	if err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}
	return &row, nil
}

// List returns the owner's expenses matching the filter, newest date first.
// Rows sharing a date are returned newest insertion first.
func (t *ExpensesTable) List(ctx context.Context, filter *ExpenseFilter) ([]*Expense, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(expenseColumns...),
		sm.From(expensesTable),
	}
	queryMods = append(queryMods, filterMods(filter)...)
	if filter.Limit > 0 {
		queryMods = append(queryMods, sm.Limit(filter.Limit))
	}
	if filter.Offset > 0 {
		queryMods = append(queryMods, sm.Offset(filter.Offset))
	}
	queryMods = append(queryMods,
		sm.OrderBy(psql.Quote("date")).Desc(),
		sm.OrderBy(psql.Quote("seq")).Desc(),
	)

	rows, err := bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[Expense]())
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	result := make([]*Expense, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

// Count returns how many of the owner's expenses match the filter, ignoring Limit and Offset.
func (t *ExpensesTable) Count(ctx context.Context, filter *ExpenseFilter) (int64, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(psql.Raw("count(*)")),
		sm.From(expensesTable),
	}
	queryMods = append(queryMods, filterMods(filter)...)

	count, err := bob.One(ctx, t.exec, psql.Select(queryMods...), scan.SingleColumnMapper[int64])
	if err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return count, nil
}

// Update changes the supplied columns of the expense matching id and owner.
// Returns ErrNotFound when no such row exists.
func (t *ExpensesTable) Update(ctx context.Context, id uuid.UUID, userID string, update *ExpenseUpdate) (*Expense, error) {
	queryMods := []bob.Mod[*dialect.UpdateQuery]{
		um.Table(expensesTable),
		um.SetCol("updated_at").To(psql.Raw("now()")),
	}
	if update.Amount != nil {
		queryMods = append(queryMods, um.SetCol("amount").ToArg(*update.Amount))
	}
	if update.Date != nil {
		queryMods = append(queryMods, um.SetCol("date").ToArg(*update.Date))
	}
	if update.Note != nil {
		queryMods = append(queryMods, um.SetCol("note").ToArg(*update.Note))
	}
	if update.Currency != nil {
		queryMods = append(queryMods, um.SetCol("currency").ToArg(*update.Currency))
	}
	if update.Category != nil {
		queryMods = append(queryMods, um.SetCol("category").ToArg(*update.Category))
	}
	queryMods = append(queryMods,
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
		um.Returning(expenseColumns...),
	)

	row, err := bob.One(ctx, t.exec, psql.Update(queryMods...), scan.StructMapper[Expense]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return &row, nil
}

// Delete removes the expense matching id and owner.
// Returns ErrNotFound when no such row exists.
func (t *ExpensesTable) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	query := psql.Delete(
		dm.From(expensesTable),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		dm.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
	)

	result, err := bob.Exec(ctx, t.exec, query)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func filterMods(filter *ExpenseFilter) []bob.Mod[*dialect.SelectQuery] {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(filter.UserID))),
	}
	if filter.Category != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("category").EQ(psql.Arg(*filter.Category))))
	}
	if filter.StartDate != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("date").GTE(psql.Arg(*filter.StartDate))))
	}
	if filter.EndDate != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("date").LTE(psql.Arg(*filter.EndDate))))
	}
	return queryMods
}
