package sqlconfig_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/carson-networks/expense-server/internal/storage"
	"github.com/carson-networks/expense-server/internal/storage/sqlconfig"
)

type ExpensesTableSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *sql.DB
	table     *sqlconfig.ExpensesTable
}

func TestExpensesTableSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration tests in short mode")
	}
	suite.Run(t, new(ExpensesTableSuite))
}

func (s *ExpensesTableSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("expenses"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("testpassword"),
		postgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.db, err = sql.Open("postgres", connStr)
	s.Require().NoError(err)

	_, err = storage.RunMigrations(s.db)
	s.Require().NoError(err)

	s.table = sqlconfig.NewExpensesTable(bob.NewDB(s.db))
}

func (s *ExpensesTableSuite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.container != nil {
		_ = testcontainers.TerminateContainer(s.container)
	}
}

func (s *ExpensesTableSuite) SetupTest() {
	_, err := s.db.Exec("TRUNCATE expenses")
	s.Require().NoError(err)
}

func day(value string) time.Time {
	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func (s *ExpensesTableSuite) insert(userID, amount, date, category string) *sqlconfig.Expense {
	row, err := s.table.Insert(context.Background(), &sqlconfig.ExpenseCreate{
		UserID:   userID,
		Amount:   decimal.RequireFromString(amount),
		Date:     day(date),
		Note:     "",
		Currency: "₹",
		Category: category,
	})
	s.Require().NoError(err)
	return row
}

func (s *ExpensesTableSuite) TestInsert_ReturnsStoredRow() {
	row := s.insert("alice", "42.50", "2024-03-05", "Food")

	s.NotEqual(uuid.Nil, row.ID)
	s.True(row.Amount.Equal(decimal.RequireFromString("42.50")))
	s.Equal("2024-03-05", row.Date.Format(time.DateOnly))
	s.Equal("Food", row.Category)
	s.Equal("alice", row.UserID)
	s.False(row.CreatedAt.IsZero())
	s.False(row.UpdatedAt.IsZero())
}

func (s *ExpensesTableSuite) TestInsert_RejectsNonPositiveAmount() {
	_, err := s.table.Insert(context.Background(), &sqlconfig.ExpenseCreate{
		UserID:   "alice",
		Amount:   decimal.Zero,
		Date:     day("2024-03-05"),
		Currency: "₹",
		Category: "Other",
	})
	s.Error(err)
}

func (s *ExpensesTableSuite) TestList_OrdersByDateThenNewestInsertion() {
	first := s.insert("alice", "1", "2024-03-01", "Food")
	second := s.insert("alice", "2", "2024-03-01", "Food")
	latest := s.insert("alice", "3", "2024-04-01", "Food")

	rows, err := s.table.List(context.Background(), &sqlconfig.ExpenseFilter{UserID: "alice"})
	s.Require().NoError(err)
	s.Require().Len(rows, 3)

	s.Equal(latest.ID, rows[0].ID)
	s.Equal(second.ID, rows[1].ID)
	s.Equal(first.ID, rows[2].ID)
}

func (s *ExpensesTableSuite) TestList_ScopesToOwnerAndFilters() {
	s.insert("alice", "10", "2024-01-10", "Food")
	s.insert("alice", "20", "2024-02-10", "Travel")
	s.insert("alice", "30", "2024-03-10", "Food")
	s.insert("bob", "40", "2024-02-10", "Food")

	ctx := context.Background()
	category := "Food"
	start := day("2024-01-10")
	end := day("2024-02-28")

	filter := &sqlconfig.ExpenseFilter{UserID: "alice", Category: &category, StartDate: &start, EndDate: &end}
	rows, err := s.table.List(ctx, filter)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal("alice", rows[0].UserID)
	s.Equal("2024-01-10", rows[0].Date.Format(time.DateOnly))

	count, err := s.table.Count(ctx, &sqlconfig.ExpenseFilter{UserID: "alice"})
	s.Require().NoError(err)
	s.EqualValues(3, count)
}

func (s *ExpensesTableSuite) TestList_LimitOffset() {
	for i := 1; i <= 5; i++ {
		s.insert("alice", "1", fmt.Sprintf("2024-05-%02d", i), "Other")
	}

	ctx := context.Background()
	rows, err := s.table.List(ctx, &sqlconfig.ExpenseFilter{UserID: "alice", Limit: 2, Offset: 4})
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal("2024-05-01", rows[0].Date.Format(time.DateOnly))

	rows, err = s.table.List(ctx, &sqlconfig.ExpenseFilter{UserID: "alice", Limit: 2, Offset: 10})
	s.Require().NoError(err)
	s.Empty(rows)

	count, err := s.table.Count(ctx, &sqlconfig.ExpenseFilter{UserID: "alice", Limit: 2, Offset: 10})
	s.Require().NoError(err)
	s.EqualValues(5, count)
}

func (s *ExpensesTableSuite) TestUpdate_ChangesOnlySuppliedFields() {
	row := s.insert("alice", "10", "2024-01-10", "Food")
	note := "lunch"
	amount := decimal.RequireFromString("12.75")

	updated, err := s.table.Update(context.Background(), row.ID, "alice", &sqlconfig.ExpenseUpdate{
		Amount: &amount,
		Note:   &note,
	})
	s.Require().NoError(err)

	s.True(updated.Amount.Equal(amount))
	s.Equal("lunch", updated.Note)
	s.Equal("Food", updated.Category)
	s.Equal(row.Date, updated.Date)
	s.False(updated.UpdatedAt.Before(row.UpdatedAt))
}

func (s *ExpensesTableSuite) TestUpdate_ForeignOrMissingIsNotFound() {
	row := s.insert("alice", "10", "2024-01-10", "Food")
	note := "stolen"

	_, err := s.table.Update(context.Background(), row.ID, "bob", &sqlconfig.ExpenseUpdate{Note: &note})
	s.ErrorIs(err, sqlconfig.ErrNotFound)

	_, err = s.table.Update(context.Background(), uuid.Must(uuid.NewV4()), "alice", &sqlconfig.ExpenseUpdate{Note: &note})
	s.ErrorIs(err, sqlconfig.ErrNotFound)
}

func (s *ExpensesTableSuite) TestDelete_Twice() {
	row := s.insert("alice", "10", "2024-01-10", "Food")
	ctx := context.Background()

	s.ErrorIs(s.table.Delete(ctx, row.ID, "bob"), sqlconfig.ErrNotFound)
	s.NoError(s.table.Delete(ctx, row.ID, "alice"))
	s.ErrorIs(s.table.Delete(ctx, row.ID, "alice"), sqlconfig.ErrNotFound)

	count, err := s.table.Count(ctx, &sqlconfig.ExpenseFilter{UserID: "alice"})
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *ExpensesTableSuite) TestWriter_RollbackDiscardsInsert() {
	store := storage.New(s.db)
	ctx := context.Background()

	writer, err := store.Write(ctx)
	s.Require().NoError(err)

	_, err = writer.Expenses.Insert(ctx, &sqlconfig.ExpenseCreate{
		UserID: "alice", Amount: decimal.NewFromInt(5), Date: day("2024-01-01"), Currency: "₹", Category: "Other",
	})
	s.Require().NoError(err)
	s.Require().NoError(writer.Rollback(ctx))

	count, err := store.Expenses.Count(ctx, &sqlconfig.ExpenseFilter{UserID: "alice"})
	s.Require().NoError(err)
	s.Zero(count)
}
