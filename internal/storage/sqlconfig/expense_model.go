package sqlconfig

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no expense matches both the id and the owner.
var ErrNotFound = errors.New("expense not found")

// Expense represents an expense row.
type Expense struct {
	ID        uuid.UUID       `db:"id"`
	Amount    decimal.Decimal `db:"amount"`
	Date      time.Time       `db:"date"`
	Note      string          `db:"note"`
	Currency  string          `db:"currency"`
	Category  string          `db:"category"`
	UserID    string          `db:"user_id"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// ExpenseCreate is the input for inserting a new expense. All fields are stored as given.
type ExpenseCreate struct {
	UserID   string
	Amount   decimal.Decimal
	Date     time.Time
	Note     string
	Currency string
	Category string
}

// ExpenseUpdate holds the columns to change. Nil fields are left untouched.
type ExpenseUpdate struct {
	Amount   *decimal.Decimal
	Date     *time.Time
	Note     *string
	Currency *string
	Category *string
}

// ExpenseFilter specifies filters for listing and counting expenses. UserID is mandatory.
type ExpenseFilter struct {
	UserID    string
	Category  *string
	StartDate *time.Time // inclusive
	EndDate   *time.Time // inclusive
	Limit     int        // 0 means no limit
	Offset    int
}

// IExpenseTable defines the interface for expense storage operations.
// Every method is scoped to a single owner.
//
//go:generate mockery --name IExpenseTable --output . --outpkg sqlconfig --filename mock_IExpenseTable.go --with-expecter
type IExpenseTable interface {
	Insert(ctx context.Context, create *ExpenseCreate) (*Expense, error)
	List(ctx context.Context, filter *ExpenseFilter) ([]*Expense, error)
	Count(ctx context.Context, filter *ExpenseFilter) (int64, error)
	Update(ctx context.Context, id uuid.UUID, userID string, update *ExpenseUpdate) (*Expense, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) error
}
