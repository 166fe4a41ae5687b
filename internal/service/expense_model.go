package service

import (
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

const (
	DefaultCurrency = "₹"
	DefaultCategory = "Other"

	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

var (
	// ErrExpenseNotFound covers both a missing expense and one owned by another user.
	ErrExpenseNotFound = errors.New("expense not found")
	// ErrInvalidAmount is returned when an amount is not strictly positive.
	ErrInvalidAmount = errors.New("amount must be greater than 0")
)

// Expense is the business model for an expense.
type Expense struct {
	ID        uuid.UUID
	Amount    decimal.Decimal
	Date      time.Time
	Note      string
	Currency  string
	Category  string
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExpenseCreate is the input for creating an expense. Nil optional fields get defaults.
type ExpenseCreate struct {
	Amount   decimal.Decimal
	Date     time.Time
	Note     *string
	Currency *string
	Category *string
}

// ExpenseUpdate carries the fields to change; nil fields are left as stored.
type ExpenseUpdate struct {
	Amount   *decimal.Decimal
	Date     *time.Time
	Note     *string
	Currency *string
	Category *string
}

// ExpenseFilter narrows list and export results. Date bounds are inclusive.
type ExpenseFilter struct {
	Category  *string
	StartDate *time.Time
	EndDate   *time.Time
}

// PageRequest selects a 1-based page. Zero values fall back to page 1 and DefaultPageLimit.
type PageRequest struct {
	Page  int
	Limit int
}

// ExpensePage is one page of expenses plus pagination metadata.
type ExpensePage struct {
	Expenses    []Expense
	TotalItems  int64
	TotalPages  int
	CurrentPage int
	Limit       int
}
