package expense

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-server/internal/auth"
	"github.com/carson-networks/expense-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/expense-server/internal/logging"
	"github.com/carson-networks/expense-server/internal/service"
)

const tag = "Expenses"

// Expense is the API response model for an expense.
type Expense struct {
	ID        string    `json:"id" doc:"Expense UUID"`
	Amount    float64   `json:"amount" doc:"Positive amount"`
	Date      string    `json:"date" doc:"Calendar date (YYYY-MM-DD)"`
	Note      string    `json:"note" doc:"Free text note"`
	Currency  string    `json:"currency" doc:"Currency symbol"`
	Category  string    `json:"category" doc:"Category name"`
	UserID    string    `json:"userId" doc:"Owner identifier"`
	CreatedAt time.Time `json:"createdAt" doc:"Creation time"`
	UpdatedAt time.Time `json:"updatedAt" doc:"Last modification time"`
}

func fromService(e *service.Expense) Expense {
	return Expense{
		ID:        e.ID.String(),
		Amount:    e.Amount.InexactFloat64(),
		Date:      e.Date.Format(time.DateOnly),
		Note:      e.Note,
		Currency:  e.Currency,
		Category:  e.Category,
		UserID:    e.UserID,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// FilterParams are the query filters shared by list and export.
type FilterParams struct {
	Category  string `query:"category" maxLength:"50" doc:"Exact category match"`
	StartDate string `query:"startDate" format:"date" doc:"Inclusive lower date bound (YYYY-MM-DD)"`
	EndDate   string `query:"endDate" format:"date" doc:"Inclusive upper date bound (YYYY-MM-DD)"`
}

func (p FilterParams) toService() (service.ExpenseFilter, error) {
	var filter service.ExpenseFilter
	if p.Category != "" {
		category := p.Category
		filter.Category = &category
	}

	var details []*huma.ErrorDetail
	if p.StartDate != "" {
		start, err := parseDate(p.StartDate)
		if err != nil {
			details = append(details, &huma.ErrorDetail{Location: "query.startDate", Message: err.Error(), Value: p.StartDate})
		} else {
			filter.StartDate = &start
		}
	}
	if p.EndDate != "" {
		end, err := parseDate(p.EndDate)
		if err != nil {
			details = append(details, &huma.ErrorDetail{Location: "query.endDate", Message: err.Error(), Value: p.EndDate})
		} else {
			filter.EndDate = &end
		}
	}
	if len(details) > 0 {
		return filter, apierror.Validation(details...)
	}
	return filter, nil
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, errInvalidDate
	}
	return date, nil
}

type validationMessage string

func (m validationMessage) Error() string { return string(m) }

const (
	errInvalidDate    = validationMessage("expected date in YYYY-MM-DD format")
	errInvalidAmount  = validationMessage("expected number to be > 0")
	errAmountTooLarge = validationMessage("expected number to be <= 999999999999.99")
	errInvalidID      = validationMessage("expected a valid UUID")
)

// maxAmount is the largest value numeric(14,2) holds.
var maxAmount = decimal.RequireFromString("999999999999.99")

// Amount is a request amount sent either as a JSON number or as a numeric
// string such as "12.50".
type Amount struct {
	decimal.Decimal
}

func (Amount) Schema(huma.Registry) *huma.Schema {
	minimum, maximum := 0.0, maxAmount.InexactFloat64()
	return &huma.Schema{
		Description: "Positive amount, as a number or a numeric string",
		OneOf: []*huma.Schema{
			{Type: huma.TypeNumber, ExclusiveMinimum: &minimum, Maximum: &maximum},
			{Type: huma.TypeString},
		},
	}
}

// toAmount rounds to cents so a value that only looks positive is rejected up front.
func toAmount(value Amount) (decimal.Decimal, error) {
	amount := value.Round(2)
	if !amount.IsPositive() {
		return amount, errInvalidAmount
	}
	if amount.GreaterThan(maxAmount) {
		return amount, errAmountTooLarge
	}
	return amount, nil
}

func amountDetail(value Amount, err error) *huma.ErrorDetail {
	return &huma.ErrorDetail{Location: "body.amount", Message: err.Error(), Value: value.String()}
}

func parseID(value string) (uuid.UUID, error) {
	id, err := uuid.FromString(value)
	if err != nil {
		return uuid.Nil, apierror.Validation(&huma.ErrorDetail{Location: "path.id", Message: errInvalidID.Error(), Value: value})
	}
	return id, nil
}

func owner(ctx context.Context) (string, error) {
	userID, ok := auth.OwnerFromContext(ctx)
	if !ok {
		return "", apierror.Unauthorized("authentication required")
	}
	return userID, nil
}

// serviceError maps service failures onto the API error taxonomy and records
// unexpected causes on the request log.
func serviceError(ctx context.Context, msg string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrExpenseNotFound):
		return apierror.NotFound("expense not found")
	case errors.Is(err, service.ErrInvalidAmount):
		return apierror.Validation(&huma.ErrorDetail{Location: "body.amount", Message: errInvalidAmount.Error()})
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.SetError(err)
	}
	return huma.NewError(http.StatusInternalServerError, msg, err)
}
