package expense

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/expense-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/expense-server/internal/service"
)

// CreateExpenseBody is the request body for creating an expense. Unknown
// properties such as userId are accepted and ignored.
type CreateExpenseBody struct {
	_ struct{} `json:"-" additionalProperties:"true"`

	Amount   Amount  `json:"amount"`
	Date     string  `json:"date" format:"date" doc:"Calendar date (YYYY-MM-DD)"`
	Note     *string `json:"note,omitempty" maxLength:"500" doc:"Free text note, defaults to empty"`
	Currency *string `json:"currency,omitempty" maxLength:"10" doc:"Currency symbol, defaults to ₹"`
	Category *string `json:"category,omitempty" maxLength:"50" doc:"Category name, defaults to Other"`
}

// CreateExpenseInput is the Huma input for creating an expense.
type CreateExpenseInput struct {
	Body CreateExpenseBody
}

// CreateExpenseOutput is the Huma output for creating an expense.
type CreateExpenseOutput struct {
	Body Expense
}

type expenseCreator interface {
	CreateExpense(ctx context.Context, userID string, create service.ExpenseCreate) (*service.Expense, error)
}

// CreateExpenseHandler handles POST /api/expenses.
type CreateExpenseHandler struct {
	service expenseCreator
}

// NewCreateExpenseHandler creates a new CreateExpenseHandler.
func NewCreateExpenseHandler(svc expenseCreator) *CreateExpenseHandler {
	return &CreateExpenseHandler{service: svc}
}

// Register registers the create expense endpoint with the Huma API.
func (h *CreateExpenseHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-expense",
		Method:        http.MethodPost,
		Path:          "/api/expenses",
		Summary:       "Create expense",
		Description:   "Creates an expense owned by the caller.",
		Tags:          []string{tag},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *CreateExpenseHandler) handle(ctx context.Context, input *CreateExpenseInput) (*CreateExpenseOutput, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	create, err := parseCreateExpenseInput(input)
	if err != nil {
		return nil, err
	}

	created, err := h.service.CreateExpense(ctx, userID, create)
	if err != nil {
		return nil, serviceError(ctx, "failed to create expense", err)
	}

	return &CreateExpenseOutput{Body: fromService(created)}, nil
}

// parseCreateExpenseInput converts the body, reporting every invalid field at once.
func parseCreateExpenseInput(input *CreateExpenseInput) (service.ExpenseCreate, error) {
	var details []*huma.ErrorDetail

	amount, err := toAmount(input.Body.Amount)
	if err != nil {
		details = append(details, amountDetail(input.Body.Amount, err))
	}
	date, err := parseDate(input.Body.Date)
	if err != nil {
		details = append(details, &huma.ErrorDetail{Location: "body.date", Message: err.Error(), Value: input.Body.Date})
	}
	if len(details) > 0 {
		return service.ExpenseCreate{}, apierror.Validation(details...)
	}

	return service.ExpenseCreate{
		Amount:   amount,
		Date:     date,
		Note:     input.Body.Note,
		Currency: input.Body.Currency,
		Category: input.Body.Category,
	}, nil
}
