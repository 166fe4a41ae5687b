package expense

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/expense-server/internal/service"
)

// UpdateExpenseBody lists the fields an update may change. Omitted fields stay as stored.
type UpdateExpenseBody struct {
	_ struct{} `json:"-" additionalProperties:"true"`

	Amount   *Amount  `json:"amount,omitempty"`
	Date     *string  `json:"date,omitempty" format:"date" doc:"Calendar date (YYYY-MM-DD)"`
	Note     *string  `json:"note,omitempty" maxLength:"500" doc:"Free text note"`
	Currency *string  `json:"currency,omitempty" maxLength:"10" doc:"Currency symbol"`
	Category *string  `json:"category,omitempty" maxLength:"50" doc:"Category name"`
}

// UpdateExpenseInput is the Huma input for updating an expense.
type UpdateExpenseInput struct {
	ID   string `path:"id" doc:"Expense UUID"`
	Body UpdateExpenseBody
}

// UpdateExpenseOutput is the Huma output for updating an expense.
type UpdateExpenseOutput struct {
	Body Expense
}

type expenseUpdater interface {
	UpdateExpense(ctx context.Context, userID string, id uuid.UUID, update service.ExpenseUpdate) (*service.Expense, error)
}

// UpdateExpenseHandler handles PUT /api/expenses/{id}.
type UpdateExpenseHandler struct {
	service expenseUpdater
}

// NewUpdateExpenseHandler creates a new UpdateExpenseHandler.
func NewUpdateExpenseHandler(svc expenseUpdater) *UpdateExpenseHandler {
	return &UpdateExpenseHandler{service: svc}
}

// Register registers the update expense endpoint with the Huma API.
func (h *UpdateExpenseHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-expense",
		Method:      http.MethodPut,
		Path:        "/api/expenses/{id}",
		Summary:     "Update expense",
		Description: "Changes the supplied fields of one of the caller's expenses.",
		Tags:        []string{tag},
	}, h.handle)
}

func (h *UpdateExpenseHandler) handle(ctx context.Context, input *UpdateExpenseInput) (*UpdateExpenseOutput, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	id, err := parseID(input.ID)
	if err != nil {
		return nil, err
	}

	update, err := parseUpdateExpenseBody(&input.Body)
	if err != nil {
		return nil, err
	}

	updated, err := h.service.UpdateExpense(ctx, userID, id, update)
	if err != nil {
		return nil, serviceError(ctx, "failed to update expense", err)
	}

	return &UpdateExpenseOutput{Body: fromService(updated)}, nil
}

func parseUpdateExpenseBody(body *UpdateExpenseBody) (service.ExpenseUpdate, error) {
	update := service.ExpenseUpdate{
		Note:     body.Note,
		Currency: body.Currency,
		Category: body.Category,
	}

	var details []*huma.ErrorDetail
	if body.Amount != nil {
		amount, err := toAmount(*body.Amount)
		if err != nil {
			details = append(details, amountDetail(*body.Amount, err))
		} else {
			update.Amount = &amount
		}
	}
	if body.Date != nil {
		date, err := parseDate(*body.Date)
		if err != nil {
			details = append(details, &huma.ErrorDetail{Location: "body.date", Message: err.Error(), Value: *body.Date})
		} else {
			update.Date = &date
		}
	}
	if len(details) > 0 {
		return service.ExpenseUpdate{}, apierror.Validation(details...)
	}
	return update, nil
}
