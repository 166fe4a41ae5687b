package expense

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
)

// DeleteExpenseInput is the Huma input for deleting an expense.
type DeleteExpenseInput struct {
	ID string `path:"id" doc:"Expense UUID"`
}

// DeleteExpenseOutput is the Huma output for deleting an expense.
type DeleteExpenseOutput struct {
	Body struct {
		Success bool `json:"success" doc:"Always true on success"`
	}
}

type expenseDeleter interface {
	DeleteExpense(ctx context.Context, userID string, id uuid.UUID) error
}

// DeleteExpenseHandler handles DELETE /api/expenses/{id}.
type DeleteExpenseHandler struct {
	service expenseDeleter
}

// NewDeleteExpenseHandler creates a new DeleteExpenseHandler.
func NewDeleteExpenseHandler(svc expenseDeleter) *DeleteExpenseHandler {
	return &DeleteExpenseHandler{service: svc}
}

// Register registers the delete expense endpoint with the Huma API.
func (h *DeleteExpenseHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "delete-expense",
		Method:      http.MethodDelete,
		Path:        "/api/expenses/{id}",
		Summary:     "Delete expense",
		Description: "Deletes one of the caller's expenses.",
		Tags:        []string{tag},
	}, h.handle)
}

func (h *DeleteExpenseHandler) handle(ctx context.Context, input *DeleteExpenseInput) (*DeleteExpenseOutput, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	id, err := parseID(input.ID)
	if err != nil {
		return nil, err
	}

	if err := h.service.DeleteExpense(ctx, userID, id); err != nil {
		return nil, serviceError(ctx, "failed to delete expense", err)
	}

	out := &DeleteExpenseOutput{}
	out.Body.Success = true
	return out, nil
}
