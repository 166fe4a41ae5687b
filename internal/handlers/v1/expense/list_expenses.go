package expense

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/expense-server/internal/service"
)

// ListExpensesInput is the Huma input for listing expenses.
type ListExpensesInput struct {
	FilterParams
	Page  int `query:"page" minimum:"1" default:"1" doc:"1-based page number"`
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"20" doc:"Page size"`
}

// PageMeta describes where a page sits in the full result set.
type PageMeta struct {
	TotalItems  int64 `json:"totalItems" doc:"Matching expenses across all pages"`
	TotalPages  int   `json:"totalPages" doc:"Number of pages at this limit"`
	CurrentPage int   `json:"currentPage" doc:"Page returned"`
	Limit       int   `json:"limit" doc:"Page size"`
}

// ListExpensesResponse is the response body for listing expenses.
type ListExpensesResponse struct {
	Data []Expense `json:"data" doc:"Expenses on this page, newest date first"`
	Meta PageMeta  `json:"meta"`
}

// ListExpensesOutput is the Huma output for listing expenses.
type ListExpensesOutput struct {
	Body ListExpensesResponse
}

type expenseLister interface {
	ListExpenses(ctx context.Context, userID string, filter service.ExpenseFilter, page service.PageRequest) (*service.ExpensePage, error)
}

// ListExpensesHandler handles GET /api/expenses.
type ListExpensesHandler struct {
	service expenseLister
}

// NewListExpensesHandler creates a new ListExpensesHandler.
func NewListExpensesHandler(svc expenseLister) *ListExpensesHandler {
	return &ListExpensesHandler{service: svc}
}

// Register registers the list expenses endpoint with the Huma API.
func (h *ListExpensesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-expenses",
		Method:      http.MethodGet,
		Path:        "/api/expenses",
		Summary:     "List expenses",
		Description: "Lists the caller's expenses with optional category and date filters.",
		Tags:        []string{tag},
	}, h.handle)
}

func (h *ListExpensesHandler) handle(ctx context.Context, input *ListExpensesInput) (*ListExpensesOutput, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	filter, err := input.FilterParams.toService()
	if err != nil {
		return nil, err
	}

	page, err := h.service.ListExpenses(ctx, userID, filter, service.PageRequest{Page: input.Page, Limit: input.Limit})
	if err != nil {
		return nil, serviceError(ctx, "failed to list expenses", err)
	}

	data := make([]Expense, len(page.Expenses))
	for i := range page.Expenses {
		data[i] = fromService(&page.Expenses[i])
	}

	return &ListExpensesOutput{
		Body: ListExpensesResponse{
			Data: data,
			Meta: PageMeta{
				TotalItems:  page.TotalItems,
				TotalPages:  page.TotalPages,
				CurrentPage: page.CurrentPage,
				Limit:       page.Limit,
			},
		},
	}, nil
}
