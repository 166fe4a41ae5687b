package expense

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/expense-server/internal/export"
	"github.com/carson-networks/expense-server/internal/logging"
	"github.com/carson-networks/expense-server/internal/service"
)

// ExportExpensesInput is the Huma input for exporting expenses.
type ExportExpensesInput struct {
	FilterParams
	Format string `query:"format" enum:"csv,xlsx" default:"csv" doc:"Attachment format"`
}

// ExportExpensesOutput is the Huma output for exporting expenses.
type ExportExpensesOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

type expenseExporter interface {
	ExportExpenses(ctx context.Context, userID string, filter service.ExpenseFilter) ([]service.Expense, error)
}

// ExportExpensesHandler handles GET /api/expenses/export.
type ExportExpensesHandler struct {
	service expenseExporter
	now     func() time.Time
}

// NewExportExpensesHandler creates a new ExportExpensesHandler.
func NewExportExpensesHandler(svc expenseExporter) *ExportExpensesHandler {
	return &ExportExpensesHandler{service: svc, now: time.Now}
}

// Register registers the export expenses endpoint with the Huma API.
func (h *ExportExpensesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "export-expenses",
		Method:      http.MethodGet,
		Path:        "/api/expenses/export",
		Summary:     "Export expenses",
		Description: "Downloads every matching expense as CSV or XLSX.",
		Tags:        []string{tag},
	}, h.handle)
}

func (h *ExportExpensesHandler) handle(ctx context.Context, input *ExportExpensesInput) (*ExportExpensesOutput, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	filter, err := input.FilterParams.toService()
	if err != nil {
		return nil, err
	}

	expenses, err := h.service.ExportExpenses(ctx, userID, filter)
	if err != nil {
		return nil, serviceError(ctx, "failed to export expenses", err)
	}

	rows := make([]export.Row, len(expenses))
	for i, e := range expenses {
		rows[i] = export.Row{
			Date:     e.Date,
			Category: e.Category,
			Amount:   e.Amount,
			Currency: e.Currency,
			Note:     e.Note,
		}
	}

	format := export.Format(input.Format)
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("exportFormat", input.Format)
		logData.AddData("exportRows", len(rows))
	}

	body, err := export.Render(format, rows)
	if err != nil {
		return nil, serviceError(ctx, "failed to render export", err)
	}

	return &ExportExpensesOutput{
		ContentType:        format.ContentType(),
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", format.Filename(h.now())),
		Body:               body,
	}, nil
}
