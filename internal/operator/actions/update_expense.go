package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-server/internal/storage"
	"github.com/carson-networks/expense-server/internal/storage/sqlconfig"
)

type UpdateExpense struct {
	ID     uuid.UUID
	UserID string
	Update *sqlconfig.ExpenseUpdate

	Result *sqlconfig.Expense
}

func (u *UpdateExpense) Perform(ctx context.Context, writer *storage.Writer) error {
	row, err := writer.Expenses.Update(ctx, u.ID, u.UserID, u.Update)
	if err != nil {
		return err
	}

	u.Result = row
	return nil
}
