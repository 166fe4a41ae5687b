package actions

import (
	"context"

	"github.com/carson-networks/expense-server/internal/storage"
	"github.com/carson-networks/expense-server/internal/storage/sqlconfig"
)

type CreateExpense struct {
	Create *sqlconfig.ExpenseCreate

	// Result holds the stored row once Perform succeeds.
	Result *sqlconfig.Expense
}

func (c *CreateExpense) Perform(ctx context.Context, writer *storage.Writer) error {
	row, err := writer.Expenses.Insert(ctx, c.Create)
	if err != nil {
		return err
	}

	c.Result = row
	return nil
}
