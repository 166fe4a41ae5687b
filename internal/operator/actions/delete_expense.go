package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-server/internal/storage"
)

type DeleteExpense struct {
	ID     uuid.UUID
	UserID string
}

func (d *DeleteExpense) Perform(ctx context.Context, writer *storage.Writer) error {
	return writer.Expenses.Delete(ctx, d.ID, d.UserID)
}
