package actions

import (
	"context"

	"github.com/carson-networks/expense-server/internal/storage"
)

// IAction is a unit of write work run inside one transaction.
type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}
