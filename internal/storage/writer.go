package storage

import (
	"context"

	"github.com/carson-networks/expense-server/internal/storage/sqlconfig"
)

// Tx is the part of a database transaction a Writer needs to finish it.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Writer exposes the tables bound to a single transaction.
type Writer struct {
	tx       Tx
	Expenses sqlconfig.IExpenseTable
}

func NewWriter(tx Tx, expenses sqlconfig.IExpenseTable) *Writer {
	return &Writer{
		tx:       tx,
		Expenses: expenses,
	}
}

func (w *Writer) Commit(ctx context.Context) error {
	return w.tx.Commit(ctx)
}

func (w *Writer) Rollback(ctx context.Context) error {
	return w.tx.Rollback(ctx)
}
