package operator

import (
	"context"
	"fmt"

	"github.com/carson-networks/expense-server/internal/operator/actions"
	"github.com/carson-networks/expense-server/internal/storage"
)

// WriteStore opens write transactions.
type WriteStore interface {
	Write(ctx context.Context) (*storage.Writer, error)
}

// Operator is the worker that processes items from the queue.
type Operator struct {
	store WriteStore
	queue chan ActionItem
}

func NewOperator(store WriteStore, queue chan ActionItem) *Operator {
	return &Operator{
		store: store,
		queue: queue,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		item.response <- ActionItemResponse{err: o.processItem(item)}
	}
}

func (o *Operator) processItem(item ActionItem) error {
	// the caller gave up while the item sat in the queue
	if err := item.ctx.Err(); err != nil {
		return err
	}

	writer, err := o.store.Write(item.ctx)
	if err != nil {
		return err
	}

	if err = item.action.Perform(item.ctx, writer); err != nil {
		if rbErr := writer.Rollback(item.ctx); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err = writer.Commit(item.ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
