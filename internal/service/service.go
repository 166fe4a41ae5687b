package service

import (
	"github.com/carson-networks/expense-server/internal/storage"
)

// Service holds all business logic services.
type Service struct {
	Expense *ExpenseService
}

// NewService creates a new Service reading from store and writing through processor.
func NewService(store *storage.Storage, processor Processor) *Service {
	return &Service{
		Expense: NewExpenseService(store, processor),
	}
}
