package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/expense-server/internal/config"
	"github.com/carson-networks/expense-server/internal/storage/sqlconfig"
)

type Storage struct {
	DB       *sql.DB
	bobDB    bob.DB
	Expenses sqlconfig.IExpenseTable
}

// NewStorage opens the Postgres pool described by cfg.
func NewStorage(cfg *config.Config) (*Storage, error) {
	db, err := sql.Open("postgres", cfg.PostgresURL())
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	return New(db), nil
}

// New wraps an already opened database handle.
func New(db *sql.DB) *Storage {
	bobDB := bob.NewDB(db)
	return &Storage{
		DB:       db,
		bobDB:    bobDB,
		Expenses: sqlconfig.NewExpensesTable(bobDB),
	}
}

// Write begins a transaction and returns a Writer whose tables run inside it.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	tx, err := s.bobDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return NewWriter(tx, sqlconfig.NewExpensesTable(tx)), nil
}

// Ping reports whether the database answers.
func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *Storage) Close() error {
	return s.DB.Close()
}
