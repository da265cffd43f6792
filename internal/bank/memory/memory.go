// Package memory is the fixture-backed statement store used by the
// default backend and by tests.
package memory

import (
	"context"
	"sync"

	"finsight/internal/bank"
	"finsight/internal/core"
)

// Store serves a statement loaded once at startup. The document is
// read-only for the store's lifetime; copies are returned so callers
// can never mutate shared state.
type Store struct {
	mu   sync.RWMutex
	stmt core.Statement
}

func New(stmt core.Statement) *Store {
	return &Store{stmt: stmt}
}

// NewFromFile loads the fixture document at path.
func NewFromFile(path string) (*Store, error) {
	stmt, err := bank.LoadStatementFile(path)
	if err != nil {
		return nil, err
	}
	return New(stmt), nil
}

// ReadStatement implements bank.StatementReader.
func (s *Store) ReadStatement(_ context.Context) (core.Statement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.stmt
	out.Transactions = make([]core.Transaction, len(s.stmt.Transactions))
	copy(out.Transactions, s.stmt.Transactions)
	return out, nil
}

// ListTransactions implements bank.TransactionLister.
func (s *Store) ListTransactions(_ context.Context, year, month int) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Transaction
	for _, t := range s.stmt.Transactions {
		if t.Date.Year() == year && t.Date.Month() == month {
			out = append(out, t)
		}
	}
	return out, nil
}
