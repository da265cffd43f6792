package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"finsight/internal/core"
)

// Store is an in-memory TransactionWriter used by tests and by local
// runs without Google credentials.
type Store struct {
	mu   sync.Mutex
	rows []core.Transaction
	fail error
}

func New() *Store {
	return &Store{}
}

// FailWith makes every subsequent append return err. Pass nil to reset.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

// AppendTransactions stores the rows and returns a synthetic reference.
func (s *Store) AppendTransactions(_ context.Context, _ string, txs []core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return "", s.fail
	}
	if len(txs) == 0 {
		return "", nil
	}
	for _, t := range txs {
		if err := t.Validate(); err != nil {
			return "", errors.Join(fmt.Errorf("transaction %s", t.ID), err)
		}
	}
	start := len(s.rows) + 1
	s.rows = append(s.rows, txs...)
	return fmt.Sprintf("mem:%d:%d", start, len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.rows...)
}
