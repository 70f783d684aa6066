package memory

import (
	"context"
	"fmt"
	"sync"

	ports "moneytrack/internal/sheets"
)

// Store is an in-process TransactionMirror used in development and tests.
type Store struct {
	mu      sync.Mutex
	rows    []ports.Row
	appends int
}

var _ ports.TransactionMirror = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// Append stores the row and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, r ports.Row) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, r)
	s.appends++
	return fmt.Sprintf("mem:%d", s.appends), nil
}

func (s *Store) Remove(_ context.Context, transactionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0]
	for _, r := range s.rows {
		if r.TransactionID != transactionID {
			kept = append(kept, r)
		}
	}
	s.rows = kept
	return nil
}

// Rows returns a copy of the mirrored rows in insertion order.
func (s *Store) Rows() []ports.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.Row(nil), s.rows...)
}
