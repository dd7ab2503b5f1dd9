package memory

import (
	"context"
	"fmt"
	"sync"

	"ledger/internal/core"
	"ledger/internal/store"
)

var _ store.RecordStore = (*Store)(nil)

type Store struct {
	mu          sync.Mutex
	schema      core.Schema
	initialized bool
	items       []core.Transaction
}

func New(schema core.Schema) *Store {
	return &Store{schema: schema}
}

// NewSeeded returns an initialized store holding a copy of items.
func NewSeeded(schema core.Schema, items ...core.Transaction) *Store {
	s := New(schema)
	s.initialized = true
	s.items = append([]core.Transaction(nil), items...)
	return s
}

// Initialize marks the store as created; existing items are kept.
func (s *Store) Initialize(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
	return nil
}

// Append stores the transaction and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(s.schema); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return "", fmt.Errorf("memory store not initialized")
	}
	s.items = append(s.items, t)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// LoadAll returns a copy of the stored transactions.
func (s *Store) LoadAll(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.items {
		if err := t.Validate(s.schema); err != nil {
			return nil, &core.StoreCorruptError{Backend: "memory", Row: i + 1, Err: err}
		}
	}
	return append([]core.Transaction(nil), s.items...), nil
}

// Len returns the number of stored transactions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
