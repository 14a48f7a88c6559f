package ledger

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

type inMemoryStore struct {
	mu        sync.RWMutex
	balances  map[string]decimal.Decimal
	snapshots int
}

// NewInMemory creates a concurrency-safe in-memory store useful for unit
// tests. Snapshot only counts invocations; nothing is written anywhere.
func NewInMemory() Store {
	return &inMemoryStore{balances: make(map[string]decimal.Decimal)}
}

func (s *inMemoryStore) Balance(_ context.Context, code string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	balance, ok := s.balances[code]
	if !ok {
		return decimal.Zero, ErrAccountNotFound
	}
	return balance, nil
}

func (s *inMemoryStore) Exists(_ context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.balances[code]
	return ok, nil
}

func (s *inMemoryStore) Credit(_ context.Context, code string, amount decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.balances[code].Add(amount)
	s.balances[code] = next
	return next, nil
}

func (s *inMemoryStore) Debit(_ context.Context, code string, amount decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.balances[code].Sub(amount)
	s.balances[code] = next
	return next, nil
}

func (s *inMemoryStore) Snapshot(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots++
	return nil
}
