package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/shopspring/decimal"
)

// FileStore keeps balances in memory and mirrors them to a single JSON file,
// a plain object mapping account code to numeric balance. One mutex guards
// the whole map so a mutate-then-snapshot sequence is never interleaved with
// another writer.
type FileStore struct {
	mu       sync.RWMutex
	path     string
	balances map[string]decimal.Decimal
}

// OpenFile loads the snapshot at path, or starts with an empty ledger when
// the file does not exist. A snapshot that cannot be read or decoded is
// logged and treated the same way; startup never fails on bad local state.
func OpenFile(path string, logger *slog.Logger) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("ledger path is required")
	}

	s := &FileStore{path: path, balances: make(map[string]decimal.Decimal)}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		logger.Warn("read ledger snapshot, starting empty", "path", path, "error", err)
		return s, nil
	}

	if err := json.Unmarshal(raw, &s.balances); err != nil {
		logger.Warn("decode ledger snapshot, starting empty", "path", path, "error", err)
		s.balances = make(map[string]decimal.Decimal)
	}

	return s, nil
}

// Balance returns the recorded balance for the account code.
func (s *FileStore) Balance(_ context.Context, code string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	balance, ok := s.balances[code]
	if !ok {
		return decimal.Zero, ErrAccountNotFound
	}
	return balance, nil
}

// Exists reports whether a balance record is present for the account code.
func (s *FileStore) Exists(_ context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.balances[code]
	return ok, nil
}

// Credit adds amount to the account balance, creating the record at zero
// when absent, and returns the new balance.
func (s *FileStore) Credit(_ context.Context, code string, amount decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.balances[code].Add(amount)
	s.balances[code] = next
	return next, nil
}

// Debit subtracts amount from the account balance, creating the record at
// zero when absent, and returns the new balance.
func (s *FileStore) Debit(_ context.Context, code string, amount decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.balances[code].Sub(amount)
	s.balances[code] = next
	return next, nil
}

// Snapshot writes the full balance mapping to disk. The write goes to a
// temporary file first and replaces the snapshot with os.Rename so a crash
// mid-write never leaves a truncated file behind.
func (s *FileStore) Snapshot(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(s.balances, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write ledger snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace ledger snapshot: %w", err)
	}
	return nil
}
