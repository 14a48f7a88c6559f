package ledger

import "github.com/shopspring/decimal"

// SeedBalance is a test helper that seeds the balance for an account on the
// in-memory and file-backed stores.
func SeedBalance(s Store, code string, amount decimal.Decimal) {
	switch impl := s.(type) {
	case *inMemoryStore:
		impl.mu.Lock()
		defer impl.mu.Unlock()
		impl.balances[code] = amount
	case *FileStore:
		impl.mu.Lock()
		defer impl.mu.Unlock()
		impl.balances[code] = amount
	}
}

// SnapshotCount is a test helper reporting how many times the in-memory
// store was asked to persist.
func SnapshotCount(s Store) int {
	mem, ok := s.(*inMemoryStore)
	if !ok {
		return 0
	}
	mem.mu.RLock()
	defer mem.mu.RUnlock()
	return mem.snapshots
}
