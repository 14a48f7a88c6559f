package links

import (
	"context"
	"sync"

	"github.com/plata-pay/plata_pay/internal/ledger"
)

// Accounts is the slice of the ledger store the registry needs to validate
// that a bank account exists before it can be linked.
type Accounts interface {
	Exists(ctx context.Context, code string) (bool, error)
}

// Registry holds which bank accounts are authorized to be debited on behalf
// of each wallet. It lives for the process only; links are deliberately not
// persisted and there is no unlink operation.
type Registry struct {
	mu       sync.RWMutex
	accounts Accounts
	byWallet map[string]map[string]struct{}
}

// NewRegistry builds an empty registry validating against the given accounts.
func NewRegistry(accounts Accounts) *Registry {
	return &Registry{accounts: accounts, byWallet: make(map[string]map[string]struct{})}
}

// Link authorizes bankAccountID against walletID. The bank account must
// already hold a ledger record; linking an already-linked pair is a no-op
// that still succeeds.
func (r *Registry) Link(ctx context.Context, walletID, bankAccountID string) error {
	exists, err := r.accounts.Exists(ctx, ledger.BankCode(bankAccountID))
	if err != nil {
		return err
	}
	if !exists {
		return ledger.ErrAccountNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.byWallet[walletID]
	if !ok {
		set = make(map[string]struct{})
		r.byWallet[walletID] = set
	}
	set[bankAccountID] = struct{}{}
	return nil
}

// IsLinked reports whether bankAccountID is authorized for walletID.
func (r *Registry) IsLinked(walletID, bankAccountID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byWallet[walletID][bankAccountID]
	return ok
}

// LinkedAccounts returns the bank accounts currently linked to a wallet.
func (r *Registry) LinkedAccounts(walletID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byWallet[walletID]))
	for id := range r.byWallet[walletID] {
		out = append(out, id)
	}
	return out
}
