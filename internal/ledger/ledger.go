package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

func init() {
	// Sole owner of this process-global: balances and amounts serialize as
	// bare JSON numbers everywhere (snapshot file, API responses, outbound
	// settlement requests).
	decimal.MarshalJSONWithoutQuotes = true
}

var (
	// ErrAccountNotFound occurs when the referenced account has no balance record.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientFunds occurs when the source account lacks available balance
	// to cover a requested debit.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Account codes carry their namespace so a wallet and a bank account with the
// same raw identifier never collide on one ledger key.
const (
	bankPrefix   = "bank:"
	walletPrefix = "wallet:"
)

// BankCode returns the ledger code for a bank account identifier.
func BankCode(id string) string {
	return bankPrefix + id
}

// WalletCode returns the ledger code for a wallet identifier.
func WalletCode(id string) string {
	return walletPrefix + id
}

// Store defines the contract implemented by ledger backends (file, in-memory,
// Postgres). Credit and Debit are unconditional arithmetic: precondition
// checks such as sufficient funds belong to the caller. Both create the
// record at zero when absent and return the new balance.
type Store interface {
	Balance(ctx context.Context, code string) (decimal.Decimal, error)
	Exists(ctx context.Context, code string) (bool, error)
	Credit(ctx context.Context, code string, amount decimal.Decimal) (decimal.Decimal, error)
	Debit(ctx context.Context, code string, amount decimal.Decimal) (decimal.Decimal, error)
	Snapshot(ctx context.Context) error
}
