package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/plata-pay/plata_pay/internal/ledger"
	"github.com/plata-pay/plata_pay/internal/links"
	"github.com/plata-pay/plata_pay/internal/notification"
	"github.com/plata-pay/plata_pay/internal/settlement"
)

// DebinPolicy selects which of the two historical DEBIN validation flows the
// orchestrator runs. They are never merged: linked checks wallet-to-bank
// authorization and leaves the local ledger alone; legacy checks existence
// plus funds and debits the bank account locally after settlement confirms.
type DebinPolicy string

const (
	DebinLinked DebinPolicy = "linked"
	DebinLegacy DebinPolicy = "legacy"
)

// Service is the transaction orchestrator: the sole writer of the ledger
// store and link registry. Every operation is a linear pipeline of
// validate, settle, mutate, persist; a failed stage aborts the whole
// operation with no retry and no partial effect. Flows that read a balance
// before mutating it hold a per-account lock across the whole sequence so
// two concurrent requests cannot both pass a funds check before either
// debit lands.
type Service struct {
	ledger     ledger.Store
	links      *links.Registry
	settlement settlement.Client
	notifier   notification.Notifier
	policy     DebinPolicy
	logger     *slog.Logger
	locks      accountLocks
}

// NewService builds the orchestrator. An unknown policy falls back to linked;
// the notifier may be nil.
func NewService(store ledger.Store, registry *links.Registry, client settlement.Client, notifier notification.Notifier, policy DebinPolicy, logger *slog.Logger) *Service {
	if policy != DebinLegacy {
		policy = DebinLinked
	}
	return &Service{ledger: store, links: registry, settlement: client, notifier: notifier, policy: policy, logger: logger}
}

// accountLocks hands out one mutex per account code so the orchestrator can
// serialize the validate, settle, mutate sequence for a single account
// without blocking operations on other accounts.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (a *accountLocks) lock(code string) func() {
	a.mu.Lock()
	if a.locks == nil {
		a.locks = make(map[string]*sync.Mutex)
	}
	l, ok := a.locks[code]
	if !ok {
		l = &sync.Mutex{}
		a.locks[code] = l
	}
	a.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// LinkInput captures the data needed to authorize a bank account for a wallet.
type LinkInput struct {
	WalletID      string
	BankAccountID string
}

// LinkAccount authorizes the bank account against the wallet. The bank
// account must already exist in the ledger; relinking is a no-op success.
func (s *Service) LinkAccount(ctx context.Context, input LinkInput) error {
	if input.WalletID == "" || input.BankAccountID == "" {
		return ErrMissingField
	}
	if err := s.links.Link(ctx, input.WalletID, input.BankAccountID); err != nil {
		return err
	}
	s.logger.Info("bank account linked", "wallet_id", input.WalletID, "bank_account_id", input.BankAccountID)
	return nil
}

// DebinInput captures a bank-initiated pull-debit request.
type DebinInput struct {
	WalletID      string
	BankAccountID string
	Amount        decimal.Decimal
}

// DebinResult carries the settlement payload echoed back to the caller.
type DebinResult struct {
	Result json.RawMessage
}

// Debin validates the request under the configured policy, delegates the
// movement to the settlement service, and applies the policy's local ledger
// effect. Under the linked policy the ledger is untouched: the settlement
// system is the source of truth for the bank side.
func (s *Service) Debin(ctx context.Context, input DebinInput) (DebinResult, error) {
	if input.WalletID == "" || input.BankAccountID == "" || input.Amount.Sign() <= 0 {
		return DebinResult{}, ErrMissingField
	}

	bankCode := ledger.BankCode(input.BankAccountID)

	// The legacy flow reads the bank balance before debiting it, so the
	// whole validate, settle, mutate sequence runs under the account's
	// lock. The linked flow never touches the ledger and needs none.
	if s.policy == DebinLegacy {
		unlock := s.locks.lock(bankCode)
		defer unlock()
	}

	switch s.policy {
	case DebinLegacy:
		exists, err := s.ledger.Exists(ctx, bankCode)
		if err != nil {
			return DebinResult{}, err
		}
		if !exists {
			return DebinResult{}, ledger.ErrAccountNotFound
		}
		balance, err := s.ledger.Balance(ctx, bankCode)
		if err != nil {
			return DebinResult{}, err
		}
		if balance.LessThan(input.Amount) {
			return DebinResult{}, ledger.ErrInsufficientFunds
		}
	default:
		if !s.links.IsLinked(input.WalletID, input.BankAccountID) {
			return DebinResult{}, ErrAccountNotLinked
		}
	}

	payload, err := s.settlement.Load(ctx, settlement.LoadRequest{
		FromAccountID: input.BankAccountID,
		WalletID:      input.WalletID,
		Amount:        input.Amount,
	})
	if err != nil {
		return DebinResult{}, errors.Join(ErrSettlementFailed, err)
	}

	if s.policy == DebinLegacy {
		if _, err := s.ledger.Debit(ctx, bankCode, input.Amount); err != nil {
			return DebinResult{}, err
		}
		if err := s.ledger.Snapshot(ctx); err != nil {
			return DebinResult{}, err
		}
	}

	s.logger.Info("debin processed",
		"wallet_id", input.WalletID,
		"bank_account_id", input.BankAccountID,
		"amount", input.Amount,
		"policy", string(s.policy))

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindDebin,
			Destination: input.WalletID,
			Body:        fmt.Sprintf("DEBIN of %s from bank account %s", input.Amount, input.BankAccountID),
		})
	}

	return DebinResult{Result: payload}, nil
}

// TransferInput captures a bank-account-to-wallet movement request.
type TransferInput struct {
	FromAccountID string
	ToWalletID    string
	Amount        decimal.Decimal
}

// TransferResult carries the wallet's new local balance and the settlement
// payload.
type TransferResult struct {
	NewBalance decimal.Decimal
	External   json.RawMessage
}

// Transfer validates the source bank account, delegates the movement to the
// settlement service and, on confirmation, debits the destination wallet's
// local balance (creating its record at zero first) and persists a snapshot.
func (s *Service) Transfer(ctx context.Context, input TransferInput) (TransferResult, error) {
	if input.FromAccountID == "" || input.ToWalletID == "" || input.Amount.Sign() <= 0 {
		return TransferResult{}, ErrMissingField
	}

	exists, err := s.ledger.Exists(ctx, ledger.BankCode(input.FromAccountID))
	if err != nil {
		return TransferResult{}, err
	}
	if !exists {
		return TransferResult{}, ledger.ErrAccountNotFound
	}

	unlock := s.locks.lock(ledger.WalletCode(input.ToWalletID))
	defer unlock()

	payload, err := s.settlement.Load(ctx, settlement.LoadRequest{
		FromAccountID: input.FromAccountID,
		WalletID:      input.ToWalletID,
		Amount:        input.Amount,
	})
	if err != nil {
		return TransferResult{}, errors.Join(ErrSettlementFailed, err)
	}

	newBalance, err := s.ledger.Debit(ctx, ledger.WalletCode(input.ToWalletID), input.Amount)
	if err != nil {
		return TransferResult{}, err
	}
	if err := s.ledger.Snapshot(ctx); err != nil {
		return TransferResult{}, err
	}

	s.logger.Info("transfer processed",
		"from_account_id", input.FromAccountID,
		"to_wallet_id", input.ToWalletID,
		"amount", input.Amount,
		"new_balance", newBalance)

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindBankTransfer,
			Destination: input.ToWalletID,
			Body:        fmt.Sprintf("Transfer of %s from account %s", input.Amount, input.FromAccountID),
		})
	}

	return TransferResult{NewBalance: newBalance, External: payload}, nil
}
