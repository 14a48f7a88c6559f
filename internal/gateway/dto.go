package gateway

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// LinkAccountRequest authorizes a bank account to be debited for a wallet.
type LinkAccountRequest struct {
	WalletID      string `json:"walletId"`
	BankAccountID string `json:"bankAccountId"`
}

// DebinRequest asks for a bank-initiated pull-debit into a wallet.
type DebinRequest struct {
	WalletID      string          `json:"walletId"`
	BankAccountID string          `json:"bankAccountId"`
	Amount        decimal.Decimal `json:"amount"`
}

// TransferRequest asks for a bank-account-to-wallet movement.
type TransferRequest struct {
	FromAccountID string          `json:"fromAccountId"`
	ToWalletID    string          `json:"toWalletId"`
	Amount        decimal.Decimal `json:"amount"`
}

// MessageResponse is the body of operations that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// DebinResponse echoes the settlement payload alongside a success message.
type DebinResponse struct {
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// TransferResponse reports the wallet's new local balance and the settlement
// payload.
type TransferResponse struct {
	Message          string          `json:"message"`
	ExternalResponse json.RawMessage `json:"externalResponse"`
	NewBalance       decimal.Decimal `json:"newBalance"`
}

// ErrorResponse is the JSON body of failed operations. Detail is only set
// for settlement failures, carrying the upstream error verbatim.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}
