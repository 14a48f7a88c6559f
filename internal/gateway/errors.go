package gateway

import "errors"

var (
	// ErrMissingField indicates a required request input is absent. A zero or
	// negative amount counts as missing, matching the falsy-amount check of
	// the inbound contract.
	ErrMissingField = errors.New("missing required field")

	// ErrAccountNotLinked indicates the bank account is not authorized for
	// the wallet (linked DEBIN policy only).
	ErrAccountNotLinked = errors.New("bank account not linked to wallet")

	// ErrSettlementFailed indicates the outbound settlement call raised a
	// transport error or a non-success response. The upstream detail travels
	// in the joined settlement error.
	ErrSettlementFailed = errors.New("settlement failed")
)
