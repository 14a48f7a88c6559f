package gateway

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/plata-pay/plata_pay/internal/ledger"
	"github.com/plata-pay/plata_pay/internal/settlement"
)

// Handler exposes the money-movement HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a gateway HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// LinkAccount authorizes a bank account against a wallet.
func (h *Handler) LinkAccount(c *fiber.Ctx) error {
	var req LinkAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	err := h.service.LinkAccount(c.UserContext(), LinkInput{
		WalletID:      req.WalletID,
		BankAccountID: req.BankAccountID,
	})
	if err != nil {
		return respondError(c, err, "walletId and bankAccountId are required")
	}

	return c.Status(http.StatusOK).JSON(MessageResponse{Message: "bank account linked successfully"})
}

// Debin processes a bank-initiated pull-debit request.
func (h *Handler) Debin(c *fiber.Ctx) error {
	var req DebinRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Debin(c.UserContext(), DebinInput{
		WalletID:      req.WalletID,
		BankAccountID: req.BankAccountID,
		Amount:        req.Amount,
	})
	if err != nil {
		return respondError(c, err, "walletId, bankAccountId and amount are required")
	}

	return c.Status(http.StatusOK).JSON(DebinResponse{
		Message: "DEBIN request processed successfully",
		Result:  result.Result,
	})
}

// Transfer processes a bank-account-to-wallet movement.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	var req TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Transfer(c.UserContext(), TransferInput{
		FromAccountID: req.FromAccountID,
		ToWalletID:    req.ToWalletID,
		Amount:        req.Amount,
	})
	if err != nil {
		return respondError(c, err, "fromAccountId, toWalletId and amount are required")
	}

	return c.Status(http.StatusOK).JSON(TransferResponse{
		Message:          "transfer completed successfully",
		ExternalResponse: result.External,
		NewBalance:       result.NewBalance,
	})
}

// respondError maps orchestrator errors onto the gateway's error taxonomy.
// Settlement failures render their own body so the upstream detail reaches
// the caller verbatim.
func respondError(c *fiber.Ctx, err error, missingFieldMsg string) error {
	switch {
	case errors.Is(err, ErrMissingField):
		return fiber.NewError(http.StatusBadRequest, missingFieldMsg)
	case errors.Is(err, ledger.ErrAccountNotFound):
		return fiber.NewError(http.StatusNotFound, "bank account not found")
	case errors.Is(err, ErrAccountNotLinked):
		return fiber.NewError(http.StatusForbidden, ErrAccountNotLinked.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return fiber.NewError(http.StatusBadRequest, ledger.ErrInsufficientFunds.Error())
	case errors.Is(err, ErrSettlementFailed):
		detail := err.Error()
		var settlementErr *settlement.Error
		if errors.As(err, &settlementErr) {
			detail = settlementErr.Detail
		}
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error:  ErrSettlementFailed.Error(),
			Detail: detail,
		})
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
