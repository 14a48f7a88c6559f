package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/plata-pay/plata_pay/internal/gateway"
)

// RegisterGatewayRoutes wires the money-movement endpoints.
func RegisterGatewayRoutes(r fiber.Router, h *gateway.Handler) {
	r.Post("/link-account", h.LinkAccount)
	r.Post("/debin", h.Debin)
	r.Post("/transfer", h.Transfer)
}
