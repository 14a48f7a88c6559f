package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/plata-pay/plata_pay/internal/config"
	"github.com/plata-pay/plata_pay/internal/gateway"
	"github.com/plata-pay/plata_pay/internal/ledger"
	"github.com/plata-pay/plata_pay/internal/links"
	"github.com/plata-pay/plata_pay/internal/middleware"
	"github.com/plata-pay/plata_pay/internal/notification"
	"github.com/plata-pay/plata_pay/internal/settlement"
)

// Deps aggregates shared dependencies required to wire routes. Ledger and
// Settlement may be pre-built (tests do this); otherwise Setup constructs
// them from the configuration: a Postgres store when DB is present, the
// file-backed store otherwise, and an HTTP settlement client when a
// settlement URL is configured, the static stub otherwise.
type Deps struct {
	Cfg        config.Config
	DB         *pgxpool.Pool
	Cache      *redis.Client
	Ledger     ledger.Store
	Settlement settlement.Client
	Logger     *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	// Plain text access log: [HH:MM:SS] 200 -  145ms METHOD /path
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	if d.Cache != nil {
		app.Use(middleware.RateLimit(d.Cache, d.Cfg.RateLimitPerMin))
	}

	RegisterHealthRoutes(app, d)

	store := d.Ledger
	if store == nil {
		if d.DB != nil {
			store = ledger.NewPostgres(d.DB)
		} else {
			fileStore, err := ledger.OpenFile(d.Cfg.LedgerPath, d.Logger)
			if err != nil {
				return err
			}
			store = fileStore
		}
	}

	client := d.Settlement
	if client == nil {
		if d.Cfg.SettlementURL != "" {
			client = settlement.NewHTTPClient(d.Cfg.SettlementURL, d.Cfg.SettlementToken)
		} else {
			client = settlement.StaticClient{}
		}
	}

	registry := links.NewRegistry(store)
	notifier := notification.NewLoggerNotifier(d.Logger)
	svc := gateway.NewService(store, registry, client, notifier, gateway.DebinPolicy(d.Cfg.DebinPolicy), d.Logger)
	handler := gateway.NewHandler(svc)

	app.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterGatewayRoutes(app, handler)

	return nil
}
