package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/emickson/mobile-action-bar-backend/internal/handler"
	"github.com/emickson/mobile-action-bar-backend/internal/middleware"
	"github.com/emickson/mobile-action-bar-backend/internal/relay"
)

// Options carries what the routes need besides the relay itself.
type Options struct {
	AllowedOrigins []string
	StaticDir      string
	Deduper        middleware.WebhookDeduper
}

// Setup configures all routes for the Echo server.
func Setup(e *echo.Echo, svc handler.RelayService, logger *zap.Logger, opts Options) {
	// Global middleware
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.CORS(opts.AllowedOrigins))

	checkout := handler.NewCheckoutHandler(svc, logger)
	webhooks := handler.NewWebhookHandler(svc, logger)

	api := e.Group("/api")
	api.POST("/pagar", checkout.Charge)
	api.POST("/payment", checkout.Proxy)
	api.GET("/pagamento/status/:transactionId", checkout.Status)
	api.GET("/validate-ironpay", checkout.ValidateIronPay)

	// Gateway notifications, de-duplicated by body hash
	webhookGroup := e.Group("/webhook", middleware.WebhookDedup(opts.Deduper, logger))
	for _, gw := range []relay.Gateway{relay.GatewayIronPay, relay.GatewayAsaas, relay.GatewayTriboPay, relay.GatewayMercadoPago} {
		webhookGroup.POST("/"+string(gw), webhooks.For(gw))
	}

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Checkout page and assets
	if opts.StaticDir != "" {
		e.Static("/", opts.StaticDir)
	}
}
