package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/emickson/mobile-action-bar-backend/internal/relay"
)

// WebhookHandler receives gateway notifications. Gateways retry on anything
// but 2xx, so every parseable delivery is acknowledged.
type WebhookHandler struct {
	relay  RelayService
	logger *zap.Logger
}

func NewWebhookHandler(svc RelayService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{relay: svc, logger: logger}
}

// For returns the handler of /webhook/<gw>.
func (h *WebhookHandler) For(gw relay.Gateway) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return c.String(http.StatusBadRequest, "ERRO")
		}

		doc := map[string]interface{}{}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			h.logger.Warn("unparseable webhook", zap.String("gateway", string(gw)), zap.Error(err))
			return c.String(http.StatusBadRequest, "ERRO")
		}

		rec, applied := h.relay.ApplyWebhook(c.Request().Context(), gw, doc)
		if applied {
			h.logger.Info("webhook received",
				zap.String("gateway", string(gw)),
				zap.String("transaction_id", rec.TransactionID),
				zap.String("status", string(rec.Status)),
			)
		}
		return c.String(http.StatusOK, "OK")
	}
}
