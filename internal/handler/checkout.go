package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/emickson/mobile-action-bar-backend/internal/payment"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/httpclient"
	"github.com/emickson/mobile-action-bar-backend/internal/relay"
	"github.com/emickson/mobile-action-bar-backend/internal/store"
)

// RelayService is what the checkout endpoints need from the relay.
type RelayService interface {
	Charge(ctx context.Context, req payment.RelayChargeRequest) (*relay.ChargeResponse, error)
	Forward(ctx context.Context, req payment.RelayProxyRequest) (*httpclient.Response, error)
	Status(ctx context.Context, transactionID string) (store.Record, error)
	ApplyWebhook(ctx context.Context, gw relay.Gateway, doc map[string]interface{}) (store.Record, bool)
}

// CheckoutHandler serves the endpoints the checkout page calls.
type CheckoutHandler struct {
	relay  RelayService
	logger *zap.Logger
}

func NewCheckoutHandler(svc RelayService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{relay: svc, logger: logger}
}

type failure struct {
	Success bool `json:"success"`
	*relay.ChargeError
}

type statusResponse struct {
	Success       bool           `json:"success"`
	TransactionID string         `json:"transactionId"`
	Status        payment.Status `json:"status"`
	Gateway       string         `json:"gateway,omitempty"`
	PaidAt        string         `json:"paid_at,omitempty"`
	UpdatedAt     string         `json:"updated_at,omitempty"`
}

// Charge handles POST /api/pagar.
func (h *CheckoutHandler) Charge(c echo.Context) error {
	var req payment.RelayChargeRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, &relay.ChargeError{StatusCode: http.StatusBadRequest, Message: "invalid payment data"})
	}

	resp, err := h.relay.Charge(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Proxy handles POST /api/payment and passes the gateway's answer through.
func (h *CheckoutHandler) Proxy(c echo.Context) error {
	var req payment.RelayProxyRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, &relay.ChargeError{StatusCode: http.StatusBadRequest, Message: "invalid request body"})
	}

	resp, err := h.relay.Forward(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}

	contentType := resp.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = echo.MIMEApplicationJSON
	}
	return c.Blob(resp.StatusCode, contentType, resp.Body)
}

// Status handles GET /api/pagamento/status/:transactionId.
func (h *CheckoutHandler) Status(c echo.Context) error {
	id := c.Param("transactionId")
	rec, err := h.relay.Status(c.Request().Context(), id)
	if errors.Is(err, relay.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]interface{}{"success": false, "error": "transaction not found"})
	}
	if err != nil {
		h.logger.Warn("status lookup failed", zap.String("transaction_id", id), zap.Error(err))
		return c.JSON(http.StatusBadGateway, map[string]interface{}{"success": false, "error": err.Error()})
	}

	out := statusResponse{
		Success:       true,
		TransactionID: rec.TransactionID,
		Status:        rec.Status,
		Gateway:       rec.Gateway,
		PaidAt:        rec.PaidAt,
	}
	if !rec.UpdatedAt.IsZero() {
		out.UpdatedAt = rec.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return c.JSON(http.StatusOK, out)
}

// ValidateIronPay handles GET /api/validate-ironpay with setup guidance.
func (h *CheckoutHandler) ValidateIronPay(c echo.Context) error {
	return c.JSON(http.StatusOK, ironPayGuide)
}

func (h *CheckoutHandler) fail(c echo.Context, err error) error {
	var chErr *relay.ChargeError
	if !errors.As(err, &chErr) {
		h.logger.Error("relay call failed", zap.Error(err))
		chErr = &relay.ChargeError{StatusCode: http.StatusInternalServerError, Message: err.Error()}
	}
	return c.JSON(chErr.StatusCode, failure{ChargeError: chErr})
}

var ironPayGuide = map[string]interface{}{
	"success": true,
	"message": "IronPay Validation Guide",
	"documentation": map[string]interface{}{
		"title": "Como validar hashes do IronPay",
		"important": []string{
			"O hash é único e deve ser usado como identificador",
			"O ID não será exibido na API pública em futuras alterações",
			"Token, offer_hash e product_hash DEVEM pertencer à mesma conta",
		},
		"validation_rules": []string{
			"Verificar se o product_hash existe",
			"Verificar se o offer_hash pertence ao mesmo seller",
			"Verificar se o token pertence ao mesmo seller",
		},
		"error_403": map[string]interface{}{
			"cause": "Hashes não pertencem à mesma conta que gerou o token",
			"solution": []string{
				"Verifique se você copiou todos os valores da MESMA CONTA",
				"Painel IronPay → Ofertas e Links → Copie offer_hash e product_hash",
				"Painel IronPay → Integrações → API → Copie o token",
				"Certifique-se de estar logado na conta correta",
			},
		},
		"required_fields": map[string]string{
			"token":        "Token de autenticação da API IronPay",
			"offer_hash":   "Hash da oferta (ex: 7becb)",
			"product_hash": "Hash do produto (ex: 7tjdfkshdv)",
		},
		"where_to_find": map[string]string{
			"token":        "Painel IronPay → Integrações → API",
			"offer_hash":   "Painel IronPay → Ofertas e Links → Selecione a oferta",
			"product_hash": "Painel IronPay → Ofertas e Links ou Produtos",
		},
	},
}
