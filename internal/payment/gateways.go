package payment

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/emickson/mobile-action-bar-backend/internal/pkg/fields"
)

// Gateway is the per-provider capability set. The set of implementations is
// closed; NewGateway picks one and falls back to the custom arm.
type Gateway interface {
	Provider() Provider
	AuthMethod() AuthMethod
	// ChargePath and StatusPath are appended to the resolved base URL.
	ChargePath() string
	StatusPath(transactionID string) string
	Format(req PaymentRequest) map[string]interface{}
	NormalizeCharge(raw map[string]interface{}) *NormalizedCharge
	NormalizeStatus(raw map[string]interface{}) *NormalizedStatus
}

// NewGateway returns the handler for cfg.Provider.
func NewGateway(cfg GatewayConfig, now func() time.Time) Gateway {
	if now == nil {
		now = time.Now
	}
	base := pixCharges{cfg: cfg, now: now}

	switch ParseProvider(string(cfg.Provider)) {
	case ProviderGerencianet:
		return &gerencianetGateway{base}
	case ProviderPagarme:
		return &pagarmeGateway{base}
	case ProviderAsaas:
		return &asaasGateway{base}
	case ProviderMercadoPago:
		return &mercadoPagoGateway{base}
	case ProviderTriboPay:
		return &triboPayGateway{base}
	case ProviderVegas:
		return &vegasGateway{base}
	default:
		return &customGateway{base}
	}
}

// Format builds the provider-specific create-charge body for req.
func Format(req PaymentRequest, cfg GatewayConfig) map[string]interface{} {
	return NewGateway(cfg, time.Now).Format(req)
}

// NormalizeCharge maps a create-charge response of provider. It never fails:
// on a malformed payload the raw document is returned with Fallback set.
func NormalizeCharge(raw map[string]interface{}, provider Provider) *NormalizedCharge {
	charge, _ := normalizeCharge(NewGateway(GatewayConfig{Provider: provider}, nil), raw)
	return charge
}

// NormalizeStatus maps a status-check response of provider. Like
// NormalizeCharge it never fails.
func NormalizeStatus(raw map[string]interface{}, provider Provider) *NormalizedStatus {
	status, _ := normalizeStatus(NewGateway(GatewayConfig{Provider: provider}, nil), raw)
	return status
}

func normalizeCharge(gw Gateway, raw map[string]interface{}) (charge *NormalizedCharge, nerr *NormalizationError) {
	defer func() {
		if r := recover(); r != nil {
			charge = &NormalizedCharge{Fallback: true, Raw: raw}
			nerr = &NormalizationError{Provider: gw.Provider(), Cause: r}
		}
	}()
	if raw == nil {
		return &NormalizedCharge{Fallback: true}, &NormalizationError{Provider: gw.Provider(), Cause: "empty payload"}
	}

	charge = gw.NormalizeCharge(raw)
	if charge.Status == "" {
		charge.Status = StatusPending
	}
	return charge, nil
}

func normalizeStatus(gw Gateway, raw map[string]interface{}) (status *NormalizedStatus, nerr *NormalizationError) {
	defer func() {
		if r := recover(); r != nil {
			status = &NormalizedStatus{Fallback: true, Raw: raw}
			nerr = &NormalizationError{Provider: gw.Provider(), Cause: r}
		}
	}()
	if raw == nil {
		return &NormalizedStatus{Fallback: true}, &NormalizationError{Provider: gw.Provider(), Cause: "empty payload"}
	}
	return gw.NormalizeStatus(raw), nil
}

// pixCharges holds what most providers share: bearer auth against /pix/charges.
type pixCharges struct {
	cfg GatewayConfig
	now func() time.Time
}

func (pixCharges) AuthMethod() AuthMethod { return AuthOAuth2 }

func (pixCharges) ChargePath() string { return "/pix/charges" }

func (pixCharges) StatusPath(transactionID string) string {
	return fmt.Sprintf("/pix/charges/%s", transactionID)
}

func description(req PaymentRequest) string {
	if req.Description != "" {
		return req.Description
	}
	return "Pagamento"
}

func genericStatus(raw map[string]interface{}, vocab Vocabulary) *NormalizedStatus {
	return &NormalizedStatus{
		TransactionID: fields.String(raw, "txid", "id"),
		Status:        vocab.Map(fields.String(raw, "status")),
		PaidAt:        fields.String(raw, "horario", "paid_at", "paymentDate"),
		Amount:        amountOf(raw, "valor.original", "amount", "value"),
	}
}

func amountOf(raw map[string]interface{}, paths ...string) decimal.NullDecimal {
	d, ok := fields.Decimal(raw, paths...)
	return decimal.NullDecimal{Decimal: d, Valid: ok}
}

func centsOf(raw map[string]interface{}, paths ...string) decimal.NullDecimal {
	d, ok := fields.Decimal(raw, paths...)
	return decimal.NullDecimal{Decimal: d.Shift(-2), Valid: ok}
}
