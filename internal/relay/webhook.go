package relay

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/emickson/mobile-action-bar-backend/internal/payment"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/fields"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/telegram"
	"github.com/emickson/mobile-action-bar-backend/internal/store"
)

// WebhookEvent is a gateway notification reduced to what the relay tracks.
type WebhookEvent struct {
	Gateway       Gateway
	TransactionID string
	// Status is the gateway's native value; empty when the payload has none.
	Status string
	PaidAt string
	Amount decimal.NullDecimal
}

var asaasEvents = map[string]string{
	"PAYMENT_CREATED":   "PENDING",
	"PAYMENT_RECEIVED":  "RECEIVED",
	"PAYMENT_CONFIRMED": "CONFIRMED",
	"PAYMENT_OVERDUE":   "OVERDUE",
	"PAYMENT_DELETED":   string(payment.StatusCancelled),
	"PAYMENT_REFUNDED":  "REFUNDED",
}

// ParseWebhook extracts the transaction and status from a notification body.
func ParseWebhook(gw Gateway, doc map[string]interface{}) WebhookEvent {
	ev := WebhookEvent{Gateway: gw}
	switch gw {
	case GatewayIronPay:
		ev.TransactionID = fields.String(doc, "transaction.hash", "hash", "id", "transaction_id")
		ev.Status = fields.String(doc, "payment_status", "status", "transaction.status")
		ev.PaidAt = fields.String(doc, "paid_at", "updated_at")
		ev.Amount = centsAmount(doc, "amount", "transaction.amount")
	case GatewayAsaas:
		ev.TransactionID = fields.String(doc, "payment.id")
		if native, ok := asaasEvents[fields.String(doc, "event")]; ok {
			ev.Status = native
		} else {
			ev.Status = fields.String(doc, "payment.status")
		}
		ev.PaidAt = fields.String(doc, "payment.paymentDate", "payment.confirmedDate")
		if v, ok := fields.Decimal(doc, "payment.value"); ok {
			ev.Amount = decimal.NullDecimal{Decimal: v, Valid: true}
		}
	case GatewayTriboPay:
		ev.TransactionID = fields.String(doc, "id", "transaction_id", "external_id")
		ev.Status = fields.String(doc, "status")
		ev.PaidAt = fields.String(doc, "paid_at", "updated_at")
		ev.Amount = centsAmount(doc, "amount")
	case GatewayMercadoPago:
		ev.TransactionID = fields.String(doc, "data.id", "id")
	}
	return ev
}

// ApplyWebhook records a notification. It never fails: problems are logged
// and reported as applied=false.
func (s *Service) ApplyWebhook(ctx context.Context, gw Gateway, doc map[string]interface{}) (store.Record, bool) {
	ev := ParseWebhook(gw, doc)
	if ev.TransactionID == "" {
		s.logger.Warn("webhook without transaction id", zap.String("gateway", string(gw)))
		return store.Record{}, false
	}

	if gw == GatewayMercadoPago {
		if Detect(s.cfg.DefaultToken) != GatewayMercadoPago {
			s.logger.Info("mercadopago webhook ignored, no access token configured", zap.String("transaction_id", ev.TransactionID))
			return store.Record{}, false
		}
		native, paidAt, err := s.mercadoPagoStatus(ctx, s.cfg.DefaultToken, ev.TransactionID)
		if err != nil {
			s.logger.Warn("mercadopago webhook lookup failed", zap.String("transaction_id", ev.TransactionID), zap.Error(err))
			return store.Record{}, false
		}
		ev.Status, ev.PaidAt = native, paidAt
	}
	if ev.Status == "" {
		s.logger.Warn("webhook without status", zap.String("gateway", string(gw)), zap.String("transaction_id", ev.TransactionID))
		return store.Record{}, false
	}

	var wasPaid bool
	if s.store != nil {
		if prev, ok, err := s.store.Get(ctx, ev.TransactionID); err == nil && ok {
			wasPaid = prev.Status == payment.StatusPaid
		}
	}

	rec := s.record(ctx, gw, ev.TransactionID, ev.Status, ev.PaidAt)
	s.logger.Info("webhook applied",
		zap.String("gateway", string(gw)),
		zap.String("transaction_id", rec.TransactionID),
		zap.String("native_status", ev.Status),
		zap.String("status", string(rec.Status)),
	)

	if rec.Status == payment.StatusPaid && !wasPaid && s.notifier != nil {
		notice := telegram.PaymentEvent{
			TransactionID: rec.TransactionID,
			Gateway:       string(gw),
			Status:        string(rec.Status),
		}
		if ev.Amount.Valid {
			notice.Amount = ev.Amount.Decimal.StringFixed(2)
		}
		if err := s.notifier.NotifyPayment(ctx, notice); err != nil {
			s.logger.Warn("payment notification failed", zap.String("transaction_id", rec.TransactionID), zap.Error(err))
		}
	}
	return rec, true
}

func centsAmount(doc map[string]interface{}, paths ...string) decimal.NullDecimal {
	d, ok := fields.Decimal(doc, paths...)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d.Shift(-2), Valid: true}
}
