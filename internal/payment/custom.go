package payment

import (
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/fields"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/utils"
)

// customGateway is the default arm: bearer auth and best-effort extraction.
// Relay responses are normalized through it as well.
type customGateway struct{ pixCharges }

func (g *customGateway) Provider() Provider { return ProviderCustom }

func (g *customGateway) AuthMethod() AuthMethod { return AuthBearer }

func (g *customGateway) Format(req PaymentRequest) map[string]interface{} {
	return map[string]interface{}{
		"amount":      req.Amount.InexactFloat64(),
		"description": description(req),
		"customer":    req.Customer,
	}
}

func (g *customGateway) NormalizeCharge(raw map[string]interface{}) *NormalizedCharge {
	qr := fields.String(raw, "qr_code_base64", "qr_code_url", "qrcode_url", "qrcode_image")
	if qr == "" {
		qr = utils.PNGDataURI(fields.String(raw, "qrcode_base64"))
	}

	return &NormalizedCharge{
		TransactionID: fields.String(raw, "transaction_id", "hash", "id", "txid"),
		PixCode:       fields.String(raw, "pix_code", "qr_code", "qrcode", "emv"),
		QRCodeURL:     utils.PNGDataURI(qr),
		Status:        cashInVocabulary.Map(fields.String(raw, "status")),
		ExpiresAt:     fields.String(raw, "expires_at", "expiration_date", "expiresAt"),
		CheckoutURL:   fields.String(raw, "payment_url", "invoice_url"),
		ExternalCode:  fields.String(raw, "external_id"),
		Amount:        amountOf(raw, "amount", "value"),
		Hash:          fields.String(raw, "hash"),
		DateCreated:   fields.String(raw, "created_at"),
	}
}

func (g *customGateway) NormalizeStatus(raw map[string]interface{}) *NormalizedStatus {
	return &NormalizedStatus{
		TransactionID: fields.String(raw, "transactionId", "transaction_id", "txid", "id"),
		Status:        cashInVocabulary.Map(fields.String(raw, "status")),
		PaidAt:        fields.String(raw, "paidAt", "paid_at", "paymentDate"),
		Amount:        amountOf(raw, "amount", "value"),
		DateCreated:   fields.String(raw, "createdAt", "created_at"),
	}
}
