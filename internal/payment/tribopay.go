package payment

import (
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/fields"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/utils"
)

type triboPayGateway struct{ pixCharges }

func (g *triboPayGateway) Provider() Provider { return ProviderTriboPay }

func (g *triboPayGateway) Format(req PaymentRequest) map[string]interface{} {
	return map[string]interface{}{
		"amount":      req.Amount.InexactFloat64(),
		"description": description(req),
		"payer":       req.Customer,
		"pixKey":      g.cfg.PixKey,
	}
}

func (g *triboPayGateway) NormalizeCharge(raw map[string]interface{}) *NormalizedCharge {
	return &NormalizedCharge{
		TransactionID: fields.String(raw, "transaction_id", "id"),
		PixCode:       fields.String(raw, "pix_code", "pixCode", "pix.code"),
		QRCodeURL:     utils.PNGDataURI(fields.String(raw, "qrcode_url", "qrcodeUrl", "pix.imageBase64")),
		Status:        cashInVocabulary.Map(fields.String(raw, "status")),
		ExpiresAt:     fields.String(raw, "expires_at"),
		Amount:        amountOf(raw, "amount"),
	}
}

func (g *triboPayGateway) NormalizeStatus(raw map[string]interface{}) *NormalizedStatus {
	return genericStatus(raw, cashInVocabulary)
}
