package payment

import (
	"time"

	"github.com/emickson/mobile-action-bar-backend/internal/pkg/fields"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/utils"
)

type asaasGateway struct{ pixCharges }

func (g *asaasGateway) Provider() Provider { return ProviderAsaas }

func (g *asaasGateway) Format(req PaymentRequest) map[string]interface{} {
	return map[string]interface{}{
		"customer":    req.Customer.Document,
		"billingType": "PIX",
		"value":       req.Amount.InexactFloat64(),
		"dueDate":     g.now().Add(time.Hour).UTC().Format("2006-01-02"),
		"description": description(req),
	}
}

func (g *asaasGateway) NormalizeCharge(raw map[string]interface{}) *NormalizedCharge {
	return &NormalizedCharge{
		TransactionID: fields.String(raw, "id"),
		PixCode:       fields.String(raw, "pixTransaction.payload"),
		QRCodeURL:     utils.PNGDataURI(fields.String(raw, "pixTransaction.qrCode.encodedImage")),
		Status:        asaasVocabulary.Map(fields.String(raw, "status")),
		ExpiresAt:     fields.String(raw, "dueDate"),
		Amount:        amountOf(raw, "value"),
		DateCreated:   fields.String(raw, "dateCreated"),
	}
}

func (g *asaasGateway) NormalizeStatus(raw map[string]interface{}) *NormalizedStatus {
	return genericStatus(raw, asaasVocabulary)
}
