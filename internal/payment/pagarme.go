package payment

import (
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/fields"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/utils"
)

type pagarmeGateway struct{ pixCharges }

func (g *pagarmeGateway) Provider() Provider { return ProviderPagarme }

func (g *pagarmeGateway) Format(req PaymentRequest) map[string]interface{} {
	c := req.Customer
	return map[string]interface{}{
		"amount":         utils.ToCents(req.Amount),
		"payment_method": "pix",
		"customer": map[string]interface{}{
			"name":     c.Name,
			"email":    c.Email,
			"document": c.Document,
			"type":     "individual",
			"phones": map[string]interface{}{
				"mobile_phone": map[string]interface{}{
					"country_code": "55",
					"number":       utils.DigitsOnly(c.Phone),
				},
			},
		},
		"pix": map[string]interface{}{"expires_in": 3600},
	}
}

func (g *pagarmeGateway) NormalizeCharge(raw map[string]interface{}) *NormalizedCharge {
	tx := "charges.0.last_transaction."
	return &NormalizedCharge{
		TransactionID: fields.String(raw, "id"),
		PixCode:       fields.String(raw, tx+"qr_code"),
		QRCodeURL:     fields.String(raw, tx+"qr_code_url"),
		Status:        pagarmeVocabulary.Map(fields.String(raw, "status")),
		ExpiresAt:     fields.String(raw, tx+"expires_at"),
		Amount:        centsOf(raw, "amount"),
	}
}

func (g *pagarmeGateway) NormalizeStatus(raw map[string]interface{}) *NormalizedStatus {
	return genericStatus(raw, pagarmeVocabulary)
}
