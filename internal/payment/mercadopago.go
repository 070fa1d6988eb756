package payment

import (
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/fields"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/utils"
)

type mercadoPagoGateway struct{ pixCharges }

func (g *mercadoPagoGateway) Provider() Provider { return ProviderMercadoPago }

func (g *mercadoPagoGateway) Format(req PaymentRequest) map[string]interface{} {
	first, last := utils.SplitName(req.Customer.Name)
	return map[string]interface{}{
		"transaction_amount": req.Amount.InexactFloat64(),
		"description":        description(req),
		"payment_method_id":  "pix",
		"payer": map[string]interface{}{
			"email":      req.Customer.Email,
			"first_name": first,
			"last_name":  last,
			"identification": map[string]interface{}{
				"type":   "CPF",
				"number": req.Customer.Document,
			},
		},
	}
}

func (g *mercadoPagoGateway) NormalizeCharge(raw map[string]interface{}) *NormalizedCharge {
	td := "point_of_interaction.transaction_data."
	return &NormalizedCharge{
		TransactionID: fields.String(raw, "id"),
		PixCode:       fields.String(raw, td+"qr_code"),
		QRCodeURL:     utils.PNGDataURI(fields.String(raw, td+"qr_code_base64")),
		Status:        checkoutVocabulary.Map(fields.String(raw, "status")),
		ExpiresAt:     fields.String(raw, "date_of_expiration"),
		Amount:        amountOf(raw, "transaction_amount"),
		DateCreated:   fields.String(raw, "date_created"),
		DateApproved:  fields.String(raw, "date_approved"),
	}
}

func (g *mercadoPagoGateway) NormalizeStatus(raw map[string]interface{}) *NormalizedStatus {
	return genericStatus(raw, checkoutVocabulary)
}
