package payment

import (
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/fields"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/utils"
)

// vegasGateway is the hosted-checkout provider. It authenticates with an
// api-key header and confirms transactions with the VIEW verb on /checkout.
type vegasGateway struct{ pixCharges }

func (g *vegasGateway) Provider() Provider { return ProviderVegas }

func (g *vegasGateway) AuthMethod() AuthMethod { return AuthAPIKey }

func (g *vegasGateway) ChargePath() string { return "/checkout" }

func (g *vegasGateway) StatusPath(string) string { return "/checkout" }

func (g *vegasGateway) Format(req PaymentRequest) map[string]interface{} {
	c := req.Customer
	addr := Address{}
	if c.Address != nil {
		addr = *c.Address
	}

	externalCode := req.OrderID
	if externalCode == "" {
		externalCode = utils.ExternalCode("ORD", g.now())
	}

	return map[string]interface{}{
		"customer": map[string]interface{}{
			"name":     c.Name,
			"email":    c.Email,
			"document": utils.DigitsOnly(c.Document),
			"phone":    c.Phone,
			"address": map[string]interface{}{
				"street":     addr.Street,
				"number":     addr.Number,
				"complement": addr.Complement,
				"district":   addr.Neighborhood,
				"city":       addr.City,
				"state":      addr.State,
				"zipcode":    utils.DigitsOnly(addr.ZipCode),
			},
		},
		"payment": map[string]interface{}{
			"method":         "pix",
			"payment_value":  utils.ToCents(req.Amount),
			"freight_value":  utils.ToCents(req.Freight),
			"discount_value": utils.ToCents(req.Discount),
			"external_code":  externalCode,
			"currency":       "BRL",
		},
		"products":         vegasProducts(req),
		"notification_url": g.cfg.WebhookURL,
		"src":              utils.FirstNonEmpty(req.Tracking.Src, "checkout_web"),
		"utm_source":       utils.FirstNonEmpty(req.Tracking.UTMSource, "direct"),
		"utm_medium":       utils.FirstNonEmpty(req.Tracking.UTMMedium, "none"),
		"utm_campaign":     utils.FirstNonEmpty(req.Tracking.UTMCampaign, "default"),
		"utm_content":      req.Tracking.UTMContent,
		"utm_term":         req.Tracking.UTMTerm,
	}
}

func vegasProducts(req PaymentRequest) []map[string]interface{} {
	if len(req.Products) == 0 {
		return []map[string]interface{}{{
			"name":        description(req),
			"price":       utils.ToCents(req.Amount),
			"quantity":    1,
			"code":        "PROD001",
			"is_digital":  false,
			"description": description(req),
			"image_url":   "",
		}}
	}

	out := make([]map[string]interface{}, 0, len(req.Products))
	for _, p := range req.Products {
		qty := p.Quantity
		if qty <= 0 {
			qty = 1
		}
		out = append(out, map[string]interface{}{
			"name":        p.Name,
			"price":       utils.ToCents(p.Price),
			"quantity":    qty,
			"code":        p.Code,
			"is_digital":  p.IsDigital,
			"description": p.Description,
			"image_url":   p.ImageURL,
		})
	}
	return out
}

func (g *vegasGateway) NormalizeCharge(raw map[string]interface{}) *NormalizedCharge {
	qr := utils.PNGDataURI(fields.String(raw, "pix_qr_code_base64"))
	if qr == "" {
		qr = fields.String(raw, "qr_code_url", "order_url")
	}

	amount := centsOf(raw, "transaction_amount")
	if !amount.Valid {
		amount = amountOf(raw, "total_price")
	}

	return &NormalizedCharge{
		TransactionID: fields.String(raw, "transaction_id_token", "transaction_token", "tansaction_token"),
		PixCode:       fields.String(raw, "pix_id", "pix_qr_code", "qr_code_text"),
		QRCodeURL:     qr,
		Status:        checkoutVocabulary.Map(fields.String(raw, "status", "payment_status")),
		ExpiresAt:     fields.String(raw, "expiration_date"),
		CheckoutURL:   fields.String(raw, "checkout_url"),
		OrderURL:      fields.String(raw, "order_url"),
		ExternalCode:  fields.String(raw, "external_code"),
		Amount:        amount,
		DateCreated:   fields.String(raw, "date_created"),
		DateApproved:  fields.String(raw, "date_approved"),
	}
}

func (g *vegasGateway) NormalizeStatus(raw map[string]interface{}) *NormalizedStatus {
	return &NormalizedStatus{
		TransactionID: fields.String(raw, "transaction_token", "tansaction_token", "transaction_id_token"),
		ExternalCode:  fields.String(raw, "external_code"),
		Status:        checkoutVocabulary.Map(fields.String(raw, "payment_status", "status")),
		PaidAt:        fields.String(raw, "date_approved"),
		Amount:        centsOf(raw, "transaction_amount"),
		PaymentType:   fields.String(raw, "payment_type"),
		DateCreated:   fields.String(raw, "date_created"),
		DateRefunded:  fields.String(raw, "date_refunded"),
	}
}
