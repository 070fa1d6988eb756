package relay

import (
	"context"

	"go.uber.org/zap"

	"github.com/emickson/mobile-action-bar-backend/internal/payment"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/fields"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/httpclient"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/utils"
)

func (s *Service) ironPayCharge(ctx context.Context, token string, req payment.RelayChargeRequest) (*ChargeResponse, error) {
	c := req.Customer
	addr := ironPayAddress(c.Address)

	productHash := utils.FirstNonEmpty(req.ProductHash, s.cfg.ProductHash)
	cart := req.Cart
	if len(cart) == 0 {
		cart = []payment.CartItem{{
			ProductHash:   productHash,
			Title:         utils.FirstNonEmpty(req.Description, "Pagamento PIX"),
			Price:         req.Amount,
			Quantity:      1,
			OperationType: 1,
		}}
	}

	body := map[string]interface{}{
		"amount":         req.Amount,
		"offer_hash":     utils.FirstNonEmpty(req.OfferHash, s.cfg.OfferHash),
		"payment_method": "pix",
		"installments":   1,
		"customer": map[string]interface{}{
			"name":         c.Name,
			"email":        c.Email,
			"phone_number": utils.DigitsOnly(c.Phone),
			"document":     utils.DigitsOnly(c.Document),
			"street_name":  addr.Street,
			"number":       addr.Number,
			"complement":   addr.Complement,
			"neighborhood": addr.Neighborhood,
			"city":         addr.City,
			"state":        addr.State,
			"zip_code":     addr.ZipCode,
		},
		"cart":               cart,
		"expire_in_days":     1,
		"transaction_origin": "api",
		"tracking": map[string]interface{}{
			"src":          "",
			"utm_source":   "checkout",
			"utm_medium":   "web",
			"utm_campaign": "direct",
			"utm_term":     "",
			"utm_content":  "",
		},
		"postback_url": s.webhookURL(GatewayIronPay),
	}

	resp, err := s.http.Post(ctx, s.cfg.IronPayBaseURL+"/api/public/v1/transactions", body,
		httpclient.Query("api_token", token))
	if err != nil {
		return nil, transportFailure(GatewayIronPay, err)
	}
	if !resp.OK() {
		return nil, upstreamFailure(resp)
	}
	doc, err := resp.JSON()
	if err != nil {
		return nil, invalidResponse(resp)
	}

	pix := fields.String(doc, "pix.pix_qr_code", "pix_qr_code", "qr_code")
	image := fields.String(doc, "pix.pix_url", "pix.url", "pix_url")
	if image == "" && pix != "" {
		if image, err = utils.QRCodeDataURI(pix, 256); err != nil {
			s.logger.Warn("qr code render failed", zap.Error(err))
		}
	}

	amount := utils.FromCents(req.Amount)
	if cents, ok := fields.Decimal(doc, "amount", "transaction.amount"); ok {
		amount = cents.Shift(-2)
	}

	return &ChargeResponse{
		TransactionID: fields.String(doc, "transaction.hash", "hash", "id"),
		Hash:          fields.String(doc, "hash", "transaction.hash"),
		QRCode:        pix,
		PixCode:       pix,
		QRCodeBase64:  image,
		QRCodeURL:     image,
		PaymentURL:    fields.String(doc, "payment_url", "transaction.payment_url"),
		Status:        fields.String(doc, "transaction.status", "status", "payment_status"),
		Amount:        amountFloat(amount),
		ExpiresAt:     fields.String(doc, "pix.expiration_date", "expires_at"),
		CreatedAt:     fields.String(doc, "created_at"),
	}, nil
}

// ironPayAddress fills every blank field from the default address; IronPay
// rejects transactions with missing address fields.
func ironPayAddress(in *payment.RelayAddress) payment.RelayAddress {
	def := payment.DefaultRelayAddress()
	if in == nil {
		return def
	}
	return payment.RelayAddress{
		Street:       utils.FirstNonEmpty(in.Street, def.Street),
		Number:       utils.FirstNonEmpty(in.Number, def.Number),
		Complement:   in.Complement,
		Neighborhood: utils.FirstNonEmpty(in.Neighborhood, def.Neighborhood),
		City:         utils.FirstNonEmpty(in.City, def.City),
		State:        utils.FirstNonEmpty(in.State, def.State),
		ZipCode:      utils.FirstNonEmpty(utils.DigitsOnly(in.ZipCode), def.ZipCode),
	}
}
