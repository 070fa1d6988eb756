package relay

import (
	"context"

	"github.com/emickson/mobile-action-bar-backend/internal/payment"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/fields"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/httpclient"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/utils"
)

func (s *Service) triboPayCharge(ctx context.Context, token string, req payment.RelayChargeRequest) (*ChargeResponse, error) {
	body := map[string]interface{}{
		"amount":            req.Amount,
		"externalId":        utils.ExternalCode("pedido_", s.now()),
		"postbackUrl":       s.webhookURL(GatewayTriboPay),
		"method":            "pix",
		"transactionOrigin": "cashin",
		"payer": map[string]interface{}{
			"name":     req.Customer.Name,
			"email":    req.Customer.Email,
			"document": utils.Truncate(utils.DigitsOnly(req.Customer.Document), 11),
		},
	}

	resp, err := s.http.Post(ctx, s.cfg.TriboPayBaseURL+"/api/public/cash/deposits/pix", body, httpclient.Bearer(token))
	if err != nil {
		return nil, transportFailure(GatewayTriboPay, err)
	}
	if !resp.OK() {
		return nil, upstreamFailure(resp)
	}
	doc, err := resp.JSON()
	if err != nil {
		return nil, invalidResponse(resp)
	}

	image := utils.PNGDataURI(fields.String(doc, "pix.imageBase64"))
	out := &ChargeResponse{
		TransactionID: fields.String(doc, "id", "transaction_id", "external_id"),
		QRCode:        fields.String(doc, "pix.code"),
		PixCode:       fields.String(doc, "pix.code"),
		QRCodeBase64:  image,
		QRCodeURL:     image,
		Status:        fields.String(doc, "status"),
		Amount:        amountFloat(utils.FromCents(req.Amount)),
		ExternalID:    fields.String(doc, "external_id", "externalId"),
		CreatedAt:     fields.String(doc, "created_at"),
		UpdatedAt:     fields.String(doc, "updated_at"),
	}
	if cents, ok := fields.Decimal(doc, "amount"); ok {
		out.Amount = amountFloat(cents.Shift(-2))
	}
	if net, ok := fields.Decimal(doc, "net_amount"); ok {
		out.NetAmount = amountFloat(net.Shift(-2))
	}
	return out, nil
}
