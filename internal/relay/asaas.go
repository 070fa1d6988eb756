package relay

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/emickson/mobile-action-bar-backend/internal/payment"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/fields"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/httpclient"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/utils"
)

// asaasCharge creates the payment, then fetches its QR code in a second
// call. A failed QR fetch still yields a successful charge.
func (s *Service) asaasCharge(ctx context.Context, token string, req payment.RelayChargeRequest) (*ChargeResponse, error) {
	now := s.now()
	body := map[string]interface{}{
		"billingType":       "PIX",
		"value":             amountFloat(utils.FromCents(req.Amount)),
		"dueDate":           now.UTC().Format("2006-01-02"),
		"description":       utils.FirstNonEmpty(req.Description, "Pagamento PIX"),
		"externalReference": utils.ExternalCode("pedido_", now),
		"customer": map[string]interface{}{
			"name":        req.Customer.Name,
			"email":       req.Customer.Email,
			"cpfCnpj":     utils.DigitsOnly(req.Customer.Document),
			"mobilePhone": utils.DigitsOnly(req.Customer.Phone),
		},
		"postalService": false,
	}

	resp, err := s.http.Post(ctx, s.cfg.AsaasBaseURL+"/payments", body, httpclient.Header("access_token", token))
	if err != nil {
		return nil, transportFailure(GatewayAsaas, err)
	}
	if !resp.OK() {
		return nil, upstreamFailure(resp)
	}
	doc, err := resp.JSON()
	if err != nil {
		return nil, invalidResponse(resp)
	}

	id := fields.String(doc, "id")
	out := &ChargeResponse{
		TransactionID: id,
		Status:        fields.String(doc, "status"),
		InvoiceURL:    fields.String(doc, "invoiceUrl"),
		PaymentURL:    fields.String(doc, "invoiceUrl"),
		ExternalID:    fields.String(doc, "externalReference"),
		ExpiresAt:     fields.String(doc, "dueDate"),
		CreatedAt:     fields.String(doc, "dateCreated"),
	}
	if v, ok := fields.Decimal(doc, "value"); ok {
		out.Amount = amountFloat(v)
	}

	qrResp, err := s.http.Get(ctx, s.cfg.AsaasBaseURL+"/payments/"+url.PathEscape(id)+"/pixQrCode",
		httpclient.Header("access_token", token))
	switch {
	case err != nil:
		s.logger.Warn("asaas qr code fetch failed", zap.String("payment_id", id), zap.Error(err))
	case !qrResp.OK():
		s.logger.Warn("asaas qr code fetch rejected", zap.String("payment_id", id), zap.Int("status", qrResp.StatusCode))
	default:
		qr, err := qrResp.JSON()
		if err != nil {
			s.logger.Warn("asaas qr code response is not JSON", zap.String("payment_id", id))
			break
		}
		out.QRCode = fields.String(qr, "payload")
		out.PixCode = out.QRCode
		out.QRCodeBase64 = utils.PNGDataURI(fields.String(qr, "encodedImage"))
		out.QRCodeURL = out.QRCodeBase64
		out.ExpiresAt = utils.FirstNonEmpty(fields.String(qr, "expirationDate"), out.ExpiresAt)
	}
	return out, nil
}

// asaasStatus looks a payment up directly.
func (s *Service) asaasStatus(ctx context.Context, token, id string) (string, string, error) {
	resp, err := s.http.Get(ctx, s.cfg.AsaasBaseURL+"/payments/"+url.PathEscape(id), httpclient.Header("access_token", token))
	if err != nil {
		return "", "", err
	}
	if !resp.OK() {
		return "", "", upstreamFailure(resp)
	}
	doc, err := resp.JSON()
	if err != nil {
		return "", "", invalidResponse(resp)
	}
	return fields.String(doc, "status"), fields.String(doc, "paymentDate", "confirmedDate"), nil
}
