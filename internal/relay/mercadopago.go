package relay

import (
	"context"
	"encoding/json"

	"github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"

	"github.com/emickson/mobile-action-bar-backend/internal/payment"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/fields"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/utils"
)

// MercadoPagoPayments is the part of the SDK payment client the relay uses.
type MercadoPagoPayments interface {
	Create(ctx context.Context, request mppayment.Request) (*mppayment.Response, error)
	Get(ctx context.Context, id int) (*mppayment.Response, error)
}

// MercadoPagoFactory builds a client for one access token.
type MercadoPagoFactory func(accessToken string) (MercadoPagoPayments, error)

// NewMercadoPagoClient is the SDK-backed MercadoPagoFactory.
func NewMercadoPagoClient(accessToken string) (MercadoPagoPayments, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, err
	}
	return mppayment.NewClient(cfg), nil
}

func (s *Service) mercadoPagoCharge(ctx context.Context, token string, req payment.RelayChargeRequest) (*ChargeResponse, error) {
	client, err := s.mp(token)
	if err != nil {
		return nil, transportFailure(GatewayMercadoPago, err)
	}

	first, last := utils.SplitName(req.Customer.Name)
	if last == "" {
		last = first
	}
	body := map[string]interface{}{
		"transaction_amount": amountFloat(utils.FromCents(req.Amount)),
		"description":        utils.FirstNonEmpty(req.Description, "Pagamento PIX"),
		"payment_method_id":  "pix",
		"notification_url":   s.webhookURL(GatewayMercadoPago),
		"payer": map[string]interface{}{
			"email":      req.Customer.Email,
			"first_name": first,
			"last_name":  last,
			"identification": map[string]interface{}{
				"type":   "CPF",
				"number": utils.DigitsOnly(req.Customer.Document),
			},
		},
	}
	if body["notification_url"] == "" {
		delete(body, "notification_url")
	}

	// The SDK request type carries the API's json tags, so the payload is
	// shaped as a map and decoded into it.
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, transportFailure(GatewayMercadoPago, err)
	}
	var mpReq mppayment.Request
	if err := json.Unmarshal(raw, &mpReq); err != nil {
		return nil, transportFailure(GatewayMercadoPago, err)
	}

	resp, err := client.Create(ctx, mpReq)
	if err != nil {
		return nil, mercadoPagoFailure(err)
	}

	doc, err := toDocument(resp)
	if err != nil {
		return nil, transportFailure(GatewayMercadoPago, err)
	}

	td := "point_of_interaction.transaction_data."
	qrB64 := utils.PNGDataURI(fields.String(doc, td+"qr_code_base64"))
	amount, _ := fields.Decimal(doc, "transaction_amount")
	return &ChargeResponse{
		TransactionID: fields.String(doc, "id"),
		QRCode:        fields.String(doc, td+"qr_code"),
		PixCode:       fields.String(doc, td+"qr_code"),
		QRCodeBase64:  qrB64,
		QRCodeURL:     qrB64,
		PaymentURL:    fields.String(doc, td+"ticket_url"),
		Status:        fields.String(doc, "status"),
		Amount:        amountFloat(amount),
		ExpiresAt:     fields.String(doc, "date_of_expiration"),
		CreatedAt:     fields.String(doc, "date_created"),
	}, nil
}

// toDocument re-encodes an SDK response as a generic JSON document.
func toDocument(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	doc := map[string]interface{}{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
