// Package relay is the server side of checkout: it holds gateway
// credentials, talks to the gateways the browser cannot reach, and tracks
// webhook-reported statuses.
package relay

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/emickson/mobile-action-bar-backend/internal/payment"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/httpclient"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/telegram"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/utils"
	"github.com/emickson/mobile-action-bar-backend/internal/store"
)

const (
	DefaultAsaasBaseURL    = "https://www.asaas.com/api/v3"
	DefaultIronPayBaseURL  = "https://api.ironpayapp.com.br"
	DefaultTriboPayBaseURL = "https://api.tribopay.com.br"
)

// Config holds relay-wide settings. Zero values fall back to defaults.
type Config struct {
	// PublicURL is where gateways can reach this server's webhooks.
	PublicURL string
	// DefaultToken is used when a request carries no apiKey.
	DefaultToken string
	OfferHash    string
	ProductHash  string

	AsaasBaseURL    string
	IronPayBaseURL  string
	TriboPayBaseURL string

	// ProxyHosts extends the hosts /api/payment may forward to.
	ProxyHosts []string
}

// PaymentNotifier is told about payments that reached paid.
type PaymentNotifier interface {
	NotifyPayment(ctx context.Context, ev telegram.PaymentEvent) error
}

// ChargeResponse is the relay's answer to a successful charge.
type ChargeResponse struct {
	Success       bool    `json:"success"`
	Gateway       Gateway `json:"gateway,omitempty"`
	TransactionID string  `json:"transaction_id,omitempty"`
	Hash          string  `json:"hash,omitempty"`
	QRCode        string  `json:"qr_code,omitempty"`
	PixCode       string  `json:"pix_code,omitempty"`
	QRCodeBase64  string  `json:"qr_code_base64,omitempty"`
	QRCodeURL     string  `json:"qr_code_url,omitempty"`
	PaymentURL    string  `json:"payment_url,omitempty"`
	InvoiceURL    string  `json:"invoice_url,omitempty"`
	Status        string  `json:"status,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
	NetAmount     float64 `json:"net_amount,omitempty"`
	ExternalID    string  `json:"external_id,omitempty"`
	ExpiresAt     string  `json:"expires_at,omitempty"`
	CreatedAt     string  `json:"created_at,omitempty"`
	UpdatedAt     string  `json:"updated_at,omitempty"`
}

type Service struct {
	cfg      Config
	http     *httpclient.Client
	mp       MercadoPagoFactory
	store    store.StatusStore
	notifier PaymentNotifier
	logger   *zap.Logger
	now      func() time.Time
}

type Option func(*Service)

func WithHTTPClient(hc *httpclient.Client) Option {
	return func(s *Service) { s.http = hc }
}

// WithMercadoPago replaces the SDK-backed client factory.
func WithMercadoPago(f MercadoPagoFactory) Option {
	return func(s *Service) { s.mp = f }
}

func WithNotifier(n PaymentNotifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(cfg Config, st store.StatusStore, opts ...Option) *Service {
	cfg.AsaasBaseURL = strings.TrimRight(utils.FirstNonEmpty(cfg.AsaasBaseURL, DefaultAsaasBaseURL), "/")
	cfg.IronPayBaseURL = strings.TrimRight(utils.FirstNonEmpty(cfg.IronPayBaseURL, DefaultIronPayBaseURL), "/")
	cfg.TriboPayBaseURL = strings.TrimRight(utils.FirstNonEmpty(cfg.TriboPayBaseURL, DefaultTriboPayBaseURL), "/")
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	cfg.OfferHash = utils.FirstNonEmpty(cfg.OfferHash, payment.DefaultOfferHash)
	cfg.ProductHash = utils.FirstNonEmpty(cfg.ProductHash, payment.DefaultProductHash)

	s := &Service{
		cfg:    cfg,
		http:   httpclient.New(),
		mp:     NewMercadoPagoClient,
		store:  st,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Charge creates a PIX charge on the gateway the token points at.
func (s *Service) Charge(ctx context.Context, req payment.RelayChargeRequest) (*ChargeResponse, error) {
	if req.Amount <= 0 || strings.TrimSpace(req.Customer.Name) == "" || strings.TrimSpace(req.Customer.Email) == "" {
		return nil, badRequest("invalid payment data")
	}

	token := utils.FirstNonEmpty(req.APIKey, s.cfg.DefaultToken)
	if token == "" {
		return nil, badRequest("gateway token not configured")
	}

	gw := Detect(token)
	s.logger.Info("relay charge",
		zap.String("gateway", string(gw)),
		zap.String("token", utils.MaskToken(token)),
		zap.Int64("amount_cents", req.Amount),
	)

	var (
		resp *ChargeResponse
		err  error
	)
	switch gw {
	case GatewayTest:
		resp, err = s.mockCharge(req)
	case GatewayMercadoPago:
		resp, err = s.mercadoPagoCharge(ctx, token, req)
	case GatewayAsaas:
		resp, err = s.asaasCharge(ctx, token, req)
	case GatewayIronPay:
		resp, err = s.ironPayCharge(ctx, token, req)
	case GatewayTriboPay:
		resp, err = s.triboPayCharge(ctx, token, req)
	default:
		return nil, badRequest("unsupported gateway")
	}
	if err != nil {
		s.logger.Warn("relay charge failed", zap.String("gateway", string(gw)), zap.Error(err))
		return nil, err
	}

	resp.Success = true
	resp.Gateway = gw
	s.record(ctx, gw, resp.TransactionID, resp.Status, "")
	return resp, nil
}

// record stores the canonical form of a native status.
func (s *Service) record(ctx context.Context, gw Gateway, transactionID, native, paidAt string) store.Record {
	rec := store.Record{
		TransactionID: transactionID,
		Status:        vocabularyFor(gw).Map(native),
		Gateway:       string(gw),
		PaidAt:        paidAt,
		UpdatedAt:     s.now().UTC(),
	}
	if rec.Status == "" {
		rec.Status = payment.StatusPending
	}
	if transactionID == "" || s.store == nil {
		return rec
	}
	if err := s.store.Put(ctx, rec); err != nil {
		s.logger.Warn("status store write failed", zap.String("transaction_id", transactionID), zap.Error(err))
	}
	return rec
}

func vocabularyFor(gw Gateway) payment.Vocabulary {
	switch gw {
	case GatewayMercadoPago:
		return payment.VocabularyFor(payment.ProviderMercadoPago)
	case GatewayAsaas:
		return payment.VocabularyFor(payment.ProviderAsaas)
	default:
		return payment.VocabularyFor(payment.ProviderCustom)
	}
}

func (s *Service) webhookURL(gw Gateway) string {
	if s.cfg.PublicURL == "" {
		return ""
	}
	return s.cfg.PublicURL + "/webhook/" + string(gw)
}

func amountFloat(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
