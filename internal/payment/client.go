package payment

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/emickson/mobile-action-bar-backend/internal/pkg/fields"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/httpclient"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/utils"
)

const (
	DefaultRelayURL    = "http://localhost:8080"
	DefaultOfferHash   = "7becb"
	DefaultProductHash = "7tjdfkshdv"
)

// DefaultRelayAddress is sent when the buyer gave no address; the
// relay-backed provider rejects charges without one.
func DefaultRelayAddress() RelayAddress {
	return RelayAddress{
		Street:       "Rua Exemplo",
		Number:       "123",
		Complement:   "",
		Neighborhood: "Centro",
		City:         "São Paulo",
		State:        "SP",
		ZipCode:      "01310100",
	}
}

// Client creates PIX charges and checks their status against the configured
// gateway, directly or through the relay server.
type Client struct {
	cfg       *GatewayConfig
	gw        Gateway
	http      *httpclient.Client
	relayURL  string
	relayMode bool
	logger    *zap.Logger
	now       func() time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default 30s resty client.
func WithHTTPClient(hc *httpclient.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithRelayURL sets the relay server root (no trailing slash).
func WithRelayURL(u string) ClientOption {
	return func(c *Client) { c.relayURL = strings.TrimRight(u, "/") }
}

// WithRelayMode routes direct-provider charges through the relay's generic
// proxy, for callers that cannot reach gateways themselves.
func WithRelayMode(enabled bool) ClientOption {
	return func(c *Client) { c.relayMode = enabled }
}

func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) { c.now = now }
}

// NewClient builds a client for cfg. A nil cfg means no configuration is
// loaded: charges fail with ConfigurationError, status checks go to the relay.
func NewClient(cfg *GatewayConfig, opts ...ClientOption) *Client {
	c := &Client{
		cfg:      cfg,
		http:     httpclient.New(),
		relayURL: DefaultRelayURL,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if cfg != nil {
		c.gw = NewGateway(*cfg, c.now)
	}
	return c
}

// Provider returns the effective provider, or "" when no config is loaded.
func (c *Client) Provider() Provider {
	if c.gw == nil {
		return ""
	}
	return c.gw.Provider()
}

// CreateCharge creates a PIX charge and returns it normalized.
func (c *Client) CreateCharge(ctx context.Context, req PaymentRequest) (*NormalizedCharge, error) {
	if c.cfg == nil {
		return nil, &ConfigurationError{Reason: "no gateway configuration loaded"}
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	provider := c.gw.Provider()
	if provider == ProviderCustom {
		if c.cfg.APIKey == "" {
			return nil, &ConfigurationError{Reason: "custom provider requires an apiKey"}
		}
		return c.createViaRelay(ctx, req)
	}

	base := ResolveBaseURL(*c.cfg)
	if base == "" {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("no base URL for provider %s", provider)}
	}
	payload := c.gw.Format(req)
	endpoint := base + c.gw.ChargePath()

	if c.relayMode && provider != ProviderVegas {
		return c.createViaProxy(ctx, endpoint, payload)
	}

	auth, err := c.authorize(ctx, base)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Post(ctx, endpoint, payload, auth...)
	if err != nil {
		return nil, &GatewayError{Provider: provider, Err: err}
	}
	body, jsonErr := resp.JSON()
	if !resp.OK() {
		return nil, &GatewayError{Provider: provider, StatusCode: resp.StatusCode, Message: gatewayMessage(body)}
	}
	if jsonErr != nil {
		return nil, &GatewayError{Provider: provider, StatusCode: resp.StatusCode, Message: "invalid JSON response", Err: jsonErr}
	}

	if provider == ProviderVegas {
		body = c.confirmCheckout(ctx, base, body)
	}

	charge := c.normalizeCharge(c.gw, body)
	c.logger.Info("pix charge created",
		zap.String("provider", string(provider)),
		zap.String("transaction_id", charge.TransactionID),
		zap.String("status", string(charge.Status)),
	)
	return charge, nil
}

// confirmCheckout issues the VIEW confirm call and overlays its fields on
// the create response. Failure leaves the create response untouched.
func (c *Client) confirmCheckout(ctx context.Context, base string, created map[string]interface{}) map[string]interface{} {
	token := fields.String(created, "transaction_id_token")
	if token == "" {
		return created
	}

	body := map[string]interface{}{
		"transaction_token": token,
		"external_code":     fields.String(created, "external_code"),
	}
	resp, err := c.http.Do(ctx, httpclient.MethodView, base+c.gw.StatusPath(token), body, c.apiKeyHeader())
	if err != nil {
		c.logger.Warn("checkout confirm failed", zap.String("transaction_token", token), zap.Error(err))
		return created
	}
	if !resp.OK() {
		c.logger.Warn("checkout confirm rejected", zap.String("transaction_token", token), zap.Int("status", resp.StatusCode))
		return created
	}
	confirmed, err := resp.JSON()
	if err != nil {
		c.logger.Warn("checkout confirm returned invalid JSON", zap.Error(err))
		return created
	}
	return fields.Merge(created, confirmed)
}

func (c *Client) createViaRelay(ctx context.Context, req PaymentRequest) (*NormalizedCharge, error) {
	payload := BuildRelayCharge(req, *c.cfg)

	resp, err := c.http.Post(ctx, c.relayURL+"/api/pagar", payload)
	if err != nil {
		return nil, &GatewayError{Provider: ProviderCustom, Err: err}
	}
	body, jsonErr := resp.JSON()
	if !resp.OK() {
		return nil, &GatewayError{Provider: ProviderCustom, StatusCode: resp.StatusCode, Message: gatewayMessage(body)}
	}
	if jsonErr != nil {
		return nil, &GatewayError{Provider: ProviderCustom, StatusCode: resp.StatusCode, Message: "invalid JSON response", Err: jsonErr}
	}

	charge := c.normalizeCharge(c.gw, body)
	c.logger.Info("pix charge created via relay",
		zap.String("transaction_id", charge.TransactionID),
		zap.String("status", string(charge.Status)),
	)
	return charge, nil
}

func (c *Client) createViaProxy(ctx context.Context, endpoint string, data map[string]interface{}) (*NormalizedCharge, error) {
	provider := c.gw.Provider()
	payload := RelayProxyRequest{
		APIKey:   utils.FirstNonEmpty(c.cfg.APIKey, c.cfg.ClientSecret),
		Endpoint: endpoint,
		Data:     data,
	}

	resp, err := c.http.Post(ctx, c.relayURL+"/api/payment", payload)
	if err != nil {
		return nil, &GatewayError{Provider: provider, Err: err}
	}
	body, jsonErr := resp.JSON()
	if !resp.OK() {
		return nil, &GatewayError{Provider: provider, StatusCode: resp.StatusCode, Message: gatewayMessage(body)}
	}
	if jsonErr != nil {
		return nil, &GatewayError{Provider: provider, StatusCode: resp.StatusCode, Message: "invalid JSON response", Err: jsonErr}
	}
	return c.normalizeCharge(c.gw, body), nil
}

// CheckStatus looks up a transaction. Without a direct provider the relay
// answers; a relay miss is reported as pending rather than as an error.
func (c *Client) CheckStatus(ctx context.Context, transactionID, externalCode string) (*NormalizedStatus, error) {
	base := ""
	if c.cfg != nil {
		base = ResolveBaseURL(*c.cfg)
	}
	if c.cfg == nil || c.gw.Provider() == ProviderCustom || base == "" {
		return c.checkViaRelay(ctx, transactionID)
	}

	provider := c.gw.Provider()
	var (
		resp *httpclient.Response
		err  error
	)
	if provider == ProviderVegas {
		body := map[string]interface{}{
			"transaction_token": transactionID,
			"external_code":     externalCode,
		}
		resp, err = c.http.Do(ctx, httpclient.MethodView, base+c.gw.StatusPath(transactionID), body, c.apiKeyHeader())
	} else {
		auth, authErr := c.authorize(ctx, base)
		if authErr != nil {
			return nil, authErr
		}
		resp, err = c.http.Get(ctx, base+c.gw.StatusPath(url.PathEscape(transactionID)), auth...)
	}
	if err != nil {
		return nil, &StatusCheckError{Provider: provider, TransactionID: transactionID, Err: err}
	}
	if !resp.OK() {
		return nil, &StatusCheckError{Provider: provider, TransactionID: transactionID, StatusCode: resp.StatusCode}
	}
	body, err := resp.JSON()
	if err != nil {
		return nil, &StatusCheckError{Provider: provider, TransactionID: transactionID, StatusCode: resp.StatusCode, Err: err}
	}

	return c.normalizeStatus(c.gw, body), nil
}

func (c *Client) checkViaRelay(ctx context.Context, transactionID string) (*NormalizedStatus, error) {
	resp, err := c.http.Get(ctx, c.relayURL+"/api/pagamento/status/"+url.PathEscape(transactionID))
	if err != nil {
		return nil, &StatusCheckError{Provider: ProviderCustom, TransactionID: transactionID, Err: err}
	}
	if !resp.OK() {
		c.logger.Debug("relay has no status yet",
			zap.String("transaction_id", transactionID),
			zap.Int("status", resp.StatusCode),
		)
		return &NormalizedStatus{TransactionID: transactionID, Status: StatusPending}, nil
	}
	body, err := resp.JSON()
	if err != nil {
		return nil, &StatusCheckError{Provider: ProviderCustom, TransactionID: transactionID, StatusCode: resp.StatusCode, Err: err}
	}

	status := c.normalizeStatus(NewGateway(GatewayConfig{Provider: ProviderCustom}, c.now), body)
	if status.TransactionID == "" {
		status.TransactionID = transactionID
	}
	return status, nil
}

func (c *Client) authorize(ctx context.Context, base string) ([]httpclient.RequestOption, error) {
	switch c.gw.AuthMethod() {
	case AuthAPIKey:
		return []httpclient.RequestOption{c.apiKeyHeader()}, nil
	case AuthBearer:
		return []httpclient.RequestOption{httpclient.Bearer(c.cfg.APIKey)}, nil
	default:
		token, err := c.fetchToken(ctx, base)
		if err != nil {
			return nil, err
		}
		return []httpclient.RequestOption{httpclient.Bearer(token)}, nil
	}
}

func (c *Client) apiKeyHeader() httpclient.RequestOption {
	return httpclient.Header("api-key", utils.FirstNonEmpty(c.cfg.APIKey, c.cfg.ClientSecret))
}

// fetchToken runs the OAuth2 client-credentials exchange. Tokens are not
// cached; every call fetches a fresh one.
func (c *Client) fetchToken(ctx context.Context, base string) (string, error) {
	provider := c.gw.Provider()
	resp, err := c.http.Post(ctx, base+"/oauth/token",
		map[string]string{"grant_type": "client_credentials"},
		httpclient.BasicAuth(c.cfg.ClientID, c.cfg.ClientSecret),
	)
	if err != nil {
		return "", &AuthError{Provider: provider, Err: err}
	}
	if !resp.OK() {
		return "", &AuthError{Provider: provider, StatusCode: resp.StatusCode}
	}
	body, err := resp.JSON()
	if err != nil {
		return "", &AuthError{Provider: provider, StatusCode: resp.StatusCode, Err: err}
	}
	token := fields.String(body, "access_token")
	if token == "" {
		return "", &AuthError{Provider: provider, StatusCode: resp.StatusCode, Err: fmt.Errorf("no access_token in response")}
	}
	return token, nil
}

func (c *Client) normalizeCharge(gw Gateway, raw map[string]interface{}) *NormalizedCharge {
	charge, nerr := normalizeCharge(gw, raw)
	if nerr != nil {
		c.logger.Error("charge normalization failed, returning raw payload", zap.Error(nerr))
	}
	return charge
}

func (c *Client) normalizeStatus(gw Gateway, raw map[string]interface{}) *NormalizedStatus {
	status, nerr := normalizeStatus(gw, raw)
	if nerr != nil {
		c.logger.Error("status normalization failed, returning raw payload", zap.Error(nerr))
	}
	return status
}

// BuildRelayCharge shapes req for the relay's /api/pagar endpoint.
func BuildRelayCharge(req PaymentRequest, cfg GatewayConfig) RelayChargeRequest {
	cents := utils.ToCents(req.Amount)
	desc := utils.FirstNonEmpty(req.Description, "Pagamento PIX")

	addr := DefaultRelayAddress()
	if a := req.Customer.Address; a != nil {
		addr = RelayAddress{
			Street:       a.Street,
			Number:       a.Number,
			Complement:   a.Complement,
			Neighborhood: a.Neighborhood,
			City:         a.City,
			State:        a.State,
			ZipCode:      utils.DigitsOnly(a.ZipCode),
		}
	}

	productHash := utils.FirstNonEmpty(req.ProductHash, cfg.ProductHash, DefaultProductHash)
	cart := req.Cart
	if len(cart) == 0 {
		cart = []CartItem{{
			ProductHash:   productHash,
			Title:         desc,
			Price:         cents,
			Quantity:      1,
			OperationType: 1,
			Tangible:      false,
		}}
	}

	return RelayChargeRequest{
		Amount:      cents,
		Description: desc,
		Customer: RelayCustomer{
			Name:     req.Customer.Name,
			Email:    req.Customer.Email,
			Document: utils.DigitsOnly(req.Customer.Document),
			Phone:    utils.DigitsOnly(req.Customer.Phone),
			Address:  &addr,
		},
		OfferHash:   utils.FirstNonEmpty(req.OfferHash, cfg.OfferHash, DefaultOfferHash),
		ProductHash: productHash,
		Cart:        cart,
		APIKey:      cfg.APIKey,
	}
}

func validate(req PaymentRequest) error {
	if !req.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Customer.Name) == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Customer.Email) == "" {
		return fmt.Errorf("%w: customer email is required", ErrInvalidRequest)
	}
	return nil
}

func gatewayMessage(body map[string]interface{}) string {
	if msg := fields.String(body, "error.message", "message", "error"); msg != "" {
		return msg
	}
	return "failed to generate PIX charge"
}
