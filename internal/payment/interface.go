package payment

import (
	"github.com/shopspring/decimal"
)

// Provider identifies a PIX gateway.
type Provider string

const (
	ProviderGerencianet Provider = "gerencianet"
	ProviderPagarme     Provider = "pagarme"
	ProviderAsaas       Provider = "asaas"
	ProviderMercadoPago Provider = "mercadopago"
	ProviderTriboPay    Provider = "tribopay"
	ProviderVegas       Provider = "vegas"
	ProviderCustom      Provider = "custom"
)

// Environment selects production or sandbox endpoints.
type Environment string

const (
	EnvProduction Environment = "production"
	EnvSandbox    Environment = "sandbox"
)

// AuthMethod is how a provider expects credentials on charge and status calls.
type AuthMethod int

const (
	AuthOAuth2 AuthMethod = iota
	AuthAPIKey
	AuthBearer
)

// GatewayConfig is the merchant's persisted gateway selection and credentials.
// It is read-only here; an admin flow owns writes.
type GatewayConfig struct {
	Provider     Provider    `json:"provider" mapstructure:"provider" yaml:"provider"`
	Environment  Environment `json:"environment" mapstructure:"environment" yaml:"environment"`
	ClientID     string      `json:"clientId,omitempty" mapstructure:"clientId" yaml:"clientId"`
	ClientSecret string      `json:"clientSecret,omitempty" mapstructure:"clientSecret" yaml:"clientSecret"`
	APIKey       string      `json:"apiKey,omitempty" mapstructure:"apiKey" yaml:"apiKey"`
	PixKey       string      `json:"pixKey,omitempty" mapstructure:"pixKey" yaml:"pixKey"`
	BaseURL      string      `json:"baseUrl,omitempty" mapstructure:"baseUrl" yaml:"baseUrl"`
	WebhookURL   string      `json:"webhookUrl,omitempty" mapstructure:"webhookUrl" yaml:"webhookUrl"`
	CustomURL    string      `json:"customUrl,omitempty" mapstructure:"customUrl" yaml:"customUrl"`
	OfferHash    string      `json:"offerHash,omitempty" mapstructure:"offerHash" yaml:"offerHash"`
	ProductHash  string      `json:"productHash,omitempty" mapstructure:"productHash" yaml:"productHash"`
}

// Address is the buyer's postal address.
type Address struct {
	Street       string `json:"street,omitempty"`
	Number       string `json:"number,omitempty"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	ZipCode      string `json:"zipCode,omitempty"`
}

// Customer is the payer. Name and Email are required by every provider.
type Customer struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Document string   `json:"document,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Address  *Address `json:"address,omitempty"`
}

// Product is a line item for the checkout-style provider.
type Product struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Code        string          `json:"code,omitempty"`
	IsDigital   bool            `json:"is_digital"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
}

// CartItem is a line item for the relay-backed provider.
type CartItem struct {
	ProductHash   string  `json:"product_hash"`
	Title         string  `json:"title"`
	Cover         *string `json:"cover"`
	Price         int64   `json:"price"`
	Quantity      int     `json:"quantity"`
	OperationType int     `json:"operation_type"`
	Tangible      bool    `json:"tangible"`
}

// Tracking carries campaign attribution.
type Tracking struct {
	Src         string `json:"src,omitempty"`
	UTMSource   string `json:"utm_source,omitempty"`
	UTMMedium   string `json:"utm_medium,omitempty"`
	UTMCampaign string `json:"utm_campaign,omitempty"`
	UTMContent  string `json:"utm_content,omitempty"`
	UTMTerm     string `json:"utm_term,omitempty"`
}

// PaymentRequest is a provider-neutral charge request. Amount is in currency units.
type PaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Customer    Customer        `json:"customer"`
	OrderID     string          `json:"orderId,omitempty"`
	Freight     decimal.Decimal `json:"freight,omitempty"`
	Discount    decimal.Decimal `json:"discount,omitempty"`
	Products    []Product       `json:"products,omitempty"`
	Cart        []CartItem      `json:"cart,omitempty"`
	OfferHash   string          `json:"offerHash,omitempty"`
	ProductHash string          `json:"productHash,omitempty"`
	Tracking    Tracking        `json:"tracking,omitempty"`
}

// NormalizedCharge is a created charge in provider-neutral form.
// Fields a provider did not return are left empty.
type NormalizedCharge struct {
	TransactionID string              `json:"transactionId,omitempty"`
	PixCode       string              `json:"pixCode,omitempty"`
	QRCodeURL     string              `json:"qrcodeUrl,omitempty"`
	Status        Status              `json:"status,omitempty"`
	ExpiresAt     string              `json:"expiresAt,omitempty"`
	CheckoutURL   string              `json:"checkoutUrl,omitempty"`
	OrderURL      string              `json:"orderUrl,omitempty"`
	ExternalCode  string              `json:"externalCode,omitempty"`
	Hash          string              `json:"hash,omitempty"`
	Amount        decimal.NullDecimal `json:"amount"`
	DateCreated   string              `json:"dateCreated,omitempty"`
	DateApproved  string              `json:"dateApproved,omitempty"`

	// Fallback is set when extraction failed; Raw then holds the untouched payload.
	Fallback bool                   `json:"fallback,omitempty"`
	Raw      map[string]interface{} `json:"raw,omitempty"`
}

// NormalizedStatus is the result of a status check in provider-neutral form.
type NormalizedStatus struct {
	TransactionID string              `json:"transactionId,omitempty"`
	ExternalCode  string              `json:"externalCode,omitempty"`
	Status        Status              `json:"status"`
	PaidAt        string              `json:"paidAt,omitempty"`
	Amount        decimal.NullDecimal `json:"amount"`
	PaymentType   string              `json:"paymentType,omitempty"`
	DateCreated   string              `json:"dateCreated,omitempty"`
	DateRefunded  string              `json:"dateRefunded,omitempty"`

	Fallback bool                   `json:"fallback,omitempty"`
	Raw      map[string]interface{} `json:"raw,omitempty"`
}

// RelayAddress is the address shape the relay's /api/pagar endpoint accepts.
type RelayAddress struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
}

// RelayCustomer is the customer shape the relay's /api/pagar endpoint accepts.
type RelayCustomer struct {
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Document string        `json:"document"`
	Phone    string        `json:"phone"`
	Address  *RelayAddress `json:"address,omitempty"`
}

// RelayChargeRequest is the body of POST /api/pagar. Amount is in cents.
type RelayChargeRequest struct {
	Amount      int64         `json:"amount"`
	Description string        `json:"description,omitempty"`
	Customer    RelayCustomer `json:"customer"`
	OfferHash   string        `json:"offerHash,omitempty"`
	ProductHash string        `json:"productHash,omitempty"`
	Cart        []CartItem    `json:"cart,omitempty"`
	APIKey      string        `json:"apiKey,omitempty"`
}

// RelayProxyRequest is the body of POST /api/payment.
type RelayProxyRequest struct {
	APIKey   string                 `json:"apiKey"`
	Endpoint string                 `json:"endpoint"`
	Data     map[string]interface{} `json:"data"`
}
