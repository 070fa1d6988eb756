package payment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)

func sampleRequest() PaymentRequest {
	return PaymentRequest{
		Amount:      decimal.RequireFromString("49.90"),
		Description: "Plano mensal",
		Customer: Customer{
			Name:     "Maria da Silva",
			Email:    "maria@example.com",
			Document: "123.456.789-09",
			Phone:    "(11) 98888-7777",
			Address: &Address{
				Street:       "Av. Paulista",
				Number:       "1000",
				Neighborhood: "Bela Vista",
				City:         "São Paulo",
				State:        "SP",
				ZipCode:      "01310-100",
			},
		},
	}
}

func format(p Provider, cfg GatewayConfig, req PaymentRequest) map[string]interface{} {
	cfg.Provider = p
	return NewGateway(cfg, func() time.Time { return fixedNow }).Format(req)
}

func TestFormatGerencianet(t *testing.T) {
	out := format(ProviderGerencianet, GatewayConfig{PixKey: "chave@pix"}, sampleRequest())

	require.Equal(t, map[string]interface{}{"original": "49.90"}, out["valor"])
	require.Equal(t, map[string]interface{}{"expiracao": 3600}, out["calendario"])
	require.Equal(t, "chave@pix", out["chave"])
	require.Equal(t, "Plano mensal", out["solicitacaoPagador"])
	info := out["infoAdicionais"].([]map[string]interface{})
	require.Equal(t, "Cliente", info[0]["nome"])
	require.Equal(t, "Maria da Silva", info[0]["valor"])
}

func TestFormatPagarmeUsesCents(t *testing.T) {
	out := format(ProviderPagarme, GatewayConfig{}, sampleRequest())

	require.Equal(t, int64(4990), out["amount"])
	require.Equal(t, "pix", out["payment_method"])
	customer := out["customer"].(map[string]interface{})
	require.Equal(t, "individual", customer["type"])
	phone := customer["phones"].(map[string]interface{})["mobile_phone"].(map[string]interface{})
	require.Equal(t, "55", phone["country_code"])
	require.Equal(t, "11988887777", phone["number"])
	require.Equal(t, map[string]interface{}{"expires_in": 3600}, out["pix"])
}

func TestFormatAsaasDueDateIsOneHourAhead(t *testing.T) {
	out := format(ProviderAsaas, GatewayConfig{}, sampleRequest())

	require.Equal(t, 49.9, out["value"])
	require.Equal(t, "PIX", out["billingType"])
	require.Equal(t, "123.456.789-09", out["customer"])
	// 23:30 + 1h rolls over to the next day
	require.Equal(t, "2024-03-11", out["dueDate"])
}

func TestFormatMercadoPagoSplitsName(t *testing.T) {
	out := format(ProviderMercadoPago, GatewayConfig{}, sampleRequest())

	require.Equal(t, 49.9, out["transaction_amount"])
	require.Equal(t, "pix", out["payment_method_id"])
	payer := out["payer"].(map[string]interface{})
	require.Equal(t, "Maria", payer["first_name"])
	require.Equal(t, "da Silva", payer["last_name"])
	require.Equal(t, map[string]interface{}{"type": "CPF", "number": "123.456.789-09"}, payer["identification"])

	req := sampleRequest()
	req.Customer.Name = "Cher"
	payer = format(ProviderMercadoPago, GatewayConfig{}, req)["payer"].(map[string]interface{})
	require.Equal(t, "Cher", payer["first_name"])
	require.Equal(t, "", payer["last_name"])
}

func TestFormatVegas(t *testing.T) {
	req := sampleRequest()
	req.Freight = decimal.RequireFromString("5")
	out := format(ProviderVegas, GatewayConfig{WebhookURL: "https://shop.example/hook"}, req)

	customer := out["customer"].(map[string]interface{})
	require.Equal(t, "12345678909", customer["document"])
	addr := customer["address"].(map[string]interface{})
	require.Equal(t, "Bela Vista", addr["district"])
	require.Equal(t, "01310100", addr["zipcode"])

	pay := out["payment"].(map[string]interface{})
	require.Equal(t, int64(4990), pay["payment_value"])
	require.Equal(t, int64(500), pay["freight_value"])
	require.Equal(t, int64(0), pay["discount_value"])
	require.Equal(t, "BRL", pay["currency"])
	require.Equal(t, "ORD1710113400000", pay["external_code"])

	products := out["products"].([]map[string]interface{})
	require.Len(t, products, 1)
	require.Equal(t, "PROD001", products[0]["code"])
	require.Equal(t, int64(4990), products[0]["price"])

	require.Equal(t, "https://shop.example/hook", out["notification_url"])
	require.Equal(t, "checkout_web", out["src"])
	require.Equal(t, "direct", out["utm_source"])
	require.Equal(t, "none", out["utm_medium"])
	require.Equal(t, "default", out["utm_campaign"])
}

func TestFormatVegasKeepsOrderID(t *testing.T) {
	req := sampleRequest()
	req.OrderID = "pedido-77"
	req.Customer.Address = nil
	out := format(ProviderVegas, GatewayConfig{}, req)

	require.Equal(t, "pedido-77", out["payment"].(map[string]interface{})["external_code"])
	addr := out["customer"].(map[string]interface{})["address"].(map[string]interface{})
	require.Equal(t, "", addr["street"])
}

func TestFormatCustomAndUnknownProvider(t *testing.T) {
	req := sampleRequest()
	req.Description = ""
	out := format("somebank", GatewayConfig{}, req)

	require.Equal(t, 49.9, out["amount"])
	require.Equal(t, "Pagamento", out["description"])
	require.Equal(t, req.Customer, out["customer"])
}

func TestFormatToleratesMinimalRequest(t *testing.T) {
	req := PaymentRequest{
		Amount:   decimal.NewFromInt(10),
		Customer: Customer{Name: "Ana", Email: "ana@example.com"},
	}
	for _, p := range allProviders {
		require.NotPanics(t, func() { format(p, GatewayConfig{}, req) }, string(p))
	}
}

func TestBuildRelayChargeDefaults(t *testing.T) {
	req := sampleRequest()
	req.Customer.Address = nil
	req.Description = ""

	out := BuildRelayCharge(req, GatewayConfig{APIKey: "long-token"})

	require.Equal(t, int64(4990), out.Amount)
	require.Equal(t, "Pagamento PIX", out.Description)
	require.Equal(t, "12345678909", out.Customer.Document)
	require.Equal(t, "11988887777", out.Customer.Phone)
	require.Equal(t, DefaultRelayAddress(), *out.Customer.Address)
	require.Equal(t, DefaultOfferHash, out.OfferHash)
	require.Equal(t, "long-token", out.APIKey)
	require.Len(t, out.Cart, 1)
	require.Equal(t, CartItem{
		ProductHash:   DefaultProductHash,
		Title:         "Pagamento PIX",
		Price:         4990,
		Quantity:      1,
		OperationType: 1,
	}, out.Cart[0])
}

func TestBuildRelayChargeHashPrecedence(t *testing.T) {
	req := sampleRequest()
	req.OfferHash = "from-request"

	out := BuildRelayCharge(req, GatewayConfig{OfferHash: "from-config", ProductHash: "prod-config"})

	require.Equal(t, "from-request", out.OfferHash)
	require.Equal(t, "prod-config", out.ProductHash)
	require.Equal(t, "01310100", out.Customer.Address.ZipCode)
}
