package payment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveBaseURL(t *testing.T) {
	cases := []struct {
		name string
		cfg  GatewayConfig
		want string
	}{
		{"gerencianet production", GatewayConfig{Provider: ProviderGerencianet, Environment: EnvProduction}, "https://api.gerencianet.com.br/v1"},
		{"gerencianet sandbox", GatewayConfig{Provider: ProviderGerencianet, Environment: EnvSandbox}, "https://sandbox.gerencianet.com.br/v1"},
		{"pagarme sandbox shares production", GatewayConfig{Provider: ProviderPagarme, Environment: EnvSandbox}, "https://api.pagar.me/core/v5"},
		{"asaas sandbox", GatewayConfig{Provider: ProviderAsaas, Environment: EnvSandbox}, "https://sandbox.asaas.com/api/v3"},
		{"mercadopago", GatewayConfig{Provider: ProviderMercadoPago}, "https://api.mercadopago.com/v1"},
		{"tribopay production", GatewayConfig{Provider: ProviderTriboPay}, "https://api.tribopay.com.br/v1"},
		{"vegas default", GatewayConfig{Provider: ProviderVegas}, DefaultVegasBaseURL},
		{"vegas override", GatewayConfig{Provider: ProviderVegas, BaseURL: "https://relay.example/api"}, "https://relay.example/api"},
		{"override wins over table", GatewayConfig{Provider: ProviderAsaas, Environment: EnvSandbox, BaseURL: "http://localhost:9999"}, "http://localhost:9999"},
		{"custom with url", GatewayConfig{Provider: ProviderCustom, CustomURL: "https://pay.example"}, "https://pay.example"},
		{"custom without url", GatewayConfig{Provider: ProviderCustom}, ""},
		{"unknown provider behaves as custom", GatewayConfig{Provider: "acme", CustomURL: "https://acme.example"}, "https://acme.example"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ResolveBaseURL(tc.cfg))
		})
	}
}

func TestParseProvider(t *testing.T) {
	require.Equal(t, ProviderMercadoPago, ParseProvider(" MercadoPago "))
	require.Equal(t, ProviderVegas, ParseProvider("vegas"))
	require.Equal(t, ProviderCustom, ParseProvider("ironpay"))
	require.Equal(t, ProviderCustom, ParseProvider(""))
}

func TestKnownHosts(t *testing.T) {
	hosts := KnownHosts()
	require.Contains(t, hosts, "api.mercadopago.com")
	require.Contains(t, hosts, "sandbox.asaas.com")
	require.Contains(t, hosts, "checkout.shoptlktok.shop")
}
