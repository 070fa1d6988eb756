package payment

import "strings"

// DefaultVegasBaseURL is used when a vegas config carries no baseUrl.
const DefaultVegasBaseURL = "https://checkout.shoptlktok.shop/api"

type endpoints struct {
	production string
	sandbox    string
}

var directory = map[Provider]endpoints{
	ProviderGerencianet: {"https://api.gerencianet.com.br/v1", "https://sandbox.gerencianet.com.br/v1"},
	ProviderPagarme:     {"https://api.pagar.me/core/v5", "https://api.pagar.me/core/v5"},
	ProviderAsaas:       {"https://www.asaas.com/api/v3", "https://sandbox.asaas.com/api/v3"},
	ProviderMercadoPago: {"https://api.mercadopago.com/v1", "https://api.mercadopago.com/v1"},
	ProviderTriboPay:    {"https://api.tribopay.com.br/v1", "https://sandbox.tribopay.com.br/v1"},
}

// ParseProvider normalizes a provider name. Unknown names select the custom path.
func ParseProvider(name string) Provider {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	switch p {
	case ProviderGerencianet, ProviderPagarme, ProviderAsaas, ProviderMercadoPago,
		ProviderTriboPay, ProviderVegas:
		return p
	}
	return ProviderCustom
}

// ResolveBaseURL returns the API root for cfg. An explicit BaseURL always wins.
// The result is empty only for a custom provider without CustomURL.
func ResolveBaseURL(cfg GatewayConfig) string {
	if cfg.BaseURL != "" {
		return cfg.BaseURL
	}

	p := ParseProvider(string(cfg.Provider))
	switch p {
	case ProviderVegas:
		return DefaultVegasBaseURL
	case ProviderCustom:
		return cfg.CustomURL
	}

	ep := directory[p]
	if cfg.Environment == EnvSandbox {
		return ep.sandbox
	}
	return ep.production
}

// KnownHosts lists the hosts of every directory entry, both environments.
func KnownHosts() []string {
	hosts := []string{hostOf(DefaultVegasBaseURL)}
	for _, ep := range directory {
		hosts = append(hosts, hostOf(ep.production), hostOf(ep.sandbox))
	}
	return hosts
}

func hostOf(rawURL string) string {
	s := strings.TrimPrefix(strings.TrimPrefix(rawURL, "https://"), "http://")
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	return s
}
