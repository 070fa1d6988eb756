package relay

import "strings"

// Gateway names the upstream a relay call is routed to.
type Gateway string

const (
	GatewayTest        Gateway = "test"
	GatewayMercadoPago Gateway = "mercadopago"
	GatewayAsaas       Gateway = "asaas"
	GatewayIronPay     Gateway = "ironpay"
	GatewayTriboPay    Gateway = "tribopay"
	GatewayUnsupported Gateway = ""
)

// Detect infers the gateway from the shape of a credential. The order of the
// checks is significant: a token matching several rules takes the first.
//
// TODO: replace token sniffing with an explicit gateway field on /api/pagar
// once the checkout front end sends one.
func Detect(token string) Gateway {
	switch {
	case strings.HasPrefix(token, "test_"):
		return GatewayTest
	case strings.HasPrefix(token, "APP_USR"), strings.HasPrefix(token, "TEST-"):
		return GatewayMercadoPago
	case strings.HasPrefix(token, "$aact"), strings.Contains(token, "asaas"):
		return GatewayAsaas
	case len(token) > 30:
		return GatewayIronPay
	case strings.HasPrefix(token, "tribo_"), strings.Contains(token, "tribopay"):
		return GatewayTriboPay
	default:
		return GatewayUnsupported
	}
}
